package notify

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"techshare/internal/domain"
)

// Dispatcher 扫描 outbox，把未派发的意图写成 Notification。
// 单条失败只记日志跳过，下一轮重试
type Dispatcher struct {
	store domain.Store
	log   *zap.Logger
	batch int
}

func NewDispatcher(store domain.Store, log *zap.Logger, batch int) *Dispatcher {
	if batch <= 0 {
		batch = 100
	}
	return &Dispatcher{store: store, log: log, batch: batch}
}

// Sweep 返回本轮派发条数
func (d *Dispatcher) Sweep() (int, error) {
	msgs, err := d.store.Outbox().Pending(d.batch)
	if err != nil {
		return 0, err
	}
	done := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		n := &domain.Notification{
			UserID:    m.UserID,
			Type:      m.Type,
			Title:     m.Title,
			Message:   m.Message,
			ContentID: m.ContentID,
		}
		if err := d.store.Notifications().Create(n); err != nil {
			d.log.Warn("outbox dispatch failed",
				zap.Uint("outbox_id", m.ID), zap.Uint("user_id", m.UserID), zap.Error(err))
			continue
		}
		done = append(done, m.ID)
	}
	if err := d.store.Outbox().MarkDispatched(done); err != nil {
		return len(done), err
	}
	return len(done), nil
}

// Schedule 挂到 cron，intervalSec 秒一轮
func (d *Dispatcher) Schedule(c *cron.Cron, intervalSec int) error {
	if intervalSec <= 0 {
		intervalSec = 5
	}
	_, err := c.AddFunc(fmt.Sprintf("@every %ds", intervalSec), func() {
		if n, err := d.Sweep(); err != nil {
			d.log.Error("outbox sweep", zap.Error(err))
		} else if n > 0 {
			d.log.Debug("outbox sweep", zap.Int("dispatched", n))
		}
	})
	return err
}
