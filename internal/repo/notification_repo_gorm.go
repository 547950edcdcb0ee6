package repo

import (
	"time"

	"gorm.io/gorm"

	"techshare/internal/domain"
)

type NotificationRepo struct{ db *gorm.DB }

func (r *NotificationRepo) Create(n *domain.Notification) error { return r.db.Create(n).Error }

func (r *NotificationRepo) ListByUser(userID uint, offset, limit int) ([]domain.Notification, error) {
	var ns []domain.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&ns).Error
	return ns, err
}

func (r *NotificationRepo) MarkRead(id, userID uint) (bool, error) {
	res := r.db.Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

func (r *NotificationRepo) MarkAllRead(userID uint) error {
	return r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepo) UnreadCount(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&n).Error
	return n, err
}

type OutboxRepo struct{ db *gorm.DB }

func (r *OutboxRepo) Enqueue(m *domain.OutboxMessage) error { return r.db.Create(m).Error }

func (r *OutboxRepo) Pending(limit int) ([]domain.OutboxMessage, error) {
	var ms []domain.OutboxMessage
	err := r.db.Where("dispatched = ?", false).
		Order("created_at ASC").Limit(limit).Find(&ms).Error
	return ms, err
}

func (r *OutboxRepo) MarkDispatched(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	return r.db.Model(&domain.OutboxMessage{}).Where("id IN ?", ids).
		Updates(map[string]any{"dispatched": true, "dispatched_at": now}).Error
}
