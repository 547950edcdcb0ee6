// Package notify 通知扇出：触发方在自己的事务里写 outbox 意图，
// 调度器异步把意图派发成 Notification，派发失败不会影响触发方。
package notify

import (
	"techshare/internal/domain"
)

// Emit 在 store（通常是调用方事务内的 Store）里落一条通知意图
func Emit(store domain.Store, userID uint, typ, title, message string, contentID *uint) error {
	return store.Outbox().Enqueue(&domain.OutboxMessage{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		ContentID: contentID,
	})
}
