package domain

import "time"

const (
	NotifyStatusChange = "status_change"
	NotifyComment      = "comment"
	NotifyLike         = "like"
	NotifyFollow       = "follow"
	NotifySystem       = "system"
	NotifyFlag         = "flag"
)

// Notification 创建后除 is_read 外不可变
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Type      string    `gorm:"size:24;not null" json:"notification_type"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null;index;default:false" json:"is_read"`
	ContentID *uint     `json:"content_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// OutboxMessage 通知意图，与触发写同事务落库，由调度器异步派发为 Notification。
// 派发失败不回滚触发方，下一轮扫描重试
type OutboxMessage struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null" json:"user_id"`
	Type         string     `gorm:"size:24;not null" json:"notification_type"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Message      string     `gorm:"type:text;not null" json:"message"`
	ContentID    *uint      `json:"content_id,omitempty"`
	Dispatched   bool       `gorm:"not null;index;default:false" json:"dispatched"`
	CreatedAt    time.Time  `json:"created_at"`
	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
}

func (OutboxMessage) TableName() string { return "notification_outbox" }

type NotificationRepository interface {
	Create(n *Notification) error
	ListByUser(userID uint, offset, limit int) ([]Notification, error)
	// MarkRead 仅限本人的通知，命中返回 true
	MarkRead(id, userID uint) (bool, error)
	MarkAllRead(userID uint) error
	UnreadCount(userID uint) (int64, error)
}

type OutboxRepository interface {
	Enqueue(m *OutboxMessage) error
	Pending(limit int) ([]OutboxMessage, error)
	MarkDispatched(ids []uint) error
}
