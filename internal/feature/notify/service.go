package notify

import (
	"techshare/internal/domain"
)

// Service 通知读侧：全部操作严格限定在收件人自己的数据上
type Service struct {
	store domain.Store
}

func NewService(store domain.Store) *Service { return &Service{store: store} }

func (s *Service) List(userID uint, offset, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.Notifications().ListByUser(userID, offset, limit)
}

func (s *Service) MarkRead(userID, id uint) error {
	ok, err := s.store.Notifications().MarkRead(id, userID)
	if err != nil {
		return err
	}
	if !ok {
		// 不区分「不存在」和「不是你的」
		return domain.NotFound("notification not found")
	}
	return nil
}

func (s *Service) MarkAllRead(userID uint) error {
	return s.store.Notifications().MarkAllRead(userID)
}

func (s *Service) UnreadCount(userID uint) (int64, error) {
	return s.store.Notifications().UnreadCount(userID)
}
