package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"techshare/internal/domain"
)

// GormStore domain.Store 的 gorm 实现；InTx 里的 Store 共享同一 *gorm.DB 事务
type GormStore struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Users() domain.UserRepository                 { return &UserRepo{db: s.db} }
func (s *GormStore) Contents() domain.ContentRepository           { return &ContentRepo{db: s.db} }
func (s *GormStore) Categories() domain.CategoryRepository        { return &CategoryRepo{db: s.db} }
func (s *GormStore) Comments() domain.CommentRepository           { return &CommentRepo{db: s.db} }
func (s *GormStore) CommentLikes() domain.CommentLikeRepository   { return &CommentLikeRepo{db: s.db} }
func (s *GormStore) Likes() domain.LikeRepository                 { return &LikeRepo{db: s.db} }
func (s *GormStore) Wishlist() domain.WishlistRepository          { return &WishlistRepo{db: s.db} }
func (s *GormStore) Flags() domain.FlagRepository                 { return &FlagRepo{db: s.db} }
func (s *GormStore) Notifications() domain.NotificationRepository { return &NotificationRepo{db: s.db} }
func (s *GormStore) Outbox() domain.OutboxRepository              { return &OutboxRepo{db: s.db} }

func (s *GormStore) InTx(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// AutoMigrate 建表（启动时按配置开关调用）
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.CategorySubscription{},
		&domain.Content{},
		&domain.Comment{},
		&domain.CommentLike{},
		&domain.Like{},
		&domain.WishlistItem{},
		&domain.ContentFlag{},
		&domain.Notification{},
		&domain.OutboxMessage{},
	)
}

// isDupKey 不依赖 gorm.ErrDuplicatedKey，避免驱动/版本差异
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

// translateDup 存储层唯一约束与应用层检查竞争时，归入 Conflict 而不是裸 500
func translateDup(err error, msg string) error {
	if isDupKey(err) {
		return domain.Conflict(msg)
	}
	return err
}
