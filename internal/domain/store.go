package domain

import "context"

// Store 聚合全部仓储，InTx 内拿到的 Store 绑定同一事务
type Store interface {
	Users() UserRepository
	Contents() ContentRepository
	Categories() CategoryRepository
	Comments() CommentRepository
	CommentLikes() CommentLikeRepository
	Likes() LikeRepository
	Wishlist() WishlistRepository
	Flags() FlagRepository
	Notifications() NotificationRepository
	Outbox() OutboxRepository

	InTx(ctx context.Context, fn func(Store) error) error
}
