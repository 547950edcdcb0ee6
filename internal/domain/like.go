package domain

import "time"

// Like is_like=true 点赞，false 点踩。(user, content) 最多一行，存储层唯一索引兜底并发
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_like_user_content;not null" json:"user_id"`
	ContentID uint      `gorm:"uniqueIndex:idx_like_user_content;index;not null" json:"content_id"`
	IsLike    bool      `gorm:"not null" json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string { return "likes" }

type LikeRepository interface {
	// Find 无记录时返回 (nil, nil)
	Find(userID, contentID uint) (*Like, error)
	Create(l *Like) error
	Update(l *Like) error
	Delete(id uint) error
	CountByContent(contentID uint, isLike bool) (int64, error)
	DeleteByContent(contentID uint) error
}

// WishlistItem users <-> content 收藏关联表
type WishlistItem struct {
	UserID    uint `gorm:"primaryKey"`
	ContentID uint `gorm:"primaryKey"`
}

func (WishlistItem) TableName() string { return "user_wishlist" }

type WishlistRepository interface {
	// Add 幂等加入，实际新增返回 true
	Add(userID, contentID uint) (bool, error)
	// Remove 幂等移除，实际移除返回 true
	Remove(userID, contentID uint) (bool, error)
	RemoveByContent(contentID uint) error
	ListByUser(userID uint) ([]Content, error)
}
