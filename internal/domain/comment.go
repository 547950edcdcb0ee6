package domain

import "time"

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContentID uint      `gorm:"index;not null" json:"content_id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"content_text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

// CommentLike 评论点赞，(user, comment) 唯一
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_comment_like;not null" json:"user_id"`
	CommentID uint      `gorm:"uniqueIndex:idx_comment_like;index;not null" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string { return "comment_likes" }

type CommentRepository interface {
	Create(c *Comment) error
	FindByID(id uint) (*Comment, error)
	ListByContent(contentID uint) ([]Comment, error)
	ListReplies(parentID uint) ([]Comment, error)
	Update(c *Comment) error
	// Delete 连同下级回复一并删除
	Delete(id uint) error
	DeleteByContent(contentID uint) error
	CountByContent(contentID uint) (int64, error)
}

type CommentLikeRepository interface {
	Find(userID, commentID uint) (*CommentLike, error)
	Create(l *CommentLike) error
	Delete(id uint) error
	CountByComment(commentID uint) (int64, error)
	LikedSet(userID uint, commentIDs []uint) (map[uint]bool, error)
}
