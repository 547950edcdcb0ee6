package domain

import "time"

const (
	ContentArticle = "article"
	ContentVideo   = "video"
	ContentAudio   = "audio"
	ContentPodcast = "podcast"
)

const (
	StatusDraft     = "draft"
	StatusReview    = "review"
	StatusApproved  = "approved"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

func ValidContentType(t string) bool {
	switch t {
	case ContentArticle, ContentVideo, ContentAudio, ContentPodcast:
		return true
	}
	return false
}

type Content struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Body         string     `gorm:"type:text" json:"content_text"`
	ContentType  string     `gorm:"size:16;not null" json:"content_type"`
	Status       string     `gorm:"size:16;not null;index;default:review" json:"status"`
	IsFlagged    bool       `gorm:"not null;index;default:false" json:"is_flagged"`
	MediaURL     string     `gorm:"size:255" json:"media_url,omitempty"`
	ThumbnailURL string     `gorm:"size:255" json:"thumbnail_url,omitempty"`
	AuthorID     uint       `gorm:"index;not null" json:"author_id"`
	CategoryID   uint       `gorm:"index;not null" json:"category_id"`
	ViewsCount   int        `gorm:"not null;default:0" json:"views_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

func (Content) TableName() string { return "content" }

// Viewer 零值即匿名访问者
type Viewer struct {
	ID   uint
	Role string
}

func (v Viewer) Anonymous() bool { return v.ID == 0 }

// ContentVisible 角色可见性判定（纯函数，与存储层无关）：
//   - admin 全量可见
//   - tech_writer 自己的全部可见，他人仅 published 且未被标记
//   - 普通用户/匿名仅 published 且未被标记
func ContentVisible(v Viewer, c *Content) bool {
	switch v.Role {
	case RoleAdmin:
		return true
	case RoleTechWriter:
		if c.AuthorID == v.ID {
			return true
		}
	}
	return c.Status == StatusPublished && !c.IsFlagged
}

// ContentLess 列表排序比较器。published_at 倒序（空值最后），created_at 倒序兜底；
// admin 视图把 approved 未发布的排到最前
func ContentLess(v Viewer) func(a, b *Content) bool {
	return func(a, b *Content) bool {
		if v.Role == RoleAdmin {
			ra, rb := adminRank(a), adminRank(b)
			if ra != rb {
				return ra < rb
			}
		}
		switch {
		case a.PublishedAt != nil && b.PublishedAt != nil:
			if !a.PublishedAt.Equal(*b.PublishedAt) {
				return a.PublishedAt.After(*b.PublishedAt)
			}
		case a.PublishedAt != nil:
			return true
		case b.PublishedAt != nil:
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	}
}

func adminRank(c *Content) int {
	if c.Status == StatusApproved && c.PublishedAt == nil {
		return 0
	}
	return 1
}

type ContentFilter struct {
	Viewer      Viewer
	CategoryID  uint
	CategoryIDs []uint
	AuthorID    uint
	Status      string
	Offset      int
	Limit       int
}

type ContentRepository interface {
	Create(c *Content) error
	FindByID(id uint) (*Content, error)
	List(f ContentFilter) ([]Content, int64, error)
	Update(c *Content) error
	Delete(id uint) error
	// IncrementViews 原子 +1，避免读改写竞争
	IncrementViews(id uint) error
	CountByCategory(categoryID uint) (int64, error)
}
