package domain

import "time"

const (
	FlagReasonSpam          = "spam"
	FlagReasonInappropriate = "inappropriate"
	FlagReasonHarassment    = "harassment"
	FlagReasonCopyright     = "copyright"
	FlagReasonOther         = "other"
)

const (
	FlagActionApprove = "approve" // 举报成立，内容删除
	FlagActionReject  = "reject"  // 举报不成立，仅关闭举报
)

func ValidFlagReason(r string) bool {
	switch r {
	case FlagReasonSpam, FlagReasonInappropriate, FlagReasonHarassment,
		FlagReasonCopyright, FlagReasonOther:
		return true
	}
	return false
}

// ContentFlag 举报审计记录，is_flagged 布尔只是它的派生物
type ContentFlag struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ContentID  uint       `gorm:"index;not null" json:"content_id"`
	FlaggerID  uint       `gorm:"index;not null" json:"flagger_id"`
	Reason     string     `gorm:"size:32;not null" json:"reason"`
	Details    string     `gorm:"size:500" json:"details,omitempty"`
	IsResolved bool       `gorm:"not null;index;default:false" json:"is_resolved"`
	ResolvedBy *uint      `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	AdminNotes string     `gorm:"size:500" json:"admin_notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (ContentFlag) TableName() string { return "content_flags" }

type FlagFilter struct {
	Resolved *bool
	Offset   int
	Limit    int
}

type FlagRepository interface {
	Create(f *ContentFlag) error
	FindByID(id uint) (*ContentFlag, error)
	// FindUnresolved 同一人对同一内容的未关闭举报，无则 (nil, nil)
	FindUnresolved(contentID, flaggerID uint) (*ContentFlag, error)
	List(f FlagFilter) ([]ContentFlag, int64, error)
	ListUnresolvedByContent(contentID uint) ([]ContentFlag, error)
	Update(f *ContentFlag) error
	CountUnresolved(contentID uint) (int64, error)
}
