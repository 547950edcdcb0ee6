package domain

import "time"

const (
	RoleAdmin      = "admin"
	RoleTechWriter = "tech_writer"
	RoleUser       = "user"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	FullName     string    `gorm:"size:128" json:"full_name"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	AvatarURL    string    `gorm:"size:255" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// CanModerate 审批权：tech_writer 或 admin
func (u *User) CanModerate() bool {
	return u.Role == RoleAdmin || u.Role == RoleTechWriter
}

// CanMutate 写权限：资源 owner 或 admin
func (u *User) CanMutate(ownerID uint) bool {
	return u.ID == ownerID || u.Role == RoleAdmin
}

type UserFilter struct {
	Role     string
	IsActive *bool
	Q        string // email/username 模糊搜
	Offset   int
	Limit    int
}

type UserRepository interface {
	Create(u *User) error
	FindByID(id uint) (*User, error)
	FindByEmail(email string) (*User, error)
	FindByUsername(username string) (*User, error)
	List(f UserFilter) ([]User, int64, error)
	Update(u *User) error
	ListByRole(role string) ([]User, error)
}
