package domain

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Color       string    `gorm:"size:16;default:#3B82F6" json:"color"`
	CreatedBy   *uint     `gorm:"index" json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Category) TableName() string { return "categories" }

// CategorySubscription users <-> categories 关联表
type CategorySubscription struct {
	UserID     uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey"`
}

func (CategorySubscription) TableName() string { return "user_categories" }

type CategoryRepository interface {
	Create(c *Category) error
	FindByID(id uint) (*Category, error)
	FindByName(name string) (*Category, error)
	List(offset, limit int) ([]Category, error)
	Delete(id uint) error

	// Subscribe 幂等加入订阅集合，首次加入返回 true
	Subscribe(userID, categoryID uint) (bool, error)
	// Unsubscribe 幂等移除，实际移除返回 true
	Unsubscribe(userID, categoryID uint) (bool, error)
	Subscribers(categoryID uint) ([]User, error)
	SubscribedCategories(userID uint) ([]Category, error)
}
