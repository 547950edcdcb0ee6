package repo

import (
	"errors"

	"gorm.io/gorm"

	"techshare/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func (r *CategoryRepo) Create(c *domain.Category) error {
	return translateDup(r.db.Create(c).Error, "category already exists")
}

func (r *CategoryRepo) FindByID(id uint) (*domain.Category, error) {
	var c domain.Category
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *CategoryRepo) FindByName(name string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.First(&c, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *CategoryRepo) List(offset, limit int) ([]domain.Category, error) {
	var cats []domain.Category
	q := r.db.Order("name ASC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&cats).Error
	return cats, err
}

func (r *CategoryRepo) Delete(id uint) error {
	if err := r.db.Delete(&domain.CategorySubscription{}, "category_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.Delete(&domain.Category{}, "id = ?", id).Error
}

func (r *CategoryRepo) Subscribe(userID, categoryID uint) (bool, error) {
	res := r.db.Create(&domain.CategorySubscription{UserID: userID, CategoryID: categoryID})
	if res.Error != nil {
		if isDupKey(res.Error) {
			return false, nil // 已订阅，幂等
		}
		return false, res.Error
	}
	return true, nil
}

func (r *CategoryRepo) Unsubscribe(userID, categoryID uint) (bool, error) {
	res := r.db.Delete(&domain.CategorySubscription{},
		"user_id = ? AND category_id = ?", userID, categoryID)
	return res.RowsAffected > 0, res.Error
}

func (r *CategoryRepo) Subscribers(categoryID uint) ([]domain.User, error) {
	var users []domain.User
	err := r.db.
		Joins("JOIN user_categories uc ON uc.user_id = users.id").
		Where("uc.category_id = ?", categoryID).
		Find(&users).Error
	return users, err
}

func (r *CategoryRepo) SubscribedCategories(userID uint) ([]domain.Category, error) {
	var cats []domain.Category
	err := r.db.
		Joins("JOIN user_categories uc ON uc.category_id = categories.id").
		Where("uc.user_id = ?", userID).
		Find(&cats).Error
	return cats, err
}
