package repo

import (
	"errors"

	"gorm.io/gorm"

	"techshare/internal/domain"
)

type ContentRepo struct{ db *gorm.DB }

func (r *ContentRepo) Create(c *domain.Content) error { return r.db.Create(c).Error }

func (r *ContentRepo) FindByID(id uint) (*domain.Content, error) {
	var c domain.Content
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

// List SQL 条件与 domain.ContentVisible 保持同一套规则
func (r *ContentRepo) List(f domain.ContentFilter) ([]domain.Content, int64, error) {
	q := r.db.Model(&domain.Content{})

	switch f.Viewer.Role {
	case domain.RoleAdmin:
		// 全量
	case domain.RoleTechWriter:
		q = q.Where("author_id = ? OR (status = ? AND is_flagged = ?)",
			f.Viewer.ID, domain.StatusPublished, false)
	default:
		q = q.Where("status = ? AND is_flagged = ?", domain.StatusPublished, false)
	}

	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if len(f.CategoryIDs) > 0 {
		q = q.Where("category_id IN ?", f.CategoryIDs)
	}
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// published_at IS NULL 升序 = 已发布在前；mysql/postgres 通用写法
	order := "published_at IS NULL, published_at DESC, created_at DESC"
	if f.Viewer.Role == domain.RoleAdmin {
		order = "CASE WHEN status = 'approved' AND published_at IS NULL THEN 0 ELSE 1 END, " + order
	}

	var items []domain.Content
	if err := q.Order(order).Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ContentRepo) Update(c *domain.Content) error { return r.db.Save(c).Error }

func (r *ContentRepo) Delete(id uint) error {
	return r.db.Delete(&domain.Content{}, "id = ?", id).Error
}

func (r *ContentRepo) IncrementViews(id uint) error {
	return r.db.Model(&domain.Content{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *ContentRepo) CountByCategory(categoryID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Content{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}
