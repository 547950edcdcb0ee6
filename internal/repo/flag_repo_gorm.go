package repo

import (
	"errors"

	"gorm.io/gorm"

	"techshare/internal/domain"
)

type FlagRepo struct{ db *gorm.DB }

func (r *FlagRepo) Create(f *domain.ContentFlag) error { return r.db.Create(f).Error }

func (r *FlagRepo) FindByID(id uint) (*domain.ContentFlag, error) {
	var f domain.ContentFlag
	err := r.db.First(&f, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &f, err
}

func (r *FlagRepo) FindUnresolved(contentID, flaggerID uint) (*domain.ContentFlag, error) {
	var f domain.ContentFlag
	err := r.db.First(&f,
		"content_id = ? AND flagger_id = ? AND is_resolved = ?", contentID, flaggerID, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &f, err
}

func (r *FlagRepo) List(f domain.FlagFilter) ([]domain.ContentFlag, int64, error) {
	q := r.db.Model(&domain.ContentFlag{})
	if f.Resolved != nil {
		q = q.Where("is_resolved = ?", *f.Resolved)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var flags []domain.ContentFlag
	if err := q.Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&flags).Error; err != nil {
		return nil, 0, err
	}
	return flags, total, nil
}

func (r *FlagRepo) ListUnresolvedByContent(contentID uint) ([]domain.ContentFlag, error) {
	var flags []domain.ContentFlag
	err := r.db.Where("content_id = ? AND is_resolved = ?", contentID, false).Find(&flags).Error
	return flags, err
}

func (r *FlagRepo) Update(f *domain.ContentFlag) error { return r.db.Save(f).Error }

func (r *FlagRepo) CountUnresolved(contentID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.ContentFlag{}).
		Where("content_id = ? AND is_resolved = ?", contentID, false).Count(&n).Error
	return n, err
}
