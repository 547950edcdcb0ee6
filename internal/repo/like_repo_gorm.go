package repo

import (
	"errors"

	"gorm.io/gorm"

	"techshare/internal/domain"
)

type LikeRepo struct{ db *gorm.DB }

func (r *LikeRepo) Find(userID, contentID uint) (*domain.Like, error) {
	var l domain.Like
	err := r.db.First(&l, "user_id = ? AND content_id = ?", userID, contentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

func (r *LikeRepo) Create(l *domain.Like) error {
	// 唯一索引兜底并发 toggle，应用层检查竞争时归 Conflict
	return translateDup(r.db.Create(l).Error, "vote already recorded")
}

func (r *LikeRepo) Update(l *domain.Like) error { return r.db.Save(l).Error }

func (r *LikeRepo) Delete(id uint) error {
	return r.db.Delete(&domain.Like{}, "id = ?", id).Error
}

func (r *LikeRepo) CountByContent(contentID uint, isLike bool) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Like{}).
		Where("content_id = ? AND is_like = ?", contentID, isLike).Count(&n).Error
	return n, err
}

func (r *LikeRepo) DeleteByContent(contentID uint) error {
	return r.db.Delete(&domain.Like{}, "content_id = ?", contentID).Error
}

type WishlistRepo struct{ db *gorm.DB }

func (r *WishlistRepo) Add(userID, contentID uint) (bool, error) {
	res := r.db.Create(&domain.WishlistItem{UserID: userID, ContentID: contentID})
	if res.Error != nil {
		if isDupKey(res.Error) {
			return false, nil // 已收藏，幂等
		}
		return false, res.Error
	}
	return true, nil
}

func (r *WishlistRepo) Remove(userID, contentID uint) (bool, error) {
	res := r.db.Delete(&domain.WishlistItem{},
		"user_id = ? AND content_id = ?", userID, contentID)
	return res.RowsAffected > 0, res.Error
}

func (r *WishlistRepo) RemoveByContent(contentID uint) error {
	return r.db.Delete(&domain.WishlistItem{}, "content_id = ?", contentID).Error
}

func (r *WishlistRepo) ListByUser(userID uint) ([]domain.Content, error) {
	var items []domain.Content
	err := r.db.
		Joins("JOIN user_wishlist uw ON uw.content_id = content.id").
		Where("uw.user_id = ?", userID).
		Find(&items).Error
	return items, err
}
