package repo

import (
	"errors"

	"gorm.io/gorm"

	"techshare/internal/domain"
)

type CommentRepo struct{ db *gorm.DB }

func (r *CommentRepo) Create(c *domain.Comment) error { return r.db.Create(c).Error }

func (r *CommentRepo) FindByID(id uint) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *CommentRepo) ListByContent(contentID uint) ([]domain.Comment, error) {
	var cs []domain.Comment
	err := r.db.Where("content_id = ?", contentID).Order("created_at ASC").Find(&cs).Error
	return cs, err
}

func (r *CommentRepo) ListReplies(parentID uint) ([]domain.Comment, error) {
	var cs []domain.Comment
	err := r.db.Where("parent_id = ?", parentID).Order("created_at ASC").Find(&cs).Error
	return cs, err
}

func (r *CommentRepo) Update(c *domain.Comment) error { return r.db.Save(c).Error }

// Delete 自顶向下删除整棵子树，回复不留孤儿
func (r *CommentRepo) Delete(id uint) error {
	ids := []uint{id}
	frontier := []uint{id}
	for len(frontier) > 0 {
		var children []uint
		if err := r.db.Model(&domain.Comment{}).Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return err
		}
		ids = append(ids, children...)
		frontier = children
	}
	if err := r.db.Delete(&domain.CommentLike{}, "comment_id IN ?", ids).Error; err != nil {
		return err
	}
	return r.db.Delete(&domain.Comment{}, "id IN ?", ids).Error
}

func (r *CommentRepo) DeleteByContent(contentID uint) error {
	var ids []uint
	if err := r.db.Model(&domain.Comment{}).Where("content_id = ?", contentID).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Delete(&domain.CommentLike{}, "comment_id IN ?", ids).Error; err != nil {
		return err
	}
	return r.db.Delete(&domain.Comment{}, "content_id = ?", contentID).Error
}

func (r *CommentRepo) CountByContent(contentID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Comment{}).Where("content_id = ?", contentID).Count(&n).Error
	return n, err
}

type CommentLikeRepo struct{ db *gorm.DB }

func (r *CommentLikeRepo) Find(userID, commentID uint) (*domain.CommentLike, error) {
	var l domain.CommentLike
	err := r.db.First(&l, "user_id = ? AND comment_id = ?", userID, commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

func (r *CommentLikeRepo) Create(l *domain.CommentLike) error {
	return translateDup(r.db.Create(l).Error, "comment already liked")
}

func (r *CommentLikeRepo) Delete(id uint) error {
	return r.db.Delete(&domain.CommentLike{}, "id = ?", id).Error
}

func (r *CommentLikeRepo) CountByComment(commentID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.CommentLike{}).Where("comment_id = ?", commentID).Count(&n).Error
	return n, err
}

func (r *CommentLikeRepo) LikedSet(userID uint, commentIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(commentIDs))
	if userID == 0 || len(commentIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := r.db.Model(&domain.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
