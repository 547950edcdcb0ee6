package engagement

import (
	"context"
	"fmt"

	"techshare/internal/domain"
	"techshare/internal/feature/notify"
)

// VoteResult 计数一律重新统计子表，不做增量维护
type VoteResult struct {
	LikesCount    int64 `json:"likes_count"`
	DislikesCount int64 `json:"dislikes_count"`
}

// ToggleVote 三态切换，(user, content) 永远最多一行：
//   - 无记录 -> 新建；仅 is_like=true 且非自己的内容时通知作者
//   - 同值重复 -> 删除（二次点击取消）
//   - 反值 -> 翻转；仅翻到 true 时通知
func (s *Service) ToggleVote(ctx context.Context, actor *domain.User, contentID uint, isLike bool) (*VoteResult, error) {
	c, err := s.store.Contents().FindByID(contentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("content not found")
	}

	err = s.store.InTx(ctx, func(tx domain.Store) error {
		existing, err := tx.Likes().Find(actor.ID, contentID)
		if err != nil {
			return err
		}
		notifyAuthor := false
		switch {
		case existing == nil:
			if err := tx.Likes().Create(&domain.Like{
				UserID: actor.ID, ContentID: contentID, IsLike: isLike,
			}); err != nil {
				return err
			}
			notifyAuthor = isLike
		case existing.IsLike == isLike:
			return tx.Likes().Delete(existing.ID)
		default:
			existing.IsLike = isLike
			if err := tx.Likes().Update(existing); err != nil {
				return err
			}
			notifyAuthor = isLike
		}
		if notifyAuthor && c.AuthorID != actor.ID {
			return notify.Emit(tx, c.AuthorID, domain.NotifyLike,
				"New like",
				fmt.Sprintf("%s liked %q", actor.Username, c.Title), &c.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	likes, err := s.store.Likes().CountByContent(contentID, true)
	if err != nil {
		return nil, err
	}
	dislikes, err := s.store.Likes().CountByContent(contentID, false)
	if err != nil {
		return nil, err
	}
	return &VoteResult{LikesCount: likes, DislikesCount: dislikes}, nil
}

// ToggleCommentLike 评论点赞开关，返回当前是否已赞与计数
func (s *Service) ToggleCommentLike(ctx context.Context, actor *domain.User, commentID uint) (bool, int64, error) {
	cm, err := s.store.Comments().FindByID(commentID)
	if err != nil {
		return false, 0, err
	}
	if cm == nil {
		return false, 0, domain.NotFound("comment not found")
	}

	var liked bool
	err = s.store.InTx(ctx, func(tx domain.Store) error {
		existing, err := tx.CommentLikes().Find(actor.ID, commentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return tx.CommentLikes().Delete(existing.ID)
		}
		liked = true
		if err := tx.CommentLikes().Create(&domain.CommentLike{
			UserID: actor.ID, CommentID: commentID,
		}); err != nil {
			return err
		}
		if cm.AuthorID != actor.ID {
			return notify.Emit(tx, cm.AuthorID, domain.NotifyLike,
				"Comment liked",
				fmt.Sprintf("%s liked your comment", actor.Username), &cm.ContentID)
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	n, err := s.store.CommentLikes().CountByComment(commentID)
	return liked, n, err
}
