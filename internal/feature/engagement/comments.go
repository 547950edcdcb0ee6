package engagement

import (
	"context"
	"fmt"

	"techshare/internal/domain"
	"techshare/internal/feature/notify"
)

type CommentInput struct {
	ContentID uint
	ParentID  *uint
	Text      string
}

// CreateComment 回复必须挂在同一内容下的父评论上。
// 扇出：内容作者（非自评）；回复时再给父评论作者一条，
// 父评论作者是操作者本人或就是内容作者时跳过，避免重复
func (s *Service) CreateComment(ctx context.Context, actor *domain.User, in CommentInput) (*domain.Comment, error) {
	if in.Text == "" {
		return nil, domain.Invalid("comment text is required")
	}
	c, err := s.store.Contents().FindByID(in.ContentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("content not found")
	}

	var parent *domain.Comment
	if in.ParentID != nil {
		parent, err = s.store.Comments().FindByID(*in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.NotFound("parent comment not found")
		}
		if parent.ContentID != in.ContentID {
			return nil, domain.Invalid("parent comment does not belong to this content")
		}
	}

	cm := &domain.Comment{
		ContentID: in.ContentID,
		AuthorID:  actor.ID,
		ParentID:  in.ParentID,
		Text:      in.Text,
	}
	err = s.store.InTx(ctx, func(tx domain.Store) error {
		if err := tx.Comments().Create(cm); err != nil {
			return err
		}
		if c.AuthorID != actor.ID {
			if err := notify.Emit(tx, c.AuthorID, domain.NotifyComment,
				"New comment",
				fmt.Sprintf("%s commented on %q", actor.Username, c.Title), &c.ID); err != nil {
				return err
			}
		}
		if parent != nil && parent.AuthorID != actor.ID && parent.AuthorID != c.AuthorID {
			if err := notify.Emit(tx, parent.AuthorID, domain.NotifyComment,
				"New reply",
				fmt.Sprintf("%s replied to your comment on %q", actor.Username, c.Title), &c.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cm, nil
}

func (s *Service) GetComment(id uint) (*domain.Comment, error) {
	cm, err := s.store.Comments().FindByID(id)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		return nil, domain.NotFound("comment not found")
	}
	return cm, nil
}

func (s *Service) UpdateComment(actor *domain.User, id uint, text string) (*domain.Comment, error) {
	if text == "" {
		return nil, domain.Invalid("comment text is required")
	}
	cm, err := s.store.Comments().FindByID(id)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		return nil, domain.NotFound("comment not found")
	}
	if !actor.CanMutate(cm.AuthorID) {
		return nil, domain.Forbidden("not authorized to update this comment")
	}
	cm.Text = text
	if err := s.store.Comments().Update(cm); err != nil {
		return nil, err
	}
	return cm, nil
}

func (s *Service) DeleteComment(actor *domain.User, id uint) error {
	cm, err := s.store.Comments().FindByID(id)
	if err != nil {
		return err
	}
	if cm == nil {
		return domain.NotFound("comment not found")
	}
	if !actor.CanMutate(cm.AuthorID) {
		return domain.Forbidden("not authorized to delete this comment")
	}
	return s.store.Comments().Delete(id)
}

func (s *Service) ListReplies(parentID uint) ([]domain.Comment, error) {
	parent, err := s.store.Comments().FindByID(parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.NotFound("comment not found")
	}
	return s.store.Comments().ListReplies(parentID)
}

// CommentTree 整个内容的评论森林，节点带点赞数与访问者是否已赞
func (s *Service) CommentTree(viewer domain.Viewer, contentID uint) ([]*CommentNode, error) {
	c, err := s.store.Contents().FindByID(contentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("content not found")
	}
	comments, err := s.store.Comments().ListByContent(contentID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(comments))
	for _, cm := range comments {
		ids = append(ids, cm.ID)
	}
	likedSet, err := s.store.CommentLikes().LikedSet(viewer.ID, ids)
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(ids))
	for _, id := range ids {
		n, err := s.store.CommentLikes().CountByComment(id)
		if err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return BuildCommentTree(comments, counts, likedSet), nil
}
