// Package content 内容生命周期：review -> published/rejected 状态机、
// 角色可见性读取路径、浏览计数与删除。
package content

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"techshare/internal/domain"
	"techshare/internal/feature/notify"
)

type Service struct {
	store domain.Store
	log   *zap.Logger
}

func NewService(store domain.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// View 读模型：计数一律按子表实时统计，不信任缓存列
type View struct {
	domain.Content
	Author        *domain.User     `json:"author,omitempty"`
	Category      *domain.Category `json:"category,omitempty"`
	LikesCount    int64            `json:"likes_count"`
	DislikesCount int64            `json:"dislikes_count"`
	CommentsCount int64            `json:"comments_count"`
}

type CreateInput struct {
	Title        string
	Body         string
	ContentType  string
	CategoryID   uint
	MediaURL     string
	ThumbnailURL string
}

// Create 新内容进入 review，普通用户不可见。
// 扇出：作者一条「待审核」，全体 admin 各一条「新内容待审」
func (s *Service) Create(ctx context.Context, author *domain.User, in CreateInput) (*domain.Content, error) {
	if in.Title == "" {
		return nil, domain.Invalid("title is required")
	}
	if !domain.ValidContentType(in.ContentType) {
		return nil, domain.Invalid("invalid content type")
	}
	cat, err := s.store.Categories().FindByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.NotFound("category not found")
	}

	c := &domain.Content{
		Title:        in.Title,
		Body:         in.Body,
		ContentType:  in.ContentType,
		Status:       domain.StatusReview,
		MediaURL:     in.MediaURL,
		ThumbnailURL: in.ThumbnailURL,
		AuthorID:     author.ID,
		CategoryID:   in.CategoryID,
	}

	err = s.store.InTx(ctx, func(tx domain.Store) error {
		if err := tx.Contents().Create(c); err != nil {
			return err
		}
		if err := notify.Emit(tx, author.ID, domain.NotifyStatusChange,
			"Content submitted",
			fmt.Sprintf("%q is pending approval", c.Title), &c.ID); err != nil {
			return err
		}
		admins, err := tx.Users().ListByRole(domain.RoleAdmin)
		if err != nil {
			return err
		}
		for _, a := range admins {
			if a.ID == author.ID {
				continue
			}
			if err := notify.Emit(tx, a.ID, domain.NotifySystem,
				"New content pending review",
				fmt.Sprintf("%q by %s is waiting for review", c.Title, author.Username), &c.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Get 单条读取：不可见一律按 NotFound 处理，不暴露存在性。每次读取浏览数 +1
func (s *Service) Get(viewer domain.Viewer, id uint) (*View, error) {
	c, err := s.store.Contents().FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil || !domain.ContentVisible(viewer, c) {
		return nil, domain.NotFound("content not found")
	}
	if err := s.store.Contents().IncrementViews(id); err != nil {
		return nil, err
	}
	c.ViewsCount++
	return s.assemble(c)
}

func (s *Service) List(f domain.ContentFilter) ([]View, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	items, total, err := s.store.Contents().List(f)
	if err != nil {
		return nil, 0, err
	}
	views := make([]View, 0, len(items))
	for i := range items {
		v, err := s.assemble(&items[i])
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

// Recommendations 不是推荐模型：只是订阅分类内已发布内容按时间倒序
func (s *Service) Recommendations(user *domain.User, limit int) ([]View, error) {
	cats, err := s.store.Categories().SubscribedCategories(user.ID)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return []View{}, nil
	}
	ids := make([]uint, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	views, _, err := s.List(domain.ContentFilter{
		Viewer:      domain.Viewer{ID: user.ID, Role: domain.RoleUser},
		CategoryIDs: ids,
		Limit:       limit,
	})
	return views, err
}

type UpdateInput struct {
	Title        *string
	Body         *string
	MediaURL     *string
	ThumbnailURL *string
	CategoryID   *uint
}

func (s *Service) Update(actor *domain.User, id uint, in UpdateInput) (*View, error) {
	c, err := s.store.Contents().FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("content not found")
	}
	if !actor.CanMutate(c.AuthorID) {
		return nil, domain.Forbidden("not authorized to update this content")
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Body != nil {
		c.Body = *in.Body
	}
	if in.MediaURL != nil {
		c.MediaURL = *in.MediaURL
	}
	if in.ThumbnailURL != nil {
		c.ThumbnailURL = *in.ThumbnailURL
	}
	if in.CategoryID != nil {
		cat, err := s.store.Categories().FindByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, domain.NotFound("category not found")
		}
		c.CategoryID = *in.CategoryID
	}
	if err := s.store.Contents().Update(c); err != nil {
		return nil, err
	}
	return s.assemble(c)
}

// Delete 硬删除，子表一并清理。管理员代删时通知作者
func (s *Service) Delete(ctx context.Context, actor *domain.User, id uint, reason string) error {
	c, err := s.store.Contents().FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("content not found")
	}
	if !actor.CanMutate(c.AuthorID) {
		return domain.Forbidden("not authorized to delete this content")
	}
	return s.store.InTx(ctx, func(tx domain.Store) error {
		if actor.ID != c.AuthorID {
			msg := fmt.Sprintf("your content %q was removed", c.Title)
			if reason != "" {
				msg += ": " + reason
			}
			if err := notify.Emit(tx, c.AuthorID, domain.NotifySystem,
				"Content removed", msg, nil); err != nil {
				return err
			}
		}
		// 开放中的举报随内容删除一并关闭，审计行保留
		open, err := tx.Flags().ListUnresolvedByContent(c.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range open {
			f := open[i]
			f.IsResolved = true
			f.ResolvedBy = &actor.ID
			f.ResolvedAt = &now
			f.AdminNotes = "content deleted"
			if err := tx.Flags().Update(&f); err != nil {
				return err
			}
		}
		return deleteCascade(tx, c.ID)
	})
}

// Approve tech_writer/admin。review（或任意未发布态）-> published，盖发布时间戳。
// 扇出：作者一条「已通过」，该分类除作者外的订阅者各一条「新内容」
func (s *Service) Approve(ctx context.Context, actor *domain.User, id uint) (*domain.Content, error) {
	if !actor.CanModerate() {
		return nil, domain.Forbidden("tech writer or admin access required")
	}
	c, err := s.store.Contents().FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("content not found")
	}
	if c.Status == domain.StatusPublished {
		return nil, domain.Invalid("content is already published")
	}

	now := time.Now()
	c.Status = domain.StatusPublished
	c.PublishedAt = &now

	err = s.store.InTx(ctx, func(tx domain.Store) error {
		if err := tx.Contents().Update(c); err != nil {
			return err
		}
		if err := notify.Emit(tx, c.AuthorID, domain.NotifyStatusChange,
			"Content approved",
			fmt.Sprintf("%q has been approved and published", c.Title), &c.ID); err != nil {
			return err
		}
		cat, err := tx.Categories().FindByID(c.CategoryID)
		if err != nil {
			return err
		}
		subs, err := tx.Categories().Subscribers(c.CategoryID)
		if err != nil {
			return err
		}
		catName := ""
		if cat != nil {
			catName = cat.Name
		}
		for _, sub := range subs {
			if sub.ID == c.AuthorID {
				continue
			}
			if err := notify.Emit(tx, sub.ID, domain.NotifySystem,
				"New content in "+catName,
				fmt.Sprintf("%q was just published", c.Title), &c.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Reject 终态但不删除；作者收到带理由的通知，重新投稿需新建内容
func (s *Service) Reject(ctx context.Context, actor *domain.User, id uint, reason string) (*domain.Content, error) {
	if !actor.CanModerate() {
		return nil, domain.Forbidden("tech writer or admin access required")
	}
	c, err := s.store.Contents().FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("content not found")
	}
	if c.Status == domain.StatusPublished {
		return nil, domain.Invalid("published content cannot be rejected")
	}

	c.Status = domain.StatusRejected
	err = s.store.InTx(ctx, func(tx domain.Store) error {
		if err := tx.Contents().Update(c); err != nil {
			return err
		}
		msg := fmt.Sprintf("%q was rejected", c.Title)
		if reason != "" {
			msg += ": " + reason
		}
		return notify.Emit(tx, c.AuthorID, domain.NotifyStatusChange,
			"Content rejected", msg, &c.ID)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) assemble(c *domain.Content) (*View, error) {
	likes, err := s.store.Likes().CountByContent(c.ID, true)
	if err != nil {
		return nil, err
	}
	dislikes, err := s.store.Likes().CountByContent(c.ID, false)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.Comments().CountByContent(c.ID)
	if err != nil {
		return nil, err
	}
	author, err := s.store.Users().FindByID(c.AuthorID)
	if err != nil {
		return nil, err
	}
	cat, err := s.store.Categories().FindByID(c.CategoryID)
	if err != nil {
		return nil, err
	}
	return &View{
		Content:       *c,
		Author:        author,
		Category:      cat,
		LikesCount:    likes,
		DislikesCount: dislikes,
		CommentsCount: comments,
	}, nil
}

// deleteCascade 删除内容及附属行；举报行是审计记录，保留不删
func deleteCascade(tx domain.Store, contentID uint) error {
	if err := tx.Likes().DeleteByContent(contentID); err != nil {
		return err
	}
	if err := tx.Comments().DeleteByContent(contentID); err != nil {
		return err
	}
	if err := tx.Wishlist().RemoveByContent(contentID); err != nil {
		return err
	}
	return tx.Contents().Delete(contentID)
}

// DeleteCascade 导出给 moderation 在「举报成立」时复用
func DeleteCascade(tx domain.Store, contentID uint) error { return deleteCascade(tx, contentID) }
