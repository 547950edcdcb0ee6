// Package moderation 举报工作流。ContentFlag 是唯一事实来源，
// Content.IsFlagged 只是它的派生布尔，二者在同一事务内同步。
package moderation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"techshare/internal/domain"
	"techshare/internal/feature/content"
	"techshare/internal/feature/notify"
)

type Service struct {
	store domain.Store
	log   *zap.Logger
}

func NewService(store domain.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// Flag 任何登录用户可举报。同一人对同一内容最多一条未关闭举报，重复提交 409。
// 作者收到被举报通知（自己举报自己除外）
func (s *Service) Flag(ctx context.Context, actor *domain.User, contentID uint, reason, details string) (*domain.ContentFlag, error) {
	if !domain.ValidFlagReason(reason) {
		return nil, domain.Invalid("invalid flag reason")
	}
	c, err := s.store.Contents().FindByID(contentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("content not found")
	}
	existing, err := s.store.Flags().FindUnresolved(contentID, actor.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("you already have an open flag on this content")
	}

	f := &domain.ContentFlag{
		ContentID: contentID,
		FlaggerID: actor.ID,
		Reason:    reason,
		Details:   details,
	}
	err = s.store.InTx(ctx, func(tx domain.Store) error {
		if err := tx.Flags().Create(f); err != nil {
			return err
		}
		if !c.IsFlagged {
			c.IsFlagged = true
			if err := tx.Contents().Update(c); err != nil {
				return err
			}
		}
		if c.AuthorID != actor.ID {
			return notify.Emit(tx, c.AuthorID, domain.NotifyFlag,
				"Content flagged",
				fmt.Sprintf("%q was flagged for review (%s)", c.Title, reason), &c.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Unflag admin 专用：清除标记并关闭该内容全部未关闭举报（举报不成立），通知作者
func (s *Service) Unflag(ctx context.Context, admin *domain.User, contentID uint) error {
	c, err := s.store.Contents().FindByID(contentID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("content not found")
	}
	return s.store.InTx(ctx, func(tx domain.Store) error {
		open, err := tx.Flags().ListUnresolvedByContent(contentID)
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range open {
			f := open[i]
			f.IsResolved = true
			f.ResolvedBy = &admin.ID
			f.ResolvedAt = &now
			f.AdminNotes = "dismissed by unflag"
			if err := tx.Flags().Update(&f); err != nil {
				return err
			}
		}
		if c.IsFlagged {
			c.IsFlagged = false
			if err := tx.Contents().Update(c); err != nil {
				return err
			}
		}
		return notify.Emit(tx, c.AuthorID, domain.NotifyFlag,
			"Content cleared",
			fmt.Sprintf("%q was reviewed and cleared", c.Title), &c.ID)
	})
}

// Resolve admin 专用。approve = 举报成立，内容删除；reject = 举报不成立，仅关闭。
// 两种情况都记录处理人、时间与备注
func (s *Service) Resolve(ctx context.Context, admin *domain.User, flagID uint, action, notes string) (*domain.ContentFlag, error) {
	if action != domain.FlagActionApprove && action != domain.FlagActionReject {
		return nil, domain.Invalid("action must be approve or reject")
	}
	f, err := s.store.Flags().FindByID(flagID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.NotFound("flag not found")
	}
	if f.IsResolved {
		return nil, domain.Invalid("flag is already resolved")
	}
	c, err := s.store.Contents().FindByID(f.ContentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("content not found")
	}

	now := time.Now()
	err = s.store.InTx(ctx, func(tx domain.Store) error {
		resolve := func(flag *domain.ContentFlag, note string) error {
			flag.IsResolved = true
			flag.ResolvedBy = &admin.ID
			flag.ResolvedAt = &now
			flag.AdminNotes = note
			return tx.Flags().Update(flag)
		}
		if err := resolve(f, notes); err != nil {
			return err
		}

		if action == domain.FlagActionApprove {
			// 同一内容的其余开放举报随之一并成立
			others, err := tx.Flags().ListUnresolvedByContent(c.ID)
			if err != nil {
				return err
			}
			for i := range others {
				o := others[i]
				if err := resolve(&o, "resolved with content removal"); err != nil {
					return err
				}
			}
			if err := notify.Emit(tx, c.AuthorID, domain.NotifyFlag,
				"Content removed",
				fmt.Sprintf("%q was removed after review", c.Title), nil); err != nil {
				return err
			}
			return content.DeleteCascade(tx, c.ID)
		}

		// reject：没有剩余开放举报时清除派生布尔
		remaining, err := tx.Flags().CountUnresolved(c.ID)
		if err != nil {
			return err
		}
		if remaining == 0 && c.IsFlagged {
			c.IsFlagged = false
			return tx.Contents().Update(c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) List(f domain.FlagFilter) ([]domain.ContentFlag, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.store.Flags().List(f)
}
