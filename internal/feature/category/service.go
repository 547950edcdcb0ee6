package category

import (
	"context"
	"fmt"
	"strings"

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

type CreateInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (s *Service) Create(actor *domain.User, in CreateInput) (*domain.Category, error) {
	if !actor.CanModerate() {
		return nil, domain.Forbidden("not enough permissions")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("category name is required")
	}
	if exist, err := s.store.Categories().FindByName(name); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, domain.Conflict("category already exists")
	}
	c := &domain.Category{
		Name:        name,
		Description: in.Description,
		Color:       in.Color,
		CreatedBy:   &actor.ID,
	}
	if err := s.store.Categories().Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(id uint) (*domain.Category, error) {
	c, err := s.store.Categories().FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("category not found")
	}
	return c, nil
}

func (s *Service) List() ([]domain.Category, error) {
	return s.store.Categories().List(0, 0)
}

// Delete 仅限管理员；挂有内容的分类不允许删
func (s *Service) Delete(actor *domain.User, id uint) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("not enough permissions")
	}
	c, err := s.store.Categories().FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("category not found")
	}
	n, err := s.store.Contents().CountByCategory(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Invalid("category has content and cannot be deleted")
	}
	return s.store.Categories().Delete(id)
}

// Subscribe 首次订阅时通知分类创建者
func (s *Service) Subscribe(ctx context.Context, actor *domain.User, categoryID uint) (string, error) {
	c, err := s.store.Categories().FindByID(categoryID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", domain.NotFound("category not found")
	}
	err = s.store.InTx(ctx, func(tx domain.Store) error {
		added, err := tx.Categories().Subscribe(actor.ID, categoryID)
		if err != nil {
			return err
		}
		if added && c.CreatedBy != nil && *c.CreatedBy != actor.ID {
			return notify.Emit(tx, *c.CreatedBy, domain.NotifyFollow,
				"New subscriber",
				fmt.Sprintf("%s subscribed to your category %q", actor.Username, c.Name), nil)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("subscribed to category %q", c.Name), nil
}

func (s *Service) Unsubscribe(actor *domain.User, categoryID uint) (string, error) {
	c, err := s.store.Categories().FindByID(categoryID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", domain.NotFound("category not found")
	}
	if _, err := s.store.Categories().Unsubscribe(actor.ID, categoryID); err != nil {
		return "", err
	}
	return fmt.Sprintf("unsubscribed from category %q", c.Name), nil
}

func (s *Service) Subscriptions(userID uint) ([]domain.Category, error) {
	return s.store.Categories().SubscribedCategories(userID)
}
