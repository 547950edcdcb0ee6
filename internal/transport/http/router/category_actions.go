package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshare/internal/core/cache"
	"techshare/internal/domain"
	"techshare/internal/feature/category"
	httpez "techshare/internal/transport/http/ez"
)

const categoriesCacheKey = "categories:all"

func mountCategoryActions(public, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(public)
	ezAuth := httpez.New(authed)

	// --- GET /categories  redis 缓存 + singleflight 回源；失败降级为空 ---
	httpez.Register(ezPublic, httpez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			cats, err := cache.GetOrLoadJSON[[]domain.Category](d.Cache, c.Request.Context(),
				categoriesCacheKey, 5*time.Minute,
				func(ctx context.Context) (*[]domain.Category, error) {
					list, err := d.Category.List()
					if err != nil {
						return nil, err
					}
					return &list, nil
				})
			if err != nil {
				d.Log.Error("list categories failed", zap.Error(err))
				return []domain.Category{}, nil
			}
			if cats == nil || *cats == nil {
				return []domain.Category{}, nil
			}
			return *cats, nil
		},
	})

	// --- GET /categories/subscriptions  当前用户订阅的分类 ---
	httpez.Register(ezAuth, httpez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories/subscriptions",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			cats, err := d.Category.Subscriptions(httpez.CurrentUser(c).ID)
			if err != nil {
				d.Log.Error("list subscriptions failed", zap.Error(err))
				return []domain.Category{}, nil
			}
			if cats == nil {
				cats = []domain.Category{}
			}
			return cats, nil
		},
	})

	// --- GET /categories/:id ---
	httpez.Register(ezPublic, httpez.Action[struct{}, *domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Category, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return d.Category.Get(id)
		},
	})

	// --- POST /categories  tech_writer/admin ---
	httpez.Register(ezAuth, httpez.Action[category.CreateInput, *domain.Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: httpez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *category.CreateInput) (*domain.Category, error) {
			cat, err := d.Category.Create(httpez.CurrentUser(c), *in)
			if err != nil {
				return nil, err
			}
			d.Cache.Invalidate(c.Request.Context(), categoriesCacheKey)
			return cat, nil
		},
	})

	// --- DELETE /categories/:id  挂有内容的分类拒绝删除 ---
	httpez.Register(ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/categories/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := d.Category.Delete(httpez.CurrentUser(c), id); err != nil {
				return nil, err
			}
			d.Cache.Invalidate(c.Request.Context(), categoriesCacheKey)
			return gin.H{"message": "category deleted"}, nil
		},
	})

	// --- POST /categories/:id/subscribe / DELETE /categories/:id/subscribe ---
	httpez.Register(ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/categories/:id/subscribe",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			msg, err := d.Category.Subscribe(c.Request.Context(), httpez.CurrentUser(c), id)
			if err != nil {
				return nil, err
			}
			return gin.H{"message": msg}, nil
		},
	})
	httpez.Register(ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/categories/:id/subscribe",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			msg, err := d.Category.Unsubscribe(httpez.CurrentUser(c), id)
			if err != nil {
				return nil, err
			}
			return gin.H{"message": msg}, nil
		},
	})
}
