package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshare/internal/domain"
	"techshare/internal/feature/content"
	httpez "techshare/internal/transport/http/ez"
)

func mountContentActions(public, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(public)
	ezAuth := httpez.New(authed)

	// --- GET /content  按访问者角色过滤；内部错误降级为空列表 ---
	type listQ struct {
		CategoryID uint   `form:"category_id"`
		AuthorID   uint   `form:"author_id"`
		Status     string `form:"status"`
		Page       int    `form:"page,default=1"`
		Limit      int    `form:"limit,default=20"`
	}
	type listOut struct {
		Total int64          `json:"total"`
		Items []content.View `json:"items"`
	}
	httpez.Register(ezPublic, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/content",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			if in.Page < 1 {
				in.Page = 1
			}
			if in.Limit < 1 {
				in.Limit = 20
			}
			items, total, err := d.Content.List(domain.ContentFilter{
				Viewer:     httpez.ViewerOf(c),
				CategoryID: in.CategoryID,
				AuthorID:   in.AuthorID,
				Status:     in.Status,
				Offset:     (in.Page - 1) * in.Limit,
				Limit:      in.Limit,
			})
			if err != nil {
				if domain.KindOf(err) != domain.KindInternal {
					return listOut{}, err
				}
				// 读路径降级：列表为空好过整页报错
				d.Log.Error("list content failed", zap.Error(err))
				return listOut{Items: []content.View{}}, nil
			}
			if items == nil {
				items = []content.View{}
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	// --- GET /content/recommendations  订阅分类内的已发布内容 ---
	type recQ struct {
		Limit int `form:"limit,default=20"`
	}
	httpez.Register(ezAuth, httpez.Action[recQ, []content.View]{
		Method: http.MethodGet,
		Path:   "/content/recommendations",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *recQ) ([]content.View, error) {
			views, err := d.Content.Recommendations(httpez.CurrentUser(c), in.Limit)
			if err != nil {
				if domain.KindOf(err) != domain.KindInternal {
					return nil, err
				}
				d.Log.Error("recommendations failed", zap.Error(err))
				return []content.View{}, nil
			}
			if views == nil {
				views = []content.View{}
			}
			return views, nil
		},
	})

	// --- GET /content/:id ---
	httpez.Register(ezPublic, httpez.Action[struct{}, *content.View]{
		Method: http.MethodGet,
		Path:   "/content/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*content.View, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return d.Content.Get(httpez.ViewerOf(c), id)
		},
	})

	// --- POST /content  新内容进入待审核 ---
	type createIn struct {
		Title        string `json:"title"        binding:"required,max=255"`
		ContentText  string `json:"content_text"`
		ContentType  string `json:"content_type" binding:"required"`
		CategoryID   uint   `json:"category_id"  binding:"required"`
		MediaURL     string `json:"media_url"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	httpez.Register(ezAuth, httpez.Action[createIn, *domain.Content]{
		Method: http.MethodPost,
		Path:   "/content",
		Binder: httpez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) (*domain.Content, error) {
			return d.Content.Create(c.Request.Context(), httpez.CurrentUser(c), content.CreateInput{
				Title:        in.Title,
				Body:         in.ContentText,
				ContentType:  in.ContentType,
				CategoryID:   in.CategoryID,
				MediaURL:     in.MediaURL,
				ThumbnailURL: in.ThumbnailURL,
			})
		},
	})

	// --- PUT /content/:id  作者或管理员 ---
	type updateIn struct {
		Title        *string `json:"title"`
		ContentText  *string `json:"content_text"`
		MediaURL     *string `json:"media_url"`
		ThumbnailURL *string `json:"thumbnail_url"`
		CategoryID   *uint   `json:"category_id"`
	}
	httpez.Register(ezAuth, httpez.Action[updateIn, *content.View]{
		Method: http.MethodPut,
		Path:   "/content/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateIn) (*content.View, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return d.Content.Update(httpez.CurrentUser(c), id, content.UpdateInput{
				Title:        in.Title,
				Body:         in.ContentText,
				MediaURL:     in.MediaURL,
				ThumbnailURL: in.ThumbnailURL,
				CategoryID:   in.CategoryID,
			})
		},
	})

	// --- DELETE /content/:id ---
	type deleteQ struct {
		Reason string `form:"reason"`
	}
	httpez.Register(ezAuth, httpez.Action[deleteQ, gin.H]{
		Method: http.MethodDelete,
		Path:   "/content/:id",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *deleteQ) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := d.Content.Delete(c.Request.Context(), httpez.CurrentUser(c), id, in.Reason); err != nil {
				return nil, err
			}
			return gin.H{"message": "content deleted"}, nil
		},
	})

	// --- PUT /content/:id/approve ---
	httpez.Register(ezAuth, httpez.Action[struct{}, *domain.Content]{
		Method: http.MethodPut,
		Path:   "/content/:id/approve",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Content, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return d.Content.Approve(c.Request.Context(), httpez.CurrentUser(c), id)
		},
	})

	// --- PUT /content/:id/reject  理由可选，body 可以为空 ---
	type rejectIn struct {
		Reason string `json:"reason"`
	}
	httpez.Register(ezAuth, httpez.Action[struct{}, *domain.Content]{
		Method: http.MethodPut,
		Path:   "/content/:id/reject",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Content, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			var in rejectIn
			_ = c.ShouldBindJSON(&in)
			return d.Content.Reject(c.Request.Context(), httpez.CurrentUser(c), id, in.Reason)
		},
	})
}
