package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techshare/internal/domain"
	httpez "techshare/internal/transport/http/ez"
)

func mountModerationActions(authed *gin.RouterGroup, d Deps) {
	ez := httpez.New(authed)

	// --- POST /content/:id/flag  任何登录用户可举报 ---
	type flagIn struct {
		Reason  string `json:"reason"  binding:"required"`
		Details string `json:"details" binding:"omitempty,max=1000"`
	}
	httpez.Register(ez, httpez.Action[flagIn, *domain.ContentFlag]{
		Method: http.MethodPost,
		Path:   "/content/:id/flag",
		Binder: httpez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *flagIn) (*domain.ContentFlag, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return d.Moderation.Flag(c.Request.Context(), httpez.CurrentUser(c), id, in.Reason, in.Details)
		},
	})

	// --- POST /content/:id/unflag  管理员驳回全部未结举报 ---
	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/content/:id/unflag",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := d.Moderation.Unflag(c.Request.Context(), httpez.CurrentUser(c), id); err != nil {
				return nil, err
			}
			return gin.H{"message": "content unflagged"}, nil
		},
	})

	// --- GET /flags  管理员举报队列 ---
	type flagListQ struct {
		Resolved *bool `form:"resolved"`
		Offset   int   `form:"offset,default=0"`
		Limit    int   `form:"limit,default=20"`
	}
	type flagListOut struct {
		Total int64                `json:"total"`
		Items []domain.ContentFlag `json:"items"`
	}
	httpez.Register(ez, httpez.Action[flagListQ, flagListOut]{
		Method: http.MethodGet,
		Path:   "/flags",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *flagListQ) (flagListOut, error) {
			items, total, err := d.Moderation.List(domain.FlagFilter{
				Resolved: in.Resolved,
				Offset:   in.Offset,
				Limit:    in.Limit,
			})
			if err != nil {
				return flagListOut{}, err
			}
			if items == nil {
				items = []domain.ContentFlag{}
			}
			return flagListOut{Total: total, Items: items}, nil
		},
	})

	// --- PUT /flags/:id/resolve?action=approve|reject  approve 会删除内容 ---
	type resolveQ struct {
		Action string `form:"action" binding:"required"`
		Notes  string `form:"notes"`
	}
	httpez.Register(ez, httpez.Action[resolveQ, *domain.ContentFlag]{
		Method: http.MethodPut,
		Path:   "/flags/:id/resolve",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *resolveQ) (*domain.ContentFlag, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return d.Moderation.Resolve(c.Request.Context(), httpez.CurrentUser(c), id, in.Action, in.Notes)
		},
	})
}
