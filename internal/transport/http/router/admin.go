package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	"techshare/internal/domain"
	"techshare/internal/feature/identity"
	httpez "techshare/internal/transport/http/ez"
	mdw "techshare/internal/transport/http/middleware"
)

// NewAdminEngine 管理端独立进程，统一要求 admin 角色
func NewAdminEngine(d Deps) *gin.Engine {
	r := gin.New()

	// 管理端流量小，访问日志/恢复直接用 ginzap 的现成中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		ginzap.Ginzap(d.Log, time.RFC3339, true),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, d.Identity), mdw.RequireRole(domain.RoleAdmin))

	mountAdminActions(admin, d)
	mountModerationActions(admin, d)

	return r
}

func mountAdminActions(admin *gin.RouterGroup, d Deps) {
	ez := httpez.New(admin)

	// --- GET /admin/v1/users ---
	type listQ struct {
		Role   string `form:"role"`
		Q      string `form:"q"` // email/username 模糊搜
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
	}
	type listOut struct {
		Total int64         `json:"total"`
		Items []domain.User `json:"items"`
	}
	httpez.Register(ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			items, total, err := d.Identity.ListUsers(domain.UserFilter{
				Role:   in.Role,
				Q:      in.Q,
				Offset: in.Offset,
				Limit:  in.Limit,
			})
			if err != nil {
				return listOut{}, err
			}
			if items == nil {
				items = []domain.User{}
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	// --- POST /admin/v1/users  管理端建号，可指定角色 ---
	type createIn struct {
		Email    string `json:"email"     binding:"required,email"`
		Username string `json:"username"  binding:"required,min=3,max=64"`
		Password string `json:"password"  binding:"required,min=8"`
		FullName string `json:"full_name" binding:"omitempty,max=128"`
		Role     string `json:"role"      binding:"omitempty,oneof=admin tech_writer user"`
	}
	httpez.Register(ez, httpez.Action[createIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) (*domain.User, error) {
			return d.Identity.Register(identity.RegisterInput{
				Email:    in.Email,
				Username: in.Username,
				Password: in.Password,
				FullName: in.FullName,
				Role:     in.Role,
			})
		},
	})

	// --- PUT /admin/v1/users/:id/active  启用/停用账号 ---
	type activeIn struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[activeIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id/active",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *activeIn) (*domain.User, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return d.Identity.SetActive(id, *in.IsActive)
		},
	})
}
