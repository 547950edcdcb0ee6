package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"techshare/internal/core/auth"
	"techshare/internal/core/cache"
	"techshare/internal/core/config"
	"techshare/internal/feature/category"
	"techshare/internal/feature/content"
	"techshare/internal/feature/engagement"
	"techshare/internal/feature/identity"
	"techshare/internal/feature/moderation"
	"techshare/internal/feature/notify"
	mdw "techshare/internal/transport/http/middleware"
)

// Deps 路由层依赖，全部由 cmd 装配
type Deps struct {
	Log        *zap.Logger
	JWT        *auth.JWTer
	Cache      *cache.Cache
	Upload     config.Upload
	Identity   *identity.Service
	Content    *content.Service
	Category   *category.Service
	Engagement *engagement.Service
	Moderation *moderation.Service
	Notify     *notify.Service
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		cors.Default(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 头像等上传文件的静态访问
	r.Static("/uploads", d.Upload.Dir)

	api := r.Group("/api/v1")

	// 公共分组：带 token 时解析出访问者，否则按匿名
	public := api.Group("")
	public.Use(mdw.OptionalAuthJWT(d.JWT, d.Identity))

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, d.Identity))

	mountAuthActions(public, authed, d)
	mountContentActions(public, authed, d)
	mountEngagementActions(public, authed, d)
	mountCategoryActions(public, authed, d)
	mountNotificationActions(authed, d)
	mountModerationActions(authed, d)

	return r
}
