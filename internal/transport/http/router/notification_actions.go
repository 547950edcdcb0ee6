package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshare/internal/domain"
	httpez "techshare/internal/transport/http/ez"
)

func mountNotificationActions(authed *gin.RouterGroup, d Deps) {
	ez := httpez.New(authed)

	// --- GET /notifications  只看得到自己的；失败降级为空 ---
	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	httpez.Register(ez, httpez.Action[listQ, []domain.Notification]{
		Method: http.MethodGet,
		Path:   "/notifications",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQ) ([]domain.Notification, error) {
			items, err := d.Notify.List(httpez.CurrentUser(c).ID, in.Offset, in.Limit)
			if err != nil {
				d.Log.Error("list notifications failed", zap.Error(err))
				return []domain.Notification{}, nil
			}
			if items == nil {
				items = []domain.Notification{}
			}
			return items, nil
		},
	})

	// --- GET /notifications/unread-count ---
	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/notifications/unread-count",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			n, err := d.Notify.UnreadCount(httpez.CurrentUser(c).ID)
			if err != nil {
				return nil, err
			}
			return gin.H{"unread_count": n}, nil
		},
	})

	// --- PUT /notifications/:id/read ---
	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPut,
		Path:   "/notifications/:id/read",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := d.Notify.MarkRead(httpez.CurrentUser(c).ID, id); err != nil {
				return nil, err
			}
			return gin.H{"message": "notification marked as read"}, nil
		},
	})

	// --- PUT /notifications/mark-all-read ---
	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPut,
		Path:   "/notifications/mark-all-read",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := d.Notify.MarkAllRead(httpez.CurrentUser(c).ID); err != nil {
				return nil, err
			}
			return gin.H{"message": "all notifications marked as read"}, nil
		},
	})
}
