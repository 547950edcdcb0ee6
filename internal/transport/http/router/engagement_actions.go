package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshare/internal/domain"
	"techshare/internal/feature/engagement"
	httpez "techshare/internal/transport/http/ez"
)

func mountEngagementActions(public, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(public)
	ezAuth := httpez.New(authed)

	// --- POST /content/:id/like  三态切换（赞/踩/取消） ---
	type voteIn struct {
		IsLike *bool `json:"is_like" binding:"required"`
	}
	httpez.Register(ezAuth, httpez.Action[voteIn, *engagement.VoteResult]{
		Method: http.MethodPost,
		Path:   "/content/:id/like",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *voteIn) (*engagement.VoteResult, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return d.Engagement.ToggleVote(c.Request.Context(), httpez.CurrentUser(c), id, *in.IsLike)
		},
	})

	// --- POST /content/:id/wishlist / DELETE /content/:id/wishlist ---
	httpez.Register(ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/content/:id/wishlist",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			msg, err := d.Engagement.AddToWishlist(httpez.CurrentUser(c), id)
			if err != nil {
				return nil, err
			}
			return gin.H{"message": msg}, nil
		},
	})
	httpez.Register(ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/content/:id/wishlist",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			msg, err := d.Engagement.RemoveFromWishlist(httpez.CurrentUser(c), id)
			if err != nil {
				return nil, err
			}
			return gin.H{"message": msg}, nil
		},
	})

	// --- GET /wishlist  收藏列表；内部错误降级为空 ---
	httpez.Register(ezAuth, httpez.Action[struct{}, []domain.Content]{
		Method: http.MethodGet,
		Path:   "/wishlist",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Content, error) {
			items, err := d.Engagement.WishlistContents(httpez.CurrentUser(c).ID)
			if err != nil {
				d.Log.Error("list wishlist failed", zap.Error(err))
				return []domain.Content{}, nil
			}
			if items == nil {
				items = []domain.Content{}
			}
			return items, nil
		},
	})

	// --- POST /comments  顶层评论或回复 ---
	type commentIn struct {
		ContentID   uint   `json:"content_id"   binding:"required"`
		ParentID    *uint  `json:"parent_id"`
		ContentText string `json:"content_text" binding:"required,max=2000"`
	}
	httpez.Register(ezAuth, httpez.Action[commentIn, *domain.Comment]{
		Method: http.MethodPost,
		Path:   "/comments",
		Binder: httpez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *commentIn) (*domain.Comment, error) {
			return d.Engagement.CreateComment(c.Request.Context(), httpez.CurrentUser(c), engagement.CommentInput{
				ContentID: in.ContentID,
				ParentID:  in.ParentID,
				Text:      in.ContentText,
			})
		},
	})

	// --- GET /comments/content/:id  整棵评论树（含点赞数与本人是否点过） ---
	httpez.Register(ezPublic, httpez.Action[struct{}, []*engagement.CommentNode]{
		Method: http.MethodGet,
		Path:   "/comments/content/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]*engagement.CommentNode, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			nodes, err := d.Engagement.CommentTree(httpez.ViewerOf(c), id)
			if err != nil {
				if domain.KindOf(err) != domain.KindInternal {
					return nil, err
				}
				d.Log.Error("comment tree failed", zap.Error(err))
				return []*engagement.CommentNode{}, nil
			}
			if nodes == nil {
				nodes = []*engagement.CommentNode{}
			}
			return nodes, nil
		},
	})

	// --- GET /comments/:id ---
	httpez.Register(ezPublic, httpez.Action[struct{}, *domain.Comment]{
		Method: http.MethodGet,
		Path:   "/comments/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Comment, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return d.Engagement.GetComment(id)
		},
	})

	// --- GET /comments/:id/replies ---
	httpez.Register(ezPublic, httpez.Action[struct{}, []domain.Comment]{
		Method: http.MethodGet,
		Path:   "/comments/:id/replies",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Comment, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			replies, err := d.Engagement.ListReplies(id)
			if err != nil {
				return nil, err
			}
			if replies == nil {
				replies = []domain.Comment{}
			}
			return replies, nil
		},
	})

	// --- PUT /comments/:id ---
	type commentUpdateIn struct {
		ContentText string `json:"content_text" binding:"required,max=2000"`
	}
	httpez.Register(ezAuth, httpez.Action[commentUpdateIn, *domain.Comment]{
		Method: http.MethodPut,
		Path:   "/comments/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *commentUpdateIn) (*domain.Comment, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return d.Engagement.UpdateComment(httpez.CurrentUser(c), id, in.ContentText)
		},
	})

	// --- DELETE /comments/:id  回复随之删除 ---
	httpez.Register(ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/comments/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := d.Engagement.DeleteComment(httpez.CurrentUser(c), id); err != nil {
				return nil, err
			}
			return gin.H{"message": "comment deleted"}, nil
		},
	})

	// --- POST /comments/:id/like  评论点赞开关 ---
	httpez.Register(ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/comments/:id/like",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			liked, count, err := d.Engagement.ToggleCommentLike(c.Request.Context(), httpez.CurrentUser(c), id)
			if err != nil {
				return nil, err
			}
			return gin.H{"liked": liked, "likes_count": count}, nil
		},
	})
}
