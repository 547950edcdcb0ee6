package router

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"techshare/internal/domain"
	"techshare/internal/feature/identity"
	httpez "techshare/internal/transport/http/ez"
)

func mountAuthActions(public, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(public)
	ezAuth := httpez.New(authed)

	// --- POST /auth/register ---
	type registerIn struct {
		Email    string `json:"email"     binding:"required,email"`
		Username string `json:"username"  binding:"required,min=3,max=64"`
		Password string `json:"password"  binding:"required,min=8"`
		FullName string `json:"full_name" binding:"omitempty,max=128"`
	}
	httpez.Register(ezPublic, httpez.Action[registerIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (*domain.User, error) {
			return d.Identity.Register(identity.RegisterInput{
				Email:    in.Email,
				Username: in.Username,
				Password: in.Password,
				FullName: in.FullName,
			})
		},
	})

	// --- POST /auth/login ---
	type loginIn struct {
		Username string `json:"username" binding:"required"` // 用户名或邮箱
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		AccessToken string       `json:"access_token"`
		TokenType   string       `json:"token_type"`
		User        *domain.User `json:"user"`
	}
	httpez.Register(ezPublic, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			u, err := d.Identity.Login(in.Username, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			tok, err := d.JWT.Issue(u.ID, u.Role)
			if err != nil {
				return loginOut{}, domain.Internal("issue token failed", err)
			}
			return loginOut{AccessToken: tok, TokenType: "bearer", User: u}, nil
		},
	})

	// --- GET /auth/me ---
	httpez.Register(ezAuth, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return httpez.CurrentUser(c), nil
		},
	})

	// --- POST /auth/me/avatar  multipart 上传，落盘后更新用户头像 ---
	allowedExt := map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}}
	httpez.POSTFILES(httpez.New(authed), "/auth/me/avatar", "file",
		func(c *gin.Context, files []*multipart.FileHeader) (any, error) {
			u := httpez.CurrentUser(c)
			if u == nil {
				return nil, domain.Unauthorized("not authenticated")
			}
			f := files[0]
			if f.Size > int64(d.Upload.MaxMB)<<20 {
				return nil, domain.Invalid(fmt.Sprintf("file exceeds %d MB", d.Upload.MaxMB))
			}
			ext := strings.ToLower(filepath.Ext(f.Filename))
			if _, ok := allowedExt[ext]; !ok {
				return nil, domain.Invalid("unsupported image type")
			}
			name := uuid.NewString() + ext
			if err := c.SaveUploadedFile(f, filepath.Join(d.Upload.Dir, name)); err != nil {
				return nil, domain.Internal("save avatar failed", err)
			}
			return d.Identity.SetAvatar(u.ID, "/uploads/"+name)
		})
}
