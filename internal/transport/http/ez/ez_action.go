package ez

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"techshare/internal/domain"
	resp "techshare/internal/transport/http/response"
)

/* ================== 轻封装 ================== */

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

func (e EZ) Group(path string) EZ { return EZ{g: e.g.Group(path)} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/auth/login"、"/content/:id/approve"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录
	Roles   []string // 限定角色（可选）
	Status  int      // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// Register 注册动作接口，错误按领域错误种类映射为 HTTP 状态码
func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			u := CurrentUser(c)
			if u == nil {
				c.JSON(http.StatusUnauthorized, resp.Err("not authenticated"))
				return
			}
			if len(a.Roles) > 0 {
				ok := false
				for _, r := range a.Roles {
					if u.Role == r {
						ok = true
						break
					}
				}
				if !ok {
					c.JSON(http.StatusForbidden, resp.Err("not enough permissions"))
					return
				}
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, resp.Err(bindErr.Error()))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			c.JSON(resp.StatusOf(err), resp.Err(resp.Message(err)))
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// POSTFILES 处理 multipart/form-data 文件上传
func POSTFILES(e EZ, path string, fieldName string, h func(c *gin.Context, files []*multipart.FileHeader) (any, error)) {
	e.g.POST(path, func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, resp.Err("invalid multipart form: "+err.Error()))
			return
		}
		files := form.File[fieldName]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, resp.Err("no files uploaded"))
			return
		}

		data, err := h(c, files)
		if err != nil {
			c.JSON(resp.StatusOf(err), resp.Err(resp.Message(err)))
			return
		}
		c.JSON(http.StatusOK, data)
	})
}

/* ================== 上下文取值 ================== */

// CurrentUser 取认证中间件放入的用户，未登录为 nil
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// ViewerOf 匿名请求得到零值 Viewer（ID=0，Role 空）
func ViewerOf(c *gin.Context) domain.Viewer {
	if u := CurrentUser(c); u != nil {
		return domain.Viewer{ID: u.ID, Role: u.Role}
	}
	return domain.Viewer{}
}

// ParamID 路径参数转 uint，非法时返回领域错误
func ParamID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, domain.Invalid("invalid " + name)
	}
	return uint(v), nil
}
