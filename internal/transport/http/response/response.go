package response

import (
	"net/http"

	"techshare/internal/domain"
)

// Detail 错误响应体，状态码由 HTTP status 表达
type Detail struct {
	Detail string `json:"detail"`
}

func Err(msg string) Detail { return Detail{Detail: msg} }

// StatusOf 把领域错误种类映射到 HTTP 状态码
func StatusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalid:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message 暴露给客户端的错误文案；内部错误不外泄细节
func Message(err error) string {
	if domain.KindOf(err) == domain.KindInternal {
		return "internal server error"
	}
	return err.Error()
}
