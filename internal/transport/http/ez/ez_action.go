package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	resp "go-user-admin-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON body 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / header 取
)

// AErr 统一错误对象；Fields 非空时按 {errors} 信封输出
type AErr struct {
	Status int
	Msg    string
	Fields map[string]string
	Err    error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func BadRequest(msg string) error   { return &AErr{Status: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Status: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Status: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Status: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Status: http.StatusConflict, Msg: msg} }
func Validation(fields map[string]string) error {
	return &AErr{Status: http.StatusBadRequest, Fields: fields}
}
func Internal(msg string, err error) error {
	return &AErr{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Action 非 CRUD 脚手架的一行注册：I 入参，O 出参
type Action[I any, O any] struct {
	Method string // "GET" | "POST" | "PUT" | "DELETE"
	Path   string // 例："/auth/login"、"/users/:id"
	Binder Binder
	Status int  // 成功状态码；0 = 200，204 不写 body
	UseTx  bool // 是否包事务（读改写必须开）
	Handler func(c *gin.Context, tx *gorm.DB, in *I) (O, error)
}

// RegisterAction 注册动作接口；错误统一映射到 {error,message} / {errors} 信封。
// 500 不往外带内部细节，只回标准文案
func RegisterAction[I any, O any](e EZ, db *gorm.DB, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, resp.Err(http.StatusBadRequest, "malformed request body"))
			return
		}

		run := func(tx *gorm.DB) (O, error) { return a.Handler(c, tx, &in) }
		var out O
		var err error
		if a.UseTx {
			err = db.WithContext(c).Transaction(func(tx *gorm.DB) error {
				o, e := run(tx)
				out = o
				return e
			})
		} else {
			out, err = run(db.WithContext(c))
		}

		if err != nil {
			writeErr(c, err)
			return
		}

		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
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
	default:
		e.g.POST(a.Path, h)
	}
}

func writeErr(c *gin.Context, err error) {
	var ae *AErr
	if errors.As(err, &ae) {
		if ae.Fields != nil {
			c.JSON(ae.Status, resp.Validation(ae.Fields))
			return
		}
		if ae.Status == http.StatusInternalServerError {
			_ = c.Error(err) // 细节进访问日志，不回给客户端
			c.JSON(ae.Status, resp.Err(ae.Status, ""))
			return
		}
		c.JSON(ae.Status, resp.Err(ae.Status, ae.Msg))
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, resp.Err(http.StatusInternalServerError, ""))
}
