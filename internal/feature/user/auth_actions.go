package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-user-admin-api/internal/domain"
	httpez "go-user-admin-api/internal/transport/http/ez"
	mdw "go-user-admin-api/internal/transport/http/middleware"
	resp "go-user-admin-api/internal/transport/http/response"
	"go-user-admin-api/pkg/utils"
)

// userSummary 登录响应里的用户摘要，带派生角色；哈希永不出现
type userSummary struct {
	ID       uint         `json:"id"`
	Username *string      `json:"username"`
	Name     *string      `json:"name"`
	Level    domain.Level `json:"level"`
	Roles    []string     `json:"roles"`
}

func (m *Module) mountLogin(ez httpez.EZ) {
	type loginIn struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	type loginOut struct {
		Token string      `json:"token"`
		User  userSummary `json:"user"`
	}

	httpez.RegisterAction[loginIn, loginOut](ez, m.db, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *loginIn) (loginOut, error) {
			username := strings.TrimSpace(in.Username)
			if username == "" || in.Password == "" {
				return loginOut{}, httpez.Unauthorized("missing username or password")
			}

			users := m.repoFor(tx)
			u, err := users.FindByUsername(username)
			if err != nil {
				return loginOut{}, httpez.Internal("find user failed", err)
			}
			// 未知用户和密码错误对外不可区分
			if u == nil {
				return loginOut{}, httpez.Unauthorized("invalid credentials")
			}
			if !u.Active {
				return loginOut{}, httpez.Unauthorized("account is not active")
			}
			if !utils.CheckPassword(in.Password, u.Password) {
				return loginOut{}, httpez.Unauthorized("invalid credentials")
			}

			roles, err := domain.RolesFor(u.Level)
			if err != nil {
				// 库里出现了第四种 level，属于数据完整性问题
				return loginOut{}, httpez.Internal("role derivation failed", err)
			}
			token, err := m.jwt.Issue(u.UsernameOrEmpty(), roles)
			if err != nil {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}

			return loginOut{
				Token: token,
				User: userSummary{
					ID:       u.ID,
					Username: u.Username,
					Name:     u.Name,
					Level:    u.Level,
					Roles:    roles,
				},
			}, nil
		},
	})
}

// mountLogout token 无状态，登出是客户端行为，这里只确认
func (m *Module) mountLogout(ez httpez.EZ) {
	httpez.RegisterAction[struct{}, resp.MessageBody](ez, m.db, httpez.Action[struct{}, resp.MessageBody]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (resp.MessageBody, error) {
			if mdw.Identity(c) == nil {
				return resp.MessageBody{}, httpez.Unauthorized("missing bearer token")
			}
			return resp.Message("logged out"), nil
		},
	})
}
