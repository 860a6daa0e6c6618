package user

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-user-admin-api/internal/core/auth"
	"go-user-admin-api/internal/core/cache"
	"go-user-admin-api/internal/domain"
	"go-user-admin-api/internal/repo"
	httpez "go-user-admin-api/internal/transport/http/ez"
	mdw "go-user-admin-api/internal/transport/http/middleware"
)

// Module 用户功能模块：/auth/login /auth/logout + /users CRUD。
// cache 可为 nil（本地/测试不起 redis）
type Module struct {
	db    *gorm.DB
	jwt   *auth.JWTer
	users domain.UserRepository
	cache *cache.Cache
	log   *zap.Logger
}

func New(db *gorm.DB, jwter *auth.JWTer, c *cache.Cache, l *zap.Logger) *Module {
	return &Module{
		db:    db,
		jwt:   jwter,
		users: repo.NewUserRepo(db),
		cache: c,
		log:   l,
	}
}

func (m *Module) MountAPI(api *gin.RouterGroup) {
	// 公共：登录
	public := httpez.New(api)
	m.mountLogin(public)

	// 鉴权：每个请求都重新落库解析身份
	authd := api.Group("")
	authd.Use(mdw.AuthBearer(m.jwt, m.users))
	ezAuthd := httpez.New(authd)
	m.mountLogout(ezAuthd)
	m.mountUpdate(ezAuthd) // admin 或本人，内部再做字段级判定

	// admin-only
	admin := authd.Group("")
	admin.Use(mdw.RequireAdmin())
	ezAdmin := httpez.New(admin)
	m.mountList(ezAdmin)
	m.mountGet(ezAdmin)
	m.mountCreate(ezAdmin)
	m.mountDelete(ezAdmin)
}

// repoFor 事务内用 tx 绑定的仓库，保证读改写原子
func (m *Module) repoFor(tx *gorm.DB) domain.UserRepository {
	return repo.NewUserRepo(tx)
}

func (m *Module) invalidateUser(ctx context.Context, id uint) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Invalidate(ctx, userCacheKey(id)); err != nil {
		m.log.Warn("cache invalidate failed", zap.Uint("user_id", id), zap.Error(err))
	}
}

func userCacheKey(id uint) string { return fmt.Sprintf("user:%d", id) }

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
