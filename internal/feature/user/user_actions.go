package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-user-admin-api/internal/core/cache"
	"go-user-admin-api/internal/domain"
	httpez "go-user-admin-api/internal/transport/http/ez"
	mdw "go-user-admin-api/internal/transport/http/middleware"
	"go-user-admin-api/pkg/utils"
)

const userCacheTTL = 5 * time.Minute

// userPayload create/update 共用的入参，全部可选；nil = 没带
type userPayload struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Level    *string `json:"level"`
	Active   *bool   `json:"active"`
}

func (m *Module) mountList(ez httpez.EZ) {
	type listIn struct {
		Limit  int    `form:"limit,default=0"`
		Offset int    `form:"offset,default=0"`
		Q      string `form:"q"`
	}

	httpez.RegisterAction[listIn, []domain.User](ez, m.db, httpez.Action[listIn, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listIn) ([]domain.User, error) {
			users, err := m.repoFor(tx).List(domain.ListFilter{
				Q:      in.Q,
				Limit:  in.Limit,
				Offset: in.Offset,
			})
			if err != nil {
				return nil, httpez.Internal("list users failed", err)
			}
			return users, nil
		},
	})
}

func (m *Module) mountGet(ez httpez.EZ) {
	httpez.RegisterAction[struct{}, domain.User](ez, m.db, httpez.Action[struct{}, domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (domain.User, error) {
			id, ok := pathID(c)
			if !ok {
				return domain.User{}, httpez.NotFound("user not found")
			}

			users := m.repoFor(tx)
			var u *domain.User
			var err error
			if m.cache != nil {
				u, err = cache.GetOrLoadJSON[domain.User](m.cache, c, userCacheKey(id), userCacheTTL,
					func(context.Context) (*domain.User, error) { return users.FindByID(id) })
			} else {
				u, err = users.FindByID(id)
			}
			if err != nil {
				return domain.User{}, httpez.Internal("find user failed", err)
			}
			if u == nil {
				return domain.User{}, httpez.NotFound("user not found")
			}
			return *u, nil
		},
	})
}

func (m *Module) mountCreate(ez httpez.EZ) {
	httpez.RegisterAction[userPayload, domain.User](ez, m.db, httpez.Action[userPayload, domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, tx *gorm.DB, in *userPayload) (domain.User, error) {
			lvl := domain.LevelBasic
			if in.Level != nil {
				parsed, err := domain.ParseLevel(*in.Level)
				if err != nil {
					return domain.User{}, httpez.BadRequest("invalid level")
				}
				lvl = parsed
			}

			u := &domain.User{
				Name:     in.Name,
				Username: in.Username,
				Level:    lvl,
			}
			if in.Active != nil {
				u.Active = *in.Active
			}
			if in.Password != nil && *in.Password != "" {
				u.Password = utils.HashPassword(*in.Password)
			}

			if err := domain.Validate(u); err != nil {
				var ve *domain.ValidationError
				if errors.As(err, &ve) {
					return domain.User{}, httpez.Validation(ve.Fields)
				}
				return domain.User{}, httpez.Internal("validate user failed", err)
			}

			if err := m.repoFor(tx).Create(u); err != nil {
				if errors.Is(err, domain.ErrUsernameTaken) {
					return domain.User{}, httpez.Conflict("username already taken")
				}
				return domain.User{}, httpez.Internal("create user failed", err)
			}
			// 自增 id 可能撞上之前 404 缓存的 "null"，必须清掉
			m.invalidateUser(c, u.ID)
			return *u, nil
		},
	})
}

func (m *Module) mountUpdate(ez httpez.EZ) {
	httpez.RegisterAction[userPayload, domain.User](ez, m.db, httpez.Action[userPayload, domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: httpez.BindJSON,
		UseTx:  true, // 读改写必须原子
		Handler: func(c *gin.Context, tx *gorm.DB, in *userPayload) (domain.User, error) {
			actor := mdw.Identity(c)
			if actor == nil {
				return domain.User{}, httpez.Unauthorized("missing bearer token")
			}

			id, ok := pathID(c)
			if !ok {
				return domain.User{}, httpez.NotFound("user not found")
			}
			users := m.repoFor(tx)
			target, err := users.FindByID(id)
			if err != nil {
				return domain.User{}, httpez.Internal("find user failed", err)
			}
			if target == nil {
				return domain.User{}, httpez.NotFound("user not found")
			}

			patch := domain.UserPatch{
				Name:     in.Name,
				Username: in.Username,
				Level:    in.Level,
				Active:   in.Active,
			}
			if in.Password != nil && *in.Password != "" {
				h := utils.HashPassword(*in.Password)
				patch.PasswordHash = &h
			}

			if err := domain.ApplyUserPatch(actor, target, patch); err != nil {
				switch {
				case errors.Is(err, domain.ErrForbidden):
					return domain.User{}, httpez.Forbidden("access denied")
				case errors.Is(err, domain.ErrInvalidLevel):
					return domain.User{}, httpez.BadRequest("invalid level")
				}
				var ve *domain.ValidationError
				if errors.As(err, &ve) {
					return domain.User{}, httpez.Validation(ve.Fields)
				}
				return domain.User{}, httpez.Internal("apply update failed", err)
			}

			if err := users.Save(target); err != nil {
				if errors.Is(err, domain.ErrUsernameTaken) {
					return domain.User{}, httpez.Conflict("username already taken")
				}
				return domain.User{}, httpez.Internal("save user failed", err)
			}
			m.invalidateUser(c, target.ID)
			return *target, nil
		},
	})
}

func (m *Module) mountDelete(ez httpez.EZ) {
	httpez.RegisterAction[struct{}, struct{}](ez, m.db, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (struct{}, error) {
			id, ok := pathID(c)
			if !ok {
				return struct{}{}, httpez.NotFound("user not found")
			}
			users := m.repoFor(tx)
			if err := users.Delete(id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return struct{}{}, httpez.NotFound("user not found")
				}
				return struct{}{}, httpez.Internal("delete user failed", err)
			}
			m.invalidateUser(c, id)
			return struct{}{}, nil
		},
	})
}
