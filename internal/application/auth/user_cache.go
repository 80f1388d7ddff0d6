package auth

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/pkg/jwt"
)

// UserState es lo que el token afirma de un usuario, leído de la base.
type UserState struct {
	Active          bool
	Role            string
	CustomRoleID    string
	CompanyID       string
	ClientCompanyID string
	SiteID          string
}

func stateOf(u *entity.User) UserState {
	return UserState{
		Active:          u.IsActive(),
		Role:            u.Role,
		CustomRoleID:    u.CustomRoleID,
		CompanyID:       u.CompanyID,
		ClientCompanyID: u.ClientCompanyID,
		SiteID:          u.SiteID,
	}
}

// Matches informa si la sesión sigue describiendo al usuario.
func (s UserState) Matches(sess jwt.Session) bool {
	return s.Role == sess.Role &&
		s.CustomRoleID == sess.CustomRoleID &&
		s.CompanyID == sess.CompanyID &&
		s.ClientCompanyID == sess.ClientCompanyID &&
		s.SiteID == sess.SiteID
}

// UserCache es una caché de lectura del estado de los usuarios con vencimiento. Editar
// un usuario debe llamar Invalidate; sin eso el cambio se ve al vencer la entrada.
type UserCache struct {
	repo  repository.UserRepository
	cache *lru.LRU[string, UserState]
}

// NewUserCache construye la caché. size <= 0 usa 1024 entradas; ttl <= 0 usa 1 minuto.
func NewUserCache(repo repository.UserRepository, size int, ttl time.Duration) *UserCache {
	if size <= 0 {
		size = 1024
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &UserCache{
		repo:  repo,
		cache: lru.NewLRU[string, UserState](size, nil, ttl),
	}
}

// Get devuelve el estado del usuario; ok es false si no existe. Los ausentes no se
// guardan.
func (c *UserCache) Get(ctx context.Context, id string) (UserState, bool, error) {
	if s, ok := c.cache.Get(id); ok {
		return s, true, nil
	}
	u, err := c.repo.GetByID(ctx, access.GlobalScope(), id)
	if err != nil {
		return UserState{}, false, err
	}
	if u == nil {
		return UserState{}, false, nil
	}
	s := stateOf(u)
	c.cache.Add(id, s)
	return s, true, nil
}

// Invalidate descarta el usuario de la caché.
func (c *UserCache) Invalidate(id string) {
	c.cache.Remove(id)
}
