package auth

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// RoleCache es una caché de lectura de roles personalizados con vencimiento. Las
// entradas son inmutables; actualizar o borrar un rol debe llamar Invalidate.
type RoleCache struct {
	repo  repository.CustomRoleRepository
	cache *lru.LRU[string, access.CustomRole]
}

// NewRoleCache construye la caché. size <= 0 usa 256 entradas; ttl <= 0 usa 1 minuto.
func NewRoleCache(repo repository.CustomRoleRepository, size int, ttl time.Duration) *RoleCache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RoleCache{
		repo:  repo,
		cache: lru.NewLRU[string, access.CustomRole](size, nil, ttl),
	}
}

// Get devuelve el rol; ok es false si no existe.
func (c *RoleCache) Get(ctx context.Context, id string) (access.CustomRole, bool, error) {
	if r, ok := c.cache.Get(id); ok {
		return r, true, nil
	}
	row, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return access.CustomRole{}, false, err
	}
	if row == nil {
		return access.CustomRole{}, false, nil
	}
	r := access.NewCustomRole(row.ID, row.Name, row.CompanyID, row.Permissions)
	c.cache.Add(id, r)
	return r, true, nil
}

// Invalidate descarta el rol de la caché.
func (c *RoleCache) Invalidate(id string) {
	c.cache.Remove(id)
}
