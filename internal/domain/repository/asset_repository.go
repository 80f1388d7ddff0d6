package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// AssetRepository define el puerto de persistencia para Asset.
type AssetRepository interface {
	Create(ctx context.Context, asset *entity.Asset) error
	Update(ctx context.Context, asset *entity.Asset) error
	GetByID(ctx context.Context, scope access.Scope, id string) (*entity.Asset, error)
	GetByCode(ctx context.Context, companyID, code string) (*entity.Asset, error)
	List(ctx context.Context, scope access.Scope, f AssetFilter, limit, offset int) ([]*entity.Asset, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	CountByStatus(ctx context.Context, scope access.Scope) (map[string]int, error)
}
