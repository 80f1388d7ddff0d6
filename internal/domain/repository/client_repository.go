package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para empresas cliente y sedes.
type ClientRepository interface {
	CreateClient(ctx context.Context, client *entity.ClientCompany) error
	GetClient(ctx context.Context, scope access.Scope, id string) (*entity.ClientCompany, error)
	ListClients(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.ClientCompany, error)
	CreateSite(ctx context.Context, site *entity.Site) error
	GetSite(ctx context.Context, scope access.Scope, id string) (*entity.Site, error)
	ListSites(ctx context.Context, scope access.Scope, clientCompanyID string) ([]*entity.Site, error)
}
