package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. Los Get devuelven (nil, nil) si no hay fila
// visible dentro del alcance.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, scope access.Scope, id string) (*entity.Company, error)
	GetByNIT(ctx context.Context, nit string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.Company, error)
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
	// SetModules activa los módulos indicados y desactiva el resto.
	SetModules(ctx context.Context, companyID string, modules []string, at time.Time) error
}

// PlanRepository define el puerto de persistencia para SubscriptionPlan.
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.SubscriptionPlan) error
	GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error)
	Update(ctx context.Context, plan *entity.SubscriptionPlan) error
	List(ctx context.Context) ([]*entity.SubscriptionPlan, error)
	// GetByCompany devuelve el plan asignado a la empresa o (nil, nil).
	GetByCompany(ctx context.Context, companyID string) (*entity.SubscriptionPlan, error)
}
