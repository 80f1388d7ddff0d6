package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, scope access.Scope, id string) (*entity.User, error)
	// FindByEmail no aplica alcance: lo usa el login antes de existir una sesión.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.User, error)
	CountActiveByCompany(ctx context.Context, companyID string) (int, error)
	CountByCustomRole(ctx context.Context, roleID string) (int, error)
}

// CustomRoleRepository define el puerto de persistencia para roles personalizados.
type CustomRoleRepository interface {
	Create(ctx context.Context, role *entity.CustomRole) error
	// GetByID no aplica alcance: lo usa el resolvedor de sesión; los casos de uso
	// verifican la empresa del rol contra el alcance.
	GetByID(ctx context.Context, id string) (*entity.CustomRole, error)
	Update(ctx context.Context, role *entity.CustomRole) error
	Delete(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.CustomRole, error)
}
