package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// WorkOrderRepository define el puerto de persistencia para WorkOrder.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *entity.WorkOrder) error
	Update(ctx context.Context, wo *entity.WorkOrder) error
	GetByID(ctx context.Context, scope access.Scope, id string) (*entity.WorkOrder, error)
	List(ctx context.Context, scope access.Scope, f WorkOrderFilter, limit, offset int) ([]*entity.WorkOrder, error)
	CountByStatus(ctx context.Context, scope access.Scope) (map[string]int, error)
	CountOverdue(ctx context.Context, scope access.Scope, now time.Time) (int, error)
	// ExistsOpenForPlan informa si el plan ya tiene una OT no terminada.
	ExistsOpenForPlan(ctx context.Context, planID string) (bool, error)
}

// WorkOrderTemplateRepository define el puerto de persistencia para plantillas de OT.
// Las plantillas son de nivel empresa; el caso de uso valida el alcance.
type WorkOrderTemplateRepository interface {
	Create(ctx context.Context, tpl *entity.WorkOrderTemplate) error
	GetByID(ctx context.Context, id string) (*entity.WorkOrderTemplate, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.WorkOrderTemplate, error)
	Delete(ctx context.Context, id string) error
}

// SequenceRepository entrega consecutivos por empresa (OT-000001, JSA-000001, ...).
type SequenceRepository interface {
	Next(ctx context.Context, companyID, name string) (int64, error)
}

// PMPlanRepository define el puerto de persistencia para planes preventivos.
type PMPlanRepository interface {
	Create(ctx context.Context, plan *entity.PMPlan) error
	Update(ctx context.Context, plan *entity.PMPlan) error
	GetByID(ctx context.Context, scope access.Scope, id string) (*entity.PMPlan, error)
	List(ctx context.Context, scope access.Scope, f PMPlanFilter, limit, offset int) ([]*entity.PMPlan, error)
	// ListDue devuelve planes activos cuya fecha (menos la anticipación) ya venció.
	// Es una consulta del sistema, sin alcance de usuario.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*entity.PMPlan, error)
}
