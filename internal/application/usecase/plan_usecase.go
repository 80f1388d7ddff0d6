package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// PlanUseCase administra los planes de suscripción del SaaS.
type PlanUseCase struct {
	repo  repository.PlanRepository
	guard *access.Guard
}

// NewPlanUseCase construye el caso de uso.
func NewPlanUseCase(repo repository.PlanRepository, guard *access.Guard) *PlanUseCase {
	return &PlanUseCase{repo: repo, guard: guard}
}

// List devuelve todos los planes.
func (uc *PlanUseCase) List(ctx context.Context, id access.Identity) ([]dto.PlanResponse, error) {
	if err := uc.guard.Require(id, access.PermPlansView, access.PermPlansManage); err != nil {
		return nil, err
	}
	plans, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	return out, nil
}

// requirePlatform exige plans.manage desde un alcance global: un rol de empresa con
// ese permiso no modifica planes compartidos por todas las empresas.
func (uc *PlanUseCase) requirePlatform(id access.Identity) error {
	scope, err := uc.guard.Authorize(id, access.PermPlansManage)
	if err != nil {
		return err
	}
	if !scope.IsGlobal() {
		return domain.Forbidden("los planes son de nivel plataforma")
	}
	return nil
}

// Create registra un plan nuevo.
func (uc *PlanUseCase) Create(ctx context.Context, id access.Identity, in dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := uc.requirePlatform(id); err != nil {
		return nil, err
	}
	modules, err := normalizeModules(in.Modules)
	if err != nil {
		return nil, err
	}
	if in.PriceMonthly.IsNegative() {
		return nil, domain.InvalidInput("el precio no puede ser negativo", map[string]string{"price_monthly": "gte=0"})
	}
	now := time.Now()
	plan := &entity.SubscriptionPlan{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Modules:      modules,
		MaxUsers:     in.MaxUsers,
		MaxAssets:    in.MaxAssets,
		PriceMonthly: in.PriceMonthly,
		IsActive:     in.IsActive == nil || *in.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, plan); err != nil {
		return nil, err
	}
	out := toPlanResponse(plan)
	return &out, nil
}

// Update reemplaza la definición de un plan. Las empresas ya asignadas conservan sus
// módulos hasta que se les reasigne el plan.
func (uc *PlanUseCase) Update(ctx context.Context, id access.Identity, planID string, in dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := uc.requirePlatform(id); err != nil {
		return nil, err
	}
	plan, err := uc.repo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.NotFound("plan no encontrado")
	}
	modules, err := normalizeModules(in.Modules)
	if err != nil {
		return nil, err
	}
	if in.PriceMonthly.IsNegative() {
		return nil, domain.InvalidInput("el precio no puede ser negativo", map[string]string{"price_monthly": "gte=0"})
	}
	plan.Name = strings.TrimSpace(in.Name)
	plan.Modules = modules
	plan.MaxUsers = in.MaxUsers
	plan.MaxAssets = in.MaxAssets
	plan.PriceMonthly = in.PriceMonthly
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	plan.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, plan); err != nil {
		return nil, err
	}
	out := toPlanResponse(plan)
	return &out, nil
}

// normalizeModules valida los nombres y elimina duplicados conservando el orden.
func normalizeModules(in []string) ([]string, error) {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = strings.TrimSpace(m)
		if !entity.IsModule(m) {
			return nil, domain.InvalidInput(fmt.Sprintf("módulo desconocido: %s", m), map[string]string{"modules": m})
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, domain.InvalidInput("el plan debe incluir al menos un módulo", map[string]string{"modules": "min=1"})
	}
	return out, nil
}

func toPlanResponse(p *entity.SubscriptionPlan) dto.PlanResponse {
	return dto.PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		Modules:      p.Modules,
		MaxUsers:     p.MaxUsers,
		MaxAssets:    p.MaxAssets,
		PriceMonthly: p.PriceMonthly,
		IsActive:     p.IsActive,
	}
}
