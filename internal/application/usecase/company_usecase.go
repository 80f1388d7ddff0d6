package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para empresas y su plan de suscripción.
type CompanyUseCase struct {
	repo     repository.CompanyRepository
	planRepo repository.PlanRepository
	guard    *access.Guard
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, planRepo repository.PlanRepository, guard *access.Guard) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, planRepo: planRepo, guard: guard}
}

// Create crea una nueva empresa. Con PlanID activa los módulos del plan. NIT repetido → Conflict.
func (uc *CompanyUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermCompaniesManage)
	if err != nil {
		return nil, err
	}
	if !scope.IsGlobal() {
		return nil, domain.Forbidden("solo un administrador global puede crear empresas")
	}
	nit := strings.TrimSpace(in.NIT)
	existing, err := uc.repo.GetByNIT(ctx, nit)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("ya existe una empresa con ese NIT", domain.ErrDuplicate)
	}
	var plan *entity.SubscriptionPlan
	if in.PlanID != "" {
		if plan, err = uc.activePlan(ctx, in.PlanID); err != nil {
			return nil, err
		}
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		NIT:       nit,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Status:    entity.CompanyStatusActive,
		PlanID:    in.PlanID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	if plan != nil {
		if err := uc.repo.SetModules(ctx, company.ID, plan.Modules, now); err != nil {
			return nil, err
		}
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa visible en el alcance.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id access.Identity, companyID string) (*dto.CompanyResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermCompaniesView)
	if err != nil {
		return nil, err
	}
	company, err := uc.repo.GetByID(ctx, scope, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NotFound("empresa no encontrada")
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación. Un administrador de empresa solo ve la suya.
func (uc *CompanyUseCase) List(ctx context.Context, id access.Identity, page dto.PageRequest) (*dto.ListResponse[dto.CompanyResponse], error) {
	scope, err := uc.guard.Authorize(id, access.PermCompaniesView)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, scope, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	out := dto.NewList(items, page)
	return &out, nil
}

// Update modifica datos y estado de una empresa.
func (uc *CompanyUseCase) Update(ctx context.Context, id access.Identity, companyID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermCompaniesManage)
	if err != nil {
		return nil, err
	}
	company, err := uc.repo.GetByID(ctx, scope, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NotFound("empresa no encontrada")
	}
	if in.Status != nil && *in.Status != company.Status && !scope.IsGlobal() {
		return nil, domain.Forbidden("solo un administrador global cambia el estado de una empresa")
	}
	if in.Name != nil {
		company.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	if in.Email != nil {
		company.Email = *in.Email
	}
	if in.Status != nil {
		company.Status = *in.Status
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// AssignPlan asigna un plan a la empresa y deja activos exactamente sus módulos.
func (uc *CompanyUseCase) AssignPlan(ctx context.Context, id access.Identity, companyID string, in dto.AssignPlanRequest) (*dto.CompanyResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermPlansManage)
	if err != nil {
		return nil, err
	}
	if !scope.IsGlobal() {
		return nil, domain.Forbidden("solo un administrador global asigna planes")
	}
	company, err := uc.repo.GetByID(ctx, scope, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NotFound("empresa no encontrada")
	}
	plan, err := uc.activePlan(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	company.PlanID = plan.ID
	company.UpdatedAt = now
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	if err := uc.repo.SetModules(ctx, company.ID, plan.Modules, now); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

func (uc *CompanyUseCase) activePlan(ctx context.Context, planID string) (*entity.SubscriptionPlan, error) {
	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.NotFound("plan no encontrado")
	}
	if !plan.IsActive {
		return nil, domain.Conflict("el plan no está activo", domain.ErrConflict)
	}
	return plan, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		NIT:       c.NIT,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Status:    c.Status,
		PlanID:    c.PlanID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
