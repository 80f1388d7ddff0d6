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
	"github.com/jhoicas/Mantenimiento-api/pkg/textutil"
)

// AssetUseCase aplica reglas de negocio para activos.
type AssetUseCase struct {
	repo     repository.AssetRepository
	planRepo repository.PlanRepository
	placer   placer
	guard    *access.Guard
}

// NewAssetUseCase construye el caso de uso.
func NewAssetUseCase(repo repository.AssetRepository, clientRepo repository.ClientRepository, planRepo repository.PlanRepository, guard *access.Guard) *AssetUseCase {
	return &AssetUseCase{repo: repo, planRepo: planRepo, placer: placer{clients: clientRepo}, guard: guard}
}

// Create registra un activo. El código se normaliza y es único por empresa; respeta
// el máximo de activos del plan.
func (uc *AssetUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermAssetsManage)
	if err != nil {
		return nil, err
	}
	t, err := uc.placer.place(ctx, scope, in.CompanyID, in.ClientCompanyID, in.SiteID)
	if err != nil {
		return nil, err
	}
	code := textutil.NormalizeCode(in.Code)
	if code == "" {
		return nil, domain.InvalidInput("código requerido", map[string]string{"code": "required"})
	}
	existing, err := uc.repo.GetByCode(ctx, t.CompanyID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("ya existe un activo con el código "+code, domain.ErrDuplicate)
	}
	if err := uc.checkAssetLimit(ctx, t.CompanyID); err != nil {
		return nil, err
	}
	criticality := in.Criticality
	if criticality == "" {
		criticality = entity.CriticalityMedium
	}
	now := time.Now()
	asset := &entity.Asset{
		ID:              uuid.New().String(),
		CompanyID:       t.CompanyID,
		ClientCompanyID: t.ClientCompanyID,
		SiteID:          t.SiteID,
		Code:            code,
		Name:            strings.TrimSpace(in.Name),
		Category:        strings.TrimSpace(in.Category),
		Manufacturer:    strings.TrimSpace(in.Manufacturer),
		Model:           strings.TrimSpace(in.Model),
		SerialNumber:    strings.TrimSpace(in.SerialNumber),
		Location:        strings.TrimSpace(in.Location),
		Status:          entity.AssetStatusOperational,
		Criticality:     criticality,
		InstalledAt:     in.InstalledAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, asset); err != nil {
		return nil, err
	}
	return toAssetResponse(asset), nil
}

// GetByID obtiene un activo visible en el alcance.
func (uc *AssetUseCase) GetByID(ctx context.Context, id access.Identity, assetID string) (*dto.AssetResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermAssetsView)
	if err != nil {
		return nil, err
	}
	asset, err := uc.repo.GetByID(ctx, scope, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, domain.NotFound("activo no encontrado")
	}
	return toAssetResponse(asset), nil
}

// List lista activos del alcance con filtros opcionales.
func (uc *AssetUseCase) List(ctx context.Context, id access.Identity, q dto.AssetQuery) (*dto.ListResponse[dto.AssetResponse], error) {
	scope, err := uc.guard.Authorize(id, access.PermAssetsView)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	f := repository.AssetFilter{SiteID: q.SiteID, Status: q.Status, Search: textutil.SearchKey(q.Search)}
	list, err := uc.repo.List(ctx, scope, f, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AssetResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAssetResponse(a))
	}
	out := dto.NewList(items, q.PageRequest)
	return &out, nil
}

// Update modifica los datos de un activo del alcance.
func (uc *AssetUseCase) Update(ctx context.Context, id access.Identity, assetID string, in dto.UpdateAssetRequest) (*dto.AssetResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermAssetsManage)
	if err != nil {
		return nil, err
	}
	asset, err := uc.repo.GetByID(ctx, scope, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, domain.NotFound("activo no encontrado")
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&asset.Name, in.Name)
	set(&asset.Category, in.Category)
	set(&asset.Manufacturer, in.Manufacturer)
	set(&asset.Model, in.Model)
	set(&asset.SerialNumber, in.SerialNumber)
	set(&asset.Location, in.Location)
	set(&asset.Criticality, in.Criticality)
	if in.Status != nil {
		if asset.Status == entity.AssetStatusRetired && *in.Status != entity.AssetStatusRetired {
			return nil, domain.Conflict("un activo dado de baja no puede reactivarse", domain.ErrInvalidTransition)
		}
		asset.Status = *in.Status
	}
	if in.InstalledAt != nil {
		asset.InstalledAt = in.InstalledAt
	}
	asset.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, asset); err != nil {
		return nil, err
	}
	return toAssetResponse(asset), nil
}

func (uc *AssetUseCase) checkAssetLimit(ctx context.Context, companyID string) error {
	plan, err := uc.planRepo.GetByCompany(ctx, companyID)
	if err != nil || plan == nil || plan.MaxAssets == 0 {
		return err
	}
	n, err := uc.repo.CountByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if plan.AssetsLimitReached(n) {
		return domain.Conflict("el plan alcanzó el máximo de activos", domain.ErrPlanLimitReached)
	}
	return nil
}

func toAssetResponse(a *entity.Asset) *dto.AssetResponse {
	return &dto.AssetResponse{
		ID:              a.ID,
		CompanyID:       a.CompanyID,
		ClientCompanyID: a.ClientCompanyID,
		SiteID:          a.SiteID,
		Code:            a.Code,
		Name:            a.Name,
		Category:        a.Category,
		Manufacturer:    a.Manufacturer,
		Model:           a.Model,
		SerialNumber:    a.SerialNumber,
		Location:        a.Location,
		Status:          a.Status,
		Criticality:     a.Criticality,
		InstalledAt:     a.InstalledAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
