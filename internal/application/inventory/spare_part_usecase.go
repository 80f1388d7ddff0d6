package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/pkg/textutil"
)

// SparePartUseCase administra el catálogo de repuestos de la empresa.
type SparePartUseCase struct {
	repo    repository.SparePartRepository
	movRepo repository.InventoryMovementRepository
	guard   *access.Guard
}

// NewSparePartUseCase construye el caso de uso.
func NewSparePartUseCase(repo repository.SparePartRepository, movRepo repository.InventoryMovementRepository, guard *access.Guard) *SparePartUseCase {
	return &SparePartUseCase{repo: repo, movRepo: movRepo, guard: guard}
}

// Create registra un repuesto con stock cero. El SKU se normaliza y es único por empresa.
func (uc *SparePartUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateSparePartRequest) (*dto.SparePartResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermInventoryManage)
	if err != nil {
		return nil, err
	}
	companyID, err := scope.CompanyFor(in.CompanyID)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsCompany(companyID) {
		return nil, domain.Forbidden("el almacén es de nivel empresa")
	}
	sku := textutil.NormalizeCode(in.SKU)
	if sku == "" {
		return nil, domain.InvalidInput("SKU requerido", map[string]string{"sku": "required"})
	}
	if in.MinStock.IsNegative() {
		return nil, domain.InvalidInput("el stock mínimo no puede ser negativo", map[string]string{"min_stock": "gte=0"})
	}
	existing, err := uc.repo.GetBySKU(ctx, companyID, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("ya existe un repuesto con el SKU "+sku, domain.ErrDuplicate)
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "UND"
	}
	now := time.Now()
	part := &entity.SparePart{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         sku,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Unit:        unit,
		Location:    strings.TrimSpace(in.Location),
		Stock:       decimal.Zero,
		MinStock:    in.MinStock,
		AverageCost: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, part); err != nil {
		return nil, err
	}
	return toSparePartResponse(part), nil
}

// GetByID obtiene un repuesto del alcance.
func (uc *SparePartUseCase) GetByID(ctx context.Context, id access.Identity, partID string) (*dto.SparePartResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermInventoryView)
	if err != nil {
		return nil, err
	}
	part, err := uc.repo.GetByID(ctx, scope, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.NotFound("repuesto no encontrado")
	}
	return toSparePartResponse(part), nil
}

// List lista repuestos del alcance.
func (uc *SparePartUseCase) List(ctx context.Context, id access.Identity, q dto.SparePartQuery) (*dto.ListResponse[dto.SparePartResponse], error) {
	scope, err := uc.guard.Authorize(id, access.PermInventoryView)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.repo.List(ctx, scope, repository.SparePartFilter{Search: textutil.SearchKey(q.Search), LowStock: q.LowStock}, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SparePartResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toSparePartResponse(p))
	}
	out := dto.NewList(items, q.PageRequest)
	return &out, nil
}

// Movements devuelve el kardex del repuesto, más reciente primero.
func (uc *SparePartUseCase) Movements(ctx context.Context, id access.Identity, partID string, page dto.PageRequest) (*dto.ListResponse[dto.MovementResponse], error) {
	scope, err := uc.guard.Authorize(id, access.PermInventoryView)
	if err != nil {
		return nil, err
	}
	part, err := uc.repo.GetByID(ctx, scope, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.NotFound("repuesto no encontrado")
	}
	page.DefaultPage()
	list, err := uc.movRepo.ListByPart(ctx, part.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	out := dto.NewList(items, page)
	return &out, nil
}

func toSparePartResponse(p *entity.SparePart) *dto.SparePartResponse {
	return &dto.SparePartResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		Location:    p.Location,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		AverageCost: p.AverageCost,
		LowStock:    p.LowStock(),
		UpdatedAt:   p.UpdatedAt,
	}
}
