package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// maxSuggestions limita la lista de reposición.
const maxSuggestions = 500

// ReplenishmentUseCase genera la lista de reposición de repuestos del almacén.
type ReplenishmentUseCase struct {
	repo  repository.SparePartRepository
	guard *access.Guard
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repo repository.SparePartRepository, guard *access.Guard) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repo: repo, guard: guard}
}

// GenerateReplenishmentList devuelve los repuestos en o bajo su stock mínimo con la
// cantidad sugerida para llegar al doble del mínimo. Prioriza el menor stock relativo
// al mínimo y, a igualdad, el pedido más costoso.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, id access.Identity) ([]dto.ReplenishmentSuggestionDTO, error) {
	scope, err := uc.guard.Authorize(id, access.PermInventoryView)
	if err != nil {
		return nil, err
	}
	parts, err := uc.repo.List(ctx, scope, repository.SparePartFilter{LowStock: true}, maxSuggestions, 0)
	if err != nil {
		return nil, err
	}
	two := decimal.NewFromInt(2)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(parts))
	ratio := make(map[string]decimal.Decimal, len(parts))
	for _, p := range parts {
		if !p.LowStock() {
			continue
		}
		ideal := p.MinStock.Mul(two)
		qty := ideal.Sub(p.Stock)
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		ratio[p.ID] = p.Stock.Div(p.MinStock)
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			SparePartID:        p.ID,
			SKU:                p.SKU,
			Name:               p.Name,
			CurrentStock:       p.Stock,
			MinStock:           p.MinStock,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.AverageCost,
			EstimatedOrderCost: qty.Mul(p.AverageCost).Round(2),
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra, rb := ratio[a.SparePartID], ratio[b.SparePartID]
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
