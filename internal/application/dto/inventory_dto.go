package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSparePartRequest entrada para registrar un repuesto.
type CreateSparePartRequest struct {
	CompanyID   string          `json:"company_id" validate:"omitempty,uuid"` // solo roles globales
	SKU         string          `json:"sku" validate:"required,min=1,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Unit        string          `json:"unit" validate:"omitempty,max=20"`
	Location    string          `json:"location" validate:"max=100"`
	MinStock    decimal.Decimal `json:"min_stock" swaggertype:"string"`
}

// SparePartQuery filtros de listado.
type SparePartQuery struct {
	PageRequest
	Search   string `query:"q" validate:"max=100"`
	LowStock bool   `query:"low_stock"`
}

// SparePartResponse salida de un repuesto.
type SparePartResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Location    string          `json:"location"`
	Stock       decimal.Decimal `json:"stock" swaggertype:"string"`
	MinStock    decimal.Decimal `json:"min_stock" swaggertype:"string"`
	AverageCost decimal.Decimal `json:"average_cost" swaggertype:"string"`
	LowStock    bool            `json:"low_stock"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
// IN exige UnitCost; OUT admite WorkOrderID; ADJUSTMENT lleva cantidad con signo.
type RegisterMovementRequest struct {
	SparePartID string           `json:"spare_part_id" validate:"required,uuid"`
	Type        string           `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity    decimal.Decimal  `json:"quantity" swaggertype:"string"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty" swaggertype:"string"`
	WorkOrderID string           `json:"work_order_id,omitempty" validate:"omitempty,uuid"`
	Reason      string           `json:"reason" validate:"max=500"`
}

// MovementResponse salida de un movimiento (kardex).
type MovementResponse struct {
	ID          string          `json:"id"`
	SparePartID string          `json:"spare_part_id"`
	WorkOrderID string          `json:"work_order_id,omitempty"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitCost    decimal.Decimal `json:"unit_cost" swaggertype:"string"`
	TotalCost   decimal.Decimal `json:"total_cost" swaggertype:"string"`
	StockAfter  decimal.Decimal `json:"stock_after" swaggertype:"string"`
	Reason      string          `json:"reason,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un repuesto
// que se encuentra en o por debajo de su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	SparePartID        string          `json:"spare_part_id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	CurrentStock       decimal.Decimal `json:"current_stock" swaggertype:"string"`
	MinStock           decimal.Decimal `json:"min_stock" swaggertype:"string"`
	IdealStock         decimal.Decimal `json:"ideal_stock" swaggertype:"string"`          // MinStock * 2
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty" swaggertype:"string"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost" swaggertype:"string"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost" swaggertype:"string"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`                                  // 1 = más urgente
}
