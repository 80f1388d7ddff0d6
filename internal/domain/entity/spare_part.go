package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SparePart es un repuesto o consumible del almacén de la empresa.
// AverageCost es promedio ponderado calculado desde los movimientos de entrada.
type SparePart struct {
	ID          string
	CompanyID   string
	SKU         string // código normalizado, único por empresa
	Name        string
	Description string
	Unit        string
	Location    string
	Stock       decimal.Decimal
	MinStock    decimal.Decimal
	AverageCost decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowStock informa si el stock está en o por debajo del mínimo.
func (p *SparePart) LowStock() bool {
	return p.MinStock.IsPositive() && p.Stock.LessThanOrEqual(p.MinStock)
}
