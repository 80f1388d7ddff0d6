package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de repuestos.
const (
	MovementTypeIN         = "IN"         // entrada (compra, devolución)
	MovementTypeOUT        = "OUT"        // salida (consumo, opcionalmente contra una OT)
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste por conteo físico (cantidad con signo)
)

// InventoryMovement representa un movimiento de stock de un repuesto.
type InventoryMovement struct {
	ID          string
	CompanyID   string
	SparePartID string
	WorkOrderID string // "" = sin OT asociada
	Type        string
	Quantity    decimal.Decimal // positivo entrada/ajuste+, negativo salida/ajuste-
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	StockAfter  decimal.Decimal
	Reason      string
	CreatedBy   string
	CreatedAt   time.Time
}
