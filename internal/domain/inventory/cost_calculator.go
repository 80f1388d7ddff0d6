// Package inventory contiene las reglas de stock y costo de los repuestos.
package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(4)
}

// Apply aplica un movimiento sobre el repuesto (ya bloqueado con FOR UPDATE) y completa
// los campos calculados del movimiento. No persiste nada.
//   - IN: quantity > 0, recalcula el costo promedio.
//   - OUT: quantity > 0, se guarda con signo negativo; sin stock suficiente → Conflict.
//   - ADJUSTMENT: quantity con signo, distinta de cero; el stock no puede quedar negativo.
func Apply(part *entity.SparePart, mov *entity.InventoryMovement) error {
	q := mov.Quantity
	switch mov.Type {
	case entity.MovementTypeIN:
		if !q.IsPositive() {
			return domain.InvalidInput("la cantidad de entrada debe ser positiva", map[string]string{"quantity": "gt=0"})
		}
		if mov.UnitCost.IsNegative() {
			return domain.InvalidInput("el costo unitario no puede ser negativo", map[string]string{"unit_cost": "gte=0"})
		}
		part.AverageCost = CostCalculator(part.Stock, part.AverageCost, q, mov.UnitCost)
		part.Stock = part.Stock.Add(q)
	case entity.MovementTypeOUT:
		if !q.IsPositive() {
			return domain.InvalidInput("la cantidad de salida debe ser positiva", map[string]string{"quantity": "gt=0"})
		}
		if part.Stock.LessThan(q) {
			return domain.Conflict(
				fmt.Sprintf("stock insuficiente de %s: disponible %s, solicitado %s", part.SKU, part.Stock.String(), q.String()),
				domain.ErrInsufficientStock,
			)
		}
		mov.Quantity = q.Neg()
		mov.UnitCost = part.AverageCost
		part.Stock = part.Stock.Sub(q)
	case entity.MovementTypeADJUSTMENT:
		if q.IsZero() {
			return domain.InvalidInput("el ajuste no puede ser cero", map[string]string{"quantity": "ne=0"})
		}
		next := part.Stock.Add(q)
		if next.IsNegative() {
			return domain.Conflict("el ajuste deja el stock negativo", domain.ErrInsufficientStock)
		}
		mov.UnitCost = part.AverageCost
		part.Stock = next
	default:
		return domain.InvalidInput(fmt.Sprintf("tipo de movimiento desconocido: %s", mov.Type), map[string]string{"type": mov.Type})
	}
	mov.TotalCost = mov.Quantity.Abs().Mul(mov.UnitCost).Round(2)
	mov.StockAfter = part.Stock
	return nil
}
