package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// SparePartRepository define el puerto de persistencia para repuestos.
type SparePartRepository interface {
	Create(ctx context.Context, part *entity.SparePart) error
	Update(ctx context.Context, part *entity.SparePart) error
	GetByID(ctx context.Context, scope access.Scope, id string) (*entity.SparePart, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo dentro de una transacción.
	GetForUpdate(ctx context.Context, scope access.Scope, id string) (*entity.SparePart, error)
	GetBySKU(ctx context.Context, companyID, sku string) (*entity.SparePart, error)
	List(ctx context.Context, scope access.Scope, f SparePartFilter, limit, offset int) ([]*entity.SparePart, error)
	CountLowStock(ctx context.Context, scope access.Scope) (int, error)
}

// InventoryMovementRepository define el puerto de persistencia para movimientos de repuestos.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByPart(ctx context.Context, sparePartID string, limit, offset int) ([]*entity.InventoryMovement, error)
	// ListByWorkOrder devuelve los repuestos consumidos por una OT, en orden cronológico.
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]*entity.InventoryMovement, error)
}
