package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de repuesto.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, company_id, spare_part_id, work_order_id, type, quantity, unit_cost,
		                                 total_cost, stock_after, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.SparePartID, nullable(m.WorkOrderID), m.Type, m.Quantity, m.UnitCost,
		m.TotalCost, m.StockAfter, m.Reason, nullable(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return writeErr("create inventory movement", err, "movimiento duplicado")
	}
	return nil
}

// ListByPart lista el kardex de un repuesto, más reciente primero.
func (r *InventoryMovementRepo) ListByPart(ctx context.Context, sparePartID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, company_id, spare_part_id, COALESCE(work_order_id::text, ''), type, quantity, unit_cost,
		       total_cost, stock_after, reason, COALESCE(created_by::text, ''), created_at
		FROM inventory_movements
		WHERE spare_part_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	return r.scan(r.q.Query(ctx, query, sparePartID, limit, offset))
}

// ListByWorkOrder lista los movimientos asociados a una OT.
func (r *InventoryMovementRepo) ListByWorkOrder(ctx context.Context, workOrderID string) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, company_id, spare_part_id, COALESCE(work_order_id::text, ''), type, quantity, unit_cost,
		       total_cost, stock_after, reason, COALESCE(created_by::text, ''), created_at
		FROM inventory_movements
		WHERE work_order_id = $1
		ORDER BY created_at`
	return r.scan(r.q.Query(ctx, query, workOrderID))
}

func (r *InventoryMovementRepo) scan(rows pgx.Rows, err error) ([]*entity.InventoryMovement, error) {
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.SparePartID, &m.WorkOrderID, &m.Type, &m.Quantity, &m.UnitCost,
			&m.TotalCost, &m.StockAfter, &m.Reason, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
