package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Mantenimiento-api/internal/application/inventory"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and usecase.PMTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ usecase.PMTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run inicia una transacción, ejecuta fn con repos de almacén atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	partRepo repository.SparePartRepository,
	movRepo repository.InventoryMovementRepository,
	woRepo repository.WorkOrderRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewSparePartRepository(q), NewInventoryMovementRepository(q), NewWorkOrderRepository(q))
	})
}

// RunPM inicia una transacción con los repos que usa la generación de OTs preventivas.
func (r *TxRunner) RunPM(ctx context.Context, fn func(
	planRepo repository.PMPlanRepository,
	woRepo repository.WorkOrderRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewPMPlanRepository(q), NewWorkOrderRepository(q), NewSequenceRepository(q))
	})
}
