// Package analytics contiene los casos de uso del tablero operativo.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen operativo de la sesión.
//
// Fuente de datos: conteos read-only de los repositorios de OT, activos y repuestos.
// Cada bloque se calcula solo si la sesión tiene el permiso de consulta del módulo.
type DashboardUseCase struct {
	workOrders repository.WorkOrderRepository
	assets     repository.AssetRepository
	parts      repository.SparePartRepository
	guard      *access.Guard
	now        func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	workOrders repository.WorkOrderRepository,
	assets repository.AssetRepository,
	parts repository.SparePartRepository,
	guard *access.Guard,
) *DashboardUseCase {
	return &DashboardUseCase{workOrders: workOrders, assets: assets, parts: parts, guard: guard, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO dentro del alcance de la sesión.
//
// Hasta cuatro consultas en paralelo:
//  1. CountByStatus(OT)  → WorkOrdersByStatus   (work_orders.view)
//  2. CountOverdue       → OverdueWorkOrders    (work_orders.view)
//  3. CountByStatus(act) → AssetsByStatus       (assets.view)
//  4. CountLowStock      → LowStockParts        (inventory.view)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, id access.Identity) (*dto.DashboardSummaryDTO, error) {
	scope, err := uc.guard.Authorize(id, access.PermDashboardView)
	if err != nil {
		return nil, err
	}
	table := uc.guard.Table()
	now := uc.now()
	out := &dto.DashboardSummaryDTO{GeneratedAt: now, Period: monthLabel(now)}

	eg, ctx := errgroup.WithContext(ctx)
	if table.HasPermission(id, access.PermWorkOrdersView) {
		eg.Go(func() error {
			counts, err := uc.workOrders.CountByStatus(ctx, scope)
			if err != nil {
				return fmt.Errorf("dashboard: OT por estado: %w", err)
			}
			out.WorkOrdersByStatus = withZeros(counts, workOrderStatuses)
			return nil
		})
		eg.Go(func() error {
			n, err := uc.workOrders.CountOverdue(ctx, scope, now)
			if err != nil {
				return fmt.Errorf("dashboard: OT vencidas: %w", err)
			}
			out.OverdueWorkOrders = &n
			return nil
		})
	}
	if table.HasPermission(id, access.PermAssetsView) {
		eg.Go(func() error {
			counts, err := uc.assets.CountByStatus(ctx, scope)
			if err != nil {
				return fmt.Errorf("dashboard: activos por estado: %w", err)
			}
			out.AssetsByStatus = withZeros(counts, assetStatuses)
			return nil
		})
	}
	if table.HasPermission(id, access.PermInventoryView) {
		eg.Go(func() error {
			n, err := uc.parts.CountLowStock(ctx, scope)
			if err != nil {
				return fmt.Errorf("dashboard: repuestos bajo mínimo: %w", err)
			}
			out.LowStockParts = &n
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

var (
	workOrderStatuses = []string{
		entity.WorkOrderOpen, entity.WorkOrderAssigned, entity.WorkOrderInProgress,
		entity.WorkOrderOnHold, entity.WorkOrderCompleted, entity.WorkOrderClosed,
		entity.WorkOrderCancelled,
	}
	assetStatuses = []string{
		entity.AssetStatusOperational, entity.AssetStatusMaintenance,
		entity.AssetStatusOutOfOrder, entity.AssetStatusRetired,
	}
)

// withZeros completa con cero los estados sin filas; un bloque autorizado nunca queda vacío.
func withZeros(counts map[string]int, statuses []string) map[string]int {
	out := make(map[string]int, len(statuses))
	for _, s := range statuses {
		out[s] = 0
	}
	for s, n := range counts {
		out[s] = n
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
