package dto

import "time"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Cada bloque aparece solo si la sesión tiene el permiso de consulta del módulo; todos
// los conteos respetan el alcance de la sesión.
type DashboardSummaryDTO struct {
	WorkOrdersByStatus map[string]int `json:"work_orders_by_status,omitempty"`
	OverdueWorkOrders  *int           `json:"overdue_work_orders,omitempty"`
	AssetsByStatus     map[string]int `json:"assets_by_status,omitempty"`
	LowStockParts      *int           `json:"low_stock_parts,omitempty"`
	Period             string         `json:"period"` // ej: "Octubre 2026"
	GeneratedAt        time.Time      `json:"generated_at"`
}
