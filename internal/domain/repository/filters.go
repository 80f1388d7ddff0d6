package repository

import "time"

// AssetFilter filtros opcionales para listar activos.
type AssetFilter struct {
	SiteID string
	Status string
	Search string // código o nombre, sin tildes
}

// WorkOrderFilter filtros opcionales para listar órdenes de trabajo.
type WorkOrderFilter struct {
	Status     string
	Priority   string
	AssetID    string
	AssignedTo string
	SiteID     string
}

// PMPlanFilter filtros opcionales para listar planes preventivos.
type PMPlanFilter struct {
	AssetID    string
	ActiveOnly bool
}

// SparePartFilter filtros opcionales para listar repuestos.
type SparePartFilter struct {
	Search   string
	LowStock bool
}

// DocumentFilter filtros para listar documentos de cumplimiento. Types es obligatorio:
// el caso de uso lo restringe a la familia autorizada.
type DocumentFilter struct {
	Types       []string
	Status      string
	WorkOrderID string
}

// AttendanceFilter filtros opcionales para listar registros de asistencia.
type AttendanceFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
}
