package entity

import "time"

// Estados de WorkOrder. Las transiciones válidas viven en domain/maintenance.
const (
	WorkOrderOpen       = "ABIERTA"
	WorkOrderAssigned   = "ASIGNADA"
	WorkOrderInProgress = "EN_PROGRESO"
	WorkOrderOnHold     = "EN_ESPERA"
	WorkOrderCompleted  = "COMPLETADA"
	WorkOrderClosed     = "CERRADA"
	WorkOrderCancelled  = "CANCELADA"
)

// Tipos de WorkOrder.
const (
	WorkOrderTypeCorrective = "CORRECTIVO"
	WorkOrderTypePreventive = "PREVENTIVO"
	WorkOrderTypePredictive = "PREDICTIVO"
	WorkOrderTypeInspection = "INSPECCION"
)

// Prioridades de WorkOrder.
const (
	PriorityLow      = "BAJA"
	PriorityMedium   = "MEDIA"
	PriorityHigh     = "ALTA"
	PriorityCritical = "CRITICA"
)

// WorkOrder es una orden de trabajo de mantenimiento.
type WorkOrder struct {
	ID              string
	CompanyID       string
	ClientCompanyID string
	SiteID          string
	Code            string // OT-000123, consecutivo por empresa
	Title           string
	Description     string
	Type            string
	Priority        string
	Status          string
	AssetID         string
	AssignedTo      string
	PMPlanID        string
	TemplateID      string
	Checklist       []string
	DueAt           *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	ClosedAt        *time.Time
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WorkOrderTemplate es una plantilla reutilizable de orden de trabajo (nivel empresa).
type WorkOrderTemplate struct {
	ID               string
	CompanyID        string
	Name             string
	Title            string
	Description      string
	Type             string
	Priority         string
	EstimatedMinutes int
	Checklist        []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
