package dto

import "time"

// CreateWorkOrderRequest entrada para crear una orden de trabajo. Con AssetID el
// cliente y la sede se toman del activo.
type CreateWorkOrderRequest struct {
	CompanyID       string     `json:"company_id" validate:"omitempty,uuid"`
	Title           string     `json:"title" validate:"required,min=3,max=200"`
	Description     string     `json:"description" validate:"max=4000"`
	Type            string     `json:"type" validate:"required,oneof=CORRECTIVO PREVENTIVO PREDICTIVO INSPECCION"`
	Priority        string     `json:"priority" validate:"required,oneof=BAJA MEDIA ALTA CRITICA"`
	AssetID         string     `json:"asset_id" validate:"omitempty,uuid"`
	ClientCompanyID string     `json:"client_company_id" validate:"omitempty,uuid"`
	SiteID          string     `json:"site_id" validate:"omitempty,uuid"`
	AssignedTo      string     `json:"assigned_to" validate:"omitempty,uuid"`
	DueAt           *time.Time `json:"due_at"`
	Checklist       []string   `json:"checklist" validate:"omitempty,max=100,dive,min=1,max=300"`
}

// CreateFromTemplateRequest entrada para crear una OT a partir de una plantilla.
type CreateFromTemplateRequest struct {
	TemplateID      string     `json:"template_id" validate:"required,uuid"`
	AssetID         string     `json:"asset_id" validate:"omitempty,uuid"`
	ClientCompanyID string     `json:"client_company_id" validate:"omitempty,uuid"`
	SiteID          string     `json:"site_id" validate:"omitempty,uuid"`
	DueAt           *time.Time `json:"due_at"`
}

// UpdateWorkOrderRequest edición de campos descriptivos.
type UpdateWorkOrderRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=4000"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=BAJA MEDIA ALTA CRITICA"`
	DueAt       *time.Time `json:"due_at"`
}

// TransitionRequest cambio de estado de una OT.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssignRequest asignación de técnico.
type AssignRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// WorkOrderQuery filtros de listado (query string).
type WorkOrderQuery struct {
	PageRequest
	Status     string `query:"status"`
	Priority   string `query:"priority"`
	AssetID    string `query:"asset_id" validate:"omitempty,uuid"`
	AssignedTo string `query:"assigned_to" validate:"omitempty,uuid"`
	SiteID     string `query:"site_id" validate:"omitempty,uuid"`
}

// WorkOrderResponse salida de una orden de trabajo.
type WorkOrderResponse struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"company_id"`
	ClientCompanyID string     `json:"client_company_id,omitempty"`
	SiteID          string     `json:"site_id,omitempty"`
	Code            string     `json:"code"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Type            string     `json:"type"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	AssetID         string     `json:"asset_id,omitempty"`
	AssignedTo      string     `json:"assigned_to,omitempty"`
	PMPlanID        string     `json:"pm_plan_id,omitempty"`
	TemplateID      string     `json:"template_id,omitempty"`
	Checklist       []string   `json:"checklist"`
	Overdue         bool       `json:"overdue"`
	DueAt           *time.Time `json:"due_at,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	CreatedBy       string     `json:"created_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TemplateRequest entrada para crear una plantilla de OT.
type TemplateRequest struct {
	CompanyID        string   `json:"company_id" validate:"omitempty,uuid"`
	Name             string   `json:"name" validate:"required,min=2,max=100"`
	Title            string   `json:"title" validate:"required,min=3,max=200"`
	Description      string   `json:"description" validate:"max=4000"`
	Type             string   `json:"type" validate:"required,oneof=CORRECTIVO PREVENTIVO PREDICTIVO INSPECCION"`
	Priority         string   `json:"priority" validate:"required,oneof=BAJA MEDIA ALTA CRITICA"`
	EstimatedMinutes int      `json:"estimated_minutes" validate:"min=0,max=10080"`
	Checklist        []string `json:"checklist" validate:"omitempty,max=100,dive,min=1,max=300"`
}

// TemplateResponse salida de una plantilla.
type TemplateResponse struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"company_id"`
	Name             string    `json:"name"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Type             string    `json:"type"`
	Priority         string    `json:"priority"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	Checklist        []string  `json:"checklist"`
	CreatedAt        time.Time `json:"created_at"`
}
