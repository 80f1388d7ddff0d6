package dto

import "time"

// CreatePMPlanRequest entrada para crear un plan preventivo. Con Frequency=CRON,
// CronExpr es obligatorio (5 campos) e Interval se ignora.
type CreatePMPlanRequest struct {
	AssetID     string    `json:"asset_id" validate:"required,uuid"`
	TemplateID  string    `json:"template_id" validate:"omitempty,uuid"`
	Name        string    `json:"name" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"max=4000"`
	Frequency   string    `json:"frequency" validate:"required,oneof=DIARIA SEMANAL MENSUAL TRIMESTRAL SEMESTRAL ANUAL CRON"`
	Interval    int       `json:"interval" validate:"min=0,max=365"`
	CronExpr    string    `json:"cron_expr" validate:"required_if=Frequency CRON,max=100"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=BAJA MEDIA ALTA CRITICA"`
	LeadDays    int       `json:"lead_days" validate:"min=0,max=90"`
	StartAt     time.Time `json:"start_at" validate:"required"`
}

// UpdatePMPlanRequest entrada para actualizar un plan (campos opcionales). Cambiar la
// recurrencia recalcula la próxima fecha desde la última programada.
type UpdatePMPlanRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	TemplateID  *string `json:"template_id" validate:"omitempty,uuid"`
	Frequency   *string `json:"frequency" validate:"omitempty,oneof=DIARIA SEMANAL MENSUAL TRIMESTRAL SEMESTRAL ANUAL CRON"`
	Interval    *int    `json:"interval" validate:"omitempty,min=1,max=365"`
	CronExpr    *string `json:"cron_expr" validate:"omitempty,max=100"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=BAJA MEDIA ALTA CRITICA"`
	LeadDays    *int    `json:"lead_days" validate:"omitempty,min=0,max=90"`
	IsActive    *bool   `json:"is_active"`
}

// PMPlanQuery filtros de listado.
type PMPlanQuery struct {
	PageRequest
	AssetID    string `query:"asset_id" validate:"omitempty,uuid"`
	ActiveOnly bool   `query:"active"`
}

// PMPlanResponse salida de un plan preventivo.
type PMPlanResponse struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"company_id"`
	ClientCompanyID string     `json:"client_company_id,omitempty"`
	SiteID          string     `json:"site_id,omitempty"`
	AssetID         string     `json:"asset_id"`
	TemplateID      string     `json:"template_id,omitempty"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Frequency       string     `json:"frequency"`
	Interval        int        `json:"interval"`
	CronExpr        string     `json:"cron_expr,omitempty"`
	Priority        string     `json:"priority"`
	LeadDays        int        `json:"lead_days"`
	StartAt         time.Time  `json:"start_at"`
	NextDueAt       time.Time  `json:"next_due_at"`
	LastGeneratedAt *time.Time `json:"last_generated_at,omitempty"`
	IsActive        bool       `json:"is_active"`
}
