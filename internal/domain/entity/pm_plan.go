package entity

import "time"

// Frecuencias de PMPlan.
const (
	FrequencyDaily      = "DIARIA"
	FrequencyWeekly     = "SEMANAL"
	FrequencyMonthly    = "MENSUAL"
	FrequencyQuarterly  = "TRIMESTRAL"
	FrequencySemiannual = "SEMESTRAL"
	FrequencyAnnual     = "ANUAL"
	FrequencyCron       = "CRON"
)

// PMPlan es un plan de mantenimiento preventivo sobre un activo. Cuando NextDueAt
// vence, el programador genera una orden de trabajo y avanza NextDueAt.
type PMPlan struct {
	ID              string
	CompanyID       string
	ClientCompanyID string
	SiteID          string
	AssetID         string
	TemplateID      string // opcional
	Name            string
	Description     string
	Frequency       string
	Interval        int    // cada N unidades de Frequency (>= 1)
	CronExpr        string // solo con Frequency = CRON
	Priority        string
	LeadDays        int // días de anticipación con que se genera la OT
	StartAt         time.Time
	NextDueAt       time.Time
	LastGeneratedAt *time.Time
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
