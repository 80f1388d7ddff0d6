package entity

import "time"

// Estados de Asset.
const (
	AssetStatusOperational = "OPERATIVO"
	AssetStatusMaintenance = "EN_MANTENIMIENTO"
	AssetStatusOutOfOrder  = "FUERA_DE_SERVICIO"
	AssetStatusRetired     = "DADO_DE_BAJA"
)

// Criticidad de Asset.
const (
	CriticalityLow    = "BAJA"
	CriticalityMedium = "MEDIA"
	CriticalityHigh   = "ALTA"
)

// Asset es un equipo o instalación mantenible, ubicado en una sede de un cliente
// (o en la propia empresa cuando ClientCompanyID está vacío).
type Asset struct {
	ID              string
	CompanyID       string
	ClientCompanyID string
	SiteID          string
	Code            string // normalizado, único por empresa
	Name            string
	Category        string
	Manufacturer    string
	Model           string
	SerialNumber    string
	Location        string
	Status          string
	Criticality     string
	InstalledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
