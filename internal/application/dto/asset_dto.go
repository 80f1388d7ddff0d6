package dto

import "time"

// CreateAssetRequest entrada para registrar un activo. ClientCompanyID/SiteID vacíos =
// activo propio de la empresa.
type CreateAssetRequest struct {
	CompanyID       string     `json:"company_id" validate:"omitempty,uuid"` // solo roles globales
	ClientCompanyID string     `json:"client_company_id" validate:"omitempty,uuid"`
	SiteID          string     `json:"site_id" validate:"omitempty,uuid"`
	Code            string     `json:"code" validate:"required,min=1,max=50"`
	Name            string     `json:"name" validate:"required,min=1,max=200"`
	Category        string     `json:"category" validate:"max=100"`
	Manufacturer    string     `json:"manufacturer" validate:"max=100"`
	Model           string     `json:"model" validate:"max=100"`
	SerialNumber    string     `json:"serial_number" validate:"max=100"`
	Location        string     `json:"location" validate:"max=200"`
	Criticality     string     `json:"criticality" validate:"omitempty,oneof=BAJA MEDIA ALTA"`
	InstalledAt     *time.Time `json:"installed_at"`
}

// UpdateAssetRequest entrada para actualizar un activo (campos opcionales).
type UpdateAssetRequest struct {
	Name         *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Category     *string    `json:"category" validate:"omitempty,max=100"`
	Manufacturer *string    `json:"manufacturer" validate:"omitempty,max=100"`
	Model        *string    `json:"model" validate:"omitempty,max=100"`
	SerialNumber *string    `json:"serial_number" validate:"omitempty,max=100"`
	Location     *string    `json:"location" validate:"omitempty,max=200"`
	Status       *string    `json:"status" validate:"omitempty,oneof=OPERATIVO EN_MANTENIMIENTO FUERA_DE_SERVICIO DADO_DE_BAJA"`
	Criticality  *string    `json:"criticality" validate:"omitempty,oneof=BAJA MEDIA ALTA"`
	InstalledAt  *time.Time `json:"installed_at"`
}

// AssetQuery filtros de listado (query string).
type AssetQuery struct {
	PageRequest
	SiteID string `query:"site_id" validate:"omitempty,uuid"`
	Status string `query:"status"`
	Search string `query:"q" validate:"max=100"`
}

// AssetResponse salida de un activo.
type AssetResponse struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"company_id"`
	ClientCompanyID string     `json:"client_company_id,omitempty"`
	SiteID          string     `json:"site_id,omitempty"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Manufacturer    string     `json:"manufacturer"`
	Model           string     `json:"model"`
	SerialNumber    string     `json:"serial_number"`
	Location        string     `json:"location"`
	Status          string     `json:"status"`
	Criticality     string     `json:"criticality"`
	InstalledAt     *time.Time `json:"installed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
