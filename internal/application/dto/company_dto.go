package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	NIT     string `json:"nit" validate:"required,min=1,max=20"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	PlanID  string `json:"plan_id" validate:"omitempty,uuid"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Status  *string `json:"status" validate:"omitempty,oneof=active suspended inactive"`
}

// CompanyResponse salida de una empresa (sin datos sensibles).
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	PlanID    string    `json:"plan_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlanRequest entrada para crear o actualizar un plan de suscripción.
// MaxUsers / MaxAssets en 0 = ilimitado.
type PlanRequest struct {
	Name         string          `json:"name" validate:"required,min=2,max=100"`
	Modules      []string        `json:"modules" validate:"required,min=1,dive,oneof=work_orders assets inventory preventive safety quality attendance"`
	MaxUsers     int             `json:"max_users" validate:"min=0"`
	MaxAssets    int             `json:"max_assets" validate:"min=0"`
	PriceMonthly decimal.Decimal `json:"price_monthly" swaggertype:"string"`
	IsActive     *bool           `json:"is_active"`
}

// PlanResponse salida de un plan.
type PlanResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Modules      []string        `json:"modules"`
	MaxUsers     int             `json:"max_users"`
	MaxAssets    int             `json:"max_assets"`
	PriceMonthly decimal.Decimal `json:"price_monthly" swaggertype:"string"`
	IsActive     bool            `json:"is_active"`
}

// AssignPlanRequest entrada para asignar un plan a una empresa.
type AssignPlanRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

// CreateClientRequest entrada para crear una empresa cliente.
type CreateClientRequest struct {
	CompanyID string `json:"company_id" validate:"omitempty,uuid"` // solo roles globales
	Name      string `json:"name" validate:"required,min=1,max=200"`
	NIT       string `json:"nit" validate:"max=20"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=30"`
}

// ClientResponse salida de una empresa cliente.
type ClientResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSiteRequest entrada para crear una sede de un cliente.
type CreateSiteRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"max=300"`
	City    string `json:"city" validate:"max=100"`
}

// SiteResponse salida de una sede.
type SiteResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	ClientCompanyID string    `json:"client_company_id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	CreatedAt       time.Time `json:"created_at"`
}
