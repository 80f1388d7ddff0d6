package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// Exactamente uno de Role o CustomRoleID. CompanyID solo lo usan los roles globales.
type CreateUserRequest struct {
	CompanyID       string `json:"company_id" validate:"omitempty,uuid"`
	ClientCompanyID string `json:"client_company_id" validate:"omitempty,uuid"`
	SiteID          string `json:"site_id" validate:"omitempty,uuid"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Name            string `json:"name" validate:"required,min=1,max=200"`
	Role            string `json:"role" validate:"required_without=CustomRoleID,excluded_with=CustomRoleID"`
	CustomRoleID    string `json:"custom_role_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest entrada para actualizar un usuario (campos opcionales).
type UpdateUserRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role            *string `json:"role"`
	CustomRoleID    *string `json:"custom_role_id" validate:"omitempty,uuid"`
	ClientCompanyID *string `json:"client_company_id" validate:"omitempty,uuid"`
	SiteID          *string `json:"site_id" validate:"omitempty,uuid"`
	Status          *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id,omitempty"`
	ClientCompanyID string    `json:"client_company_id,omitempty"`
	SiteID          string    `json:"site_id,omitempty"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Role            string    `json:"role,omitempty"`
	CustomRoleID    string    `json:"custom_role_id,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MeResponse identidad de la sesión actual con su alcance y permisos efectivos.
type MeResponse struct {
	UserID          string   `json:"user_id"`
	Role            string   `json:"role"`
	Custom          bool     `json:"custom_role"`
	CompanyID       string   `json:"company_id,omitempty"`
	ClientCompanyID string   `json:"client_company_id,omitempty"`
	SiteID          string   `json:"site_id,omitempty"`
	Scope           string   `json:"scope"`
	Permissions     []string `json:"permissions"`
}

// NavItemResponse entrada de navegación visible para la sesión.
type NavItemResponse struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Path       string `json:"path"`
	Permission string `json:"permission"`
}

// CustomRoleRequest entrada para crear o actualizar un rol personalizado.
type CustomRoleRequest struct {
	CompanyID   string   `json:"company_id" validate:"omitempty,uuid"` // solo roles globales al crear
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Permissions []string `json:"permissions" validate:"required,min=1,dive,required"`
}

// CustomRoleResponse salida de un rol personalizado.
type CustomRoleResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
