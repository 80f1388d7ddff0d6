package entity

import "time"

// Estados de User.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User representa un usuario del sistema. Tiene exactamente un rol: Role (clave de rol
// fijo) o CustomRoleID (rol personalizado de su empresa). Los IDs vacíos son NULL.
type User struct {
	ID              string
	CompanyID       string
	ClientCompanyID string
	SiteID          string
	Email           string
	PasswordHash    string // bcrypt hash, nunca plano en dominio después de persistir
	Name            string
	Role            string
	CustomRoleID    string
	Status          string // active, inactive, suspended
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive informa si el usuario puede iniciar sesión.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }
