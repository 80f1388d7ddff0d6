package entity

import "time"

// CustomRole es un rol definido por una empresa con una lista explícita de permisos.
type CustomRole struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
