package dto

import "time"

// CheckInRequest entrada de asistencia. SiteID indica la sede del cliente donde se
// registra; los usuarios de cliente siempre marcan en su propia sede.
type CheckInRequest struct {
	SiteID    string   `json:"site_id" validate:"omitempty,uuid"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	Notes     string   `json:"notes" validate:"max=500"`
}

// CheckOutRequest salida de asistencia.
type CheckOutRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// AttendanceQuery filtros de listado.
type AttendanceQuery struct {
	PageRequest
	UserID string     `query:"user_id" validate:"omitempty,uuid"`
	From   *time.Time `query:"-"` // RFC 3339 o AAAA-MM-DD; lo interpreta el handler
	To     *time.Time `query:"-"`
}

// AttendanceResponse salida de un registro de asistencia.
type AttendanceResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	CompanyID       string     `json:"company_id"`
	ClientCompanyID string     `json:"client_company_id,omitempty"`
	SiteID          string     `json:"site_id,omitempty"`
	CheckInAt       time.Time  `json:"check_in_at"`
	CheckOutAt      *time.Time `json:"check_out_at,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	WorkedMinutes   int        `json:"worked_minutes,omitempty"`
}
