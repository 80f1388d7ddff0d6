package entity

import "time"

// AttendanceRecord es un registro de entrada/salida de un usuario en una sede.
type AttendanceRecord struct {
	ID              string
	CompanyID       string
	ClientCompanyID string
	SiteID          string
	UserID          string
	CheckInAt       time.Time
	CheckOutAt      *time.Time // nil = entrada abierta
	Latitude        *float64
	Longitude       *float64
	Notes           string
	CreatedAt       time.Time
}

// Open informa si el registro no tiene salida.
func (r *AttendanceRecord) Open() bool { return r.CheckOutAt == nil }
