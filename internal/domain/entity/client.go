package entity

import "time"

// ClientCompany es una empresa cliente atendida por la empresa de mantenimiento.
type ClientCompany struct {
	ID        string
	CompanyID string
	Name      string
	NIT       string
	Email     string
	Phone     string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Site es una sede física de una empresa cliente.
type Site struct {
	ID              string
	CompanyID       string
	ClientCompanyID string
	Name            string
	Address         string
	City            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
