package entity

import "time"

// Estados de Company.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// Company representa una empresa prestadora de mantenimiento (tenant del SaaS).
type Company struct {
	ID        string
	Name      string
	NIT       string // NIT colombiano (con o sin dígito de verificación)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	PlanID    string // "" = sin plan asignado
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleWorkOrders = "work_orders"
	ModuleAssets     = "assets"
	ModuleInventory  = "inventory"
	ModulePreventive = "preventive"
	ModuleSafety     = "safety"
	ModuleQuality    = "quality"
	ModuleAttendance = "attendance"
)

// Modules devuelve todos los módulos en orden estable.
func Modules() []string {
	return []string{
		ModuleWorkOrders, ModuleAssets, ModuleInventory, ModulePreventive,
		ModuleSafety, ModuleQuality, ModuleAttendance,
	}
}

// IsModule informa si el nombre corresponde a un módulo conocido.
func IsModule(name string) bool {
	for _, m := range Modules() {
		if m == name {
			return true
		}
	}
	return false
}

// CompanyModule representa la activación de un módulo SaaS en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
