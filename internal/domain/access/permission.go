// Package access concentra la autorización multi-tenant: roles, tabla de permisos,
// verificación de permisos y cálculo del alcance (tenant) de cada petición.
//
// Todo el paquete es puro: no hace I/O y es seguro para uso concurrente porque la
// tabla de permisos es inmutable después de construirse.
package access

import "strings"

// Permission es una clave "recurso.acción" (ej. work_orders.view).
type Permission string

// Catálogo de permisos. Las claves son únicas en toda la aplicación.
const (
	PermDashboardView Permission = "dashboard.view"

	PermWorkOrdersView            Permission = "work_orders.view"
	PermWorkOrdersCreate          Permission = "work_orders.create"
	PermWorkOrdersUpdate          Permission = "work_orders.update"
	PermWorkOrdersAssign          Permission = "work_orders.assign"
	PermWorkOrdersClose           Permission = "work_orders.close"
	PermWorkOrdersManageTemplates Permission = "work_orders.manage_templates"

	PermAssetsView   Permission = "assets.view"
	PermAssetsManage Permission = "assets.manage"

	PermInventoryView   Permission = "inventory.view"
	PermInventoryManage Permission = "inventory.manage"

	PermPreventiveView   Permission = "preventive.view"
	PermPreventiveManage Permission = "preventive.manage"

	PermSafetyView    Permission = "safety.view"
	PermSafetyManage  Permission = "safety.manage"
	PermSafetyApprove Permission = "safety.approve"

	PermQualityView    Permission = "quality.view"
	PermQualityManage  Permission = "quality.manage"
	PermQualityApprove Permission = "quality.approve"

	PermAttendanceView     Permission = "attendance.view"
	PermAttendanceRegister Permission = "attendance.register"

	PermClientsView   Permission = "clients.view"
	PermClientsManage Permission = "clients.manage"

	PermUsersView   Permission = "users.view"
	PermUsersManage Permission = "users.manage"
	PermRolesManage Permission = "roles.manage"

	PermCompaniesView   Permission = "companies.view"
	PermCompaniesManage Permission = "companies.manage"
	PermPlansView       Permission = "plans.view"
	PermPlansManage     Permission = "plans.manage"
)

// Catalog devuelve todas las claves de permiso conocidas, en orden estable.
func Catalog() []Permission {
	return []Permission{
		PermDashboardView,
		PermWorkOrdersView, PermWorkOrdersCreate, PermWorkOrdersUpdate,
		PermWorkOrdersAssign, PermWorkOrdersClose, PermWorkOrdersManageTemplates,
		PermAssetsView, PermAssetsManage,
		PermInventoryView, PermInventoryManage,
		PermPreventiveView, PermPreventiveManage,
		PermSafetyView, PermSafetyManage, PermSafetyApprove,
		PermQualityView, PermQualityManage, PermQualityApprove,
		PermAttendanceView, PermAttendanceRegister,
		PermClientsView, PermClientsManage,
		PermUsersView, PermUsersManage, PermRolesManage,
		PermCompaniesView, PermCompaniesManage,
		PermPlansView, PermPlansManage,
	}
}

// Platform informa si el permiso administra datos de toda la plataforma (planes y
// empresas). Solo un alcance global puede ejercerlo o delegarlo.
func (p Permission) Platform() bool {
	return p == PermCompaniesManage || p == PermPlansManage
}

// Resource devuelve la parte "recurso" de la clave (antes del último punto).
func (p Permission) Resource() string {
	s := string(p)
	if i := strings.LastIndexByte(s, '.'); i > 0 {
		return s[:i]
	}
	return ""
}

// Valid informa si la clave tiene la forma recurso.acción.
func (p Permission) Valid() bool {
	s := string(p)
	i := strings.LastIndexByte(s, '.')
	return i > 0 && i < len(s)-1 && !strings.ContainsAny(s, " \t\n")
}
