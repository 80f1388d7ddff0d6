package access

import "sort"

// RoleKey identifica un rol fijo del sistema.
type RoleKey string

// Roles fijos.
const (
	RoleSuperAdmin          RoleKey = "SUPER_ADMIN"
	RoleAdminGrupo          RoleKey = "ADMIN_GRUPO"
	RoleAdminEmpresa        RoleKey = "ADMIN_EMPRESA"
	RoleSupervisor          RoleKey = "SUPERVISOR"
	RoleTecnico             RoleKey = "TECNICO"
	RoleClienteAdminGeneral RoleKey = "CLIENTE_ADMIN_GENERAL"
	RoleClienteAdminSede    RoleKey = "CLIENTE_ADMIN_SEDE"
	RoleClienteOperario     RoleKey = "CLIENTE_OPERARIO"
)

// FixedRoleKeys devuelve los roles fijos en orden de privilegio descendente.
func FixedRoleKeys() []RoleKey {
	return []RoleKey{
		RoleSuperAdmin, RoleAdminGrupo, RoleAdminEmpresa, RoleSupervisor, RoleTecnico,
		RoleClienteAdminGeneral, RoleClienteAdminSede, RoleClienteOperario,
	}
}

// ParseRoleKey valida una clave de rol fijo.
func ParseRoleKey(s string) (RoleKey, bool) {
	for _, k := range FixedRoleKeys() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// IsClient informa si el rol pertenece a un usuario de empresa cliente.
func (k RoleKey) IsClient() bool {
	return k == RoleClienteAdminGeneral || k == RoleClienteAdminSede || k == RoleClienteOperario
}

// Role es la variante etiquetada Fixed | Custom. Solo este paquete la implementa.
type Role interface {
	isRole()
	// Name devuelve la etiqueta para logs y respuestas; no se usa para autorizar.
	Name() string
}

// FixedRole es un rol del catálogo fijo; sus permisos salen de la Table.
type FixedRole struct {
	Key RoleKey
}

func (FixedRole) isRole() {}

func (r FixedRole) Name() string { return string(r.Key) }

// CustomRole es un rol definido por un tenant con su propia lista de permisos.
// El conjunto se copia al construir y no se expone mutable.
type CustomRole struct {
	ID        string
	Label     string
	CompanyID string
	perms     map[Permission]struct{}
}

func (CustomRole) isRole() {}

func (r CustomRole) Name() string { return r.Label }

// NewCustomRole construye el rol copiando los permisos.
func NewCustomRole(id, label, companyID string, permissionIDs []string) CustomRole {
	set := make(map[Permission]struct{}, len(permissionIDs))
	for _, p := range permissionIDs {
		if p == "" {
			continue
		}
		set[Permission(p)] = struct{}{}
	}
	return CustomRole{ID: id, Label: label, CompanyID: companyID, perms: set}
}

// Has informa si el rol incluye el permiso.
func (r CustomRole) Has(p Permission) bool {
	_, ok := r.perms[p]
	return ok
}

// Permissions devuelve una copia ordenada del conjunto.
func (r CustomRole) Permissions() []Permission {
	out := make([]Permission, 0, len(r.perms))
	for p := range r.perms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
