package access

import (
	"fmt"
	"sort"
)

// Table es la tabla rol fijo → permisos. Se construye una vez al arrancar y es de
// solo lectura; por eso puede compartirse entre goroutines sin bloqueo.
type Table struct {
	known  map[Permission]struct{}
	grants map[RoleKey]map[Permission]struct{}
	all    map[RoleKey]bool
}

// TableSpec describe la tabla a construir. AllPermissions marca los roles que
// satisfacen cualquier permiso del catálogo.
type TableSpec struct {
	Catalog        []Permission
	Grants         map[RoleKey][]Permission
	AllPermissions []RoleKey
}

// NewTable valida la especificación y copia sus datos. Rechaza permisos mal formados,
// duplicados en el catálogo y concesiones de permisos que no están en el catálogo.
func NewTable(spec TableSpec) (*Table, error) {
	t := &Table{
		known:  make(map[Permission]struct{}, len(spec.Catalog)),
		grants: make(map[RoleKey]map[Permission]struct{}, len(spec.Grants)),
		all:    make(map[RoleKey]bool, len(spec.AllPermissions)),
	}
	for _, p := range spec.Catalog {
		if !p.Valid() {
			return nil, fmt.Errorf("access: permiso mal formado %q", p)
		}
		if _, dup := t.known[p]; dup {
			return nil, fmt.Errorf("access: permiso duplicado %q", p)
		}
		t.known[p] = struct{}{}
	}
	for role, perms := range spec.Grants {
		if _, ok := ParseRoleKey(string(role)); !ok {
			return nil, fmt.Errorf("access: rol desconocido %q", role)
		}
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			if _, ok := t.known[p]; !ok {
				return nil, fmt.Errorf("access: el rol %s recibe un permiso fuera del catálogo %q", role, p)
			}
			set[p] = struct{}{}
		}
		t.grants[role] = set
	}
	for _, role := range spec.AllPermissions {
		if _, ok := ParseRoleKey(string(role)); !ok {
			return nil, fmt.Errorf("access: rol desconocido %q", role)
		}
		t.all[role] = true
	}
	return t, nil
}

// MustNewTable es NewTable para tablas literales conocidas en compilación.
func MustNewTable(spec TableSpec) *Table {
	t, err := NewTable(spec)
	if err != nil {
		panic(err)
	}
	return t
}

// Known informa si el permiso pertenece al catálogo.
func (t *Table) Known(p Permission) bool {
	if t == nil {
		return false
	}
	_, ok := t.known[p]
	return ok
}

// Permissions devuelve el catálogo ordenado.
func (t *Table) Permissions() []Permission {
	if t == nil {
		return nil
	}
	out := make([]Permission, 0, len(t.known))
	for p := range t.known {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Implicit devuelve los permisos efectivos de un rol fijo, ordenados.
func (t *Table) Implicit(role RoleKey) []Permission {
	if t == nil {
		return nil
	}
	if t.all[role] {
		return t.Permissions()
	}
	set := t.grants[role]
	out := make([]Permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (t *Table) allows(role RoleKey, p Permission) bool {
	if _, ok := t.known[p]; !ok {
		return false
	}
	if t.all[role] {
		return true
	}
	_, ok := t.grants[role][p]
	return ok
}

// DefaultTable construye la tabla de roles fijos de la aplicación.
func DefaultTable() *Table {
	return MustNewTable(TableSpec{
		Catalog:        Catalog(),
		AllPermissions: []RoleKey{RoleSuperAdmin},
		Grants:         defaultGrants(),
	})
}

func defaultGrants() map[RoleKey][]Permission {
	operation := []Permission{
		PermDashboardView,
		PermWorkOrdersView, PermWorkOrdersCreate, PermWorkOrdersUpdate,
		PermWorkOrdersAssign, PermWorkOrdersClose,
		PermAssetsView, PermAssetsManage,
		PermInventoryView, PermInventoryManage,
		PermPreventiveView, PermPreventiveManage,
		PermSafetyView, PermSafetyManage, PermSafetyApprove,
		PermQualityView, PermQualityManage, PermQualityApprove,
		PermAttendanceView, PermAttendanceRegister,
		PermClientsView,
		PermUsersView,
	}
	companyAdmin := append([]Permission{
		PermWorkOrdersManageTemplates,
		PermClientsManage,
		PermUsersManage, PermRolesManage,
		PermCompaniesView, PermPlansView,
	}, operation...)
	groupAdmin := append([]Permission{PermCompaniesManage}, companyAdmin...)

	return map[RoleKey][]Permission{
		RoleAdminGrupo:   groupAdmin,
		RoleAdminEmpresa: companyAdmin,
		RoleSupervisor:   operation,
		RoleTecnico: {
			PermDashboardView,
			PermWorkOrdersView, PermWorkOrdersUpdate,
			PermAssetsView,
			PermInventoryView,
			PermPreventiveView,
			PermSafetyView, PermSafetyManage,
			PermQualityView,
			PermAttendanceView, PermAttendanceRegister,
		},
		RoleClienteAdminGeneral: {
			PermDashboardView,
			PermWorkOrdersView, PermWorkOrdersCreate,
			PermAssetsView,
			PermPreventiveView,
			PermSafetyView, PermQualityView,
			PermAttendanceView,
			PermClientsView,
		},
		RoleClienteAdminSede: {
			PermDashboardView,
			PermWorkOrdersView, PermWorkOrdersCreate,
			PermAssetsView,
			PermPreventiveView,
			PermSafetyView, PermQualityView,
			PermAttendanceView,
		},
		RoleClienteOperario: {
			PermDashboardView,
			PermWorkOrdersView, PermWorkOrdersCreate,
			PermAssetsView,
		},
	}
}
