package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func fixed(key access.RoleKey, companyID string) access.Identity {
	return access.Identity{UserID: "u-1", Role: access.FixedRole{Key: key}, CompanyID: companyID}
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles fijos
// ──────────────────────────────────────────────────────────────────────────────

func TestHasPermission_SuperAdminTieneTodoElCatalogo(t *testing.T) {
	table := access.DefaultTable()
	id := fixed(access.RoleSuperAdmin, "")

	for _, p := range table.Permissions() {
		assert.True(t, table.HasPermission(id, p), "SUPER_ADMIN debe tener %s", p)
	}
}

func TestHasPermission_TecnicoSinPlantillas(t *testing.T) {
	table := access.DefaultTable()
	id := fixed(access.RoleTecnico, "c1")

	assert.False(t, table.HasPermission(id, access.PermWorkOrdersManageTemplates))
	assert.True(t, table.HasPermission(id, access.PermWorkOrdersView))
}

func TestHasPermission_PermisoFueraDelCatalogoDeniega(t *testing.T) {
	table := access.DefaultTable()

	assert.False(t, table.HasPermission(fixed(access.RoleSuperAdmin, ""), "reports.export"),
		"un permiso desconocido se deniega incluso a SUPER_ADMIN")
}

func TestHasPermission_FallaCerrado(t *testing.T) {
	table := access.DefaultTable()

	var nilTable *access.Table
	assert.False(t, nilTable.HasPermission(fixed(access.RoleSuperAdmin, ""), access.PermAssetsView), "tabla nil")
	assert.False(t, table.HasPermission(access.Identity{}, access.PermAssetsView), "identidad vacía")
	assert.False(t, table.HasPermission(access.Identity{UserID: "u"}, access.PermAssetsView), "sin rol")
	assert.False(t, table.HasPermission(fixed("ROL_INVENTADO", "c1"), access.PermAssetsView), "rol desconocido")
	assert.False(t, table.HasPermission(fixed(access.RoleAdminEmpresa, "c1"), ""), "permiso vacío")
}

func TestHasPermission_Idempotente(t *testing.T) {
	table := access.DefaultTable()
	id := fixed(access.RoleSupervisor, "c1")

	for _, p := range access.Catalog() {
		first := table.HasPermission(id, p)
		second := table.HasPermission(id, p)
		assert.Equal(t, first, second, "resultado estable para %s", p)
	}
}

func TestHasPermission_TodosLosRolesFijosEnTabla(t *testing.T) {
	table := access.DefaultTable()
	for _, key := range access.FixedRoleKeys() {
		assert.NotEmpty(t, table.Implicit(key), "el rol %s debe tener permisos", key)
		assert.True(t, table.HasPermission(fixed(key, "c1"), access.PermDashboardView),
			"todos los roles ven el tablero (%s)", key)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles personalizados
// ──────────────────────────────────────────────────────────────────────────────

func TestHasPermission_RolPersonalizadoPorPertenencia(t *testing.T) {
	table := access.DefaultTable()
	role := access.NewCustomRole("r-1", "Planeador", "c1", []string{
		string(access.PermWorkOrdersView),
		string(access.PermPreventiveManage),
	})
	id := access.Identity{UserID: "u-2", Role: role, CompanyID: "c1"}

	for _, p := range table.Permissions() {
		expected := p == access.PermWorkOrdersView || p == access.PermPreventiveManage
		assert.Equal(t, expected, table.HasPermission(id, p), "permiso %s", p)
	}
}

func TestNewCustomRole_CopiaLosPermisos(t *testing.T) {
	ids := []string{string(access.PermAssetsView)}
	role := access.NewCustomRole("r-1", "Lector", "c1", ids)
	ids[0] = string(access.PermUsersManage)

	assert.True(t, role.Has(access.PermAssetsView))
	assert.False(t, role.Has(access.PermUsersManage))
}

// ──────────────────────────────────────────────────────────────────────────────
// Check any / all
// ──────────────────────────────────────────────────────────────────────────────

func TestCheck_RequireAll(t *testing.T) {
	table := access.DefaultTable()
	role := access.NewCustomRole("r-1", "Solo A", "c1", []string{string(access.PermAssetsView)})
	id := access.Identity{UserID: "u", Role: role, CompanyID: "c1"}
	set := []access.Permission{access.PermAssetsView, access.PermAssetsManage}

	assert.False(t, table.Check(id, set, access.CheckOptions{RequireAll: true}), "con A solamente, all deniega")
	assert.True(t, table.Check(id, set, access.CheckOptions{}), "con A solamente, any permite")
	assert.False(t, table.Check(id, nil, access.CheckOptions{}), "conjunto vacío deniega")
}

// ──────────────────────────────────────────────────────────────────────────────
// Construcción de la tabla
// ──────────────────────────────────────────────────────────────────────────────

func TestPermission_PlataformaSoloPlanesYEmpresas(t *testing.T) {
	var platform []access.Permission
	for _, p := range access.Catalog() {
		if p.Platform() {
			platform = append(platform, p)
		}
	}
	assert.ElementsMatch(t, []access.Permission{access.PermCompaniesManage, access.PermPlansManage}, platform)
}

func TestNewTable_RechazaPermisoFueraDelCatalogo(t *testing.T) {
	_, err := access.NewTable(access.TableSpec{
		Catalog: []access.Permission{access.PermAssetsView},
		Grants:  map[access.RoleKey][]access.Permission{access.RoleTecnico: {access.PermAssetsManage}},
	})
	require.Error(t, err)
}

func TestNewTable_RechazaDuplicadosYMalFormados(t *testing.T) {
	_, err := access.NewTable(access.TableSpec{Catalog: []access.Permission{"assets.view", "assets.view"}})
	require.Error(t, err)

	_, err = access.NewTable(access.TableSpec{Catalog: []access.Permission{"assets"}})
	require.Error(t, err)
}

func TestNavigation_FiltraPorPermiso(t *testing.T) {
	table := access.DefaultTable()

	items := table.Navigation(fixed(access.RoleClienteOperario, "c1"))
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.Key)
	}
	assert.Equal(t, []string{"dashboard", "work_orders", "assets"}, keys)

	assert.Len(t, table.Navigation(fixed(access.RoleSuperAdmin, "")), 14)
}
