package access

// NavItem es una entrada del menú de navegación y el permiso que la habilita.
type NavItem struct {
	Key        string     `json:"key"`
	Label      string     `json:"label"`
	Path       string     `json:"path"`
	Permission Permission `json:"permission"`
}

// navigation es el mapa fijo de navegación. No se modifica en tiempo de ejecución.
var navigation = [...]NavItem{
	{Key: "dashboard", Label: "Tablero", Path: "/dashboard", Permission: PermDashboardView},
	{Key: "work_orders", Label: "Órdenes de trabajo", Path: "/work-orders", Permission: PermWorkOrdersView},
	{Key: "work_order_templates", Label: "Plantillas de OT", Path: "/work-orders/templates", Permission: PermWorkOrdersManageTemplates},
	{Key: "preventive", Label: "Mantenimiento preventivo", Path: "/preventive", Permission: PermPreventiveView},
	{Key: "assets", Label: "Activos", Path: "/assets", Permission: PermAssetsView},
	{Key: "inventory", Label: "Repuestos", Path: "/inventory", Permission: PermInventoryView},
	{Key: "safety", Label: "Seguridad (JSA, LOTO, permisos)", Path: "/safety", Permission: PermSafetyView},
	{Key: "quality", Label: "Calidad (CAPA, RCA)", Path: "/quality", Permission: PermQualityView},
	{Key: "attendance", Label: "Asistencia", Path: "/attendance", Permission: PermAttendanceView},
	{Key: "clients", Label: "Clientes y sedes", Path: "/clients", Permission: PermClientsView},
	{Key: "users", Label: "Usuarios", Path: "/admin/users", Permission: PermUsersView},
	{Key: "roles", Label: "Roles", Path: "/admin/roles", Permission: PermRolesManage},
	{Key: "companies", Label: "Empresas", Path: "/admin/companies", Permission: PermCompaniesView},
	{Key: "plans", Label: "Planes", Path: "/admin/plans", Permission: PermPlansView},
}

// Navigation devuelve las entradas visibles para la identidad, en orden fijo.
func (t *Table) Navigation(id Identity) []NavItem {
	out := make([]NavItem, 0, len(navigation))
	for _, item := range navigation {
		if t.HasPermission(id, item.Permission) {
			out = append(out, item)
		}
	}
	return out
}
