package access

// CheckOptions ajusta Check cuando se evalúa un conjunto de permisos.
// Con RequireAll=false (por defecto) basta uno cualquiera.
type CheckOptions struct {
	RequireAll bool
}

// HasPermission decide si la identidad tiene el permiso. Falla cerrado: tabla nil,
// identidad sin rol, rol fijo desconocido o permiso fuera del catálogo → false.
func (t *Table) HasPermission(id Identity, p Permission) bool {
	if t == nil || !id.Authenticated() || p == "" {
		return false
	}
	switch r := id.Role.(type) {
	case FixedRole:
		return t.allows(r.Key, p)
	case CustomRole:
		return r.Has(p)
	default:
		return false
	}
}

// Check evalúa un conjunto de permisos con semántica any/all. Un conjunto vacío deniega.
func (t *Table) Check(id Identity, perms []Permission, opts CheckOptions) bool {
	if len(perms) == 0 {
		return false
	}
	if opts.RequireAll {
		for _, p := range perms {
			if !t.HasPermission(id, p) {
				return false
			}
		}
		return true
	}
	for _, p := range perms {
		if t.HasPermission(id, p) {
			return true
		}
	}
	return false
}

// Effective devuelve los permisos efectivos de la identidad.
func (t *Table) Effective(id Identity) []Permission {
	if t == nil || !id.Authenticated() {
		return nil
	}
	switch r := id.Role.(type) {
	case FixedRole:
		return t.Implicit(r.Key)
	case CustomRole:
		return r.Permissions()
	}
	return nil
}
