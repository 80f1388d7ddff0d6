package access

// Identity es el llamante autenticado de una petición. Se crea una vez al inicio de la
// petición, no se muta y se descarta al terminar. Los IDs vacíos equivalen a null.
type Identity struct {
	UserID          string
	Role            Role
	CompanyID       string
	ClientCompanyID string
	SiteID          string
}

// Authenticated informa si la identidad tiene usuario y rol.
func (id Identity) Authenticated() bool {
	return id.UserID != "" && id.Role != nil
}

// FixedKey devuelve la clave del rol fijo; ok es false para roles personalizados.
func (id Identity) FixedKey() (RoleKey, bool) {
	if r, ok := id.Role.(FixedRole); ok {
		return r.Key, true
	}
	return "", false
}

// RoleName devuelve la etiqueta del rol o "" si no hay rol.
func (id Identity) RoleName() string {
	if id.Role == nil {
		return ""
	}
	return id.Role.Name()
}
