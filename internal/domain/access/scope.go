package access

import "github.com/jhoicas/Mantenimiento-api/internal/domain"

// ScopeLevel es la granularidad del límite de tenant.
type ScopeLevel int

const (
	// ScopeNone es el valor cero: no permite nada.
	ScopeNone ScopeLevel = iota
	ScopeGlobal
	ScopeCompany
	ScopeClientCompany
	ScopeSite
)

func (l ScopeLevel) String() string {
	switch l {
	case ScopeGlobal:
		return "global"
	case ScopeCompany:
		return "company"
	case ScopeClientCompany:
		return "client_company"
	case ScopeSite:
		return "site"
	default:
		return "none"
	}
}

// Scope es el filtro de datos de una petición. Se calcula una vez y se pasa a cada
// acceso a datos. CompanyID, ClientCompanyID y SiteID vacíos no restringen; el nivel
// indica cuáles son obligatorios.
type Scope struct {
	Level           ScopeLevel
	CompanyID       string
	ClientCompanyID string
	SiteID          string
}

// Tenancy son las columnas de tenant de una fila.
type Tenancy struct {
	CompanyID       string
	ClientCompanyID string
	SiteID          string
}

// GlobalScope devuelve un alcance sin restricción (solo para roles globales y trabajos
// internos del sistema).
func GlobalScope() Scope { return Scope{Level: ScopeGlobal} }

// IsGlobal informa si el alcance no restringe filas.
func (s Scope) IsGlobal() bool { return s.Level == ScopeGlobal }

// Valid informa si el alcance puede aplicarse: el nivel cero y los niveles sin su ID
// obligatorio no son válidos.
func (s Scope) Valid() bool {
	switch s.Level {
	case ScopeGlobal:
		return true
	case ScopeCompany:
		return s.CompanyID != ""
	case ScopeClientCompany:
		return s.ClientCompanyID != ""
	case ScopeSite:
		return s.ClientCompanyID != "" && s.SiteID != ""
	}
	return false
}

// Allows evalúa el filtro sobre una fila.
func (s Scope) Allows(row Tenancy) bool {
	if !s.Valid() {
		return false
	}
	if s.Level == ScopeGlobal {
		return true
	}
	if s.CompanyID != "" && row.CompanyID != s.CompanyID {
		return false
	}
	if s.ClientCompanyID != "" && row.ClientCompanyID != s.ClientCompanyID {
		return false
	}
	if s.SiteID != "" && row.SiteID != s.SiteID {
		return false
	}
	return true
}

// AllowsCompany informa si el alcance puede ver datos de nivel empresa (no ligados a un
// cliente), p. ej. plantillas o repuestos.
func (s Scope) AllowsCompany(companyID string) bool {
	if !s.Valid() {
		return false
	}
	if s.Level == ScopeGlobal {
		return true
	}
	return s.CompanyID != "" && s.CompanyID == companyID && s.ClientCompanyID == ""
}

// ScopeFor deriva el límite de tenant de la identidad. Si falta un ID obligatorio
// devuelve Forbidden: nunca se degrada a acceso sin alcance.
func ScopeFor(id Identity) (Scope, error) {
	if !id.Authenticated() {
		return Scope{}, domain.Unauthenticated("sesión requerida")
	}
	switch r := id.Role.(type) {
	case FixedRole:
		return fixedScope(r.Key, id)
	case CustomRole:
		return customScope(r, id)
	}
	return Scope{}, domain.Forbidden("rol no reconocido")
}

func fixedScope(key RoleKey, id Identity) (Scope, error) {
	switch key {
	case RoleSuperAdmin, RoleAdminGrupo:
		return GlobalScope(), nil
	case RoleAdminEmpresa, RoleSupervisor, RoleTecnico:
		if id.CompanyID == "" {
			return Scope{}, domain.Forbidden("el usuario no tiene empresa asignada")
		}
		return Scope{Level: ScopeCompany, CompanyID: id.CompanyID}, nil
	case RoleClienteAdminGeneral:
		if id.ClientCompanyID == "" {
			return Scope{}, domain.Forbidden("el usuario no tiene empresa cliente asignada")
		}
		return Scope{Level: ScopeClientCompany, CompanyID: id.CompanyID, ClientCompanyID: id.ClientCompanyID}, nil
	case RoleClienteAdminSede, RoleClienteOperario:
		if id.ClientCompanyID == "" {
			return Scope{}, domain.Forbidden("el usuario no tiene empresa cliente asignada")
		}
		if id.SiteID == "" {
			return Scope{}, domain.Forbidden("el usuario no tiene sede asignada")
		}
		return Scope{Level: ScopeSite, CompanyID: id.CompanyID, ClientCompanyID: id.ClientCompanyID, SiteID: id.SiteID}, nil
	}
	return Scope{}, domain.Forbidden("rol no reconocido: " + string(key))
}

func customScope(r CustomRole, id Identity) (Scope, error) {
	if id.CompanyID == "" {
		return Scope{}, domain.Forbidden("el usuario no tiene empresa asignada")
	}
	if r.CompanyID != "" && r.CompanyID != id.CompanyID {
		return Scope{}, domain.Forbidden("el rol personalizado pertenece a otra empresa")
	}
	s := Scope{Level: ScopeCompany, CompanyID: id.CompanyID}
	if id.ClientCompanyID != "" {
		s.Level = ScopeClientCompany
		s.ClientCompanyID = id.ClientCompanyID
		if id.SiteID != "" {
			s.Level = ScopeSite
			s.SiteID = id.SiteID
		}
	}
	return s, nil
}

// CompanyFor decide la empresa dueña de un registro nuevo de nivel empresa. Los
// alcances globales deben indicarla; los demás usan la propia y rechazan otra.
func (s Scope) CompanyFor(requested string) (string, error) {
	if !s.Valid() {
		return "", domain.Forbidden("alcance inválido")
	}
	if s.IsGlobal() {
		if requested == "" {
			return "", domain.InvalidInput("company_id requerido", map[string]string{"company_id": "required"})
		}
		return requested, nil
	}
	if requested != "" && requested != s.CompanyID {
		return "", domain.Forbidden("no puede operar sobre otra empresa")
	}
	return s.CompanyID, nil
}
