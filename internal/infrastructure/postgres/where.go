package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
)

// tenantColumns nombra las columnas de tenant de una tabla. Vacío = la tabla no tiene
// esa columna, y un alcance que la exija no ve ninguna fila.
type tenantColumns struct {
	company string
	client  string
	site    string
}

var defaultTenant = tenantColumns{company: "company_id", client: "client_company_id", site: "site_id"}

// where acumula condiciones AND y sus argumentos posicionales ($1, $2, ...).
type where struct {
	conds []string
	args  []any
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) eq(col string, v any) {
	w.conds = append(w.conds, col+" = "+w.arg(v))
}

func (w *where) raw(cond string) {
	w.conds = append(w.conds, cond)
}

// scope traduce el alcance de la petición a predicados SQL. El alcance cero o
// incompleto produce FALSE.
func (w *where) scope(s access.Scope, cols tenantColumns) {
	if !s.Valid() {
		w.raw("FALSE")
		return
	}
	if s.IsGlobal() {
		return
	}
	w.restrict(cols.company, s.CompanyID)
	w.restrict(cols.client, s.ClientCompanyID)
	w.restrict(cols.site, s.SiteID)
}

// companyScope aplica el alcance a datos de nivel empresa (repuestos, plantillas, la
// propia tabla companies): los alcances de cliente no los ven.
func (w *where) companyScope(s access.Scope, col string) {
	if !s.Valid() || s.ClientCompanyID != "" {
		w.raw("FALSE")
		return
	}
	if s.IsGlobal() {
		return
	}
	w.eq(col, s.CompanyID)
}

func (w *where) restrict(col, value string) {
	if value == "" {
		return
	}
	if col == "" {
		w.raw("FALSE")
		return
	}
	w.eq(col, value)
}

// sql devuelve " WHERE a AND b" o "".
func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET.
func (w *where) page(limit, offset int) string {
	return " LIMIT " + w.arg(limit) + " OFFSET " + w.arg(offset)
}
