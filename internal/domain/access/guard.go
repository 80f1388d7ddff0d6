package access

import (
	"strings"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
)

// DecisionRecorder recibe cada decisión de autorización (métricas, auditoría).
type DecisionRecorder interface {
	RecordDecision(perm Permission, allowed bool)
}

// Guard es el punto de entrada de los casos de uso: verifica permisos y calcula el
// alcance en una sola llamada.
type Guard struct {
	table    *Table
	recorder DecisionRecorder
}

// NewGuard construye el guard con la tabla explícita. recorder puede ser nil.
func NewGuard(table *Table, recorder DecisionRecorder) *Guard {
	return &Guard{table: table, recorder: recorder}
}

// Table devuelve la tabla de permisos del guard.
func (g *Guard) Table() *Table { return g.table }

// Authorize exige al menos uno de los permisos y devuelve el alcance de la identidad.
func (g *Guard) Authorize(id Identity, perms ...Permission) (Scope, error) {
	return g.authorize(id, perms, CheckOptions{})
}

// AuthorizeAll exige todos los permisos y devuelve el alcance de la identidad.
func (g *Guard) AuthorizeAll(id Identity, perms ...Permission) (Scope, error) {
	return g.authorize(id, perms, CheckOptions{RequireAll: true})
}

// Require solo verifica permisos (sin calcular alcance).
func (g *Guard) Require(id Identity, perms ...Permission) error {
	if !id.Authenticated() {
		return domain.Unauthenticated("sesión requerida")
	}
	if !g.check(id, perms, CheckOptions{}) {
		return deny(perms, CheckOptions{})
	}
	return nil
}

func (g *Guard) authorize(id Identity, perms []Permission, opts CheckOptions) (Scope, error) {
	if !id.Authenticated() {
		return Scope{}, domain.Unauthenticated("sesión requerida")
	}
	if !g.check(id, perms, opts) {
		return Scope{}, deny(perms, opts)
	}
	return ScopeFor(id)
}

func (g *Guard) check(id Identity, perms []Permission, opts CheckOptions) bool {
	allowed := g.table.Check(id, perms, opts)
	if g.recorder != nil {
		for _, p := range perms {
			g.recorder.RecordDecision(p, allowed)
		}
	}
	return allowed
}

func deny(perms []Permission, opts CheckOptions) error {
	if len(perms) == 0 {
		return domain.Forbidden("operación sin permiso definido")
	}
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	sep := " o "
	if opts.RequireAll {
		sep = " y "
	}
	return domain.Forbidden("permiso requerido: " + strings.Join(names, sep))
}
