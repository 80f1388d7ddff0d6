package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/pkg/jwt"
)

// Credentials son las credenciales crudas de una petición.
type Credentials struct {
	Authorization string // valor del header Authorization
	Cookie        string // valor de la cookie de sesión
}

// Token devuelve el JWT: primero el header Bearer, luego la cookie.
func (c Credentials) Token() string {
	if h := strings.TrimSpace(c.Authorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return strings.TrimSpace(c.Cookie)
}

// RoleSource carga roles personalizados (RoleCache en producción).
type RoleSource interface {
	Get(ctx context.Context, id string) (access.CustomRole, bool, error)
}

// UserSource carga el estado vigente de un usuario (UserCache en producción).
type UserSource interface {
	Get(ctx context.Context, id string) (UserState, bool, error)
}

// SessionResolver convierte credenciales en una Identity.
type SessionResolver struct {
	secret string
	roles  RoleSource
	users  UserSource
}

// NewSessionResolver construye el resolvedor. Con users nil la sesión vale lo que diga
// el token hasta que vence.
func NewSessionResolver(secret string, roles RoleSource, users UserSource) *SessionResolver {
	return &SessionResolver{secret: secret, roles: roles, users: users}
}

// Resolve valida el token y arma la identidad. Sin sesión válida → Unauthenticated;
// un rol que ya no existe, un usuario inactivo o un token cuyo rol o ubicación ya no
// coincide con el usuario también invalidan la sesión.
func (r *SessionResolver) Resolve(ctx context.Context, cred Credentials) (access.Identity, error) {
	token := cred.Token()
	if token == "" {
		return access.Identity{}, domain.Unauthenticated("token requerido")
	}
	claims, err := jwt.Parse(r.secret, token)
	if err != nil {
		return access.Identity{}, domain.Unauthenticated("token inválido o expirado")
	}
	s := claims.Session()
	if r.users != nil {
		st, ok, err := r.users.Get(ctx, s.UserID)
		if err != nil {
			return access.Identity{}, err
		}
		if !ok || !st.Active {
			return access.Identity{}, domain.Unauthenticated("usuario inexistente o inactivo")
		}
		if !st.Matches(s) {
			return access.Identity{}, domain.Unauthenticated("la sesión ya no corresponde al usuario, inicie sesión de nuevo")
		}
	}
	id := access.Identity{
		UserID:          s.UserID,
		CompanyID:       s.CompanyID,
		ClientCompanyID: s.ClientCompanyID,
		SiteID:          s.SiteID,
	}
	if s.CustomRoleID != "" {
		if r.roles == nil {
			return access.Identity{}, domain.Unauthenticated("rol personalizado no disponible")
		}
		role, ok, err := r.roles.Get(ctx, s.CustomRoleID)
		if err != nil {
			return access.Identity{}, err
		}
		if !ok {
			return access.Identity{}, domain.Unauthenticated("el rol de la sesión ya no existe")
		}
		id.Role = role
		return id, nil
	}
	key, ok := access.ParseRoleKey(s.Role)
	if !ok {
		return access.Identity{}, domain.Unauthenticated("rol de sesión desconocido")
	}
	id.Role = access.FixedRole{Key: key}
	return id, nil
}
