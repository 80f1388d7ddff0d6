package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/pkg/jwt"
)

const secret = "secreto-de-pruebas"

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeUsers struct {
	byEmail map[string]*entity.User
	byID    map[string]*entity.User
	loads   int
}

func (f *fakeUsers) Create(context.Context, *entity.User) error { return nil }
func (f *fakeUsers) GetByID(_ context.Context, _ access.Scope, id string) (*entity.User, error) {
	f.loads++
	return f.byID[id], nil
}
func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.byEmail[strings.ToLower(email)], nil
}
func (f *fakeUsers) Update(context.Context, *entity.User) error { return nil }
func (f *fakeUsers) List(context.Context, access.Scope, int, int) ([]*entity.User, error) {
	return nil, nil
}
func (f *fakeUsers) CountActiveByCompany(context.Context, string) (int, error) { return 0, nil }
func (f *fakeUsers) CountByCustomRole(context.Context, string) (int, error)    { return 0, nil }

type fakeRoles struct {
	rows  map[string]*entity.CustomRole
	loads int
}

func (f *fakeRoles) Create(context.Context, *entity.CustomRole) error { return nil }
func (f *fakeRoles) GetByID(_ context.Context, id string) (*entity.CustomRole, error) {
	f.loads++
	return f.rows[id], nil
}
func (f *fakeRoles) Update(context.Context, *entity.CustomRole) error { return nil }
func (f *fakeRoles) Delete(context.Context, string) error             { return nil }
func (f *fakeRoles) ListByCompany(context.Context, string) ([]*entity.CustomRole, error) {
	return nil, nil
}

func newUser(t *testing.T, status string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{
		ID: "u-1", CompanyID: "c1", Email: "tecnico@acme.co", PasswordHash: string(hash),
		Name: "Técnico", Role: string(access.RoleTecnico), Status: status,
	}
}

func newUseCase(users *fakeUsers) *auth.AuthUseCase {
	return auth.NewAuthUseCase(users, access.DefaultTable(), auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "test"})
}

// ─────────────────────────────────────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────────────────────────────────────

func TestLogin_EmiteTokenConLaSesion(t *testing.T) {
	users := &fakeUsers{byEmail: map[string]*entity.User{"tecnico@acme.co": newUser(t, entity.UserStatusActive)}}

	out, err := newUseCase(users).Login(context.Background(), dto.LoginRequest{Email: "tecnico@acme.co", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", out.User.ID)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, "TECNICO", claims.Role)
}

func TestLogin_PasswordIncorrectoEs401(t *testing.T) {
	users := &fakeUsers{byEmail: map[string]*entity.User{"tecnico@acme.co": newUser(t, entity.UserStatusActive)}}

	_, err := newUseCase(users).Login(context.Background(), dto.LoginRequest{Email: "tecnico@acme.co", Password: "otra"})
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	_, err = newUseCase(users).Login(context.Background(), dto.LoginRequest{Email: "nadie@acme.co", Password: "x"})
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestLogin_UsuarioInactivoEs403(t *testing.T) {
	users := &fakeUsers{byEmail: map[string]*entity.User{"tecnico@acme.co": newUser(t, entity.UserStatusInactive)}}

	_, err := newUseCase(users).Login(context.Background(), dto.LoginRequest{Email: "tecnico@acme.co", Password: "clave-segura"})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestMe_PermisosYAlcance(t *testing.T) {
	uc := newUseCase(&fakeUsers{})
	id := access.Identity{UserID: "u-1", Role: access.FixedRole{Key: access.RoleClienteOperario}, CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s1"}

	me, err := uc.Me(id)
	require.NoError(t, err)
	assert.Equal(t, "site", me.Scope)
	assert.False(t, me.Custom)
	assert.Contains(t, me.Permissions, "work_orders.create")
	assert.NotContains(t, me.Permissions, "inventory.view")

	nav, err := uc.Navigation(id)
	require.NoError(t, err)
	keys := make([]string, len(nav))
	for i, n := range nav {
		keys[i] = n.Key
	}
	assert.Equal(t, []string{"dashboard", "work_orders", "assets"}, keys)
}

// ─────────────────────────────────────────────────────────────────────────────
// Resolver de sesión
// ─────────────────────────────────────────────────────────────────────────────

func TestResolve_BearerYCookie(t *testing.T) {
	token, err := jwt.Generate(secret, "test", 5, jwt.Session{UserID: "u-1", CompanyID: "c1", Role: "SUPERVISOR"})
	require.NoError(t, err)
	r := auth.NewSessionResolver(secret, nil, nil)

	id, err := r.Resolve(context.Background(), auth.Credentials{Authorization: "Bearer " + token})
	require.NoError(t, err)
	key, ok := id.FixedKey()
	require.True(t, ok)
	assert.Equal(t, access.RoleSupervisor, key)

	id, err = r.Resolve(context.Background(), auth.Credentials{Cookie: token})
	require.NoError(t, err)
	assert.Equal(t, "c1", id.CompanyID)
}

func TestResolve_SinTokenOInvalidoEs401(t *testing.T) {
	r := auth.NewSessionResolver(secret, nil, nil)

	_, err := r.Resolve(context.Background(), auth.Credentials{})
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	_, err = r.Resolve(context.Background(), auth.Credentials{Authorization: "Basic abc"})
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	_, err = r.Resolve(context.Background(), auth.Credentials{Authorization: "Bearer basura"})
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestResolve_RolPersonalizadoPorCache(t *testing.T) {
	roles := &fakeRoles{rows: map[string]*entity.CustomRole{
		"r-1": {ID: "r-1", CompanyID: "c1", Name: "Bodeguero", Permissions: []string{"inventory.view", "inventory.manage"}},
	}}
	cache := auth.NewRoleCache(roles, 10, time.Minute)
	r := auth.NewSessionResolver(secret, cache, nil)
	token, err := jwt.Generate(secret, "test", 5, jwt.Session{UserID: "u-2", CompanyID: "c1", CustomRoleID: "r-1"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		id, err := r.Resolve(context.Background(), auth.Credentials{Authorization: "Bearer " + token})
		require.NoError(t, err)
		assert.True(t, access.DefaultTable().HasPermission(id, access.PermInventoryManage))
		assert.False(t, access.DefaultTable().HasPermission(id, access.PermWorkOrdersView))
	}
	assert.Equal(t, 1, roles.loads, "las lecturas repetidas salen de la caché")

	roles.rows["r-1"].Permissions = []string{"inventory.view"}
	cache.Invalidate("r-1")
	id, err := r.Resolve(context.Background(), auth.Credentials{Authorization: "Bearer " + token})
	require.NoError(t, err)
	assert.False(t, access.DefaultTable().HasPermission(id, access.PermInventoryManage))
	assert.Equal(t, 2, roles.loads)
}

func TestResolve_RolPersonalizadoBorradoEs401(t *testing.T) {
	cache := auth.NewRoleCache(&fakeRoles{rows: map[string]*entity.CustomRole{}}, 10, time.Minute)
	token, err := jwt.Generate(secret, "test", 5, jwt.Session{UserID: "u-2", CompanyID: "c1", CustomRoleID: "r-x"})
	require.NoError(t, err)

	_, err = auth.NewSessionResolver(secret, cache, nil).Resolve(context.Background(), auth.Credentials{Cookie: token})
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestResolve_UsuarioInactivoODegradadoEs401(t *testing.T) {
	users := &fakeUsers{byID: map[string]*entity.User{
		"u-1": {ID: "u-1", CompanyID: "c1", Role: "ADMIN_EMPRESA", Status: entity.UserStatusActive},
	}}
	cache := auth.NewUserCache(users, 10, time.Minute)
	r := auth.NewSessionResolver(secret, nil, cache)
	token, err := jwt.Generate(secret, "test", 5, jwt.Session{UserID: "u-1", CompanyID: "c1", Role: "ADMIN_EMPRESA"})
	require.NoError(t, err)
	cred := auth.Credentials{Authorization: "Bearer " + token}

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(context.Background(), cred)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, users.loads, "las lecturas repetidas salen de la caché")

	users.byID["u-1"].Role = "TECNICO"
	cache.Invalidate("u-1")
	_, err = r.Resolve(context.Background(), cred)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err), "rol degradado")

	users.byID["u-1"].Role = "ADMIN_EMPRESA"
	users.byID["u-1"].Status = entity.UserStatusInactive
	cache.Invalidate("u-1")
	_, err = r.Resolve(context.Background(), cred)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err), "usuario inactivo")

	delete(users.byID, "u-1")
	cache.Invalidate("u-1")
	_, err = r.Resolve(context.Background(), cred)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err), "usuario borrado")
}

func TestUserState_Matches(t *testing.T) {
	st := auth.UserState{Active: true, CustomRoleID: "r-1", CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s1"}

	assert.True(t, st.Matches(jwt.Session{UserID: "u", CustomRoleID: "r-1", CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s1"}))
	assert.False(t, st.Matches(jwt.Session{UserID: "u", CustomRoleID: "r-1", CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s2"}))
	assert.False(t, st.Matches(jwt.Session{UserID: "u", Role: "SUPERVISOR", CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s1"}))
}
