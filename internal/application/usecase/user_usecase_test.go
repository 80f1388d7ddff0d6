package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

func newUserUseCase(active map[string]int, plans map[string]*entity.SubscriptionPlan) (*usecase.UserUseCase, *memUsers) {
	users := &memUsers{rows: map[string]*entity.User{}, activeByCo: active}
	roles := &memRoles{rows: map[string]*entity.CustomRole{
		"rol-c1": {ID: "rol-c1", CompanyID: "c1", Name: "Bodeguero", Permissions: []string{"inventory.view"}},
		"rol-c2": {ID: "rol-c2", CompanyID: "c2", Name: "Auditor", Permissions: []string{"assets.view"}},
	}}
	return usecase.NewUserUseCase(users, roles, newClients(), &memPlans{byCompany: plans}, nil, guard()), users
}

func TestUser_CreateOperarioEnSede(t *testing.T) {
	uc, users := newUserUseCase(nil, nil)

	out, err := uc.Create(context.Background(), adminEmpresa("c1"), dto.CreateUserRequest{
		Email: " Operario@Hospital.co ", Password: "clave-segura", Name: "Ana",
		Role: string(access.RoleClienteOperario), SiteID: "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, "operario@hospital.co", out.Email)
	assert.Equal(t, "cc1", out.ClientCompanyID)

	saved := users.rows[out.ID]
	require.NotNil(t, saved)
	assert.NotEqual(t, "clave-segura", saved.PasswordHash)
	assert.Equal(t, "c1", saved.CompanyID)
}

func TestUser_RolDeSedeSinSede(t *testing.T) {
	uc, _ := newUserUseCase(nil, nil)

	_, err := uc.Create(context.Background(), adminEmpresa("c1"), dto.CreateUserRequest{
		Email: "x@y.co", Password: "clave-segura", Name: "X",
		Role: string(access.RoleClienteAdminSede), ClientCompanyID: "cc1",
	})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestUser_SedeDeOtraEmpresa(t *testing.T) {
	uc, _ := newUserUseCase(nil, nil)

	_, err := uc.Create(context.Background(), adminEmpresa("c1"), dto.CreateUserRequest{
		Email: "x@y.co", Password: "clave-segura", Name: "X",
		Role: string(access.RoleClienteOperario), SiteID: "s2",
	})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestUser_SoloGlobalCreaGlobales(t *testing.T) {
	uc, _ := newUserUseCase(nil, nil)

	_, err := uc.Create(context.Background(), adminEmpresa("c1"), dto.CreateUserRequest{
		Email: "x@y.co", Password: "clave-segura", Name: "X", Role: string(access.RoleSuperAdmin),
	})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	out, err := uc.Create(context.Background(), fixed(access.RoleSuperAdmin, "root", "", "", ""), dto.CreateUserRequest{
		Email: "grupo@y.co", Password: "clave-segura", Name: "Grupo", Role: string(access.RoleAdminGrupo),
	})
	require.NoError(t, err)
	assert.Empty(t, out.CompanyID)
}

func TestUser_RolPersonalizadoDeOtraEmpresa(t *testing.T) {
	uc, _ := newUserUseCase(nil, nil)

	_, err := uc.Create(context.Background(), adminEmpresa("c1"), dto.CreateUserRequest{
		Email: "x@y.co", Password: "clave-segura", Name: "X", CustomRoleID: "rol-c2",
	})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = uc.Create(context.Background(), adminEmpresa("c1"), dto.CreateUserRequest{
		Email: "x@y.co", Password: "clave-segura", Name: "X", CustomRoleID: "rol-c1",
	})
	assert.NoError(t, err)
}

func TestUser_LimiteDelPlan(t *testing.T) {
	plans := map[string]*entity.SubscriptionPlan{"c1": {ID: "basico", MaxUsers: 2, IsActive: true}}
	uc, _ := newUserUseCase(map[string]int{"c1": 2}, plans)

	_, err := uc.Create(context.Background(), adminEmpresa("c1"), dto.CreateUserRequest{
		Email: "x@y.co", Password: "clave-segura", Name: "X", Role: string(access.RoleTecnico),
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrPlanLimitReached)
}

func TestUser_ClienteNoAdministraUsuarios(t *testing.T) {
	uc, _ := newUserUseCase(nil, nil)
	clientAdmin := fixed(access.RoleClienteAdminGeneral, "u-cag", "c1", "cc1", "")

	_, err := uc.Create(context.Background(), clientAdmin, dto.CreateUserRequest{
		Email: "x@y.co", Password: "clave-segura", Name: "X", Role: string(access.RoleClienteOperario), SiteID: "s1",
	})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestUser_UpdateInvalidaLaSesion(t *testing.T) {
	users := &memUsers{rows: map[string]*entity.User{
		"u-tec": {ID: "u-tec", CompanyID: "c1", Role: string(access.RoleTecnico), Status: entity.UserStatusActive},
	}}
	spy := &spyInvalidator{}
	uc := usecase.NewUserUseCase(users, &memRoles{rows: map[string]*entity.CustomRole{}}, newClients(), &memPlans{}, spy, guard())

	inactive := entity.UserStatusInactive
	_, err := uc.Update(context.Background(), adminEmpresa("c2"), "u-tec", dto.UpdateUserRequest{Status: &inactive})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Empty(t, spy.ids)

	_, err = uc.Update(context.Background(), adminEmpresa("c1"), "u-tec", dto.UpdateUserRequest{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusInactive, users.rows["u-tec"].Status)
	assert.Equal(t, []string{"u-tec"}, spy.ids)
}
