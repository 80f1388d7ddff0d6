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

type woFixture struct {
	uc        *usecase.WorkOrderUseCase
	wos       *memWorkOrders
	templates *memTemplates
}

func newWorkOrderFixture() woFixture {
	wos := newWorkOrders()
	templates := &memTemplates{rows: map[string]*entity.WorkOrderTemplate{
		"tpl-c2": {ID: "tpl-c2", CompanyID: "c2", Name: "Lubricación", Title: "Lubricar"},
	}}
	users := &memUsers{rows: map[string]*entity.User{
		"u-tec":    {ID: "u-tec", CompanyID: "c1", Role: "TECNICO", Status: entity.UserStatusActive},
		"u-tec-c2": {ID: "u-tec-c2", CompanyID: "c2", Role: "TECNICO", Status: entity.UserStatusActive},
	}}
	assets := &memAssets{rows: map[string]*entity.Asset{
		"a1": {ID: "a1", CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s1", Code: "BOMBA-01"},
	}}
	uc := usecase.NewWorkOrderUseCase(usecase.WorkOrderDeps{
		WorkOrders: wos,
		Templates:  templates,
		Sequences:  &memSequences{n: map[string]int64{}},
		Assets:     assets,
		Users:      users,
		Clients:    newClients(),
		Guard:      guard(),
	})
	return woFixture{uc: uc, wos: wos, templates: templates}
}

func TestWorkOrder_CreateTomaElTenantDelActivo(t *testing.T) {
	f := newWorkOrderFixture()

	out, err := f.uc.Create(context.Background(), adminEmpresa("c1"), dto.CreateWorkOrderRequest{
		Title: "Fuga en sello", Type: entity.WorkOrderTypeCorrective, Priority: entity.PriorityHigh,
		AssetID: "a1", AssignedTo: "u-tec",
	})
	require.NoError(t, err)
	assert.Equal(t, "OT-000001", out.Code)
	assert.Equal(t, "cc1", out.ClientCompanyID)
	assert.Equal(t, "s1", out.SiteID)
	assert.Equal(t, entity.WorkOrderAssigned, out.Status)
}

func TestWorkOrder_AdminDeOtraEmpresaNoVeLaSede(t *testing.T) {
	f := newWorkOrderFixture()

	_, err := f.uc.Create(context.Background(), adminEmpresa("c2"), dto.CreateWorkOrderRequest{Title: "x", SiteID: "s1"})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = f.uc.Create(context.Background(), adminEmpresa("c2"), dto.CreateWorkOrderRequest{Title: "x", AssetID: "a1"})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
	assert.Empty(t, f.wos.rows)
}

func TestWorkOrder_OperarioCreaEnSuSede(t *testing.T) {
	f := newWorkOrderFixture()

	out, err := f.uc.Create(context.Background(), operario(), dto.CreateWorkOrderRequest{Title: "No enciende el aire"})
	require.NoError(t, err)
	assert.Equal(t, "c1", out.CompanyID)
	assert.Equal(t, "cc1", out.ClientCompanyID)
	assert.Equal(t, "s1", out.SiteID)

	_, err = f.uc.Create(context.Background(), operario(), dto.CreateWorkOrderRequest{Title: "x", AssignedTo: "u-tec"})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestWorkOrder_AsignarTecnicoDeOtraEmpresa(t *testing.T) {
	f := newWorkOrderFixture()

	_, err := f.uc.Create(context.Background(), fixed(access.RoleSuperAdmin, "root", "", "", ""), dto.CreateWorkOrderRequest{
		Title: "x", AssetID: "a1", AssignedTo: "u-tec-c2",
	})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestWorkOrder_TecnicoNoAdministraPlantillas(t *testing.T) {
	f := newWorkOrderFixture()

	_, err := f.uc.CreateTemplate(context.Background(), tecnico("u-tec"), dto.TemplateRequest{Name: "Inspección", Title: "Inspección"})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	_, err = f.uc.ListTemplates(context.Background(), tecnico("u-tec"), "")
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestWorkOrder_PlantillaDeOtraEmpresa(t *testing.T) {
	f := newWorkOrderFixture()

	_, err := f.uc.CreateFromTemplate(context.Background(), adminEmpresa("c1"), dto.CreateFromTemplateRequest{TemplateID: "tpl-c2"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	// sin permiso de creación el error es Forbidden, no NotFound
	_, err = f.uc.CreateFromTemplate(context.Background(), tecnico("u-tec"), dto.CreateFromTemplateRequest{TemplateID: "tpl-c2"})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestWorkOrder_TransicionYCierre(t *testing.T) {
	f := newWorkOrderFixture()
	ctx := context.Background()
	wo, err := f.uc.Create(ctx, adminEmpresa("c1"), dto.CreateWorkOrderRequest{Title: "Cambio de correa", AssetID: "a1"})
	require.NoError(t, err)

	out, err := f.uc.Transition(ctx, tecnico("u-tec"), wo.ID, dto.TransitionRequest{Status: entity.WorkOrderInProgress})
	require.NoError(t, err)
	assert.Equal(t, "u-tec", out.AssignedTo)
	assert.NotNil(t, out.StartedAt)

	_, err = f.uc.Transition(ctx, tecnico("u-tec"), wo.ID, dto.TransitionRequest{Status: entity.WorkOrderCompleted})
	require.NoError(t, err)

	_, err = f.uc.Transition(ctx, tecnico("u-tec"), wo.ID, dto.TransitionRequest{Status: entity.WorkOrderClosed})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	out, err = f.uc.Transition(ctx, supervisor(), wo.ID, dto.TransitionRequest{Status: entity.WorkOrderClosed})
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderClosed, out.Status)

	_, err = f.uc.Update(ctx, supervisor(), wo.ID, dto.UpdateWorkOrderRequest{})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestWorkOrder_TransicionInvalida(t *testing.T) {
	f := newWorkOrderFixture()
	ctx := context.Background()
	wo, err := f.uc.Create(ctx, adminEmpresa("c1"), dto.CreateWorkOrderRequest{Title: "x"})
	require.NoError(t, err)

	_, err = f.uc.Transition(ctx, supervisor(), wo.ID, dto.TransitionRequest{Status: entity.WorkOrderCompleted})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestWorkOrder_ListRespetaAlcance(t *testing.T) {
	f := newWorkOrderFixture()
	ctx := context.Background()
	_, err := f.uc.Create(ctx, adminEmpresa("c1"), dto.CreateWorkOrderRequest{Title: "en sede", AssetID: "a1"})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, adminEmpresa("c1"), dto.CreateWorkOrderRequest{Title: "interna"})
	require.NoError(t, err)

	all, err := f.uc.List(ctx, supervisor(), dto.WorkOrderQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	mine, err := f.uc.List(ctx, operario(), dto.WorkOrderQuery{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "en sede", mine.Items[0].Title)

	other, err := f.uc.List(ctx, adminEmpresa("c2"), dto.WorkOrderQuery{})
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}
