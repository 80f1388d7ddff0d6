package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/application/analytics"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

type fakeWorkOrders struct {
	repository.WorkOrderRepository
	err error
}

func (f *fakeWorkOrders) CountByStatus(_ context.Context, scope access.Scope) (map[string]int, error) {
	return map[string]int{entity.WorkOrderOpen: 3, entity.WorkOrderInProgress: 1}, f.err
}
func (f *fakeWorkOrders) CountOverdue(_ context.Context, scope access.Scope, _ time.Time) (int, error) {
	return 2, f.err
}

type fakeAssets struct{ repository.AssetRepository }

func (fakeAssets) CountByStatus(context.Context, access.Scope) (map[string]int, error) {
	return map[string]int{entity.AssetStatusOperational: 7}, nil
}

type fakeParts struct{ repository.SparePartRepository }

func (fakeParts) CountLowStock(context.Context, access.Scope) (int, error) { return 4, nil }

func newUseCase(wo *fakeWorkOrders) *analytics.DashboardUseCase {
	return analytics.NewDashboardUseCase(wo, fakeAssets{}, fakeParts{}, access.NewGuard(access.DefaultTable(), nil))
}

func TestGetSummary_SupervisorVeTodosLosBloques(t *testing.T) {
	uc := newUseCase(&fakeWorkOrders{})
	id := access.Identity{UserID: "u1", Role: access.FixedRole{Key: access.RoleSupervisor}, CompanyID: "c1"}

	out, err := uc.GetSummary(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, 3, out.WorkOrdersByStatus[entity.WorkOrderOpen])
	assert.Equal(t, 0, out.WorkOrdersByStatus[entity.WorkOrderClosed])
	assert.Len(t, out.WorkOrdersByStatus, 7)
	require.NotNil(t, out.OverdueWorkOrders)
	assert.Equal(t, 2, *out.OverdueWorkOrders)
	assert.Equal(t, 7, out.AssetsByStatus[entity.AssetStatusOperational])
	require.NotNil(t, out.LowStockParts)
	assert.Equal(t, 4, *out.LowStockParts)
	assert.NotEmpty(t, out.Period)
}

func TestGetSummary_OperarioNoVeInventario(t *testing.T) {
	uc := newUseCase(&fakeWorkOrders{})
	id := access.Identity{
		UserID: "u2", Role: access.FixedRole{Key: access.RoleClienteOperario},
		CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s1",
	}

	out, err := uc.GetSummary(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, out.WorkOrdersByStatus)
	assert.NotNil(t, out.AssetsByStatus)
	assert.Nil(t, out.LowStockParts)
}

func TestGetSummary_ErrorDeRepositorio(t *testing.T) {
	boom := errors.New("conexión perdida")
	uc := newUseCase(&fakeWorkOrders{err: boom})
	id := access.Identity{UserID: "u1", Role: access.FixedRole{Key: access.RoleAdminEmpresa}, CompanyID: "c1"}

	_, err := uc.GetSummary(context.Background(), id)
	assert.ErrorIs(t, err, boom)
}

func TestGetSummary_SinSesion(t *testing.T) {
	uc := newUseCase(&fakeWorkOrders{})

	_, err := uc.GetSummary(context.Background(), access.Identity{})
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}
