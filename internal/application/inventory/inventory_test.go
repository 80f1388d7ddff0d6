package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/inventory"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeParts struct {
	rows    map[string]*entity.SparePart
	updates int
}

func (f *fakeParts) Create(_ context.Context, p *entity.SparePart) error {
	f.rows[p.ID] = p
	return nil
}
func (f *fakeParts) Update(_ context.Context, p *entity.SparePart) error {
	f.updates++
	f.rows[p.ID] = p
	return nil
}
func (f *fakeParts) GetByID(_ context.Context, scope access.Scope, id string) (*entity.SparePart, error) {
	p, ok := f.rows[id]
	if !ok || !scope.AllowsCompany(p.CompanyID) {
		return nil, nil
	}
	return p, nil
}
func (f *fakeParts) GetForUpdate(ctx context.Context, scope access.Scope, id string) (*entity.SparePart, error) {
	return f.GetByID(ctx, scope, id)
}
func (f *fakeParts) GetBySKU(_ context.Context, companyID, sku string) (*entity.SparePart, error) {
	for _, p := range f.rows {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakeParts) List(_ context.Context, scope access.Scope, flt repository.SparePartFilter, _, _ int) ([]*entity.SparePart, error) {
	var out []*entity.SparePart
	for _, p := range f.rows {
		if !scope.AllowsCompany(p.CompanyID) {
			continue
		}
		if flt.LowStock && !p.LowStock() {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
func (f *fakeParts) CountLowStock(context.Context, access.Scope) (int, error) { return 0, nil }

type fakeMovements struct {
	rows []*entity.InventoryMovement
}

func (f *fakeMovements) Create(_ context.Context, m *entity.InventoryMovement) error {
	f.rows = append(f.rows, m)
	return nil
}
func (f *fakeMovements) ListByPart(_ context.Context, partID string, _, _ int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range f.rows {
		if m.SparePartID == partID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (f *fakeMovements) ListByWorkOrder(context.Context, string) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

// fakeWorkOrders solo implementa GetByID; el resto del puerto no se usa aquí.
type fakeWorkOrders struct {
	repository.WorkOrderRepository
	rows map[string]*entity.WorkOrder
}

func (f *fakeWorkOrders) GetByID(_ context.Context, scope access.Scope, id string) (*entity.WorkOrder, error) {
	wo, ok := f.rows[id]
	if !ok || !scope.Allows(wo.Tenancy()) {
		return nil, nil
	}
	return wo, nil
}

// fakeTx ejecuta la función sin transacción real; un error descarta los cambios del repuesto.
type fakeTx struct {
	parts *fakeParts
	movs  *fakeMovements
	wos   *fakeWorkOrders
}

func (f *fakeTx) Run(_ context.Context, fn func(repository.SparePartRepository, repository.InventoryMovementRepository, repository.WorkOrderRepository) error) error {
	snapshot := make(map[string]entity.SparePart, len(f.parts.rows))
	for id, p := range f.parts.rows {
		snapshot[id] = *p
	}
	if err := fn(f.parts, f.movs, f.wos); err != nil {
		for id, p := range snapshot {
			p := p
			f.parts.rows[id] = &p
		}
		return err
	}
	return nil
}

const (
	partID = "11111111-1111-1111-1111-111111111111"
	woID   = "22222222-2222-2222-2222-222222222222"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func admin(companyID string) access.Identity {
	return access.Identity{UserID: "u-admin", Role: access.FixedRole{Key: access.RoleAdminEmpresa}, CompanyID: companyID}
}

func tecnico() access.Identity {
	return access.Identity{UserID: "u-tec", Role: access.FixedRole{Key: access.RoleTecnico}, CompanyID: "c1"}
}

func setup() (*fakeTx, *access.Guard) {
	parts := &fakeParts{rows: map[string]*entity.SparePart{
		partID: {ID: partID, CompanyID: "c1", SKU: "ROD-6204", Name: "Rodamiento", Stock: dec("10"), MinStock: dec("4"), AverageCost: dec("100")},
	}}
	wos := &fakeWorkOrders{rows: map[string]*entity.WorkOrder{
		woID: {ID: woID, CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s1", Status: entity.WorkOrderInProgress},
	}}
	return &fakeTx{parts: parts, movs: &fakeMovements{}, wos: wos}, access.NewGuard(access.DefaultTable(), nil)
}

// ─────────────────────────────────────────────────────────────────────────────
// Movimientos
// ─────────────────────────────────────────────────────────────────────────────

func TestRegister_EntradaRecalculaCostoPromedio(t *testing.T) {
	tx, guard := setup()
	uc := inventory.NewRegisterMovementUseCase(tx, guard)
	cost := dec("130")

	out, err := uc.Register(context.Background(), admin("c1"), dto.RegisterMovementRequest{
		SparePartID: partID, Type: entity.MovementTypeIN, Quantity: dec("5"), UnitCost: &cost,
	})
	require.NoError(t, err)

	// (10*100 + 5*130) / 15 = 110
	part := tx.parts.rows[partID]
	assert.True(t, part.Stock.Equal(dec("15")))
	assert.True(t, part.AverageCost.Equal(dec("110")), part.AverageCost.String())
	assert.True(t, out.StockAfter.Equal(dec("15")))
	assert.True(t, out.TotalCost.Equal(dec("650")))
	assert.Len(t, tx.movs.rows, 1)
	assert.Equal(t, "c1", tx.movs.rows[0].CompanyID)
}

func TestRegister_EntradaSinCosto(t *testing.T) {
	tx, guard := setup()
	uc := inventory.NewRegisterMovementUseCase(tx, guard)

	_, err := uc.Register(context.Background(), admin("c1"), dto.RegisterMovementRequest{
		SparePartID: partID, Type: entity.MovementTypeIN, Quantity: dec("5"),
	})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestRegister_SalidaContraOrden(t *testing.T) {
	tx, guard := setup()
	uc := inventory.NewRegisterMovementUseCase(tx, guard)

	out, err := uc.Register(context.Background(), admin("c1"), dto.RegisterMovementRequest{
		SparePartID: partID, Type: entity.MovementTypeOUT, Quantity: dec("3"), WorkOrderID: woID,
	})
	require.NoError(t, err)
	assert.True(t, out.Quantity.Equal(dec("-3")))
	assert.True(t, out.UnitCost.Equal(dec("100")))
	assert.Equal(t, woID, out.WorkOrderID)
	assert.True(t, tx.parts.rows[partID].Stock.Equal(dec("7")))
}

func TestRegister_StockInsuficienteNoPersiste(t *testing.T) {
	tx, guard := setup()
	uc := inventory.NewRegisterMovementUseCase(tx, guard)

	_, err := uc.Register(context.Background(), admin("c1"), dto.RegisterMovementRequest{
		SparePartID: partID, Type: entity.MovementTypeOUT, Quantity: dec("11"),
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, tx.parts.rows[partID].Stock.Equal(dec("10")))
	assert.Empty(t, tx.movs.rows)
	assert.Zero(t, tx.parts.updates)
}

func TestRegister_OrdenCerrada(t *testing.T) {
	tx, guard := setup()
	tx.wos.rows[woID].Status = entity.WorkOrderClosed
	uc := inventory.NewRegisterMovementUseCase(tx, guard)

	_, err := uc.Register(context.Background(), admin("c1"), dto.RegisterMovementRequest{
		SparePartID: partID, Type: entity.MovementTypeOUT, Quantity: dec("1"), WorkOrderID: woID,
	})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Empty(t, tx.movs.rows)
}

func TestRegister_OtraEmpresaNoVeElRepuesto(t *testing.T) {
	tx, guard := setup()
	uc := inventory.NewRegisterMovementUseCase(tx, guard)

	_, err := uc.Register(context.Background(), admin("c2"), dto.RegisterMovementRequest{
		SparePartID: partID, Type: entity.MovementTypeADJUSTMENT, Quantity: dec("-1"),
	})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestRegister_TecnicoSinPermiso(t *testing.T) {
	tx, guard := setup()
	uc := inventory.NewRegisterMovementUseCase(tx, guard)

	_, err := uc.Register(context.Background(), tecnico(), dto.RegisterMovementRequest{
		SparePartID: partID, Type: entity.MovementTypeADJUSTMENT, Quantity: dec("1"),
	})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Catálogo
// ─────────────────────────────────────────────────────────────────────────────

func TestSparePart_CreateNormalizaYRechazaDuplicado(t *testing.T) {
	tx, guard := setup()
	uc := inventory.NewSparePartUseCase(tx.parts, tx.movs, guard)

	out, err := uc.Create(context.Background(), admin("c1"), dto.CreateSparePartRequest{SKU: " filtro aire ", Name: "Filtro", MinStock: dec("2")})
	require.NoError(t, err)
	assert.Equal(t, "FILTRO-AIRE", out.SKU)
	assert.Equal(t, "UND", out.Unit)
	assert.True(t, out.Stock.IsZero())

	_, err = uc.Create(context.Background(), admin("c1"), dto.CreateSparePartRequest{SKU: "rod 6204", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestSparePart_MovementsRespetaAlcance(t *testing.T) {
	tx, guard := setup()
	tx.movs.rows = []*entity.InventoryMovement{{ID: "m1", SparePartID: partID, Type: entity.MovementTypeIN, Quantity: dec("10")}}
	uc := inventory.NewSparePartUseCase(tx.parts, tx.movs, guard)

	list, err := uc.Movements(context.Background(), tecnico(), partID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = uc.Movements(context.Background(), admin("c2"), partID, dto.PageRequest{})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Reposición
// ─────────────────────────────────────────────────────────────────────────────

func TestReplenishment_PriorizaMenorStockRelativo(t *testing.T) {
	tx, guard := setup()
	tx.parts.rows = map[string]*entity.SparePart{
		"a": {ID: "a", CompanyID: "c1", SKU: "A", Stock: dec("3"), MinStock: dec("4"), AverageCost: dec("10")},
		"b": {ID: "b", CompanyID: "c1", SKU: "B", Stock: dec("0"), MinStock: dec("5"), AverageCost: dec("2")},
		"c": {ID: "c", CompanyID: "c1", SKU: "C", Stock: dec("9"), MinStock: dec("5"), AverageCost: dec("1")},
		"d": {ID: "d", CompanyID: "c2", SKU: "D", Stock: dec("0"), MinStock: dec("5"), AverageCost: dec("1")},
	}
	uc := inventory.NewReplenishmentUseCase(tx.parts, guard)

	list, err := uc.GenerateReplenishmentList(context.Background(), admin("c1"))
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "B", list[0].SKU)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].SuggestedOrderQty.Equal(dec("10")))
	assert.True(t, list[0].EstimatedOrderCost.Equal(dec("20")))

	assert.Equal(t, "A", list[1].SKU)
	assert.True(t, list[1].IdealStock.Equal(dec("8")))
	assert.True(t, list[1].SuggestedOrderQty.Equal(dec("5")))
	assert.Equal(t, 2, list[1].Priority)
}
