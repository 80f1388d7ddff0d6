//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/postgres"
)

// setupDB levanta PostgreSQL en un contenedor y aplica el esquema.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("mantenimiento_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Docker no disponible: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("migrations/001_schema.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)
	return pool
}

func seedCompany(t *testing.T, repo *postgres.CompanyRepo, nit string) string {
	t.Helper()
	now := time.Now().UTC()
	c := &entity.Company{ID: uuid.NewString(), Name: "Empresa " + nit, NIT: nit, Status: entity.CompanyStatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), c))
	return c.ID
}

// ══════════════════════════════════════════════════════════════════════════════
// Aislamiento entre empresas
// ══════════════════════════════════════════════════════════════════════════════

func TestAssetRepo_AdminEmpresaSoloVeSuEmpresa(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	companies := postgres.NewCompanyRepository(pool)
	assets := postgres.NewAssetRepository(pool)

	c1 := seedCompany(t, companies, "900-1")
	c2 := seedCompany(t, companies, "900-2")
	now := time.Now().UTC()
	for _, c := range []string{c1, c2} {
		require.NoError(t, assets.Create(ctx, &entity.Asset{
			ID: uuid.NewString(), CompanyID: c, Code: "BOMBA-01", Name: "Bomba centrífuga",
			Status: entity.AssetStatusOperational, Criticality: entity.CriticalityHigh, CreatedAt: now, UpdatedAt: now,
		}))
	}

	scope, err := access.ScopeFor(access.Identity{UserID: "u1", Role: access.FixedRole{Key: access.RoleAdminEmpresa}, CompanyID: c1})
	require.NoError(t, err)

	list, err := assets.List(ctx, scope, repository.AssetFilter{Search: "centrifuga"}, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c1, list[0].CompanyID)

	// Un activo de c2 por ID no existe para c1.
	other, err := assets.List(ctx, access.GlobalScope(), repository.AssetFilter{}, 50, 0)
	require.NoError(t, err)
	require.Len(t, other, 2)
	for _, a := range other {
		got, err := assets.GetByID(ctx, scope, a.ID)
		require.NoError(t, err)
		if a.CompanyID == c1 {
			assert.NotNil(t, got)
		} else {
			assert.Nil(t, got)
		}
	}

	// Alcance cero no ve nada.
	none, err := assets.List(ctx, access.Scope{}, repository.AssetFilter{}, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSequenceRepo_Consecutivo(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	c1 := seedCompany(t, postgres.NewCompanyRepository(pool), "900-3")
	seq := postgres.NewSequenceRepository(pool)

	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(ctx, c1, "work_order")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := seq.Next(ctx, c1, "JSA")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestTxRunner_RollbackAnteError(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	c1 := seedCompany(t, postgres.NewCompanyRepository(pool), "900-4")
	now := time.Now().UTC()
	part := &entity.SparePart{
		ID: uuid.NewString(), CompanyID: c1, SKU: "ROD-6204", Name: "Rodamiento", Unit: "UND",
		Stock: decimal.NewFromInt(5), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewSparePartRepository(pool).Create(ctx, part))

	scope := access.GlobalScope()
	runner := postgres.NewTxRunner(pool)
	err := runner.Run(ctx, func(parts repository.SparePartRepository, movs repository.InventoryMovementRepository, _ repository.WorkOrderRepository) error {
		locked, err := parts.GetForUpdate(ctx, scope, part.ID)
		require.NoError(t, err)
		locked.Stock = decimal.Zero
		require.NoError(t, parts.Update(ctx, locked))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	after, err := postgres.NewSparePartRepository(pool).GetByID(ctx, scope, part.ID)
	require.NoError(t, err)
	assert.True(t, after.Stock.Equal(decimal.NewFromInt(5)))
}
