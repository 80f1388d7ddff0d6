package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/pkg/textutil"
)

var _ repository.AssetRepository = (*AssetRepo)(nil)

// AssetRepo implementación del puerto AssetRepository sobre PostgreSQL.
type AssetRepo struct {
	db Querier
}

// NewAssetRepository construye el adaptador de persistencia para activos.
func NewAssetRepository(db Querier) *AssetRepo {
	return &AssetRepo{db: db}
}

const assetColumns = `id, company_id, COALESCE(client_company_id::text, ''), COALESCE(site_id::text, ''),
	code, name, category, manufacturer, model, serial_number, location, status, criticality,
	installed_at, created_at, updated_at`

func scanAsset(row interface{ Scan(...any) error }) (*entity.Asset, error) {
	var a entity.Asset
	err := row.Scan(&a.ID, &a.CompanyID, &a.ClientCompanyID, &a.SiteID,
		&a.Code, &a.Name, &a.Category, &a.Manufacturer, &a.Model, &a.SerialNumber, &a.Location,
		&a.Status, &a.Criticality, &a.InstalledAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func assetSearchKey(a *entity.Asset) string {
	return textutil.SearchKey(a.Code + " " + a.Name + " " + a.SerialNumber)
}

// Create persiste un activo.
func (r *AssetRepo) Create(ctx context.Context, a *entity.Asset) error {
	query := `
		INSERT INTO assets (id, company_id, client_company_id, site_id, code, name, category, manufacturer, model,
		                    serial_number, location, status, criticality, search_key, installed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.CompanyID, nullable(a.ClientCompanyID), nullable(a.SiteID), a.Code, a.Name, a.Category,
		a.Manufacturer, a.Model, a.SerialNumber, a.Location, a.Status, a.Criticality, assetSearchKey(a),
		a.InstalledAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert asset", err, "ya existe un activo con ese código")
	}
	return nil
}

// Update actualiza un activo.
func (r *AssetRepo) Update(ctx context.Context, a *entity.Asset) error {
	query := `
		UPDATE assets SET client_company_id = $2, site_id = $3, code = $4, name = $5, category = $6,
		       manufacturer = $7, model = $8, serial_number = $9, location = $10, status = $11,
		       criticality = $12, search_key = $13, installed_at = $14, updated_at = $15
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		a.ID, nullable(a.ClientCompanyID), nullable(a.SiteID), a.Code, a.Name, a.Category,
		a.Manufacturer, a.Model, a.SerialNumber, a.Location, a.Status, a.Criticality, assetSearchKey(a),
		a.InstalledAt, a.UpdatedAt,
	)
	if err != nil {
		return writeErr("update asset", err, "ya existe un activo con ese código")
	}
	return nil
}

// GetByID obtiene un activo dentro del alcance.
func (r *AssetRepo) GetByID(ctx context.Context, scope access.Scope, id string) (*entity.Asset, error) {
	var w where
	w.eq("id", id)
	w.scope(scope, defaultTenant)
	a, err := scanAsset(r.db.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets`+w.sql(), w.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

// GetByCode obtiene un activo por código dentro de la empresa.
func (r *AssetRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.Asset, error) {
	a, err := scanAsset(r.db.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE company_id = $1 AND code = $2`, companyID, code))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset by code: %w", err)
	}
	return a, nil
}

// List lista activos visibles con filtros opcionales.
func (r *AssetRepo) List(ctx context.Context, scope access.Scope, f repository.AssetFilter, limit, offset int) ([]*entity.Asset, error) {
	var w where
	w.scope(scope, defaultTenant)
	if f.SiteID != "" {
		w.eq("site_id", f.SiteID)
	}
	if f.Status != "" {
		w.eq("status", f.Status)
	}
	if key := textutil.SearchKey(f.Search); key != "" {
		w.raw("search_key LIKE " + w.arg("%"+key+"%"))
	}
	query := `SELECT ` + assetColumns + ` FROM assets` + w.sql() + ` ORDER BY code` + w.page(limit, offset)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CountByCompany cuenta los activos no dados de baja (límite del plan).
func (r *AssetRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM assets WHERE company_id = $1 AND status <> $2`,
		companyID, entity.AssetStatusRetired).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return n, nil
}

// CountByStatus agrupa los activos visibles por estado.
func (r *AssetRepo) CountByStatus(ctx context.Context, scope access.Scope) (map[string]int, error) {
	var w where
	w.scope(scope, defaultTenant)
	return countByStatus(ctx, r.db, `SELECT status, count(*) FROM assets`+w.sql()+` GROUP BY status`, w.args)
}

func countByStatus(ctx context.Context, db Querier, query string, args []any) (map[string]int, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}
