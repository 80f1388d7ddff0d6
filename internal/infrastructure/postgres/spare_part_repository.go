package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/pkg/textutil"
)

var _ repository.SparePartRepository = (*SparePartRepo)(nil)

// SparePartRepo implementación del puerto SparePartRepository (usable con pool o tx).
type SparePartRepo struct {
	q Querier
}

// NewSparePartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSparePartRepository(q Querier) *SparePartRepo {
	return &SparePartRepo{q: q}
}

const sparePartColumns = `id, company_id, sku, name, description, unit, location, stock, min_stock, average_cost, created_at, updated_at`

func scanSparePart(row interface{ Scan(...any) error }) (*entity.SparePart, error) {
	var p entity.SparePart
	err := row.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.Unit, &p.Location,
		&p.Stock, &p.MinStock, &p.AverageCost, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un repuesto.
func (r *SparePartRepo) Create(ctx context.Context, p *entity.SparePart) error {
	query := `
		INSERT INTO spare_parts (id, company_id, sku, name, description, unit, location, stock, min_stock, average_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, p.ID, p.CompanyID, p.SKU, p.Name, p.Description, p.Unit, p.Location,
		p.Stock, p.MinStock, p.AverageCost, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return writeErr("insert spare part", err, "ya existe un repuesto con ese SKU")
	}
	return nil
}

// Update actualiza datos, stock y costo promedio.
func (r *SparePartRepo) Update(ctx context.Context, p *entity.SparePart) error {
	query := `
		UPDATE spare_parts SET name = $2, description = $3, unit = $4, location = $5, stock = $6,
		       min_stock = $7, average_cost = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Description, p.Unit, p.Location, p.Stock, p.MinStock, p.AverageCost, p.UpdatedAt)
	if err != nil {
		return writeErr("update spare part", err, "repuesto duplicado")
	}
	return nil
}

func (r *SparePartRepo) get(ctx context.Context, scope access.Scope, id, suffix string) (*entity.SparePart, error) {
	var w where
	w.eq("id", id)
	w.companyScope(scope, "company_id")
	p, err := scanSparePart(r.q.QueryRow(ctx, `SELECT `+sparePartColumns+` FROM spare_parts`+w.sql()+suffix, w.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get spare part: %w", err)
	}
	return p, nil
}

// GetByID obtiene un repuesto dentro del alcance.
func (r *SparePartRepo) GetByID(ctx context.Context, scope access.Scope, id string) (*entity.SparePart, error) {
	return r.get(ctx, scope, id, "")
}

// GetForUpdate obtiene el repuesto con bloqueo de fila (SELECT ... FOR UPDATE).
func (r *SparePartRepo) GetForUpdate(ctx context.Context, scope access.Scope, id string) (*entity.SparePart, error) {
	return r.get(ctx, scope, id, " FOR UPDATE")
}

// GetBySKU obtiene un repuesto por SKU dentro de la empresa.
func (r *SparePartRepo) GetBySKU(ctx context.Context, companyID, sku string) (*entity.SparePart, error) {
	p, err := scanSparePart(r.q.QueryRow(ctx, `SELECT `+sparePartColumns+` FROM spare_parts WHERE company_id = $1 AND sku = $2`, companyID, sku))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get spare part by sku: %w", err)
	}
	return p, nil
}

// List lista repuestos visibles con filtros opcionales.
func (r *SparePartRepo) List(ctx context.Context, scope access.Scope, f repository.SparePartFilter, limit, offset int) ([]*entity.SparePart, error) {
	var w where
	w.companyScope(scope, "company_id")
	if key := textutil.SearchKey(f.Search); key != "" {
		pattern := w.arg("%" + key + "%")
		w.raw("(lower(sku) LIKE " + pattern + " OR lower(name) LIKE " + pattern + ")")
	}
	if f.LowStock {
		w.raw("min_stock > 0 AND stock <= min_stock")
	}
	query := `SELECT ` + sparePartColumns + ` FROM spare_parts` + w.sql() + ` ORDER BY sku` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list spare parts: %w", err)
	}
	defer rows.Close()
	var list []*entity.SparePart
	for rows.Next() {
		p, err := scanSparePart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan spare part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountLowStock cuenta los repuestos visibles en o bajo el stock mínimo.
func (r *SparePartRepo) CountLowStock(ctx context.Context, scope access.Scope) (int, error) {
	var w where
	w.companyScope(scope, "company_id")
	w.raw("min_stock > 0 AND stock <= min_stock")
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM spare_parts`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}
