package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	db Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

const companyColumns = `id, name, nit, address, phone, email, status, COALESCE(plan_id::text, ''), created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(&c.ID, &c.Name, &c.NIT, &c.Address, &c.Phone, &c.Email, &c.Status, &c.PlanID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, nit, address, phone, email, status, plan_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		company.ID, company.Name, company.NIT, company.Address,
		company.Phone, company.Email, company.Status, nullable(company.PlanID),
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert company", err, "ya existe una empresa con ese NIT")
	}
	return nil
}

// GetByID obtiene una empresa por ID dentro del alcance.
func (r *CompanyRepo) GetByID(ctx context.Context, scope access.Scope, id string) (*entity.Company, error) {
	var w where
	w.eq("id", id)
	w.companyScope(scope, "id")
	c, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies`+w.sql(), w.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByNIT obtiene una empresa por NIT.
func (r *CompanyRepo) GetByNIT(ctx context.Context, nit string) (*entity.Company, error) {
	c, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE nit = $1`, nit))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by NIT: %w", err)
	}
	return c, nil
}

// Update actualiza una empresa existente.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, address = $3, phone = $4, email = $5, status = $6, plan_id = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query,
		company.ID, company.Name, company.Address, company.Phone, company.Email,
		company.Status, nullable(company.PlanID), company.UpdatedAt,
	)
	if err != nil {
		return writeErr("update company", err, "empresa duplicada")
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update company %s: sin filas", company.ID)
	}
	return nil
}

// List devuelve empresas visibles con paginación.
func (r *CompanyRepo) List(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.Company, error) {
	var w where
	w.companyScope(scope, "id")
	query := `SELECT ` + companyColumns + ` FROM companies` + w.sql() + ` ORDER BY created_at DESC` + w.page(limit, offset)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
// Consulta directamente company_modules para una respuesta O(1) vía índice.
func (r *CompanyRepo) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM company_modules
			 WHERE company_id  = $1
			   AND module_name = $2
			   AND is_active   = true
			   AND (expires_at IS NULL OR expires_at > now())
		)`
	var active bool
	if err := r.db.QueryRow(ctx, query, companyID, moduleName).Scan(&active); err != nil {
		return false, fmt.Errorf("check module %s: %w", moduleName, err)
	}
	return active, nil
}

// SetModules activa los módulos indicados (upsert) y desactiva los que no están en la lista.
func (r *CompanyRepo) SetModules(ctx context.Context, companyID string, modules []string, at time.Time) error {
	const upsert = `
		INSERT INTO company_modules (company_id, module_name, is_active, activated_at, created_at, updated_at)
		SELECT $1, m, true, $3, $3, $3 FROM unnest($2::text[]) AS m
		ON CONFLICT (company_id, module_name)
		DO UPDATE SET is_active = true, activated_at = EXCLUDED.activated_at, expires_at = NULL, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.Exec(ctx, upsert, companyID, modules, at); err != nil {
		return fmt.Errorf("activate modules: %w", err)
	}
	const disable = `
		UPDATE company_modules SET is_active = false, updated_at = $3
		WHERE company_id = $1 AND NOT (module_name = ANY($2::text[])) AND is_active`
	if _, err := r.db.Exec(ctx, disable, companyID, modules, at); err != nil {
		return fmt.Errorf("deactivate modules: %w", err)
	}
	return nil
}
