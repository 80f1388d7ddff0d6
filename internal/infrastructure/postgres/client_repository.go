package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación del puerto ClientRepository (empresas cliente y sedes).
type ClientRepo struct {
	db Querier
}

// NewClientRepository construye el adaptador de persistencia para clientes y sedes.
func NewClientRepository(db Querier) *ClientRepo {
	return &ClientRepo{db: db}
}

var (
	clientTenant = tenantColumns{company: "company_id", client: "id"}
	siteTenant   = tenantColumns{company: "company_id", client: "client_company_id", site: "id"}
)

const (
	clientColumns = `id, company_id, name, nit, email, phone, status, created_at, updated_at`
	siteColumns   = `id, company_id, client_company_id, name, address, city, created_at, updated_at`
)

func scanClient(row interface{ Scan(...any) error }) (*entity.ClientCompany, error) {
	var c entity.ClientCompany
	if err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.NIT, &c.Email, &c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanSite(row interface{ Scan(...any) error }) (*entity.Site, error) {
	var s entity.Site
	if err := row.Scan(&s.ID, &s.CompanyID, &s.ClientCompanyID, &s.Name, &s.Address, &s.City, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateClient persiste una empresa cliente.
func (r *ClientRepo) CreateClient(ctx context.Context, c *entity.ClientCompany) error {
	query := `
		INSERT INTO client_companies (id, company_id, name, nit, email, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, c.ID, c.CompanyID, c.Name, c.NIT, c.Email, c.Phone, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return writeErr("insert client company", err, "empresa cliente duplicada")
	}
	return nil
}

// GetClient obtiene una empresa cliente dentro del alcance.
func (r *ClientRepo) GetClient(ctx context.Context, scope access.Scope, id string) (*entity.ClientCompany, error) {
	var w where
	w.eq("id", id)
	w.scope(scope, clientTenant)
	c, err := scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM client_companies`+w.sql(), w.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client company: %w", err)
	}
	return c, nil
}

// ListClients lista empresas cliente visibles.
func (r *ClientRepo) ListClients(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.ClientCompany, error) {
	var w where
	w.scope(scope, clientTenant)
	query := `SELECT ` + clientColumns + ` FROM client_companies` + w.sql() + ` ORDER BY name` + w.page(limit, offset)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list client companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.ClientCompany
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CreateSite persiste una sede.
func (r *ClientRepo) CreateSite(ctx context.Context, s *entity.Site) error {
	query := `
		INSERT INTO sites (id, company_id, client_company_id, name, address, city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, s.ID, s.CompanyID, s.ClientCompanyID, s.Name, s.Address, s.City, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return writeErr("insert site", err, "sede duplicada")
	}
	return nil
}

// GetSite obtiene una sede dentro del alcance.
func (r *ClientRepo) GetSite(ctx context.Context, scope access.Scope, id string) (*entity.Site, error) {
	var w where
	w.eq("id", id)
	w.scope(scope, siteTenant)
	s, err := scanSite(r.db.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites`+w.sql(), w.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return s, nil
}

// ListSites lista las sedes visibles de una empresa cliente.
func (r *ClientRepo) ListSites(ctx context.Context, scope access.Scope, clientCompanyID string) ([]*entity.Site, error) {
	var w where
	w.eq("client_company_id", clientCompanyID)
	w.scope(scope, siteTenant)
	rows, err := r.db.Query(ctx, `SELECT `+siteColumns+` FROM sites`+w.sql()+` ORDER BY name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
