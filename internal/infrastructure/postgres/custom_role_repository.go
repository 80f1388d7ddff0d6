package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.CustomRoleRepository = (*CustomRoleRepo)(nil)

// CustomRoleRepo implementación del puerto CustomRoleRepository sobre PostgreSQL.
type CustomRoleRepo struct {
	db Querier
}

// NewCustomRoleRepository construye el adaptador de persistencia para roles personalizados.
func NewCustomRoleRepository(db Querier) *CustomRoleRepo {
	return &CustomRoleRepo{db: db}
}

const customRoleColumns = `id, company_id, name, description, permissions, created_at, updated_at`

func scanCustomRole(row interface{ Scan(...any) error }) (*entity.CustomRole, error) {
	var cr entity.CustomRole
	if err := row.Scan(&cr.ID, &cr.CompanyID, &cr.Name, &cr.Description, &cr.Permissions, &cr.CreatedAt, &cr.UpdatedAt); err != nil {
		return nil, err
	}
	return &cr, nil
}

// Create persiste un rol personalizado.
func (r *CustomRoleRepo) Create(ctx context.Context, role *entity.CustomRole) error {
	query := `
		INSERT INTO custom_roles (id, company_id, name, description, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, role.ID, role.CompanyID, role.Name, role.Description, role.Permissions, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		return writeErr("insert custom role", err, "ya existe un rol con ese nombre")
	}
	return nil
}

// GetByID obtiene un rol por ID.
func (r *CustomRoleRepo) GetByID(ctx context.Context, id string) (*entity.CustomRole, error) {
	cr, err := scanCustomRole(r.db.QueryRow(ctx, `SELECT `+customRoleColumns+` FROM custom_roles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get custom role: %w", err)
	}
	return cr, nil
}

// Update actualiza nombre, descripción y permisos.
func (r *CustomRoleRepo) Update(ctx context.Context, role *entity.CustomRole) error {
	query := `UPDATE custom_roles SET name = $2, description = $3, permissions = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, role.ID, role.Name, role.Description, role.Permissions, role.UpdatedAt); err != nil {
		return writeErr("update custom role", err, "ya existe un rol con ese nombre")
	}
	return nil
}

// Delete elimina un rol por ID.
func (r *CustomRoleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM custom_roles WHERE id = $1`, id); err != nil {
		return writeErr("delete custom role", err, "rol en uso")
	}
	return nil
}

// ListByCompany lista los roles de una empresa.
func (r *CustomRoleRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CustomRole, error) {
	rows, err := r.db.Query(ctx, `SELECT `+customRoleColumns+` FROM custom_roles WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list custom roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.CustomRole
	for rows.Next() {
		cr, err := scanCustomRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan custom role: %w", err)
		}
		list = append(list, cr)
	}
	return list, rows.Err()
}
