package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, COALESCE(company_id::text, ''), COALESCE(client_company_id::text, ''), COALESCE(site_id::text, ''),
	email, password_hash, name, COALESCE(role, ''), COALESCE(custom_role_id::text, ''), status, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.CompanyID, &u.ClientCompanyID, &u.SiteID,
		&u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CustomRoleID, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, company_id, client_company_id, site_id, email, password_hash, name, role, custom_role_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		user.ID, nullable(user.CompanyID), nullable(user.ClientCompanyID), nullable(user.SiteID),
		user.Email, user.PasswordHash, user.Name, nullable(user.Role), nullable(user.CustomRoleID), user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("el email ya está registrado", domain.ErrEmailAlreadyExists)
		}
		return writeErr("insert user", err, "usuario duplicado")
	}
	return nil
}

// GetByID obtiene un usuario por ID dentro del alcance.
func (r *UserRepo) GetByID(ctx context.Context, scope access.Scope, id string) (*entity.User, error) {
	var w where
	w.eq("id", id)
	w.scope(scope, defaultTenant)
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users`+w.sql(), w.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// FindByEmail obtiene un usuario por email (cualquier empresa).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update actualiza un usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET client_company_id = $2, site_id = $3, email = $4, password_hash = $5, name = $6,
		       role = $7, custom_role_id = $8, status = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		user.ID, nullable(user.ClientCompanyID), nullable(user.SiteID), user.Email, user.PasswordHash, user.Name,
		nullable(user.Role), nullable(user.CustomRoleID), user.Status, user.UpdatedAt,
	)
	if err != nil {
		return writeErr("update user", err, "el email ya está registrado")
	}
	return nil
}

// List lista usuarios visibles con paginación.
func (r *UserRepo) List(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.User, error) {
	var w where
	w.scope(scope, defaultTenant)
	query := `SELECT ` + userColumns + ` FROM users` + w.sql() + ` ORDER BY created_at DESC` + w.page(limit, offset)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CountActiveByCompany cuenta usuarios activos de la empresa (límite del plan).
func (r *UserRepo) CountActiveByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE company_id = $1 AND status = 'active'`, companyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CountByCustomRole cuenta usuarios que usan el rol personalizado.
func (r *UserRepo) CountByCustomRole(ctx context.Context, roleID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE custom_role_id = $1`, roleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}
