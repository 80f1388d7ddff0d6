package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo implementación del puerto PlanRepository sobre PostgreSQL.
type PlanRepo struct {
	db Querier
}

// NewPlanRepository construye el adaptador de persistencia para planes de suscripción.
func NewPlanRepository(db Querier) *PlanRepo {
	return &PlanRepo{db: db}
}

const planColumns = `p.id, p.name, p.modules, p.max_users, p.max_assets, p.price_monthly, p.is_active, p.created_at, p.updated_at`

func scanPlan(row interface{ Scan(...any) error }) (*entity.SubscriptionPlan, error) {
	var p entity.SubscriptionPlan
	err := row.Scan(&p.ID, &p.Name, &p.Modules, &p.MaxUsers, &p.MaxAssets, &p.PriceMonthly, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un plan.
func (r *PlanRepo) Create(ctx context.Context, p *entity.SubscriptionPlan) error {
	query := `
		INSERT INTO subscription_plans (id, name, modules, max_users, max_assets, price_monthly, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, p.ID, p.Name, p.Modules, p.MaxUsers, p.MaxAssets, p.PriceMonthly, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return writeErr("insert plan", err, "ya existe un plan con ese nombre")
	}
	return nil
}

// GetByID obtiene un plan por ID.
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error) {
	p, err := scanPlan(r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM subscription_plans p WHERE p.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// Update actualiza un plan.
func (r *PlanRepo) Update(ctx context.Context, p *entity.SubscriptionPlan) error {
	query := `
		UPDATE subscription_plans SET name = $2, modules = $3, max_users = $4, max_assets = $5,
		       price_monthly = $6, is_active = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query, p.ID, p.Name, p.Modules, p.MaxUsers, p.MaxAssets, p.PriceMonthly, p.IsActive, p.UpdatedAt)
	if err != nil {
		return writeErr("update plan", err, "ya existe un plan con ese nombre")
	}
	return nil
}

// List devuelve todos los planes (catálogo global).
func (r *PlanRepo) List(ctx context.Context) ([]*entity.SubscriptionPlan, error) {
	rows, err := r.db.Query(ctx, `SELECT `+planColumns+` FROM subscription_plans p ORDER BY p.price_monthly, p.name`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	var list []*entity.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByCompany devuelve el plan asignado a la empresa.
func (r *PlanRepo) GetByCompany(ctx context.Context, companyID string) (*entity.SubscriptionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans p JOIN companies c ON c.plan_id = p.id WHERE c.id = $1`
	p, err := scanPlan(r.db.QueryRow(ctx, query, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan by company: %w", err)
	}
	return p, nil
}
