package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.PMPlanRepository = (*PMPlanRepo)(nil)

// PMPlanRepo implementación del puerto PMPlanRepository sobre PostgreSQL.
type PMPlanRepo struct {
	db Querier
}

// NewPMPlanRepository construye el adaptador de persistencia para planes preventivos.
func NewPMPlanRepository(db Querier) *PMPlanRepo {
	return &PMPlanRepo{db: db}
}

const pmPlanColumns = `id, company_id, COALESCE(client_company_id::text, ''), COALESCE(site_id::text, ''),
	asset_id, COALESCE(template_id::text, ''), name, description, frequency, interval_value, cron_expr,
	priority, lead_days, start_at, next_due_at, last_generated_at, is_active, created_at, updated_at`

func scanPMPlan(row interface{ Scan(...any) error }) (*entity.PMPlan, error) {
	var p entity.PMPlan
	err := row.Scan(&p.ID, &p.CompanyID, &p.ClientCompanyID, &p.SiteID,
		&p.AssetID, &p.TemplateID, &p.Name, &p.Description, &p.Frequency, &p.Interval, &p.CronExpr,
		&p.Priority, &p.LeadDays, &p.StartAt, &p.NextDueAt, &p.LastGeneratedAt, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPMPlans(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]*entity.PMPlan, error) {
	var list []*entity.PMPlan
	for rows.Next() {
		p, err := scanPMPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pm plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un plan preventivo.
func (r *PMPlanRepo) Create(ctx context.Context, p *entity.PMPlan) error {
	query := `
		INSERT INTO pm_plans (id, company_id, client_company_id, site_id, asset_id, template_id, name, description,
		                      frequency, interval_value, cron_expr, priority, lead_days, start_at, next_due_at,
		                      last_generated_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.CompanyID, nullable(p.ClientCompanyID), nullable(p.SiteID), p.AssetID, nullable(p.TemplateID),
		p.Name, p.Description, p.Frequency, p.Interval, p.CronExpr, p.Priority, p.LeadDays, p.StartAt,
		p.NextDueAt, p.LastGeneratedAt, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert pm plan", err, "plan duplicado")
	}
	return nil
}

// Update actualiza un plan preventivo.
func (r *PMPlanRepo) Update(ctx context.Context, p *entity.PMPlan) error {
	query := `
		UPDATE pm_plans SET template_id = $2, name = $3, description = $4, frequency = $5, interval_value = $6,
		       cron_expr = $7, priority = $8, lead_days = $9, next_due_at = $10, last_generated_at = $11,
		       is_active = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		p.ID, nullable(p.TemplateID), p.Name, p.Description, p.Frequency, p.Interval, p.CronExpr,
		p.Priority, p.LeadDays, p.NextDueAt, p.LastGeneratedAt, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return writeErr("update pm plan", err, "plan duplicado")
	}
	return nil
}

// GetByID obtiene un plan dentro del alcance.
func (r *PMPlanRepo) GetByID(ctx context.Context, scope access.Scope, id string) (*entity.PMPlan, error) {
	var w where
	w.eq("id", id)
	w.scope(scope, defaultTenant)
	p, err := scanPMPlan(r.db.QueryRow(ctx, `SELECT `+pmPlanColumns+` FROM pm_plans`+w.sql(), w.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pm plan: %w", err)
	}
	return p, nil
}

// List lista planes visibles con filtros opcionales.
func (r *PMPlanRepo) List(ctx context.Context, scope access.Scope, f repository.PMPlanFilter, limit, offset int) ([]*entity.PMPlan, error) {
	var w where
	w.scope(scope, defaultTenant)
	if f.AssetID != "" {
		w.eq("asset_id", f.AssetID)
	}
	if f.ActiveOnly {
		w.raw("is_active")
	}
	query := `SELECT ` + pmPlanColumns + ` FROM pm_plans` + w.sql() + ` ORDER BY next_due_at` + w.page(limit, offset)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list pm plans: %w", err)
	}
	defer rows.Close()
	return scanPMPlans(rows)
}

// ListDue devuelve planes activos cuya fecha menos la anticipación ya llegó.
func (r *PMPlanRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*entity.PMPlan, error) {
	query := `SELECT ` + pmPlanColumns + ` FROM pm_plans
		WHERE is_active AND next_due_at - make_interval(days => lead_days) <= $1
		ORDER BY next_due_at LIMIT $2`
	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due pm plans: %w", err)
	}
	defer rows.Close()
	return scanPMPlans(rows)
}
