package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo implementación del puerto WorkOrderRepository sobre PostgreSQL.
type WorkOrderRepo struct {
	db Querier
}

// NewWorkOrderRepository construye el adaptador de persistencia para órdenes de trabajo.
func NewWorkOrderRepository(db Querier) *WorkOrderRepo {
	return &WorkOrderRepo{db: db}
}

const workOrderColumns = `id, company_id, COALESCE(client_company_id::text, ''), COALESCE(site_id::text, ''),
	code, title, description, type, priority, status,
	COALESCE(asset_id::text, ''), COALESCE(assigned_to::text, ''), COALESCE(pm_plan_id::text, ''), COALESCE(template_id::text, ''),
	checklist, due_at, started_at, completed_at, closed_at, COALESCE(created_by::text, ''), created_at, updated_at`

// Estados en los que una OT ya no cuenta como pendiente.
var finishedStatuses = []string{entity.WorkOrderCompleted, entity.WorkOrderClosed, entity.WorkOrderCancelled}

func scanWorkOrder(row interface{ Scan(...any) error }) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := row.Scan(&wo.ID, &wo.CompanyID, &wo.ClientCompanyID, &wo.SiteID,
		&wo.Code, &wo.Title, &wo.Description, &wo.Type, &wo.Priority, &wo.Status,
		&wo.AssetID, &wo.AssignedTo, &wo.PMPlanID, &wo.TemplateID,
		&wo.Checklist, &wo.DueAt, &wo.StartedAt, &wo.CompletedAt, &wo.ClosedAt, &wo.CreatedBy, &wo.CreatedAt, &wo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// Create persiste una orden de trabajo.
func (r *WorkOrderRepo) Create(ctx context.Context, wo *entity.WorkOrder) error {
	query := `
		INSERT INTO work_orders (id, company_id, client_company_id, site_id, code, title, description, type, priority,
		                         status, asset_id, assigned_to, pm_plan_id, template_id, checklist, due_at,
		                         started_at, completed_at, closed_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	checklist := wo.Checklist
	if checklist == nil {
		checklist = []string{}
	}
	_, err := r.db.Exec(ctx, query,
		wo.ID, wo.CompanyID, nullable(wo.ClientCompanyID), nullable(wo.SiteID), wo.Code, wo.Title, wo.Description,
		wo.Type, wo.Priority, wo.Status, nullable(wo.AssetID), nullable(wo.AssignedTo), nullable(wo.PMPlanID),
		nullable(wo.TemplateID), checklist, wo.DueAt, wo.StartedAt, wo.CompletedAt, wo.ClosedAt,
		nullable(wo.CreatedBy), wo.CreatedAt, wo.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert work order", err, "consecutivo de orden duplicado")
	}
	return nil
}

// Update actualiza los campos mutables de la orden.
func (r *WorkOrderRepo) Update(ctx context.Context, wo *entity.WorkOrder) error {
	query := `
		UPDATE work_orders SET title = $2, description = $3, priority = $4, status = $5, assigned_to = $6,
		       checklist = $7, due_at = $8, started_at = $9, completed_at = $10, closed_at = $11, updated_at = $12
		WHERE id = $1`
	checklist := wo.Checklist
	if checklist == nil {
		checklist = []string{}
	}
	_, err := r.db.Exec(ctx, query,
		wo.ID, wo.Title, wo.Description, wo.Priority, wo.Status, nullable(wo.AssignedTo),
		checklist, wo.DueAt, wo.StartedAt, wo.CompletedAt, wo.ClosedAt, wo.UpdatedAt,
	)
	if err != nil {
		return writeErr("update work order", err, "orden duplicada")
	}
	return nil
}

// GetByID obtiene una orden dentro del alcance.
func (r *WorkOrderRepo) GetByID(ctx context.Context, scope access.Scope, id string) (*entity.WorkOrder, error) {
	var w where
	w.eq("id", id)
	w.scope(scope, defaultTenant)
	wo, err := scanWorkOrder(r.db.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders`+w.sql(), w.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return wo, nil
}

// List lista órdenes visibles con filtros opcionales, más recientes primero.
func (r *WorkOrderRepo) List(ctx context.Context, scope access.Scope, f repository.WorkOrderFilter, limit, offset int) ([]*entity.WorkOrder, error) {
	var w where
	w.scope(scope, defaultTenant)
	if f.Status != "" {
		w.eq("status", f.Status)
	}
	if f.Priority != "" {
		w.eq("priority", f.Priority)
	}
	if f.AssetID != "" {
		w.eq("asset_id", f.AssetID)
	}
	if f.AssignedTo != "" {
		w.eq("assigned_to", f.AssignedTo)
	}
	if f.SiteID != "" {
		w.eq("site_id", f.SiteID)
	}
	query := `SELECT ` + workOrderColumns + ` FROM work_orders` + w.sql() + ` ORDER BY created_at DESC` + w.page(limit, offset)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		list = append(list, wo)
	}
	return list, rows.Err()
}

// CountByStatus agrupa las órdenes visibles por estado.
func (r *WorkOrderRepo) CountByStatus(ctx context.Context, scope access.Scope) (map[string]int, error) {
	var w where
	w.scope(scope, defaultTenant)
	return countByStatus(ctx, r.db, `SELECT status, count(*) FROM work_orders`+w.sql()+` GROUP BY status`, w.args)
}

// CountOverdue cuenta las órdenes visibles pendientes con fecha límite vencida.
func (r *WorkOrderRepo) CountOverdue(ctx context.Context, scope access.Scope, now time.Time) (int, error) {
	var w where
	w.scope(scope, defaultTenant)
	w.raw("due_at < " + w.arg(now))
	w.raw("NOT (status = ANY(" + w.arg(finishedStatuses) + "))")
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM work_orders`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count overdue work orders: %w", err)
	}
	return n, nil
}

// ExistsOpenForPlan informa si el plan tiene una OT pendiente.
func (r *WorkOrderRepo) ExistsOpenForPlan(ctx context.Context, planID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM work_orders WHERE pm_plan_id = $1 AND NOT (status = ANY($2)))`
	if err := r.db.QueryRow(ctx, query, planID, finishedStatuses).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open work order for plan: %w", err)
	}
	return exists, nil
}

var _ repository.WorkOrderTemplateRepository = (*WorkOrderTemplateRepo)(nil)

// WorkOrderTemplateRepo implementación del puerto WorkOrderTemplateRepository.
type WorkOrderTemplateRepo struct {
	db Querier
}

// NewWorkOrderTemplateRepository construye el adaptador de persistencia para plantillas.
func NewWorkOrderTemplateRepository(db Querier) *WorkOrderTemplateRepo {
	return &WorkOrderTemplateRepo{db: db}
}

const templateColumns = `id, company_id, name, title, description, type, priority, estimated_minutes, checklist, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }) (*entity.WorkOrderTemplate, error) {
	var t entity.WorkOrderTemplate
	err := row.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Title, &t.Description, &t.Type, &t.Priority,
		&t.EstimatedMinutes, &t.Checklist, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste una plantilla.
func (r *WorkOrderTemplateRepo) Create(ctx context.Context, t *entity.WorkOrderTemplate) error {
	query := `
		INSERT INTO work_order_templates (id, company_id, name, title, description, type, priority, estimated_minutes, checklist, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	checklist := t.Checklist
	if checklist == nil {
		checklist = []string{}
	}
	_, err := r.db.Exec(ctx, query, t.ID, t.CompanyID, t.Name, t.Title, t.Description, t.Type, t.Priority,
		t.EstimatedMinutes, checklist, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return writeErr("insert template", err, "plantilla duplicada")
	}
	return nil
}

// GetByID obtiene una plantilla por ID.
func (r *WorkOrderTemplateRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrderTemplate, error) {
	t, err := scanTemplate(r.db.QueryRow(ctx, `SELECT `+templateColumns+` FROM work_order_templates WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// ListByCompany lista las plantillas de la empresa.
func (r *WorkOrderTemplateRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.WorkOrderTemplate, error) {
	rows, err := r.db.Query(ctx, `SELECT `+templateColumns+` FROM work_order_templates WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkOrderTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Delete elimina una plantilla.
func (r *WorkOrderTemplateRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM work_order_templates WHERE id = $1`, id); err != nil {
		return writeErr("delete template", err, "plantilla en uso")
	}
	return nil
}

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo entrega consecutivos por empresa con un upsert atómico.
type SequenceRepo struct {
	db Querier
}

// NewSequenceRepository construye el adaptador de consecutivos.
func NewSequenceRepository(db Querier) *SequenceRepo {
	return &SequenceRepo{db: db}
}

// Next incrementa y devuelve el consecutivo (empieza en 1).
func (r *SequenceRepo) Next(ctx context.Context, companyID, name string) (int64, error) {
	const query = `
		INSERT INTO company_sequences (company_id, name, value) VALUES ($1, $2, 1)
		ON CONFLICT (company_id, name) DO UPDATE SET value = company_sequences.value + 1
		RETURNING value`
	var v int64
	if err := r.db.QueryRow(ctx, query, companyID, name).Scan(&v); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return v, nil
}
