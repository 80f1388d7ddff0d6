package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ports"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/maintenance"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// WorkOrderDeps agrupa los puertos que usa WorkOrderUseCase.
type WorkOrderDeps struct {
	WorkOrders repository.WorkOrderRepository
	Templates  repository.WorkOrderTemplateRepository
	Sequences  repository.SequenceRepository
	Assets     repository.AssetRepository
	Users      repository.UserRepository
	Companies  repository.CompanyRepository
	Clients    repository.ClientRepository
	Movements  repository.InventoryMovementRepository
	PDF        ports.PDFRenderer
	Guard      *access.Guard
}

// WorkOrderUseCase aplica reglas de negocio para órdenes de trabajo y plantillas.
type WorkOrderUseCase struct {
	d      WorkOrderDeps
	placer placer
}

// NewWorkOrderUseCase construye el caso de uso.
func NewWorkOrderUseCase(d WorkOrderDeps) *WorkOrderUseCase {
	return &WorkOrderUseCase{d: d, placer: placer{clients: d.Clients}}
}

// Create registra una OT. Con activo, el cliente y la sede se toman del activo.
// Indicar un técnico exige además work_orders.assign.
func (uc *WorkOrderUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	return uc.create(ctx, id, in, "")
}

func (uc *WorkOrderUseCase) create(ctx context.Context, id access.Identity, in dto.CreateWorkOrderRequest, templateID string) (*dto.WorkOrderResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, access.PermWorkOrdersCreate)
	if err != nil {
		return nil, err
	}
	t, err := uc.locate(ctx, scope, in.CompanyID, in.AssetID, in.ClientCompanyID, in.SiteID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	wo := &entity.WorkOrder{
		ID:              uuid.New().String(),
		CompanyID:       t.CompanyID,
		ClientCompanyID: t.ClientCompanyID,
		SiteID:          t.SiteID,
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Type:            in.Type,
		Priority:        in.Priority,
		Status:          entity.WorkOrderOpen,
		AssetID:         in.AssetID,
		TemplateID:      templateID,
		Checklist:       cleanChecklist(in.Checklist),
		DueAt:           in.DueAt,
		CreatedBy:       id.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.AssignedTo != "" {
		if err := uc.d.Guard.Require(id, access.PermWorkOrdersAssign); err != nil {
			return nil, err
		}
		if err := uc.checkAssignee(ctx, scope, wo, in.AssignedTo); err != nil {
			return nil, err
		}
		if err := maintenance.Assign(wo, in.AssignedTo, now); err != nil {
			return nil, err
		}
	}
	if wo.Code, err = nextCode(ctx, uc.d.Sequences, wo.CompanyID, "OT"); err != nil {
		return nil, err
	}
	if err := uc.d.WorkOrders.Create(ctx, wo); err != nil {
		return nil, err
	}
	return toWorkOrderResponse(wo, now), nil
}

// CreateFromTemplate crea una OT copiando título, tipo, prioridad y checklist de una
// plantilla de la misma empresa.
func (uc *WorkOrderUseCase) CreateFromTemplate(ctx context.Context, id access.Identity, in dto.CreateFromTemplateRequest) (*dto.WorkOrderResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, access.PermWorkOrdersCreate)
	if err != nil {
		return nil, err
	}
	tpl, err := uc.d.Templates.GetByID(ctx, in.TemplateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil || !(scope.IsGlobal() || scope.CompanyID == tpl.CompanyID) {
		return nil, domain.NotFound("plantilla no encontrada")
	}
	req := dto.CreateWorkOrderRequest{
		CompanyID:       tpl.CompanyID,
		Title:           tpl.Title,
		Description:     tpl.Description,
		Type:            tpl.Type,
		Priority:        tpl.Priority,
		AssetID:         in.AssetID,
		ClientCompanyID: in.ClientCompanyID,
		SiteID:          in.SiteID,
		DueAt:           in.DueAt,
		Checklist:       tpl.Checklist,
	}
	return uc.create(ctx, id, req, tpl.ID)
}

// GetByID obtiene una OT visible en el alcance.
func (uc *WorkOrderUseCase) GetByID(ctx context.Context, id access.Identity, woID string) (*dto.WorkOrderResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, access.PermWorkOrdersView)
	if err != nil {
		return nil, err
	}
	wo, err := uc.load(ctx, scope, woID)
	if err != nil {
		return nil, err
	}
	return toWorkOrderResponse(wo, time.Now()), nil
}

// List lista OTs del alcance con filtros opcionales.
func (uc *WorkOrderUseCase) List(ctx context.Context, id access.Identity, q dto.WorkOrderQuery) (*dto.ListResponse[dto.WorkOrderResponse], error) {
	scope, err := uc.d.Guard.Authorize(id, access.PermWorkOrdersView)
	if err != nil {
		return nil, err
	}
	if q.Status != "" && !maintenance.IsWorkOrderStatus(q.Status) {
		return nil, domain.InvalidInput("estado de orden desconocido", map[string]string{"status": q.Status})
	}
	q.DefaultPage()
	f := repository.WorkOrderFilter{
		Status: q.Status, Priority: q.Priority, AssetID: q.AssetID, AssignedTo: q.AssignedTo, SiteID: q.SiteID,
	}
	list, err := uc.d.WorkOrders.List(ctx, scope, f, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	items := make([]dto.WorkOrderResponse, 0, len(list))
	for _, wo := range list {
		items = append(items, *toWorkOrderResponse(wo, now))
	}
	out := dto.NewList(items, q.PageRequest)
	return &out, nil
}

// Update edita los campos descriptivos de una OT no terminada.
func (uc *WorkOrderUseCase) Update(ctx context.Context, id access.Identity, woID string, in dto.UpdateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, access.PermWorkOrdersUpdate)
	if err != nil {
		return nil, err
	}
	wo, err := uc.load(ctx, scope, woID)
	if err != nil {
		return nil, err
	}
	if maintenance.IsTerminal(wo.Status) {
		return nil, domain.Conflict("la orden ya está "+wo.Status, domain.ErrInvalidTransition)
	}
	if in.Title != nil {
		wo.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		wo.Description = strings.TrimSpace(*in.Description)
	}
	if in.Priority != nil {
		wo.Priority = *in.Priority
	}
	if in.DueAt != nil {
		wo.DueAt = in.DueAt
	}
	now := time.Now()
	wo.UpdatedAt = now
	if err := uc.d.WorkOrders.Update(ctx, wo); err != nil {
		return nil, err
	}
	return toWorkOrderResponse(wo, now), nil
}

// Transition cambia el estado de la OT. Cerrar exige además work_orders.close.
// Iniciar una OT sin responsable la asigna a quien la inicia.
func (uc *WorkOrderUseCase) Transition(ctx context.Context, id access.Identity, woID string, in dto.TransitionRequest) (*dto.WorkOrderResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, access.PermWorkOrdersUpdate)
	if err != nil {
		return nil, err
	}
	if maintenance.RequiresClosePermission(in.Status) {
		if err := uc.d.Guard.Require(id, access.PermWorkOrdersClose); err != nil {
			return nil, err
		}
	}
	wo, err := uc.load(ctx, scope, woID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := maintenance.Transition(wo, in.Status, now); err != nil {
		return nil, err
	}
	if wo.Status == entity.WorkOrderInProgress && wo.AssignedTo == "" {
		wo.AssignedTo = id.UserID
	}
	if err := uc.d.WorkOrders.Update(ctx, wo); err != nil {
		return nil, err
	}
	return toWorkOrderResponse(wo, now), nil
}

// Assign asigna un técnico de la empresa dueña de la OT.
func (uc *WorkOrderUseCase) Assign(ctx context.Context, id access.Identity, woID string, in dto.AssignRequest) (*dto.WorkOrderResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, access.PermWorkOrdersAssign)
	if err != nil {
		return nil, err
	}
	wo, err := uc.load(ctx, scope, woID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkAssignee(ctx, scope, wo, in.UserID); err != nil {
		return nil, err
	}
	now := time.Now()
	if err := maintenance.Assign(wo, in.UserID, now); err != nil {
		return nil, err
	}
	if err := uc.d.WorkOrders.Update(ctx, wo); err != nil {
		return nil, err
	}
	return toWorkOrderResponse(wo, now), nil
}

// PDF genera la hoja de trabajo de la OT. Devuelve (bytes, nombre de archivo, error).
func (uc *WorkOrderUseCase) PDF(ctx context.Context, id access.Identity, woID string) ([]byte, string, error) {
	scope, err := uc.d.Guard.Authorize(id, access.PermWorkOrdersView)
	if err != nil {
		return nil, "", err
	}
	if uc.d.PDF == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	wo, err := uc.load(ctx, scope, woID)
	if err != nil {
		return nil, "", err
	}
	// La OT ya pasó el alcance; empresa y técnico son datos de cabecera.
	company, err := uc.d.Companies.GetByID(ctx, access.GlobalScope(), wo.CompanyID)
	if err != nil {
		return nil, "", err
	}
	report := ports.WorkOrderReport{Company: company, WorkOrder: wo}
	if wo.AssetID != "" {
		if report.Asset, err = uc.d.Assets.GetByID(ctx, scope, wo.AssetID); err != nil {
			return nil, "", err
		}
	}
	if wo.AssignedTo != "" {
		u, err := uc.d.Users.GetByID(ctx, access.GlobalScope(), wo.AssignedTo)
		if err != nil {
			return nil, "", err
		}
		if u != nil {
			report.AssigneeName = u.Name
		}
	}
	if report.Movements, err = uc.d.Movements.ListByWorkOrder(ctx, wo.ID); err != nil {
		return nil, "", err
	}
	pdf, err := uc.d.PDF.WorkOrderPDF(ctx, report)
	if err != nil {
		return nil, "", err
	}
	return pdf, wo.Code + ".pdf", nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Plantillas
// ─────────────────────────────────────────────────────────────────────────────

// ListTemplates lista las plantillas de la empresa.
func (uc *WorkOrderUseCase) ListTemplates(ctx context.Context, id access.Identity, companyID string) ([]dto.TemplateResponse, error) {
	companyID, err := uc.templateCompany(id, companyID)
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Templates.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TemplateResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTemplateResponse(t))
	}
	return out, nil
}

// CreateTemplate registra una plantilla de OT.
func (uc *WorkOrderUseCase) CreateTemplate(ctx context.Context, id access.Identity, in dto.TemplateRequest) (*dto.TemplateResponse, error) {
	companyID, err := uc.templateCompany(id, in.CompanyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	tpl := &entity.WorkOrderTemplate{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		Name:             strings.TrimSpace(in.Name),
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		Type:             in.Type,
		Priority:         in.Priority,
		EstimatedMinutes: in.EstimatedMinutes,
		Checklist:        cleanChecklist(in.Checklist),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.d.Templates.Create(ctx, tpl); err != nil {
		return nil, err
	}
	out := toTemplateResponse(tpl)
	return &out, nil
}

// DeleteTemplate borra una plantilla de la empresa.
func (uc *WorkOrderUseCase) DeleteTemplate(ctx context.Context, id access.Identity, tplID string) error {
	scope, err := uc.d.Guard.Authorize(id, access.PermWorkOrdersManageTemplates)
	if err != nil {
		return err
	}
	tpl, err := uc.d.Templates.GetByID(ctx, tplID)
	if err != nil {
		return err
	}
	if tpl == nil || !scope.AllowsCompany(tpl.CompanyID) {
		return domain.NotFound("plantilla no encontrada")
	}
	return uc.d.Templates.Delete(ctx, tpl.ID)
}

func (uc *WorkOrderUseCase) templateCompany(id access.Identity, requested string) (string, error) {
	scope, err := uc.d.Guard.Authorize(id, access.PermWorkOrdersManageTemplates)
	if err != nil {
		return "", err
	}
	companyID, err := scope.CompanyFor(requested)
	if err != nil {
		return "", err
	}
	if !scope.AllowsCompany(companyID) {
		return "", domain.Forbidden("las plantillas son de nivel empresa")
	}
	return companyID, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (uc *WorkOrderUseCase) load(ctx context.Context, scope access.Scope, woID string) (*entity.WorkOrder, error) {
	wo, err := uc.d.WorkOrders.GetByID(ctx, scope, woID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.NotFound("orden de trabajo no encontrada")
	}
	return wo, nil
}

// locate decide el tenant de una OT nueva: el del activo si se indica, si no el de la
// sede, el cliente o el propio alcance.
func (uc *WorkOrderUseCase) locate(ctx context.Context, scope access.Scope, companyID, assetID, clientID, siteID string) (access.Tenancy, error) {
	if assetID == "" {
		return uc.placer.place(ctx, scope, companyID, clientID, siteID)
	}
	asset, err := uc.d.Assets.GetByID(ctx, scope, assetID)
	if err != nil {
		return access.Tenancy{}, err
	}
	if asset == nil {
		return access.Tenancy{}, domain.InvalidInput("activo no encontrado", map[string]string{"asset_id": assetID})
	}
	if (siteID != "" && siteID != asset.SiteID) || (clientID != "" && clientID != asset.ClientCompanyID) {
		return access.Tenancy{}, domain.InvalidInput("el activo no está en la sede indicada", map[string]string{"asset_id": assetID})
	}
	if companyID != "" && companyID != asset.CompanyID {
		return access.Tenancy{}, domain.Forbidden("no puede operar sobre otra empresa")
	}
	return asset.Tenancy(), nil
}

// checkAssignee exige un usuario activo de la empresa de la OT que no sea de cliente.
func (uc *WorkOrderUseCase) checkAssignee(ctx context.Context, scope access.Scope, wo *entity.WorkOrder, userID string) error {
	u, err := uc.d.Users.GetByID(ctx, scope, userID)
	if err != nil {
		return err
	}
	if u == nil || u.CompanyID != wo.CompanyID || u.ClientCompanyID != "" {
		return domain.InvalidInput("técnico no encontrado en la empresa", map[string]string{"user_id": userID})
	}
	if !u.IsActive() {
		return domain.Conflict("el técnico está inactivo", domain.ErrConflict)
	}
	return nil
}

// nextCode genera el consecutivo legible por empresa: OT-000123, JSA-000007.
func nextCode(ctx context.Context, seq repository.SequenceRepository, companyID, prefix string) (string, error) {
	n, err := seq.Next(ctx, companyID, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", prefix, n), nil
}

func cleanChecklist(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func toWorkOrderResponse(wo *entity.WorkOrder, now time.Time) *dto.WorkOrderResponse {
	checklist := wo.Checklist
	if checklist == nil {
		checklist = []string{}
	}
	return &dto.WorkOrderResponse{
		ID:              wo.ID,
		CompanyID:       wo.CompanyID,
		ClientCompanyID: wo.ClientCompanyID,
		SiteID:          wo.SiteID,
		Code:            wo.Code,
		Title:           wo.Title,
		Description:     wo.Description,
		Type:            wo.Type,
		Priority:        wo.Priority,
		Status:          wo.Status,
		AssetID:         wo.AssetID,
		AssignedTo:      wo.AssignedTo,
		PMPlanID:        wo.PMPlanID,
		TemplateID:      wo.TemplateID,
		Checklist:       checklist,
		Overdue:         maintenance.Overdue(wo, now),
		DueAt:           wo.DueAt,
		StartedAt:       wo.StartedAt,
		CompletedAt:     wo.CompletedAt,
		ClosedAt:        wo.ClosedAt,
		CreatedBy:       wo.CreatedBy,
		CreatedAt:       wo.CreatedAt,
		UpdatedAt:       wo.UpdatedAt,
	}
}

func toTemplateResponse(t *entity.WorkOrderTemplate) dto.TemplateResponse {
	checklist := t.Checklist
	if checklist == nil {
		checklist = []string{}
	}
	return dto.TemplateResponse{
		ID:               t.ID,
		CompanyID:        t.CompanyID,
		Name:             t.Name,
		Title:            t.Title,
		Description:      t.Description,
		Type:             t.Type,
		Priority:         t.Priority,
		EstimatedMinutes: t.EstimatedMinutes,
		Checklist:        checklist,
		CreatedAt:        t.CreatedAt,
	}
}
