package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/maintenance"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

// PMTxRunner ejecuta fn en una transacción con repos atados a ella.
type PMTxRunner interface {
	RunPM(ctx context.Context, fn func(
		planRepo repository.PMPlanRepository,
		woRepo repository.WorkOrderRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

// PMRecorder recibe el número de OTs generadas en cada corrida (métricas).
type PMRecorder interface {
	RecordPMGenerated(n int)
}

// dueBatch es el máximo de planes vencidos que procesa una corrida.
const dueBatch = 200

// PMPlanUseCase administra planes preventivos y genera sus órdenes de trabajo.
type PMPlanUseCase struct {
	repo      repository.PMPlanRepository
	assets    repository.AssetRepository
	templates repository.WorkOrderTemplateRepository
	tx        PMTxRunner
	recorder  PMRecorder
	guard     *access.Guard
	log       *logger.Logger
}

// NewPMPlanUseCase construye el caso de uso. recorder puede ser nil.
func NewPMPlanUseCase(
	repo repository.PMPlanRepository,
	assets repository.AssetRepository,
	templates repository.WorkOrderTemplateRepository,
	tx PMTxRunner,
	recorder PMRecorder,
	guard *access.Guard,
	log *logger.Logger,
) *PMPlanUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PMPlanUseCase{
		repo: repo, assets: assets, templates: templates, tx: tx,
		recorder: recorder, guard: guard, log: log.Named("preventive"),
	}
}

// Create registra un plan sobre un activo del alcance. La primera OT vence en StartAt.
func (uc *PMPlanUseCase) Create(ctx context.Context, id access.Identity, in dto.CreatePMPlanRequest) (*dto.PMPlanResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermPreventiveManage)
	if err != nil {
		return nil, err
	}
	asset, err := uc.assets.GetByID(ctx, scope, in.AssetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, domain.InvalidInput("activo no encontrado", map[string]string{"asset_id": in.AssetID})
	}
	if asset.Status == entity.AssetStatusRetired {
		return nil, domain.Conflict("el activo está dado de baja", domain.ErrConflict)
	}
	if _, err := maintenance.ParseRecurrence(in.Frequency, in.Interval, in.CronExpr); err != nil {
		return nil, err
	}
	if err := uc.checkTemplate(ctx, asset.CompanyID, in.TemplateID); err != nil {
		return nil, err
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	interval := in.Interval
	if interval < 1 {
		interval = 1
	}
	cronExpr := ""
	if in.Frequency == entity.FrequencyCron {
		cronExpr = strings.TrimSpace(in.CronExpr)
	}
	now := time.Now()
	plan := &entity.PMPlan{
		ID:              uuid.New().String(),
		CompanyID:       asset.CompanyID,
		ClientCompanyID: asset.ClientCompanyID,
		SiteID:          asset.SiteID,
		AssetID:         asset.ID,
		TemplateID:      in.TemplateID,
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		Frequency:       in.Frequency,
		Interval:        interval,
		CronExpr:        cronExpr,
		Priority:        priority,
		LeadDays:        in.LeadDays,
		StartAt:         in.StartAt.UTC(),
		NextDueAt:       in.StartAt.UTC(),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return toPMPlanResponse(plan), nil
}

// GetByID obtiene un plan visible en el alcance.
func (uc *PMPlanUseCase) GetByID(ctx context.Context, id access.Identity, planID string) (*dto.PMPlanResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermPreventiveView)
	if err != nil {
		return nil, err
	}
	plan, err := uc.load(ctx, scope, planID)
	if err != nil {
		return nil, err
	}
	return toPMPlanResponse(plan), nil
}

// List lista planes del alcance.
func (uc *PMPlanUseCase) List(ctx context.Context, id access.Identity, q dto.PMPlanQuery) (*dto.ListResponse[dto.PMPlanResponse], error) {
	scope, err := uc.guard.Authorize(id, access.PermPreventiveView)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.repo.List(ctx, scope, repository.PMPlanFilter{AssetID: q.AssetID, ActiveOnly: q.ActiveOnly}, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PMPlanResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPMPlanResponse(p))
	}
	out := dto.NewList(items, q.PageRequest)
	return &out, nil
}

// Update modifica un plan. Cambiar la recurrencia recalcula la próxima fecha a partir
// de la última programada; reactivar un plan vencido lo deja vencer en la próxima corrida.
func (uc *PMPlanUseCase) Update(ctx context.Context, id access.Identity, planID string, in dto.UpdatePMPlanRequest) (*dto.PMPlanResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermPreventiveManage)
	if err != nil {
		return nil, err
	}
	plan, err := uc.load(ctx, scope, planID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		plan.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		plan.Description = strings.TrimSpace(*in.Description)
	}
	if in.TemplateID != nil {
		if err := uc.checkTemplate(ctx, plan.CompanyID, *in.TemplateID); err != nil {
			return nil, err
		}
		plan.TemplateID = *in.TemplateID
	}
	if in.Priority != nil {
		plan.Priority = *in.Priority
	}
	if in.LeadDays != nil {
		plan.LeadDays = *in.LeadDays
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	if in.Frequency != nil || in.Interval != nil || in.CronExpr != nil {
		if in.Frequency != nil {
			plan.Frequency = *in.Frequency
		}
		if in.Interval != nil {
			plan.Interval = *in.Interval
		}
		if in.CronExpr != nil {
			plan.CronExpr = strings.TrimSpace(*in.CronExpr)
		}
		if plan.Frequency != entity.FrequencyCron {
			plan.CronExpr = ""
		}
		rec, err := maintenance.RecurrenceOf(plan)
		if err != nil {
			return nil, err
		}
		if plan.LastGeneratedAt != nil {
			plan.NextDueAt = rec.Next(*plan.LastGeneratedAt)
		}
	}
	plan.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return toPMPlanResponse(plan), nil
}

// Deactivate detiene la generación de OTs del plan.
func (uc *PMPlanUseCase) Deactivate(ctx context.Context, id access.Identity, planID string) error {
	inactive := false
	_, err := uc.Update(ctx, id, planID, dto.UpdatePMPlanRequest{IsActive: &inactive})
	return err
}

// GenerateDue crea una OT preventiva por cada plan vencido a la fecha y avanza su
// próxima fecha. Es un trabajo del sistema: no hay identidad ni alcance de usuario.
// Un plan que aún tiene una OT abierta solo avanza de fecha. El fallo de un plan se
// registra y no detiene a los demás.
func (uc *PMPlanUseCase) GenerateDue(ctx context.Context, now time.Time) (int, error) {
	plans, err := uc.repo.ListDue(ctx, now, dueBatch)
	if err != nil {
		return 0, err
	}
	generated := 0
	for _, p := range plans {
		if err := ctx.Err(); err != nil {
			return generated, err
		}
		created, err := uc.generate(ctx, p, now)
		if err != nil {
			uc.log.Error().Err(err).Str("plan_id", p.ID).Str("company_id", p.CompanyID).Msg("no se pudo generar la OT preventiva")
			continue
		}
		if created {
			generated++
		}
	}
	if uc.recorder != nil && generated > 0 {
		uc.recorder.RecordPMGenerated(generated)
	}
	if len(plans) > 0 {
		uc.log.Info().Int("planes", len(plans)).Int("generadas", generated).Msg("corrida de mantenimiento preventivo")
	}
	return generated, nil
}

func (uc *PMPlanUseCase) generate(ctx context.Context, p *entity.PMPlan, now time.Time) (bool, error) {
	rec, err := maintenance.RecurrenceOf(p)
	if err != nil {
		return false, err
	}
	var tpl *entity.WorkOrderTemplate
	if p.TemplateID != "" {
		if tpl, err = uc.templates.GetByID(ctx, p.TemplateID); err != nil {
			return false, err
		}
	}
	created := false
	err = uc.tx.RunPM(ctx, func(planRepo repository.PMPlanRepository, woRepo repository.WorkOrderRepository, seqRepo repository.SequenceRepository) error {
		open, err := woRepo.ExistsOpenForPlan(ctx, p.ID)
		if err != nil {
			return err
		}
		if !open {
			wo := preventiveOrder(p, tpl, now)
			if wo.Code, err = nextCode(ctx, seqRepo, p.CompanyID, "OT"); err != nil {
				return err
			}
			if err := woRepo.Create(ctx, wo); err != nil {
				return err
			}
			generatedAt := now
			p.LastGeneratedAt = &generatedAt
			created = true
		}
		p.NextDueAt = rec.NextAfter(p.NextDueAt, now)
		p.UpdatedAt = now
		return planRepo.Update(ctx, p)
	})
	return created, err
}

// preventiveOrder arma la OT de un plan; la plantilla aporta descripción y checklist.
func preventiveOrder(p *entity.PMPlan, tpl *entity.WorkOrderTemplate, now time.Time) *entity.WorkOrder {
	due := p.NextDueAt
	wo := &entity.WorkOrder{
		ID:              uuid.New().String(),
		CompanyID:       p.CompanyID,
		ClientCompanyID: p.ClientCompanyID,
		SiteID:          p.SiteID,
		Title:           p.Name,
		Description:     p.Description,
		Type:            entity.WorkOrderTypePreventive,
		Priority:        p.Priority,
		Status:          entity.WorkOrderOpen,
		AssetID:         p.AssetID,
		PMPlanID:        p.ID,
		Checklist:       []string{},
		DueAt:           &due,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if tpl != nil && tpl.CompanyID == p.CompanyID {
		wo.TemplateID = tpl.ID
		if wo.Description == "" {
			wo.Description = tpl.Description
		}
		wo.Checklist = append(wo.Checklist, tpl.Checklist...)
	}
	return wo
}

func (uc *PMPlanUseCase) load(ctx context.Context, scope access.Scope, planID string) (*entity.PMPlan, error) {
	plan, err := uc.repo.GetByID(ctx, scope, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.NotFound("plan preventivo no encontrado")
	}
	return plan, nil
}

func (uc *PMPlanUseCase) checkTemplate(ctx context.Context, companyID, templateID string) error {
	if templateID == "" {
		return nil
	}
	tpl, err := uc.templates.GetByID(ctx, templateID)
	if err != nil {
		return err
	}
	if tpl == nil || tpl.CompanyID != companyID {
		return domain.InvalidInput("plantilla no encontrada", map[string]string{"template_id": templateID})
	}
	return nil
}

func toPMPlanResponse(p *entity.PMPlan) *dto.PMPlanResponse {
	return &dto.PMPlanResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		ClientCompanyID: p.ClientCompanyID,
		SiteID:          p.SiteID,
		AssetID:         p.AssetID,
		TemplateID:      p.TemplateID,
		Name:            p.Name,
		Description:     p.Description,
		Frequency:       p.Frequency,
		Interval:        p.Interval,
		CronExpr:        p.CronExpr,
		Priority:        p.Priority,
		LeadDays:        p.LeadDays,
		StartAt:         p.StartAt,
		NextDueAt:       p.NextDueAt,
		LastGeneratedAt: p.LastGeneratedAt,
		IsActive:        p.IsActive,
	}
}
