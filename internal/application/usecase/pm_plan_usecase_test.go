package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

type countingRecorder struct{ total int }

func (c *countingRecorder) RecordPMGenerated(n int) { c.total += n }

type pmFixture struct {
	uc       *usecase.PMPlanUseCase
	plans    *memPMPlans
	wos      *memWorkOrders
	recorder *countingRecorder
}

func newPMFixture() pmFixture {
	plans := &memPMPlans{rows: map[string]*entity.PMPlan{}}
	wos := newWorkOrders()
	assets := &memAssets{rows: map[string]*entity.Asset{
		"a1":     {ID: "a1", CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s1", Status: entity.AssetStatusOperational},
		"a-baja": {ID: "a-baja", CompanyID: "c1", Status: entity.AssetStatusRetired},
		"a-otra": {ID: "a-otra", CompanyID: "c2", Status: entity.AssetStatusOperational},
	}}
	templates := &memTemplates{rows: map[string]*entity.WorkOrderTemplate{
		"tpl": {ID: "tpl", CompanyID: "c1", Name: "Rutina", Description: "Rutina mensual", Checklist: []string{"Medir vibración", "Lubricar"}},
	}}
	tx := &pmTx{plans: plans, wos: wos, seq: &memSequences{n: map[string]int64{}}}
	rec := &countingRecorder{}
	uc := usecase.NewPMPlanUseCase(plans, assets, templates, tx, rec, guard(), logger.Nop())
	return pmFixture{uc: uc, plans: plans, wos: wos, recorder: rec}
}

func TestPMPlan_CreateValidaActivoYRecurrencia(t *testing.T) {
	f := newPMFixture()
	ctx := context.Background()
	start := time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC)

	out, err := f.uc.Create(ctx, supervisor(), dto.CreatePMPlanRequest{
		AssetID: "a1", Name: "Rutina mensual", Frequency: entity.FrequencyMonthly, StartAt: start,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Interval)
	assert.Equal(t, entity.PriorityMedium, out.Priority)
	assert.True(t, out.NextDueAt.Equal(start))

	_, err = f.uc.Create(ctx, supervisor(), dto.CreatePMPlanRequest{AssetID: "a-baja", Name: "x", Frequency: entity.FrequencyMonthly, StartAt: start})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = f.uc.Create(ctx, supervisor(), dto.CreatePMPlanRequest{AssetID: "a-otra", Name: "x", Frequency: entity.FrequencyMonthly, StartAt: start})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = f.uc.Create(ctx, supervisor(), dto.CreatePMPlanRequest{AssetID: "a1", Name: "x", Frequency: entity.FrequencyCron, CronExpr: "no es cron", StartAt: start})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = f.uc.Create(ctx, tecnico("u-tec"), dto.CreatePMPlanRequest{AssetID: "a1", Name: "x", Frequency: entity.FrequencyMonthly, StartAt: start})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestPMPlan_GenerateDueCreaOTYAvanzaFecha(t *testing.T) {
	f := newPMFixture()
	ctx := context.Background()
	due := time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC)
	f.plans.rows["p1"] = &entity.PMPlan{
		ID: "p1", CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s1", AssetID: "a1", TemplateID: "tpl",
		Name: "Rutina mensual", Frequency: entity.FrequencyMonthly, Interval: 1, Priority: entity.PriorityHigh,
		NextDueAt: due, IsActive: true,
	}
	now := time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)

	n, err := f.uc.GenerateDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, f.recorder.total)

	orders := f.wos.byPlan("p1")
	require.Len(t, orders, 1)
	wo := orders[0]
	assert.Equal(t, entity.WorkOrderTypePreventive, wo.Type)
	assert.Equal(t, "OT-000001", wo.Code)
	assert.Equal(t, "s1", wo.SiteID)
	assert.Equal(t, []string{"Medir vibración", "Lubricar"}, wo.Checklist)
	require.NotNil(t, wo.DueAt)
	assert.True(t, wo.DueAt.Equal(due))

	plan := f.plans.rows["p1"]
	// 31-ene + 1 mes se recorta al 28-feb
	assert.True(t, plan.NextDueAt.Equal(time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC)), plan.NextDueAt.String())
	require.NotNil(t, plan.LastGeneratedAt)

	// sin vencimientos nuevos no genera nada
	n, err = f.uc.GenerateDue(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPMPlan_GenerateDueConOTAbiertaSoloAvanza(t *testing.T) {
	f := newPMFixture()
	ctx := context.Background()
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.plans.rows["p1"] = &entity.PMPlan{
		ID: "p1", CompanyID: "c1", AssetID: "a1", Name: "Semanal",
		Frequency: entity.FrequencyWeekly, Interval: 1, NextDueAt: due, IsActive: true,
	}
	f.wos.rows["abierta"] = &entity.WorkOrder{ID: "abierta", CompanyID: "c1", PMPlanID: "p1", Status: entity.WorkOrderInProgress}
	now := due.AddDate(0, 0, 20)

	n, err := f.uc.GenerateDue(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, f.wos.byPlan("p1"), 1)
	assert.True(t, f.plans.rows["p1"].NextDueAt.After(now))
	assert.Nil(t, f.plans.rows["p1"].LastGeneratedAt)
}

func TestPMPlan_GenerateDueRespetaAnticipacion(t *testing.T) {
	f := newPMFixture()
	due := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	f.plans.rows["p1"] = &entity.PMPlan{
		ID: "p1", CompanyID: "c1", AssetID: "a1", Name: "Anual",
		Frequency: entity.FrequencyAnnual, Interval: 1, LeadDays: 7, NextDueAt: due, IsActive: true,
	}

	n, err := f.uc.GenerateDue(context.Background(), due.AddDate(0, 0, -8))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.uc.GenerateDue(context.Background(), due.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPMPlan_GenerateDueMensualConservaElDiaDeInicio(t *testing.T) {
	f := newPMFixture()
	ctx := context.Background()
	start := time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC)
	f.plans.rows["p1"] = &entity.PMPlan{
		ID: "p1", CompanyID: "c1", ClientCompanyID: "cc1", SiteID: "s1", AssetID: "a1",
		Name: "Rutina mensual", Frequency: entity.FrequencyMonthly, Interval: 1, Priority: entity.PriorityHigh,
		StartAt: start, NextDueAt: start, IsActive: true,
	}

	_, err := f.uc.GenerateDue(ctx, time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, f.plans.rows["p1"].NextDueAt.Equal(time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC)))

	_, err = f.uc.GenerateDue(ctx, time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	next := f.plans.rows["p1"].NextDueAt
	assert.True(t, next.Equal(time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC)), next.String())
}
