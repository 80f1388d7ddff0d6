package maintenance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/maintenance"
)

var now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func TestCanTransition_FlujoPrincipal(t *testing.T) {
	valid := [][2]string{
		{entity.WorkOrderOpen, entity.WorkOrderAssigned},
		{entity.WorkOrderAssigned, entity.WorkOrderInProgress},
		{entity.WorkOrderInProgress, entity.WorkOrderOnHold},
		{entity.WorkOrderOnHold, entity.WorkOrderInProgress},
		{entity.WorkOrderInProgress, entity.WorkOrderCompleted},
		{entity.WorkOrderCompleted, entity.WorkOrderClosed},
		{entity.WorkOrderOpen, entity.WorkOrderCancelled},
		{entity.WorkOrderOnHold, entity.WorkOrderCancelled},
	}
	for _, tr := range valid {
		assert.True(t, maintenance.CanTransition(tr[0], tr[1]), "%s → %s", tr[0], tr[1])
	}

	invalid := [][2]string{
		{entity.WorkOrderOpen, entity.WorkOrderClosed},
		{entity.WorkOrderOpen, entity.WorkOrderCompleted},
		{entity.WorkOrderClosed, entity.WorkOrderOpen},
		{entity.WorkOrderCancelled, entity.WorkOrderInProgress},
		{entity.WorkOrderCompleted, entity.WorkOrderCancelled},
		{entity.WorkOrderOpen, entity.WorkOrderOpen},
	}
	for _, tr := range invalid {
		assert.False(t, maintenance.CanTransition(tr[0], tr[1]), "%s → %s", tr[0], tr[1])
	}
}

func TestTransition_SellaFechas(t *testing.T) {
	wo := &entity.WorkOrder{Status: entity.WorkOrderAssigned}

	require.NoError(t, maintenance.Transition(wo, entity.WorkOrderInProgress, now))
	require.NotNil(t, wo.StartedAt)

	later := now.Add(2 * time.Hour)
	require.NoError(t, maintenance.Transition(wo, entity.WorkOrderCompleted, later))
	require.NotNil(t, wo.CompletedAt)
	assert.Equal(t, later, *wo.CompletedAt)

	require.NoError(t, maintenance.Transition(wo, entity.WorkOrderClosed, later))
	assert.Equal(t, entity.WorkOrderClosed, wo.Status)
	assert.NotNil(t, wo.ClosedAt)
}

func TestTransition_InvalidaEsConflict(t *testing.T) {
	wo := &entity.WorkOrder{Status: entity.WorkOrderOpen}

	err := maintenance.Transition(wo, entity.WorkOrderClosed, now)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.WorkOrderOpen, wo.Status, "el estado no cambia")

	err = maintenance.Transition(wo, "INVENTADO", now)
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestAssign(t *testing.T) {
	wo := &entity.WorkOrder{Status: entity.WorkOrderOpen}
	require.NoError(t, maintenance.Assign(wo, "tec-1", now))
	assert.Equal(t, entity.WorkOrderAssigned, wo.Status)
	assert.Equal(t, "tec-1", wo.AssignedTo)

	wo.Status = entity.WorkOrderClosed
	assert.ErrorIs(t, maintenance.Assign(wo, "tec-2", now), domain.ErrInvalidTransition)
}

func TestOverdue(t *testing.T) {
	past := now.Add(-time.Hour)
	wo := &entity.WorkOrder{Status: entity.WorkOrderInProgress, DueAt: &past}
	assert.True(t, maintenance.Overdue(wo, now))

	wo.Status = entity.WorkOrderClosed
	assert.False(t, maintenance.Overdue(wo, now))
}
