// Package maintenance contiene las reglas de dominio de órdenes de trabajo y planes
// preventivos: el flujo de estados de una OT y el cálculo de recurrencias.
package maintenance

import (
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// transitions es el grafo de estados de una OT. CANCELADA se agrega a todo estado no
// terminal en CanTransition.
var transitions = map[string][]string{
	entity.WorkOrderOpen:       {entity.WorkOrderAssigned, entity.WorkOrderInProgress},
	entity.WorkOrderAssigned:   {entity.WorkOrderInProgress, entity.WorkOrderOpen},
	entity.WorkOrderInProgress: {entity.WorkOrderOnHold, entity.WorkOrderCompleted},
	entity.WorkOrderOnHold:     {entity.WorkOrderInProgress},
	entity.WorkOrderCompleted:  {entity.WorkOrderClosed, entity.WorkOrderInProgress},
}

// IsWorkOrderStatus informa si s es un estado conocido.
func IsWorkOrderStatus(s string) bool {
	switch s {
	case entity.WorkOrderOpen, entity.WorkOrderAssigned, entity.WorkOrderInProgress,
		entity.WorkOrderOnHold, entity.WorkOrderCompleted, entity.WorkOrderClosed,
		entity.WorkOrderCancelled:
		return true
	}
	return false
}

// IsTerminal informa si la OT ya no admite cambios de estado.
func IsTerminal(status string) bool {
	return status == entity.WorkOrderClosed || status == entity.WorkOrderCancelled
}

// CanTransition informa si from → to es una transición válida.
func CanTransition(from, to string) bool {
	if IsTerminal(from) || from == to {
		return false
	}
	if to == entity.WorkOrderCancelled {
		return from != entity.WorkOrderCompleted
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequiresClosePermission informa si llegar a `to` exige work_orders.close.
func RequiresClosePermission(to string) bool {
	return to == entity.WorkOrderClosed
}

// Transition aplica el cambio de estado y sella las fechas correspondientes.
// Una transición inválida devuelve Conflict.
func Transition(wo *entity.WorkOrder, to string, now time.Time) error {
	if !IsWorkOrderStatus(to) {
		return domain.InvalidInput("estado de orden desconocido", map[string]string{"status": to})
	}
	if !CanTransition(wo.Status, to) {
		return domain.Conflict(fmt.Sprintf("transición no permitida: %s → %s", wo.Status, to), domain.ErrInvalidTransition)
	}
	switch to {
	case entity.WorkOrderInProgress:
		if wo.StartedAt == nil {
			wo.StartedAt = &now
		}
		wo.CompletedAt = nil
	case entity.WorkOrderCompleted:
		wo.CompletedAt = &now
	case entity.WorkOrderClosed:
		wo.ClosedAt = &now
	case entity.WorkOrderOpen:
		wo.AssignedTo = ""
	}
	wo.Status = to
	wo.UpdatedAt = now
	return nil
}

// Assign asigna un técnico. Una OT abierta pasa a ASIGNADA; en otros estados no
// terminales solo cambia el responsable.
func Assign(wo *entity.WorkOrder, userID string, now time.Time) error {
	if userID == "" {
		return domain.InvalidInput("técnico requerido", nil)
	}
	if IsTerminal(wo.Status) || wo.Status == entity.WorkOrderCompleted {
		return domain.Conflict("la orden no admite reasignación en estado "+wo.Status, domain.ErrInvalidTransition)
	}
	wo.AssignedTo = userID
	if wo.Status == entity.WorkOrderOpen {
		wo.Status = entity.WorkOrderAssigned
	}
	wo.UpdatedAt = now
	return nil
}

// Overdue informa si la OT está vencida a la fecha dada.
func Overdue(wo *entity.WorkOrder, now time.Time) bool {
	if wo.DueAt == nil || IsTerminal(wo.Status) || wo.Status == entity.WorkOrderCompleted {
		return false
	}
	return wo.DueAt.Before(now)
}
