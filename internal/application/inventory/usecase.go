package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Mantenimiento-api/internal/domain/inventory"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/maintenance"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de repuestos de forma transaccional
// (IN, OUT, ADJUSTMENT) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	guard    *access.Guard
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, guard *access.Guard) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, guard: guard}
}

// Register inicia una transacción, bloquea el repuesto, aplica el movimiento (costo
// promedio en IN, validación de stock en OUT/ADJUSTMENT) y guarda el kardex.
// Una salida puede imputarse a una OT no cerrada de la misma empresa.
func (uc *RegisterMovementUseCase) Register(ctx context.Context, id access.Identity, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermInventoryManage)
	if err != nil {
		return nil, err
	}
	if in.Type == entity.MovementTypeIN && in.UnitCost == nil {
		return nil, domain.InvalidInput("costo unitario requerido en una entrada", map[string]string{"unit_cost": "required"})
	}
	if in.WorkOrderID != "" && in.Type != entity.MovementTypeOUT {
		return nil, domain.InvalidInput("solo una salida puede imputarse a una orden de trabajo", map[string]string{"work_order_id": "excluded"})
	}
	now := time.Now()
	mov := &entity.InventoryMovement{
		ID:          uuid.New().String(),
		SparePartID: in.SparePartID,
		WorkOrderID: in.WorkOrderID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Reason:      strings.TrimSpace(in.Reason),
		CreatedBy:   id.UserID,
		CreatedAt:   now,
	}
	if in.UnitCost != nil {
		mov.UnitCost = *in.UnitCost
	}

	// Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err = uc.txRunner.Run(ctx, func(
		partRepo repository.SparePartRepository,
		movRepo repository.InventoryMovementRepository,
		woRepo repository.WorkOrderRepository,
	) error {
		part, err := partRepo.GetForUpdate(ctx, scope, in.SparePartID)
		if err != nil {
			return err
		}
		if part == nil {
			return domain.NotFound("repuesto no encontrado")
		}
		if in.WorkOrderID != "" {
			wo, err := woRepo.GetByID(ctx, scope, in.WorkOrderID)
			if err != nil {
				return err
			}
			if wo == nil || wo.CompanyID != part.CompanyID {
				return domain.InvalidInput("orden de trabajo no encontrada", map[string]string{"work_order_id": in.WorkOrderID})
			}
			if maintenance.IsTerminal(wo.Status) {
				return domain.Conflict("la orden de trabajo ya está "+wo.Status, domain.ErrInvalidTransition)
			}
		}
		mov.CompanyID = part.CompanyID
		if err := domaininv.Apply(part, mov); err != nil {
			return err
		}
		part.UpdatedAt = now
		if err := partRepo.Update(ctx, part); err != nil {
			return err
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(mov)
	return &out, nil
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		SparePartID: m.SparePartID,
		WorkOrderID: m.WorkOrderID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		TotalCost:   m.TotalCost,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
