package ports

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// WorkOrderReport son los datos que se imprimen en el PDF de una orden de trabajo.
type WorkOrderReport struct {
	Company      *entity.Company
	WorkOrder    *entity.WorkOrder
	Asset        *entity.Asset // nil si la OT no tiene activo
	AssigneeName string
	Movements    []*entity.InventoryMovement // repuestos consumidos
}

// DocumentReport son los datos que se imprimen en el PDF de un documento de cumplimiento.
type DocumentReport struct {
	Company     *entity.Company
	Document    *entity.ComplianceDocument
	Attachments []*entity.DocumentAttachment
}

// PDFRenderer define el puerto de salida para exportar a PDF.
type PDFRenderer interface {
	WorkOrderPDF(ctx context.Context, r WorkOrderReport) ([]byte, error)
	DocumentPDF(ctx context.Context, r DocumentReport) ([]byte, error)
}
