package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// DocumentRepository define el puerto de persistencia para documentos de cumplimiento.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.ComplianceDocument) error
	Update(ctx context.Context, doc *entity.ComplianceDocument) error
	GetByID(ctx context.Context, scope access.Scope, id string) (*entity.ComplianceDocument, error)
	List(ctx context.Context, scope access.Scope, f DocumentFilter, limit, offset int) ([]*entity.ComplianceDocument, error)
}

// AttachmentRepository define el puerto de persistencia para adjuntos de documentos.
type AttachmentRepository interface {
	Create(ctx context.Context, att *entity.DocumentAttachment) error
	GetByID(ctx context.Context, documentID, id string) (*entity.DocumentAttachment, error)
	ListByDocument(ctx context.Context, documentID string) ([]*entity.DocumentAttachment, error)
}
