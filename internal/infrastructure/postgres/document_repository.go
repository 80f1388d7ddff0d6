package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación del puerto DocumentRepository sobre PostgreSQL.
type DocumentRepo struct {
	db Querier
}

// NewDocumentRepository construye el adaptador de persistencia para documentos de cumplimiento.
func NewDocumentRepository(db Querier) *DocumentRepo {
	return &DocumentRepo{db: db}
}

const documentColumns = `id, company_id, COALESCE(client_company_id::text, ''), COALESCE(site_id::text, ''),
	type, code, title, content, status, COALESCE(work_order_id::text, ''), COALESCE(asset_id::text, ''),
	COALESCE(created_by::text, ''), COALESCE(reviewed_by::text, ''), COALESCE(approved_by::text, ''),
	approved_at, rejection_reason, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*entity.ComplianceDocument, error) {
	var d entity.ComplianceDocument
	var content []byte
	err := row.Scan(&d.ID, &d.CompanyID, &d.ClientCompanyID, &d.SiteID,
		&d.Type, &d.Code, &d.Title, &content, &d.Status, &d.WorkOrderID, &d.AssetID,
		&d.CreatedBy, &d.ReviewedBy, &d.ApprovedBy, &d.ApprovedAt, &d.RejectionReason, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Content = content
	return &d, nil
}

func documentContent(d *entity.ComplianceDocument) []byte {
	if len(d.Content) == 0 {
		return []byte("{}")
	}
	return d.Content
}

// Create persiste un documento.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.ComplianceDocument) error {
	query := `
		INSERT INTO compliance_documents (id, company_id, client_company_id, site_id, type, code, title, content, status,
		                                  work_order_id, asset_id, created_by, reviewed_by, approved_by, approved_at,
		                                  rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.db.Exec(ctx, query,
		d.ID, d.CompanyID, nullable(d.ClientCompanyID), nullable(d.SiteID), d.Type, d.Code, d.Title,
		documentContent(d), d.Status, nullable(d.WorkOrderID), nullable(d.AssetID), nullable(d.CreatedBy),
		nullable(d.ReviewedBy), nullable(d.ApprovedBy), d.ApprovedAt, d.RejectionReason, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert document", err, "consecutivo de documento duplicado")
	}
	return nil
}

// Update actualiza contenido y estado del documento.
func (r *DocumentRepo) Update(ctx context.Context, d *entity.ComplianceDocument) error {
	query := `
		UPDATE compliance_documents SET title = $2, content = $3, status = $4, work_order_id = $5, asset_id = $6,
		       reviewed_by = $7, approved_by = $8, approved_at = $9, rejection_reason = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		d.ID, d.Title, documentContent(d), d.Status, nullable(d.WorkOrderID), nullable(d.AssetID),
		nullable(d.ReviewedBy), nullable(d.ApprovedBy), d.ApprovedAt, d.RejectionReason, d.UpdatedAt,
	)
	if err != nil {
		return writeErr("update document", err, "documento duplicado")
	}
	return nil
}

// GetByID obtiene un documento dentro del alcance.
func (r *DocumentRepo) GetByID(ctx context.Context, scope access.Scope, id string) (*entity.ComplianceDocument, error) {
	var w where
	w.eq("id", id)
	w.scope(scope, defaultTenant)
	d, err := scanDocument(r.db.QueryRow(ctx, `SELECT `+documentColumns+` FROM compliance_documents`+w.sql(), w.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

// List lista documentos visibles de los tipos indicados.
func (r *DocumentRepo) List(ctx context.Context, scope access.Scope, f repository.DocumentFilter, limit, offset int) ([]*entity.ComplianceDocument, error) {
	var w where
	w.scope(scope, defaultTenant)
	if len(f.Types) == 0 {
		w.raw("FALSE")
	} else {
		w.raw("type = ANY(" + w.arg(f.Types) + ")")
	}
	if f.Status != "" {
		w.eq("status", f.Status)
	}
	if f.WorkOrderID != "" {
		w.eq("work_order_id", f.WorkOrderID)
	}
	query := `SELECT ` + documentColumns + ` FROM compliance_documents` + w.sql() + ` ORDER BY created_at DESC` + w.page(limit, offset)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.ComplianceDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

var _ repository.AttachmentRepository = (*AttachmentRepo)(nil)

// AttachmentRepo implementación del puerto AttachmentRepository. Solo guarda metadatos;
// el archivo vive en el almacenamiento de objetos.
type AttachmentRepo struct {
	db Querier
}

// NewAttachmentRepository construye el adaptador de metadatos de adjuntos.
func NewAttachmentRepository(db Querier) *AttachmentRepo {
	return &AttachmentRepo{db: db}
}

const attachmentColumns = `id, company_id, document_id, object_key, file_name, content_type, size_bytes, COALESCE(uploaded_by::text, ''), created_at`

func scanAttachment(row interface{ Scan(...any) error }) (*entity.DocumentAttachment, error) {
	var a entity.DocumentAttachment
	if err := row.Scan(&a.ID, &a.CompanyID, &a.DocumentID, &a.ObjectKey, &a.FileName, &a.ContentType, &a.SizeBytes, &a.UploadedBy, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste los metadatos de un adjunto.
func (r *AttachmentRepo) Create(ctx context.Context, a *entity.DocumentAttachment) error {
	query := `
		INSERT INTO document_attachments (id, company_id, document_id, object_key, file_name, content_type, size_bytes, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, a.ID, a.CompanyID, a.DocumentID, a.ObjectKey, a.FileName, a.ContentType,
		a.SizeBytes, nullable(a.UploadedBy), a.CreatedAt)
	if err != nil {
		return writeErr("insert attachment", err, "adjunto duplicado")
	}
	return nil
}

// GetByID obtiene un adjunto del documento.
func (r *AttachmentRepo) GetByID(ctx context.Context, documentID, id string) (*entity.DocumentAttachment, error) {
	a, err := scanAttachment(r.db.QueryRow(ctx,
		`SELECT `+attachmentColumns+` FROM document_attachments WHERE document_id = $1 AND id = $2`, documentID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	return a, nil
}

// ListByDocument lista los adjuntos de un documento.
func (r *AttachmentRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.DocumentAttachment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+attachmentColumns+` FROM document_attachments WHERE document_id = $1 ORDER BY created_at`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()
	var list []*entity.DocumentAttachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
