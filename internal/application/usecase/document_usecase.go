package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ports"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/compliance"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/pkg/textutil"
)

// DocumentDeps agrupa los puertos que usa DocumentUseCase. Storage y PDF pueden ser nil.
type DocumentDeps struct {
	Documents   repository.DocumentRepository
	Attachments repository.AttachmentRepository
	Sequences   repository.SequenceRepository
	WorkOrders  repository.WorkOrderRepository
	Assets      repository.AssetRepository
	Companies   repository.CompanyRepository
	Clients     repository.ClientRepository
	Storage     ports.ObjectStorage
	PDF         ports.PDFRenderer
	Guard       *access.Guard
}

// DocumentUseCase administra documentos de seguridad y calidad. Cada operación recibe
// la familia de la ruta y exige sus permisos.
type DocumentUseCase struct {
	d      DocumentDeps
	placer placer
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(d DocumentDeps) *DocumentUseCase {
	return &DocumentUseCase{d: d, placer: placer{clients: d.Clients}}
}

// Create registra un documento en borrador. Con OT o activo el tenant sale de ellos.
func (uc *DocumentUseCase) Create(ctx context.Context, id access.Identity, fam compliance.Family, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, fam.Manage)
	if err != nil {
		return nil, err
	}
	docFam, err := compliance.FamilyOf(in.Type)
	if err != nil {
		return nil, err
	}
	if docFam.Name != fam.Name {
		return nil, domain.InvalidInput("el tipo no pertenece a "+fam.Name, map[string]string{"type": in.Type})
	}
	content, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}
	t, err := uc.locate(ctx, scope, in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	doc := &entity.ComplianceDocument{
		ID:              uuid.New().String(),
		CompanyID:       t.CompanyID,
		ClientCompanyID: t.ClientCompanyID,
		SiteID:          t.SiteID,
		Type:            in.Type,
		Title:           strings.TrimSpace(in.Title),
		Content:         content,
		Status:          entity.DocumentDraft,
		WorkOrderID:     in.WorkOrderID,
		AssetID:         in.AssetID,
		CreatedBy:       id.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if doc.Code, err = nextCode(ctx, uc.d.Sequences, doc.CompanyID, doc.Type); err != nil {
		return nil, err
	}
	if err := uc.d.Documents.Create(ctx, doc); err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// GetByID obtiene un documento de la familia visible en el alcance.
func (uc *DocumentUseCase) GetByID(ctx context.Context, id access.Identity, fam compliance.Family, docID string) (*dto.DocumentResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, fam.View)
	if err != nil {
		return nil, err
	}
	doc, err := uc.load(ctx, scope, fam, docID)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// List lista documentos de la familia del alcance.
func (uc *DocumentUseCase) List(ctx context.Context, id access.Identity, fam compliance.Family, q dto.DocumentQuery) (*dto.ListResponse[dto.DocumentResponse], error) {
	scope, err := uc.d.Guard.Authorize(id, fam.View)
	if err != nil {
		return nil, err
	}
	types := fam.Types()
	if q.Type != "" {
		docFam, err := compliance.FamilyOf(q.Type)
		if err != nil {
			return nil, err
		}
		if docFam.Name != fam.Name {
			return nil, domain.InvalidInput("el tipo no pertenece a "+fam.Name, map[string]string{"type": q.Type})
		}
		types = []string{q.Type}
	}
	q.DefaultPage()
	f := repository.DocumentFilter{Types: types, Status: q.Status, WorkOrderID: q.WorkOrderID}
	list, err := uc.d.Documents.List(ctx, scope, f, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDocumentResponse(d))
	}
	out := dto.NewList(items, q.PageRequest)
	return &out, nil
}

// Update edita título o contenido mientras el documento está en borrador o rechazado.
func (uc *DocumentUseCase) Update(ctx context.Context, id access.Identity, fam compliance.Family, docID string, in dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, fam.Manage)
	if err != nil {
		return nil, err
	}
	doc, err := uc.load(ctx, scope, fam, docID)
	if err != nil {
		return nil, err
	}
	if !compliance.Editable(doc.Status) {
		return nil, domain.Conflict("el documento no es editable en estado "+doc.Status, domain.ErrInvalidTransition)
	}
	if in.Title != nil {
		doc.Title = strings.TrimSpace(*in.Title)
	}
	if len(in.Content) > 0 {
		if doc.Content, err = normalizeContent(in.Content); err != nil {
			return nil, err
		}
	}
	doc.UpdatedAt = time.Now()
	if err := uc.d.Documents.Update(ctx, doc); err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// Transition mueve el documento en su flujo. Aprobar o rechazar exige el permiso de
// aprobación de la familia.
func (uc *DocumentUseCase) Transition(ctx context.Context, id access.Identity, fam compliance.Family, docID string, in dto.DocumentTransitionRequest) (*dto.DocumentResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, fam.RequiredPermission(in.Status))
	if err != nil {
		return nil, err
	}
	doc, err := uc.load(ctx, scope, fam, docID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := compliance.Transition(doc, in.Status, id.UserID, strings.TrimSpace(in.Reason), now); err != nil {
		return nil, err
	}
	if err := uc.d.Documents.Update(ctx, doc); err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// RequestUpload registra el adjunto y devuelve la URL firmada para subirlo.
func (uc *DocumentUseCase) RequestUpload(ctx context.Context, id access.Identity, fam compliance.Family, docID string, in dto.AttachmentUploadRequest) (*dto.AttachmentUploadResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, fam.Manage)
	if err != nil {
		return nil, err
	}
	if uc.d.Storage == nil {
		return nil, storageDisabled()
	}
	doc, err := uc.load(ctx, scope, fam, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status == entity.DocumentClosed {
		return nil, domain.Conflict("el documento está cerrado", domain.ErrInvalidTransition)
	}
	name := cleanFileName(in.FileName)
	if name == "" {
		return nil, domain.InvalidInput("nombre de archivo inválido", map[string]string{"file_name": in.FileName})
	}
	attID := uuid.New().String()
	att := &entity.DocumentAttachment{
		ID:          attID,
		CompanyID:   doc.CompanyID,
		DocumentID:  doc.ID,
		ObjectKey:   AttachmentKey(doc.CompanyID, doc.ID, attID, name),
		FileName:    name,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		UploadedBy:  id.UserID,
		CreatedAt:   time.Now(),
	}
	signed, err := uc.d.Storage.PresignUpload(ctx, att.ObjectKey, att.ContentType)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if err := uc.d.Attachments.Create(ctx, att); err != nil {
		return nil, err
	}
	return &dto.AttachmentUploadResponse{Attachment: toAttachmentResponse(att), Upload: toSignedURL(signed)}, nil
}

// DownloadURL devuelve la URL firmada de descarga de un adjunto.
func (uc *DocumentUseCase) DownloadURL(ctx context.Context, id access.Identity, fam compliance.Family, docID, attachmentID string) (*dto.SignedURLResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, fam.View)
	if err != nil {
		return nil, err
	}
	if uc.d.Storage == nil {
		return nil, storageDisabled()
	}
	doc, err := uc.load(ctx, scope, fam, docID)
	if err != nil {
		return nil, err
	}
	att, err := uc.d.Attachments.GetByID(ctx, doc.ID, attachmentID)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, domain.NotFound("adjunto no encontrado")
	}
	signed, err := uc.d.Storage.PresignDownload(ctx, att.ObjectKey, att.FileName)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	out := toSignedURL(signed)
	return &out, nil
}

// ListAttachments lista los adjuntos del documento.
func (uc *DocumentUseCase) ListAttachments(ctx context.Context, id access.Identity, fam compliance.Family, docID string) ([]dto.AttachmentResponse, error) {
	scope, err := uc.d.Guard.Authorize(id, fam.View)
	if err != nil {
		return nil, err
	}
	doc, err := uc.load(ctx, scope, fam, docID)
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Attachments.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AttachmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAttachmentResponse(a))
	}
	return out, nil
}

// PDF genera el documento imprimible. Devuelve (bytes, nombre de archivo, error).
func (uc *DocumentUseCase) PDF(ctx context.Context, id access.Identity, fam compliance.Family, docID string) ([]byte, string, error) {
	scope, err := uc.d.Guard.Authorize(id, fam.View)
	if err != nil {
		return nil, "", err
	}
	if uc.d.PDF == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	doc, err := uc.load(ctx, scope, fam, docID)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.d.Companies.GetByID(ctx, access.GlobalScope(), doc.CompanyID)
	if err != nil {
		return nil, "", err
	}
	atts, err := uc.d.Attachments.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.d.PDF.DocumentPDF(ctx, ports.DocumentReport{Company: company, Document: doc, Attachments: atts})
	if err != nil {
		return nil, "", err
	}
	return pdf, doc.Code + ".pdf", nil
}

// AttachmentKey construye la llave del objeto: companies/<c>/documents/<d>/<id>-<archivo>.
func AttachmentKey(companyID, documentID, attachmentID, fileName string) string {
	return fmt.Sprintf("companies/%s/documents/%s/%s-%s", companyID, documentID, attachmentID, fileName)
}

func (uc *DocumentUseCase) load(ctx context.Context, scope access.Scope, fam compliance.Family, docID string) (*entity.ComplianceDocument, error) {
	doc, err := uc.d.Documents.GetByID(ctx, scope, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.NotFound("documento no encontrado")
	}
	if docFam, err := compliance.FamilyOf(doc.Type); err != nil || docFam.Name != fam.Name {
		return nil, domain.NotFound("documento no encontrado")
	}
	return doc, nil
}

// locate toma el tenant de la OT o del activo vinculado; si no hay, de la sede/cliente.
func (uc *DocumentUseCase) locate(ctx context.Context, scope access.Scope, in dto.CreateDocumentRequest) (access.Tenancy, error) {
	var t access.Tenancy
	found := false
	if in.WorkOrderID != "" {
		wo, err := uc.d.WorkOrders.GetByID(ctx, scope, in.WorkOrderID)
		if err != nil {
			return t, err
		}
		if wo == nil {
			return t, domain.InvalidInput("orden de trabajo no encontrada", map[string]string{"work_order_id": in.WorkOrderID})
		}
		t, found = wo.Tenancy(), true
	}
	if in.AssetID != "" {
		asset, err := uc.d.Assets.GetByID(ctx, scope, in.AssetID)
		if err != nil {
			return t, err
		}
		if asset == nil {
			return t, domain.InvalidInput("activo no encontrado", map[string]string{"asset_id": in.AssetID})
		}
		if found && asset.Tenancy() != t {
			return t, domain.InvalidInput("el activo no corresponde a la orden de trabajo", map[string]string{"asset_id": in.AssetID})
		}
		t, found = asset.Tenancy(), true
	}
	if !found {
		return uc.placer.place(ctx, scope, in.CompanyID, in.ClientCompanyID, in.SiteID)
	}
	if in.CompanyID != "" && in.CompanyID != t.CompanyID {
		return t, domain.Forbidden("no puede operar sobre otra empresa")
	}
	return t, nil
}

// normalizeContent exige un objeto JSON; vacío se guarda como {}.
func normalizeContent(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}"), nil
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, domain.InvalidInput("el contenido debe ser un objeto JSON", map[string]string{"content": "object"})
	}
	return json.RawMessage(trimmed), nil
}

// cleanFileName deja solo el nombre base, sin tildes ni espacios.
func cleanFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	name = textutil.StripAccents(name)
	return strings.Join(strings.Fields(name), "_")
}

func storageDisabled() error {
	return domain.Conflict("los adjuntos no están habilitados", ports.ErrStorageDisabled)
}

func mapStorageErr(err error) error {
	if errors.Is(err, ports.ErrStorageDisabled) {
		return storageDisabled()
	}
	return err
}

func toSignedURL(p *ports.PresignedURL) dto.SignedURLResponse {
	return dto.SignedURLResponse{URL: p.URL, Method: p.Method, Headers: p.Headers, ExpiresAt: p.ExpiresAt}
}

func toDocumentResponse(d *entity.ComplianceDocument) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:              d.ID,
		CompanyID:       d.CompanyID,
		ClientCompanyID: d.ClientCompanyID,
		SiteID:          d.SiteID,
		Type:            d.Type,
		Code:            d.Code,
		Title:           d.Title,
		Content:         d.Content,
		Status:          d.Status,
		WorkOrderID:     d.WorkOrderID,
		AssetID:         d.AssetID,
		CreatedBy:       d.CreatedBy,
		ReviewedBy:      d.ReviewedBy,
		ApprovedBy:      d.ApprovedBy,
		ApprovedAt:      d.ApprovedAt,
		RejectionReason: d.RejectionReason,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toAttachmentResponse(a *entity.DocumentAttachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:          a.ID,
		DocumentID:  a.DocumentID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt,
	}
}
