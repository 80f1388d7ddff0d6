package dto

import (
	"encoding/json"
	"time"
)

// CreateDocumentRequest entrada para crear un documento de cumplimiento en borrador.
type CreateDocumentRequest struct {
	CompanyID       string          `json:"company_id" validate:"omitempty,uuid"`
	Type            string          `json:"type" validate:"required,oneof=JSA LOTO PERMISO_TRABAJO CAPA RCA"`
	Title           string          `json:"title" validate:"required,min=3,max=200"`
	Content         json.RawMessage `json:"content" swaggertype:"object"`
	WorkOrderID     string          `json:"work_order_id" validate:"omitempty,uuid"`
	AssetID         string          `json:"asset_id" validate:"omitempty,uuid"`
	ClientCompanyID string          `json:"client_company_id" validate:"omitempty,uuid"`
	SiteID          string          `json:"site_id" validate:"omitempty,uuid"`
}

// UpdateDocumentRequest edición de contenido (solo en borrador o rechazado).
type UpdateDocumentRequest struct {
	Title   *string         `json:"title" validate:"omitempty,min=3,max=200"`
	Content json.RawMessage `json:"content" swaggertype:"object"`
}

// DocumentTransitionRequest cambio de estado; Reason es obligatorio al rechazar.
type DocumentTransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=BORRADOR EN_REVISION APROBADO RECHAZADO CERRADO"`
	Reason string `json:"reason" validate:"max=1000"`
}

// DocumentQuery filtros de listado. Family elige safety o quality.
type DocumentQuery struct {
	PageRequest
	Type        string `query:"type" validate:"omitempty,oneof=JSA LOTO PERMISO_TRABAJO CAPA RCA"`
	Status      string `query:"status"`
	WorkOrderID string `query:"work_order_id" validate:"omitempty,uuid"`
}

// DocumentResponse salida de un documento.
type DocumentResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	ClientCompanyID string          `json:"client_company_id,omitempty"`
	SiteID          string          `json:"site_id,omitempty"`
	Type            string          `json:"type"`
	Code            string          `json:"code"`
	Title           string          `json:"title"`
	Content         json.RawMessage `json:"content" swaggertype:"object"`
	Status          string          `json:"status"`
	WorkOrderID     string          `json:"work_order_id,omitempty"`
	AssetID         string          `json:"asset_id,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
	ReviewedBy      string          `json:"reviewed_by,omitempty"`
	ApprovedBy      string          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AttachmentUploadRequest solicitud de URL firmada para subir un adjunto.
type AttachmentUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,min=1,max=200"`
	ContentType string `json:"content_type" validate:"required,max=100"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,min=1,max=26214400"`
}

// AttachmentResponse metadatos de un adjunto.
type AttachmentResponse struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SignedURLResponse URL firmada para subir o descargar un objeto.
type SignedURLResponse struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// AttachmentUploadResponse adjunto registrado + URL para subir el archivo.
type AttachmentUploadResponse struct {
	Attachment AttachmentResponse `json:"attachment"`
	Upload     SignedURLResponse  `json:"upload"`
}
