package entity

import (
	"encoding/json"
	"time"
)

// Tipos de documento de cumplimiento.
const (
	DocumentJSA        = "JSA"             // análisis de seguridad en el trabajo
	DocumentLOTO       = "LOTO"            // bloqueo y etiquetado
	DocumentWorkPermit = "PERMISO_TRABAJO" // permiso de trabajo
	DocumentCAPA       = "CAPA"            // acción correctiva y preventiva
	DocumentRCA        = "RCA"             // análisis de causa raíz
)

// Estados de ComplianceDocument.
const (
	DocumentDraft    = "BORRADOR"
	DocumentInReview = "EN_REVISION"
	DocumentApproved = "APROBADO"
	DocumentRejected = "RECHAZADO"
	DocumentClosed   = "CERRADO"
)

// ComplianceDocument es un documento de seguridad o calidad. Content guarda el cuerpo
// estructurado propio de cada tipo (pasos, riesgos, puntos de bloqueo, acciones).
type ComplianceDocument struct {
	ID              string
	CompanyID       string
	ClientCompanyID string
	SiteID          string
	Type            string
	Code            string
	Title           string
	Content         json.RawMessage
	Status          string
	WorkOrderID     string
	AssetID         string
	CreatedBy       string
	ReviewedBy      string
	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DocumentAttachment es un archivo guardado en el almacenamiento de objetos.
type DocumentAttachment struct {
	ID          string
	CompanyID   string
	DocumentID  string
	ObjectKey   string
	FileName    string
	ContentType string
	SizeBytes   int64
	UploadedBy  string
	CreatedAt   time.Time
}
