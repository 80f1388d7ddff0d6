// Package compliance define las familias de documentos de cumplimiento (seguridad y
// calidad), sus permisos y el flujo de revisión y aprobación.
package compliance

import (
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// Family agrupa tipos de documento que comparten permisos.
type Family struct {
	Name    string
	Module  string
	View    access.Permission
	Manage  access.Permission
	Approve access.Permission
}

var (
	safety = Family{
		Name: "safety", Module: entity.ModuleSafety,
		View: access.PermSafetyView, Manage: access.PermSafetyManage, Approve: access.PermSafetyApprove,
	}
	quality = Family{
		Name: "quality", Module: entity.ModuleQuality,
		View: access.PermQualityView, Manage: access.PermQualityManage, Approve: access.PermQualityApprove,
	}
)

// Safety devuelve la familia de seguridad (JSA, LOTO, permisos de trabajo).
func Safety() Family { return safety }

// Quality devuelve la familia de calidad (CAPA, RCA).
func Quality() Family { return quality }

// FamilyOf devuelve la familia del tipo de documento.
func FamilyOf(docType string) (Family, error) {
	switch docType {
	case entity.DocumentJSA, entity.DocumentLOTO, entity.DocumentWorkPermit:
		return safety, nil
	case entity.DocumentCAPA, entity.DocumentRCA:
		return quality, nil
	}
	return Family{}, domain.InvalidInput(fmt.Sprintf("tipo de documento desconocido: %s", docType), map[string]string{"type": docType})
}

// Types devuelve los tipos de la familia.
func (f Family) Types() []string {
	if f.Name == safety.Name {
		return []string{entity.DocumentJSA, entity.DocumentLOTO, entity.DocumentWorkPermit}
	}
	return []string{entity.DocumentCAPA, entity.DocumentRCA}
}

var transitions = map[string][]string{
	entity.DocumentDraft:    {entity.DocumentInReview},
	entity.DocumentInReview: {entity.DocumentApproved, entity.DocumentRejected},
	entity.DocumentRejected: {entity.DocumentDraft, entity.DocumentClosed},
	entity.DocumentApproved: {entity.DocumentClosed},
}

// CanTransition informa si from → to es válido.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequiredPermission devuelve el permiso necesario para llevar un documento de la
// familia al estado `to`: aprobar o rechazar exige el permiso de aprobación.
func (f Family) RequiredPermission(to string) access.Permission {
	if to == entity.DocumentApproved || to == entity.DocumentRejected {
		return f.Approve
	}
	return f.Manage
}

// Editable informa si el contenido del documento aún puede modificarse.
func Editable(status string) bool {
	return status == entity.DocumentDraft || status == entity.DocumentRejected
}

// Transition aplica el cambio de estado. reason es obligatorio al rechazar.
func Transition(doc *entity.ComplianceDocument, to, actorID, reason string, now time.Time) error {
	if !CanTransition(doc.Status, to) {
		return domain.Conflict(fmt.Sprintf("transición no permitida: %s → %s", doc.Status, to), domain.ErrInvalidTransition)
	}
	switch to {
	case entity.DocumentInReview:
		doc.RejectionReason = ""
	case entity.DocumentApproved:
		doc.ApprovedBy = actorID
		doc.ApprovedAt = &now
		doc.ReviewedBy = actorID
	case entity.DocumentRejected:
		if reason == "" {
			return domain.InvalidInput("motivo de rechazo requerido", map[string]string{"reason": "required"})
		}
		doc.ReviewedBy = actorID
		doc.RejectionReason = reason
	}
	doc.Status = to
	doc.UpdatedAt = now
	return nil
}
