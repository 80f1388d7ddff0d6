package compliance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/compliance"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

func TestFamilyOf(t *testing.T) {
	for _, typ := range []string{entity.DocumentJSA, entity.DocumentLOTO, entity.DocumentWorkPermit} {
		f, err := compliance.FamilyOf(typ)
		require.NoError(t, err)
		assert.Equal(t, access.PermSafetyApprove, f.Approve)
	}
	for _, typ := range []string{entity.DocumentCAPA, entity.DocumentRCA} {
		f, err := compliance.FamilyOf(typ)
		require.NoError(t, err)
		assert.Equal(t, access.PermQualityView, f.View)
	}
	_, err := compliance.FamilyOf("MSDS")
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestRequiredPermission(t *testing.T) {
	f := compliance.Safety()
	assert.Equal(t, access.PermSafetyApprove, f.RequiredPermission(entity.DocumentApproved))
	assert.Equal(t, access.PermSafetyApprove, f.RequiredPermission(entity.DocumentRejected))
	assert.Equal(t, access.PermSafetyManage, f.RequiredPermission(entity.DocumentInReview))
}

func TestTransition_FlujoDeAprobacion(t *testing.T) {
	now := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	doc := &entity.ComplianceDocument{Status: entity.DocumentDraft}

	require.NoError(t, compliance.Transition(doc, entity.DocumentInReview, "sup-1", "", now))
	require.NoError(t, compliance.Transition(doc, entity.DocumentApproved, "sup-1", "", now))
	assert.Equal(t, "sup-1", doc.ApprovedBy)
	require.NotNil(t, doc.ApprovedAt)

	require.NoError(t, compliance.Transition(doc, entity.DocumentClosed, "sup-1", "", now))

	err := compliance.Transition(doc, entity.DocumentDraft, "sup-1", "", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_RechazoRequiereMotivo(t *testing.T) {
	now := time.Now()
	doc := &entity.ComplianceDocument{Status: entity.DocumentInReview}

	err := compliance.Transition(doc, entity.DocumentRejected, "sup-1", "", now)
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
	assert.Equal(t, entity.DocumentInReview, doc.Status)

	require.NoError(t, compliance.Transition(doc, entity.DocumentRejected, "sup-1", "faltan puntos de bloqueo", now))
	assert.True(t, compliance.Editable(doc.Status))
}
