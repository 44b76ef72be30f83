package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez / García")

	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, "owner-1", req.OwnerID)
	assert.Equal(t, "Escritura N° 1234 (2023)", req.Title)
	assert.Equal(t, "Escribano: Dr. Gómez | Partes: Pérez / García", req.Description)
	assert.Nil(t, req.Amount)
	assert.Nil(t, req.TransactionID)
	assert.Nil(t, req.RejectionReason)
	assert.False(t, req.PdfValidated)
}

func TestRequestApprove(t *testing.T) {
	t.Run("approves pending request", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez")

		err := req.Approve(1500.50)

		require.NoError(t, err)
		assert.Equal(t, StatusApproved, req.Status)
		require.NotNil(t, req.Amount)
		assert.Equal(t, 1500.50, *req.Amount)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez")

		assert.ErrorIs(t, req.Approve(0), ErrInvalidAmount)
		assert.ErrorIs(t, req.Approve(-10), ErrInvalidAmount)
		assert.Equal(t, StatusPending, req.Status)
	})

	t.Run("conflicts when not pending", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez")
		require.NoError(t, req.Approve(100))

		assert.ErrorIs(t, req.Approve(200), ErrStatusConflict)
		assert.Equal(t, 100.0, *req.Amount)
	})
}

func TestRequestReject(t *testing.T) {
	t.Run("rejects pending request with reason", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeDigitalCopy, "55", "2020", "Dra. López", "Díaz")

		err := req.Reject("Falta escribano")

		require.NoError(t, err)
		assert.Equal(t, StatusRejected, req.Status)
		require.NotNil(t, req.RejectionReason)
		assert.Equal(t, "Falta escribano", *req.RejectionReason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeDigitalCopy, "55", "2020", "Dra. López", "Díaz")

		assert.ErrorIs(t, req.Reject(""), ErrReasonRequired)
		assert.Equal(t, StatusPending, req.Status)
	})

	t.Run("conflicts after approval", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeDigitalCopy, "55", "2020", "Dra. López", "Díaz")
		require.NoError(t, req.Approve(300))

		assert.ErrorIs(t, req.Reject("tarde"), ErrStatusConflict)
		assert.Equal(t, StatusApproved, req.Status)
		assert.Nil(t, req.RejectionReason)
	})

	t.Run("conflicts after rejection", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeDigitalCopy, "55", "2020", "Dra. López", "Díaz")
		require.NoError(t, req.Reject("Falta escribano"))

		assert.ErrorIs(t, req.Reject("otro motivo"), ErrStatusConflict)
		assert.Equal(t, "Falta escribano", *req.RejectionReason)
	})
}

func TestRequestMarkPaid(t *testing.T) {
	t.Run("pays approved request", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez")
		require.NoError(t, req.Approve(100))

		err := req.MarkPaid("MACRO-1-ABC")

		require.NoError(t, err)
		assert.Equal(t, StatusPaid, req.Status)
		require.NotNil(t, req.TransactionID)
		assert.Equal(t, "MACRO-1-ABC", *req.TransactionID)
		assert.False(t, req.PdfValidated)
	})

	t.Run("conflicts when pending", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez")

		assert.ErrorIs(t, req.MarkPaid("MACRO-1-ABC"), ErrStatusConflict)
	})

	t.Run("conflicts when already paid", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez")
		require.NoError(t, req.Approve(100))
		require.NoError(t, req.MarkPaid("MACRO-1-ABC"))

		assert.ErrorIs(t, req.MarkPaid("MACRO-2-DEF"), ErrStatusConflict)
		assert.Equal(t, "MACRO-1-ABC", *req.TransactionID)
	})

	t.Run("requires transaction id", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez")
		require.NoError(t, req.Approve(100))

		assert.ErrorIs(t, req.MarkPaid(""), ErrInvalidInput)
		assert.Equal(t, StatusApproved, req.Status)
	})
}

func TestRequestValidatePDF(t *testing.T) {
	paid := func(t *testing.T) *Request {
		t.Helper()
		req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez")
		require.NoError(t, req.Approve(100))
		require.NoError(t, req.MarkPaid("MACRO-1-ABC"))
		return req
	}

	t.Run("validates paid request once", func(t *testing.T) {
		req := paid(t)

		require.NoError(t, req.ValidatePDF())
		assert.True(t, req.PdfValidated)
	})

	t.Run("second validation conflicts", func(t *testing.T) {
		req := paid(t)
		require.NoError(t, req.ValidatePDF())

		assert.ErrorIs(t, req.ValidatePDF(), ErrStatusConflict)
		assert.True(t, req.PdfValidated)
	})

	t.Run("conflicts when not paid", func(t *testing.T) {
		req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez")

		assert.ErrorIs(t, req.ValidatePDF(), ErrStatusConflict)
	})
}

func TestCertificateReady(t *testing.T) {
	req := NewRequest("owner-1", RequestTypeEntryCopy, "1234", "2023", "Dr. Gómez", "Pérez")
	assert.False(t, req.CertificateReady())

	require.NoError(t, req.Approve(100))
	assert.False(t, req.CertificateReady())

	require.NoError(t, req.MarkPaid("MACRO-1-ABC"))
	assert.False(t, req.CertificateReady())

	require.NoError(t, req.ValidatePDF())
	assert.True(t, req.CertificateReady())
}

func TestValidRequestType(t *testing.T) {
	assert.True(t, ValidRequestType("Copia de Entrada"))
	assert.True(t, ValidRequestType("Copia Digital"))
	assert.False(t, ValidRequestType(""))
	assert.False(t, ValidRequestType("copia digital"))
	assert.False(t, ValidRequestType("Testimonio"))
}

func TestRoleIsStaff(t *testing.T) {
	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleEmployee.IsStaff())
	assert.False(t, RoleClient.IsStaff())
}
