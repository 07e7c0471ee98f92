package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceStatusValidate(t *testing.T) {
	for _, s := range []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusArchived,
	} {
		assert.NoError(t, s.Validate(), "status %s should be valid", s)
	}

	assert.Error(t, InvoiceStatus("PENDING").Validate())
	assert.Error(t, InvoiceStatus("").Validate())
	assert.Error(t, InvoiceStatus("draft").Validate(), "status values are upper case")
}

func TestInvoiceStatusTransitions(t *testing.T) {
	all := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusArchived,
	}

	allowed := map[InvoiceStatus][]InvoiceStatus{
		InvoiceStatusDraft:    {InvoiceStatusSent, InvoiceStatusArchived},
		InvoiceStatusSent:     {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusArchived},
		InvoiceStatusPaid:     {InvoiceStatusArchived},
		InvoiceStatusOverdue:  {InvoiceStatusPaid, InvoiceStatusArchived},
		InvoiceStatusArchived: {},
	}

	// Every (from, to) pair must answer exactly per the lifecycle table
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
					break
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestInvoiceStatusTransitionsArchivedTerminal(t *testing.T) {
	for _, to := range []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusArchived,
	} {
		assert.False(t, InvoiceStatusArchived.CanTransitionTo(to),
			"ARCHIVED must be terminal, got transition to %s", to)
	}
}

func TestInvoiceStatusUnknownStatusNeverTransitions(t *testing.T) {
	unknown := InvoiceStatus("PENDING")
	assert.False(t, unknown.CanTransitionTo(InvoiceStatusSent))
	assert.False(t, InvoiceStatusDraft.CanTransitionTo(unknown))
}
