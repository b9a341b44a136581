package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTagIsEscalation(t *testing.T) {
	tests := []struct {
		name     string
		tag      StatusTag
		expected bool
	}{
		{"auth escalation", TagEscalateAuth, true},
		{"no creditor escalation", TagEscalateNoCreditor, true},
		{"debt lookup escalation", TagEscalateDebtLookup, true},
		{"no options escalation", TagEscalateNoOptions, true},
		{"simulation escalation", TagEscalateOptionsFailed, true},
		{"issuance escalation", TagEscalateIssuanceFailed, true},
		{"document mismatch escalation", TagEscalateDocumentMismatch, true},
		{"manual escalation", TagEscalateManual, true},
		{"debts listed is not escalation", TagDebtsListed, false},
		{"options computed is not escalation", TagOptionsComputed, false},
		{"agreement found is not escalation", TagAgreementFound, false},
		{"boleto issued is not escalation", TagBoletoIssued, false},
		{"zero tag is not escalation", StatusTag(""), false},
		{"unknown tag is not escalation", StatusTag("TRANSBORDO_INVENTADO"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.tag.IsEscalation())
		})
	}
}

func TestStatusTagIsTerminal(t *testing.T) {
	// Every escalation is terminal, and so is an issued boleto.
	assert.True(t, TagBoletoIssued.IsTerminal())
	assert.True(t, TagEscalateAuth.IsTerminal())
	assert.True(t, TagEscalateManual.IsTerminal())

	assert.False(t, TagDebtsListed.IsTerminal())
	assert.False(t, TagOptionsComputed.IsTerminal())
	assert.False(t, TagAgreementFound.IsTerminal())
	assert.False(t, StatusTag("").IsTerminal())
}

func TestStatusTagKnown(t *testing.T) {
	known := []StatusTag{
		TagDebtsListed, TagOptionsComputed, TagAgreementFound, TagBoletoIssued,
		TagEscalateAuth, TagEscalateNoCreditor, TagEscalateDebtLookup,
		TagEscalateNoOptions, TagEscalateOptionsFailed, TagEscalateIssuanceFailed,
		TagEscalateDocumentMismatch, TagEscalateManual,
	}
	for _, tag := range known {
		assert.True(t, tag.Known(), "tag %s should be known", tag)
	}

	assert.False(t, StatusTag("").Known())
	assert.False(t, StatusTag("OK_ALGO_ANTIGO").Known())
}

func TestUserRecordBlocked(t *testing.T) {
	blocked := &UserRecord{Phone: "123", StatusTag: TagEscalateNoOptions}
	assert.True(t, blocked.Blocked())

	ok := &UserRecord{Phone: "123", StatusTag: TagOptionsComputed}
	assert.False(t, ok.Blocked())

	issued := &UserRecord{Phone: "123", StatusTag: TagBoletoIssued}
	assert.False(t, issued.Blocked(), "an issued boleto does not block the user")
}

func TestUserRecordHasAgreement(t *testing.T) {
	record := &UserRecord{Phone: "123"}
	assert.False(t, record.HasAgreement())

	record.Acordos = []Acordo{{Numero: "AC-1", Valor: 100}}
	assert.True(t, record.HasAgreement())
}
