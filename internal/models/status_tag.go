package models

// StatusTag classifies the outcome of the last pipeline run for a user.
// It is the single source of truth for whether automation is blocked:
// every handler checks IsEscalation before doing anything else.
type StatusTag string

const (
	// Success outcomes.
	TagDebtsListed     StatusTag = "OK_DIVIDAS_LISTADAS"
	TagOptionsComputed StatusTag = "OK_OPCOES_CALCULADAS"
	TagAgreementFound  StatusTag = "OK_ACORDO_ENCONTRADO"
	TagBoletoIssued    StatusTag = "OK_BOLETO_EMITIDO"

	// Escalation (transbordo) outcomes. The TRANSBORDO_ prefix is kept in
	// the persisted value for operator readability; control flow never
	// matches on the prefix, only on IsEscalation.
	TagEscalateAuth             StatusTag = "TRANSBORDO_AUTENTICACAO"
	TagEscalateNoCreditor       StatusTag = "TRANSBORDO_CREDOR_NAO_ENCONTRADO"
	TagEscalateDebtLookup       StatusTag = "TRANSBORDO_BUSCA_DIVIDA"
	TagEscalateNoOptions        StatusTag = "TRANSBORDO_SEM_OPCOES"
	TagEscalateOptionsFailed    StatusTag = "TRANSBORDO_SIMULACAO"
	TagEscalateIssuanceFailed   StatusTag = "TRANSBORDO_EMISSAO"
	TagEscalateDocumentMismatch StatusTag = "TRANSBORDO_CPF_DIVERGENTE"
	TagEscalateManual           StatusTag = "TRANSBORDO_MANUAL"
)

var escalationTags = map[StatusTag]bool{
	TagEscalateAuth:             true,
	TagEscalateNoCreditor:       true,
	TagEscalateDebtLookup:       true,
	TagEscalateNoOptions:        true,
	TagEscalateOptionsFailed:    true,
	TagEscalateIssuanceFailed:   true,
	TagEscalateDocumentMismatch: true,
	TagEscalateManual:           true,
}

// IsEscalation reports whether the tag hands the conversation to a human.
func (t StatusTag) IsEscalation() bool {
	return escalationTags[t]
}

// IsTerminal reports whether the tag ends the current interaction cycle.
// Terminal tags stay in place until overwritten by a new sync or live run.
func (t StatusTag) IsTerminal() bool {
	return t == TagBoletoIssued || t.IsEscalation()
}

// Known reports whether the tag is one of the defined outcomes. Records
// written by older revisions may carry tags we no longer emit; those are
// treated as unknown and the user is routed to a live run.
func (t StatusTag) Known() bool {
	if escalationTags[t] {
		return true
	}
	switch t {
	case TagDebtsListed, TagOptionsComputed, TagAgreementFound, TagBoletoIssued:
		return true
	}
	return false
}
