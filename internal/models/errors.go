package models

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Every failure inside reconstruct/simulate/issue
// maps to exactly one of these; handlers convert them to escalation tags at
// the boundary, never letting a raw error reach the transport layer.
var (
	ErrUserNotFound            = errors.New("usuário não encontrado no diretório")
	ErrAuthFailed              = errors.New("falha na autenticação com o credor")
	ErrNoCreditor              = errors.New("nenhum credor encontrado")
	ErrMissingWalletID         = errors.New("credor sem carteira associada")
	ErrDebtLookupFailed        = errors.New("falha na busca de dívidas")
	ErrOptionsEmpty            = errors.New("simulação não retornou opções de pagamento")
	ErrOptionsCallFailed       = errors.New("falha na simulação de pagamento")
	ErrOptionNoLongerAvailable = errors.New("opção de pagamento não está mais disponível")
	ErrSummaryResolutionFailed = errors.New("falha ao gerar resumo do boleto")
	ErrIssuanceFailed          = errors.New("falha na emissão do boleto")
	ErrDocumentMismatch        = errors.New("CPF informado não confere com o cadastro")
	ErrNoActiveAgreement       = errors.New("nenhum acordo ativo para segunda via")
)

// UpstreamError wraps any non-2xx response from the Bellinati APIs.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// UpstreamTimeout marks a call that produced no response within the
// gateway's deadline. Never retried inside the pipeline.
type UpstreamTimeout struct {
	Operation string
}

func (e *UpstreamTimeout) Error() string {
	return fmt.Sprintf("upstream %s: timeout", e.Operation)
}

// ClassifyError maps a pipeline error to the escalation tag that must be
// persisted for the user. UserNotFound and DocumentMismatch are validation
// failures answered directly, without persisting a tag; they map to the
// zero tag here and callers handle them before classification.
func ClassifyError(err error) StatusTag {
	switch {
	case errors.Is(err, ErrAuthFailed):
		return TagEscalateAuth
	case errors.Is(err, ErrNoCreditor):
		return TagEscalateNoCreditor
	case errors.Is(err, ErrMissingWalletID):
		return TagEscalateDebtLookup
	case errors.Is(err, ErrDebtLookupFailed):
		return TagEscalateDebtLookup
	case errors.Is(err, ErrOptionsEmpty):
		return TagEscalateNoOptions
	case errors.Is(err, ErrOptionsCallFailed):
		return TagEscalateOptionsFailed
	case errors.Is(err, ErrOptionNoLongerAvailable),
		errors.Is(err, ErrSummaryResolutionFailed),
		errors.Is(err, ErrIssuanceFailed):
		return TagEscalateIssuanceFailed
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrDocumentMismatch):
		return ""
	default:
		// Unknown failures still hand off to a human.
		return TagEscalateManual
	}
}
