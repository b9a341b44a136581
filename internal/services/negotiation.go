package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/directory"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/gateway"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/notify"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/observability"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/store"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// Negotiation drives the debt pipeline: reconstruct, simulate, classify,
// persist, notify. All error-to-tag conversion happens here so handlers
// stay thin and no raw upstream error ever reaches the transport layer.
type Negotiation struct {
	recon    *Reconstructor
	gw       Gateway
	store    store.UserStore
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewNegotiation wires the service.
func NewNegotiation(recon *Reconstructor, gw Gateway, userStore store.UserStore, notifier notify.Notifier, logger *zap.Logger) *Negotiation {
	return &Negotiation{
		recon:    recon,
		gw:       gw,
		store:    userStore,
		notifier: notifier,
		logger:   logger,
	}
}

// GetOrRefresh serves the cached record when one exists and runs the
// live pipeline otherwise. Cache freshness is binary: a record that
// exists is trusted until the next sync or live run overwrites it.
func (n *Negotiation) GetOrRefresh(ctx context.Context, phone string) (*models.UserRecord, error) {
	record, err := n.store.Get(ctx, phone)
	if err != nil {
		n.logger.Warn("cache read failed, running live", zap.Error(err))
	}
	if record != nil {
		return record, nil
	}
	return n.RefreshUser(ctx, phone)
}

// RefreshUser runs the full reconstruct+classify+persist pipeline for one
// phone. Every outcome except UserNotFound writes exactly one record with
// exactly one tag; escalation tags notify on write.
func (n *Negotiation) RefreshUser(ctx context.Context, phone string) (*models.UserRecord, error) {
	ctx, span := otel.Tracer("services").Start(ctx, "RefreshUser")
	defer span.End()

	dctx, entry, err := n.recon.Reconstruct(ctx, phone)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			// Unknown phone: nothing to persist, nothing to escalate.
			return nil, err
		}
		return n.recordFailure(ctx, phone, entry, err), err
	}

	record := &models.UserRecord{
		Phone:    phone,
		Document: entry.Document,
		Name:     entry.Name,
		Credores: &dctx.Credores,
		Dividas:  dctx.Dividas,
	}

	// An active agreement short-circuits new negotiation; the user is
	// routed to the second-copy flow instead.
	acordos, err := n.gw.ListExistingAgreements(ctx, dctx.Token, dctx.Credores.Credores[0])
	if err != nil {
		n.logger.Warn("agreement lookup failed, proceeding without",
			zap.String("phone", observability.MaskPhone(phone)),
			zap.Error(err))
	}
	if len(acordos) > 0 {
		record.Acordos = acordos
		record.StatusTag = models.TagAgreementFound
		n.persist(ctx, record, "")
		return record, nil
	}

	simulacao, err := n.Simulate(ctx, dctx, models.SimulacaoParams{
		Crm:       dctx.Crm,
		Carteira:  dctx.Carteira,
		Contratos: dctx.Contratos,
	})
	if err != nil {
		record.StatusTag = models.ClassifyError(err)
		record.ErrorDetail = err.Error()
		n.persist(ctx, record, err.Error())
		return record, err
	}

	record.Simulacao = &simulacao
	record.StatusTag = models.TagOptionsComputed
	n.persist(ctx, record, "")
	return record, nil
}

// Simulate runs busca-opcao-pagamento for the context. An empty option
// list is a business outcome, surfaced as ErrOptionsEmpty for the caller
// to classify rather than thrown upstream.
func (n *Negotiation) Simulate(ctx context.Context, dctx *models.DebtContext, params models.SimulacaoParams) (models.SimulacaoResponse, error) {
	resp, err := n.gw.SimulatePaymentOptions(ctx, dctx.Token, params)
	if err != nil {
		return models.SimulacaoResponse{}, fmt.Errorf("%w: %w", models.ErrOptionsCallFailed, err)
	}
	if len(resp.OpcoesPagamento) == 0 {
		return models.SimulacaoResponse{}, models.ErrOptionsEmpty
	}
	return resp, nil
}

// SelectOption picks a cached payment option by 1-based index or, when
// index is zero, by installment count. A miss is a user error.
func SelectOption(simulacao *models.SimulacaoResponse, index, installments int) (models.OpcaoPagamento, bool) {
	if simulacao == nil {
		return models.OpcaoPagamento{}, false
	}
	options := simulacao.OpcoesPagamento
	if index > 0 {
		if index > len(options) {
			return models.OpcaoPagamento{}, false
		}
		return options[index-1], true
	}
	for _, option := range options {
		if option.QuantidadeParcela == installments {
			return option, true
		}
	}
	return models.OpcaoPagamento{}, false
}

// IssueBoleto emits a boleto for the chosen option. The cached option's
// code is never trusted: the plan is re-simulated live with the
// installment count pinned, the identifier optionally goes through
// resumo-boleto, and only then is emission attempted. Success persists
// OK_BOLETO_EMITIDO; every failure surfaces as a pipeline error for the
// handler boundary to classify and escalate.
func (n *Negotiation) IssueBoleto(ctx context.Context, phone string, chosen models.OpcaoPagamento) (*models.Boleto, error) {
	ctx, span := otel.Tracer("services").Start(ctx, "IssueBoleto")
	defer span.End()

	dctx, entry, err := n.recon.Reconstruct(ctx, phone)
	if err != nil {
		return nil, err
	}

	fresh, err := n.Simulate(ctx, dctx, models.SimulacaoParams{
		Crm:               dctx.Crm,
		Carteira:          dctx.Carteira,
		Contratos:         dctx.Contratos,
		QuantidadeParcela: chosen.QuantidadeParcela,
	})
	if err != nil {
		if errors.Is(err, models.ErrOptionsEmpty) {
			return nil, models.ErrOptionNoLongerAvailable
		}
		return nil, err
	}

	match, ok := SelectOption(&fresh, 0, chosen.QuantidadeParcela)
	if !ok {
		return nil, models.ErrOptionNoLongerAvailable
	}

	codigo := match.Codigo
	if fresh.GeraResumo {
		resolved, err := n.gw.ResolveSummary(ctx, dctx.Token, match.Codigo, dctx.PrimaryContract())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrSummaryResolutionFailed, err)
		}
		codigo = resolved
	}

	boleto, err := n.gw.IssueBoleto(ctx, dctx.Token, gateway.IssueRequest{
		Financeira:        dctx.Financeira,
		Crm:               dctx.Crm,
		Carteira:          dctx.Carteira,
		Documento:         dctx.Documento,
		Fase:              dctx.Fase,
		Contrato:          dctx.PrimaryContract(),
		Valor:             match.Total(),
		QuantidadeParcela: match.QuantidadeParcela,
		DataVencimento:    match.DataVencimento,
		Codigo:            codigo,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrIssuanceFailed, err)
	}
	if !boleto.Sucesso || boleto.LinhaDigitavel == "" {
		detail := boleto.Mensagem
		if detail == "" {
			detail = "resposta sem linha digitável"
		}
		return nil, fmt.Errorf("%w: %s", models.ErrIssuanceFailed, detail)
	}
	if boleto.QuantidadeParcela == 0 {
		boleto.QuantidadeParcela = match.QuantidadeParcela
	}

	record := &models.UserRecord{
		Phone:     phone,
		Document:  entry.Document,
		Name:      entry.Name,
		Credores:  &dctx.Credores,
		Dividas:   dctx.Dividas,
		Simulacao: &fresh,
		StatusTag: models.TagBoletoIssued,
	}
	n.persist(ctx, record, "")

	return &boleto, nil
}

// SecondCopy issues the second copy of an existing agreement's boleto.
// It needs a cached agreement and skips simulation entirely.
func (n *Negotiation) SecondCopy(ctx context.Context, record *models.UserRecord) (*models.Boleto, error) {
	if record == nil || !record.HasAgreement() {
		return nil, models.ErrNoActiveAgreement
	}

	token, err := n.gw.Authenticate(ctx, record.Document)
	if err != nil {
		return nil, err
	}

	boleto, err := n.gw.IssueSecondCopy(ctx, token, record.Acordos[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrIssuanceFailed, err)
	}
	if boleto.LinhaDigitavel == "" {
		return nil, fmt.Errorf("%w: segunda via sem linha digitável", models.ErrIssuanceFailed)
	}
	return &boleto, nil
}

// RecordFailure classifies a pipeline error, persists the resulting tag
// and fires the notification. It returns the tag written, or the zero tag
// for user-facing validation failures that are answered directly.
func (n *Negotiation) RecordFailure(ctx context.Context, phone, document string, err error) models.StatusTag {
	tag := models.ClassifyError(err)
	if tag == "" {
		return ""
	}

	record, getErr := n.store.Get(ctx, phone)
	if getErr != nil || record == nil {
		record = &models.UserRecord{Phone: phone}
	}
	record.Document = document
	record.StatusTag = tag
	record.ErrorDetail = err.Error()
	n.persist(ctx, record, err.Error())
	return tag
}

// ManualEscalation records an operator-requested transbordo.
func (n *Negotiation) ManualEscalation(ctx context.Context, phone, motivo string) *models.UserRecord {
	record, err := n.store.Get(ctx, phone)
	if err != nil || record == nil {
		record = &models.UserRecord{Phone: phone}
	}
	record.StatusTag = models.TagEscalateManual
	record.ErrorDetail = motivo
	n.persist(ctx, record, motivo)
	return record
}

// recordFailure is RefreshUser's internal variant, tolerating a nil
// directory entry.
func (n *Negotiation) recordFailure(ctx context.Context, phone string, entry *directory.Entry, err error) *models.UserRecord {
	document, name := "", ""
	if entry != nil {
		document, name = entry.Document, entry.Name
	}

	tag := models.ClassifyError(err)
	if tag == "" {
		return nil
	}

	record, getErr := n.store.Get(ctx, phone)
	if getErr != nil || record == nil {
		record = &models.UserRecord{Phone: phone}
	}
	record.Document = document
	if name != "" {
		record.Name = name
	}
	record.StatusTag = tag
	record.ErrorDetail = err.Error()
	n.persist(ctx, record, err.Error())
	return record
}

// persist writes the record and, for terminal tags, publishes exactly one
// notification event. The gate in handlers does not re-notify; stickiness
// without spam.
func (n *Negotiation) persist(ctx context.Context, record *models.UserRecord, detail string) {
	if !record.StatusTag.IsEscalation() {
		record.ErrorDetail = ""
	}

	if err := n.store.Upsert(ctx, record); err != nil {
		n.logger.Error("failed to persist user record",
			zap.String("phone", observability.MaskPhone(record.Phone)),
			zap.String("tag", string(record.StatusTag)),
			zap.Error(err))
	}

	if record.StatusTag.IsEscalation() {
		observability.Escalations.WithLabelValues(string(record.StatusTag)).Inc()
	}
	if record.StatusTag.IsTerminal() {
		n.notifier.Notify(notify.NewEvent(record.StatusTag, record.Phone, record.Document, detail))
	}

	n.logger.Info("outcome recorded",
		zap.String("phone", observability.MaskPhone(record.Phone)),
		zap.String("tag", string(record.StatusTag)))
}
