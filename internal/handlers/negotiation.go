package handlers

import (
	"errors"
	"net/http"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/observability"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/services"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/utils"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// BuscarCredores identifies the debtor and lists their debts. This is the
// single point of identity verification: the supplied CPF must match the
// one on file before any debt is disclosed.
func (h *Handler) BuscarCredores(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "BuscarCredores")
	defer span.End()

	var req models.NegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "campo function_call_username é obrigatório"})
		return
	}
	if req.CPF == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "campo cpf é obrigatório"})
		return
	}

	phone := utils.NormalizePhone(utils.ExtractPhone(req.FunctionCallUsername))
	logger := h.logger.With(zap.String("phone", observability.MaskPhone(phone)))

	record, err := h.negotiation.GetOrRefresh(ctx, phone)
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "usuário não sincronizado ou não encontrado"})
		return
	}
	if record == nil {
		logger.Error("identify failed without record", zap.Error(err))
		c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{"status": "transbordo"}, fallbackMessage))
		return
	}

	// Tag gate comes first; an escalated user gets the handoff reply no
	// matter what they asked.
	if record.Blocked() {
		h.respondHandoff(c, record)
		return
	}

	if utils.NormalizeCPF(req.CPF) != record.Document {
		logger.Warn("document mismatch at identify")
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: models.ErrDocumentMismatch.Error()})
		return
	}

	if record.StatusTag == models.TagAgreementFound {
		c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{
			"status":  "acordo_existente",
			"acordos": record.Acordos,
		}, renderAcordo(record)))
		return
	}

	c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{
		"status":        "exito",
		"detalhe":       record.Dividas,
		"atualizado_em": record.UpdatedAt,
	}, renderDividas(record)))
}

// BuscarOpcoesPagamento lists the cached payment options for a user.
func (h *Handler) BuscarOpcoesPagamento(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "BuscarOpcoesPagamento")
	defer span.End()

	var req models.NegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "campo function_call_username é obrigatório"})
		return
	}

	phone := utils.NormalizePhone(utils.ExtractPhone(req.FunctionCallUsername))

	record, err := h.negotiation.GetOrRefresh(ctx, phone)
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "dados não disponíveis"})
		return
	}
	if record == nil {
		c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{"status": "transbordo"}, fallbackMessage))
		return
	}
	if record.Blocked() {
		h.respondHandoff(c, record)
		return
	}
	if record.StatusTag == models.TagAgreementFound {
		c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{
			"status":  "acordo_existente",
			"acordos": record.Acordos,
		}, renderAcordo(record)))
		return
	}

	// Records from older revisions may predate the simulation step.
	if record.Simulacao == nil {
		record, err = h.negotiation.RefreshUser(ctx, phone)
		if record == nil {
			c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{"status": "transbordo"}, fallbackMessage))
			return
		}
		if record.Blocked() || record.Simulacao == nil {
			h.respondHandoff(c, record)
			return
		}
		_ = err
	}

	c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{
		"status":          "exito",
		"opcoesPagamento": record.Simulacao.OpcoesPagamento,
	}, renderOpcoes(record.Simulacao)))
}

// EmitirBoleto issues a boleto for the chosen option. Always live: the
// cached simulation only selects the plan, every value on the slip comes
// from a fresh upstream round trip.
func (h *Handler) EmitirBoleto(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "EmitirBoleto")
	defer span.End()

	var req models.NegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "campo function_call_username é obrigatório"})
		return
	}
	if req.OpcaoSelecionada == 0 && req.QuantidadeParcela == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "informe opcao_selecionada ou quantidade_parcela"})
		return
	}

	phone := utils.NormalizePhone(utils.ExtractPhone(req.FunctionCallUsername))
	logger := h.logger.With(zap.String("phone", observability.MaskPhone(phone)))

	record, err := h.negotiation.GetOrRefresh(ctx, phone)
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "usuário não sincronizado ou não encontrado"})
		return
	}
	if record == nil {
		c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{"status": "transbordo"}, fallbackMessage))
		return
	}
	if record.Blocked() {
		h.respondHandoff(c, record)
		return
	}
	if record.StatusTag == models.TagAgreementFound {
		c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{
			"status":  "acordo_existente",
			"acordos": record.Acordos,
		}, renderAcordo(record)))
		return
	}

	chosen, ok := services.SelectOption(record.Simulacao, req.OpcaoSelecionada, req.QuantidadeParcela)
	if !ok {
		// User error, not a pipeline failure: no tag, no escalation.
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "opção de pagamento inválida"})
		return
	}

	boleto, err := h.negotiation.IssueBoleto(ctx, phone, chosen)
	if err != nil {
		tag := h.negotiation.RecordFailure(ctx, phone, record.Document, err)
		logger.Error("boleto issuance failed",
			zap.String("tag", string(tag)),
			zap.Error(err))
		h.respondHandoffTag(c, tag)
		return
	}

	c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{
		"status":          "exito",
		"linha_digitavel": boleto.LinhaDigitavel,
		"valor":           boleto.Valor,
		"parcelas":        boleto.QuantidadeParcela,
		"vencimento":      boleto.DataVencimento,
	}, renderBoleto(boleto)))
}

// SegundaVia issues the second copy of an existing agreement's boleto.
func (h *Handler) SegundaVia(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SegundaVia")
	defer span.End()

	var req models.NegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "campo function_call_username é obrigatório"})
		return
	}

	phone := utils.NormalizePhone(utils.ExtractPhone(req.FunctionCallUsername))

	record, err := h.store.Get(ctx, phone)
	if err != nil || record == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "dados não disponíveis"})
		return
	}
	if record.Blocked() {
		h.respondHandoff(c, record)
		return
	}

	boleto, err := h.negotiation.SecondCopy(ctx, record)
	if errors.Is(err, models.ErrNoActiveAgreement) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: models.ErrNoActiveAgreement.Error()})
		return
	}
	if err != nil {
		tag := h.negotiation.RecordFailure(ctx, phone, record.Document, err)
		h.respondHandoffTag(c, tag)
		return
	}

	c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{
		"status":          "exito",
		"linha_digitavel": boleto.LinhaDigitavel,
		"valor":           boleto.Valor,
		"vencimento":      boleto.DataVencimento,
	}, renderBoleto(boleto)))
}

// Transbordo records a manual escalation requested by the chat client or
// an operator.
func (h *Handler) Transbordo(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "Transbordo")
	defer span.End()

	var req models.TransbordoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "campo function_call_username é obrigatório"})
		return
	}

	phone := utils.NormalizePhone(utils.ExtractPhone(req.FunctionCallUsername))
	record := h.negotiation.ManualEscalation(ctx, phone, req.Motivo)

	h.respondHandoff(c, record)
}

func (h *Handler) respondHandoff(c *gin.Context, record *models.UserRecord) {
	c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{
		"status": "transbordo",
		"tag":    record.StatusTag,
	}, handoffMessage))
}

func (h *Handler) respondHandoffTag(c *gin.Context, tag models.StatusTag) {
	c.JSON(http.StatusOK, models.NewEnvelope(map[string]interface{}{
		"status": "transbordo",
		"tag":    tag,
	}, handoffMessage))
}
