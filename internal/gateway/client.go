package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/config"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/observability"
	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Client is the typed wrapper around the two Bellinati upstreams: the
// bpdigital auth API and the api-negocie negotiation API. It never
// retries; retry is a caller policy.
type Client struct {
	authBaseURL    string
	negocieBaseURL string
	appID          string
	appPass        string
	http           *http.Client
	logger         *zap.Logger

	mu     sync.Mutex
	tokens map[string]cachedToken
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// NewClient creates a gateway client from config. The transport prefers
// IPv4 and keeps connections alive; the upstream penalizes connection
// churn.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp4", addr)
		},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	return &Client{
		authBaseURL:    strings.TrimRight(cfg.AuthBaseURL, "/"),
		negocieBaseURL: strings.TrimRight(cfg.NegocieBaseURL, "/"),
		appID:          cfg.APIAppID,
		appPass:        cfg.APIAppPass,
		http: &http.Client{
			Timeout:   cfg.GatewayTimeout,
			Transport: transport,
		},
		logger: logger,
		tokens: make(map[string]cachedToken),
	}
}

type authRequest struct {
	AppID   string `json:"AppId"`
	AppPass string `json:"AppPass"`
	Usuario string `json:"Usuario"`
}

type authResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// Authenticate exchanges app credentials plus the debtor document for a
// bearer token. A still-valid token for the same document is reused; an
// authentication failure is never retried here.
func (c *Client) Authenticate(ctx context.Context, document string) (string, error) {
	c.mu.Lock()
	if cached, ok := c.tokens[document]; ok && time.Until(cached.expiresAt) > time.Minute {
		c.mu.Unlock()
		return cached.token, nil
	}
	c.mu.Unlock()

	var resp authResponse
	err := c.do(ctx, http.MethodPost, c.authBaseURL, "/api/Login/v5/Authentication", "",
		authRequest{AppID: c.appID, AppPass: c.appPass, Usuario: document}, &resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrAuthFailed, err)
	}

	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return "", fmt.Errorf("%w: resposta sem token", models.ErrAuthFailed)
	}

	if exp, ok := tokenExpiry(token); ok {
		c.mu.Lock()
		c.tokens[document] = cachedToken{token: token, expiresAt: exp}
		c.mu.Unlock()
	}

	return token, nil
}

// tokenExpiry reads the exp claim of the upstream JWT without verifying
// the signature; we only need the validity window, not trust.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ListCreditors fetches the debtor's creditor relationships.
func (c *Client) ListCreditors(ctx context.Context, token string) (models.CredoresResponse, error) {
	var resp models.CredoresResponse
	err := c.do(ctx, http.MethodGet, c.negocieBaseURL, "/api/v5/busca-credores", token, nil, &resp)
	return resp, err
}

type buscaDividaRequest struct {
	Financeira int   `json:"financeira"`
	Crms       []int `json:"crms"`
}

// ListDebts fetches the detailed debts for one creditor.
func (c *Client) ListDebts(ctx context.Context, token string, credor models.Credor) ([]models.Divida, error) {
	var resp []models.Divida
	err := c.do(ctx, http.MethodPost, c.negocieBaseURL, "/api/v5/busca-divida", token,
		buscaDividaRequest{Financeira: credor.Financeira, Crms: credor.Crms}, &resp)
	return resp, err
}

// SimulatePaymentOptions computes installment plans for the contracts.
func (c *Client) SimulatePaymentOptions(ctx context.Context, token string, params models.SimulacaoParams) (models.SimulacaoResponse, error) {
	var resp models.SimulacaoResponse
	err := c.do(ctx, http.MethodPost, c.negocieBaseURL, "/api/v5/busca-opcao-pagamento", token, params, &resp)
	return resp, err
}

type resumoRequest struct {
	Codigo   string `json:"codigo"`
	Contrato string `json:"contrato"`
}

type resumoResponse struct {
	Codigo string `json:"codigo"`
}

// ResolveSummary finalizes an option identifier through resumo-boleto.
// Some payment options require this step before issuance.
func (c *Client) ResolveSummary(ctx context.Context, token, codigo, contrato string) (string, error) {
	var resp resumoResponse
	err := c.do(ctx, http.MethodPost, c.negocieBaseURL, "/api/v5/resumo-boleto", token,
		resumoRequest{Codigo: codigo, Contrato: contrato}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Codigo == "" {
		return "", &models.UpstreamError{Operation: "resumo-boleto", StatusCode: http.StatusOK, Message: "resposta sem código"}
	}
	return resp.Codigo, nil
}

// IssueRequest carries everything emitir-boleto needs. Codigo must be the
// freshly resolved identifier, never one simulated in a previous request.
type IssueRequest struct {
	Financeira        int     `json:"financeira"`
	Crm               int     `json:"Crm"`
	Carteira          int     `json:"Carteira"`
	Documento         string  `json:"documento"`
	Fase              string  `json:"fase,omitempty"`
	Contrato          string  `json:"contrato"`
	Valor             float64 `json:"valor"`
	QuantidadeParcela int     `json:"quantidadeParcela"`
	DataVencimento    string  `json:"dataVencimento,omitempty"`
	Codigo            string  `json:"codigo"`
}

// IssueBoleto emits the payment slip for the chosen plan.
func (c *Client) IssueBoleto(ctx context.Context, token string, req IssueRequest) (models.Boleto, error) {
	var resp models.Boleto
	err := c.do(ctx, http.MethodPost, c.negocieBaseURL, "/api/v5/emitir-boleto", token, req, &resp)
	return resp, err
}

type buscaAcordoResponse struct {
	Acordos []models.Acordo `json:"acordos"`
}

// ListExistingAgreements returns agreements already in place, if any.
func (c *Client) ListExistingAgreements(ctx context.Context, token string, credor models.Credor) ([]models.Acordo, error) {
	var resp buscaAcordoResponse
	err := c.do(ctx, http.MethodGet, c.negocieBaseURL, "/api/v5/busca-acordo", token, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Acordos, nil
}

type segundaViaRequest struct {
	Acordo string `json:"acordo"`
}

// IssueSecondCopy emits the second copy of an existing agreement's boleto.
// It works from the agreement's own fields and skips simulation entirely.
func (c *Client) IssueSecondCopy(ctx context.Context, token string, acordo models.Acordo) (models.Boleto, error) {
	var resp models.Boleto
	err := c.do(ctx, http.MethodPost, c.negocieBaseURL, "/api/v5/emitir-segunda-via", token,
		segundaViaRequest{Acordo: acordo.Numero}, &resp)
	return resp, err
}

// do performs one upstream call. Non-2xx becomes UpstreamError, a missed
// deadline becomes UpstreamTimeout; nothing is retried.
func (c *Client) do(ctx context.Context, method, base, path, token string, body, out interface{}) error {
	op := strings.TrimPrefix(path, "/api/")

	// The span carries the operation only; payloads hold CPFs.
	ctx, span := otel.Tracer("gateway").Start(ctx, "gateway."+op)
	span.SetAttributes(attribute.String("gateway.operation", op))
	defer span.End()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.GatewayCalls.WithLabelValues(op, "error").Inc()
		span.RecordError(err)
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() || errors.Is(err, context.DeadlineExceeded) {
			return &models.UpstreamTimeout{Operation: op}
		}
		return fmt.Errorf("call %s: %w", op, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		observability.GatewayCalls.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("read %s response: %w", op, err)
	}

	c.logger.Debug("gateway call",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.GatewayCalls.WithLabelValues(op, "upstream_error").Inc()
		return &models.UpstreamError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(payload),
		}
	}

	observability.GatewayCalls.WithLabelValues(op, "ok").Inc()

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// upstreamMessage extracts a human-readable message from an error body.
func upstreamMessage(payload []byte) string {
	var body struct {
		Mensagem string `json:"mensagem"`
		Message  string `json:"message"`
		Error    string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		switch {
		case body.Mensagem != "":
			return body.Mensagem
		case body.Message != "":
			return body.Message
		case body.Error != "":
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(payload))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
