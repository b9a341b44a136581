package models

// Envelope is the response format expected by the chat client: a
// machine-readable raw block plus rendered markdown prose.
type Envelope struct {
	Raw      map[string]interface{} `json:"raw"`
	Markdown string                 `json:"markdown"`
	Type     string                 `json:"type"`
}

// NewEnvelope builds the standard markdown envelope.
func NewEnvelope(raw map[string]interface{}, markdown string) Envelope {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return Envelope{Raw: raw, Markdown: markdown, Type: "markdown"}
}

// NegotiationRequest is the inbound body shared by the negotiation
// endpoints. FunctionCallUsername may come as "display name--phone"; the
// caller keeps only the segment after the last separator.
type NegotiationRequest struct {
	FunctionCallUsername string `json:"function_call_username" binding:"required"`
	CPF                  string `json:"cpf,omitempty"`
	OpcaoSelecionada     int    `json:"opcao_selecionada,omitempty"`
	QuantidadeParcela    int    `json:"quantidade_parcela,omitempty"`
}

// TransbordoRequest triggers a manual escalation for a user.
type TransbordoRequest struct {
	FunctionCallUsername string `json:"function_call_username" binding:"required"`
	Motivo               string `json:"motivo,omitempty"`
}

// ClearCacheRequest guards the destructive admin endpoint behind an
// explicit confirmation token.
type ClearCacheRequest struct {
	Confirm string `json:"confirm" binding:"required"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
