package models

// Upstream payload types for the Bellinati negotiation API. Field names
// follow the wire format of api-negocie; everything is kept as returned so
// cached payloads survive schema additions upstream.

// CarteiraCrm identifies a wallet/portfolio under a creditor.
type CarteiraCrm struct {
	CarteiraID int `json:"carteiraId,omitempty" bson:"carteiraId,omitempty"`
	ID         int `json:"id,omitempty" bson:"id,omitempty"`
}

// Wallet returns the effective wallet id, whichever field the API used.
func (c CarteiraCrm) Wallet() int {
	if c.CarteiraID != 0 {
		return c.CarteiraID
	}
	return c.ID
}

// Credor is one creditor relationship returned by busca-credores.
type Credor struct {
	Financeira   int           `json:"financeira" bson:"financeira"`
	Crms         []int         `json:"crms" bson:"crms"`
	CarteiraCrms []CarteiraCrm `json:"carteiraCrms" bson:"carteiraCrms"`
	Documento    string        `json:"documento,omitempty" bson:"documento,omitempty"`
	Nome         string        `json:"nome,omitempty" bson:"nome,omitempty"`
}

// CredoresResponse is the busca-credores envelope.
type CredoresResponse struct {
	Credores []Credor `json:"credores" bson:"credores"`
}

// Contrato is a single debt instrument grouped under a Divida.
type Contrato struct {
	Numero  string `json:"numero" bson:"numero"`
	Produto string `json:"produto,omitempty" bson:"produto,omitempty"`
}

// Divida is one debt returned by busca-divida.
type Divida struct {
	Valor     float64    `json:"valor" bson:"valor"`
	Fase      string     `json:"fase,omitempty" bson:"fase,omitempty"`
	Contratos []Contrato `json:"contratos" bson:"contratos"`
}

// OpcaoPagamento is one installment plan from busca-opcao-pagamento.
// Codigo is short-lived; it must never be trusted across requests.
type OpcaoPagamento struct {
	Texto               string  `json:"texto" bson:"texto"`
	Valor               float64 `json:"valor" bson:"valor"`
	ValorTotalComCustas float64 `json:"valorTotalComCustas,omitempty" bson:"valorTotalComCustas,omitempty"`
	QuantidadeParcela   int     `json:"quantidadeParcela" bson:"quantidadeParcela"`
	ValorParcela        float64 `json:"valorParcela,omitempty" bson:"valorParcela,omitempty"`
	Codigo              string  `json:"codigo" bson:"codigo"`
	DataVencimento      string  `json:"dataVencimento,omitempty" bson:"dataVencimento,omitempty"`
}

// Total returns the option total, preferring the fee-inclusive value.
func (o OpcaoPagamento) Total() float64 {
	if o.ValorTotalComCustas != 0 {
		return o.ValorTotalComCustas
	}
	return o.Valor
}

// SimulacaoResponse is the busca-opcao-pagamento envelope. GeraResumo set
// means the option id must go through resumo-boleto before issuance.
type SimulacaoResponse struct {
	OpcoesPagamento []OpcaoPagamento `json:"opcoesPagamento" bson:"opcoesPagamento"`
	GeraResumo      bool             `json:"geraResumo,omitempty" bson:"geraResumo,omitempty"`
}

// SimulacaoParams is the busca-opcao-pagamento request body. Zero values
// mean "let the API decide"; pinning QuantidadeParcela narrows the result
// to a single plan.
type SimulacaoParams struct {
	Crm               int      `json:"Crm"`
	Carteira          int      `json:"Carteira"`
	Contratos         []string `json:"Contratos"`
	DataVencimento    *string  `json:"DataVencimento"`
	ValorEntrada      float64  `json:"ValorEntrada"`
	QuantidadeParcela int      `json:"QuantidadeParcela"`
	ValorParcela      float64  `json:"ValorParcela"`
}

// Acordo is an existing agreement returned by busca-acordo. Its presence
// blocks new negotiation and routes to the second-copy flow.
type Acordo struct {
	Numero         string  `json:"numero" bson:"numero"`
	Valor          float64 `json:"valor" bson:"valor"`
	Parcelas       int     `json:"parcelas,omitempty" bson:"parcelas,omitempty"`
	DataVencimento string  `json:"dataVencimento,omitempty" bson:"dataVencimento,omitempty"`
	Situacao       string  `json:"situacao,omitempty" bson:"situacao,omitempty"`
}

// Boleto is the issuance result. LinhaDigitavel empty means the issuance
// did not complete, whatever the success flag says.
type Boleto struct {
	Sucesso           bool    `json:"sucesso" bson:"sucesso"`
	LinhaDigitavel    string  `json:"linhaDigitavel" bson:"linhaDigitavel"`
	Valor             float64 `json:"valor" bson:"valor"`
	QuantidadeParcela int     `json:"quantidadeParcela,omitempty" bson:"quantidadeParcela,omitempty"`
	DataVencimento    string  `json:"dataVencimento,omitempty" bson:"dataVencimento,omitempty"`
	Mensagem          string  `json:"mensagem,omitempty" bson:"mensagem,omitempty"`
}

// DebtContext is the ephemeral working set assembled by one reconstruction
// run. It lives for a single request or sync cycle and is never persisted
// or shared across users.
type DebtContext struct {
	Token      string
	Financeira int
	Crm        int
	Carteira   int
	Documento  string
	Fase       string
	Contratos  []string
	Credores   CredoresResponse
	Dividas    []Divida
}

// PrimaryContract returns the first contract document, the one used for
// resumo and issuance. Empty when the debts carried no contracts.
func (c *DebtContext) PrimaryContract() string {
	if len(c.Contratos) == 0 {
		return ""
	}
	return c.Contratos[0]
}
