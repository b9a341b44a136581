package services

import (
	"context"
	"sync"
	"time"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/gateway"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/notify"
)

// fakeGateway implements Gateway with overridable behavior per method and
// a call counter keyed by method name.
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	authenticateFn func(document string) (string, error)
	creditorsFn    func(token string) (models.CredoresResponse, error)
	debtsFn        func(token string, credor models.Credor) ([]models.Divida, error)
	simulateFn     func(token string, params models.SimulacaoParams) (models.SimulacaoResponse, error)
	resolveFn      func(token, codigo, contrato string) (string, error)
	issueFn        func(token string, req gateway.IssueRequest) (models.Boleto, error)
	agreementsFn   func(token string, credor models.Credor) ([]models.Acordo, error)
	secondCopyFn   func(token string, acordo models.Acordo) (models.Boleto, error)
}

// newHappyGateway returns a fake whose default answers walk the full
// pipeline to a successful simulation with two payment options.
func newHappyGateway() *fakeGateway {
	return &fakeGateway{
		authenticateFn: func(string) (string, error) { return "tok-1", nil },
		creditorsFn: func(string) (models.CredoresResponse, error) {
			return models.CredoresResponse{Credores: []models.Credor{{
				Financeira:   10,
				Crms:         []int{55},
				CarteiraCrms: []models.CarteiraCrm{{CarteiraID: 7}},
			}}}, nil
		},
		debtsFn: func(string, models.Credor) ([]models.Divida, error) {
			return []models.Divida{
				{Valor: 1500.50, Fase: "A", Contratos: []models.Contrato{{Numero: "C-1", Produto: "Cartão"}}},
				{Valor: 320, Contratos: []models.Contrato{{Numero: "C-2"}, {Numero: "C-1"}}},
			}, nil
		},
		simulateFn: func(_ string, params models.SimulacaoParams) (models.SimulacaoResponse, error) {
			options := []models.OpcaoPagamento{
				{Texto: "À vista", Valor: 900, QuantidadeParcela: 1, Codigo: "OPT-1"},
				{Texto: "3x", Valor: 1100, QuantidadeParcela: 3, ValorParcela: 366.67, Codigo: "OPT-3"},
			}
			if params.QuantidadeParcela > 0 {
				var narrowed []models.OpcaoPagamento
				for _, opt := range options {
					if opt.QuantidadeParcela == params.QuantidadeParcela {
						narrowed = append(narrowed, opt)
					}
				}
				options = narrowed
			}
			return models.SimulacaoResponse{OpcoesPagamento: options}, nil
		},
		resolveFn: func(_, codigo, _ string) (string, error) { return codigo + "-RES", nil },
		issueFn: func(_ string, req gateway.IssueRequest) (models.Boleto, error) {
			return models.Boleto{
				Sucesso:           true,
				LinhaDigitavel:    "23790.00000 00000.000000 00000.000000 1 00000000000000",
				Valor:             req.Valor,
				QuantidadeParcela: req.QuantidadeParcela,
				DataVencimento:    req.DataVencimento,
			}, nil
		},
		agreementsFn: func(string, models.Credor) ([]models.Acordo, error) { return nil, nil },
		secondCopyFn: func(string, models.Acordo) (models.Boleto, error) {
			return models.Boleto{Sucesso: true, LinhaDigitavel: "23790.11111"}, nil
		},
	}
}

func (f *fakeGateway) count(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

func (f *fakeGateway) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeGateway) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeGateway) Authenticate(_ context.Context, document string) (string, error) {
	f.count("Authenticate")
	return f.authenticateFn(document)
}

func (f *fakeGateway) ListCreditors(_ context.Context, token string) (models.CredoresResponse, error) {
	f.count("ListCreditors")
	return f.creditorsFn(token)
}

func (f *fakeGateway) ListDebts(_ context.Context, token string, credor models.Credor) ([]models.Divida, error) {
	f.count("ListDebts")
	return f.debtsFn(token, credor)
}

func (f *fakeGateway) SimulatePaymentOptions(_ context.Context, token string, params models.SimulacaoParams) (models.SimulacaoResponse, error) {
	f.count("SimulatePaymentOptions")
	return f.simulateFn(token, params)
}

func (f *fakeGateway) ResolveSummary(_ context.Context, token, codigo, contrato string) (string, error) {
	f.count("ResolveSummary")
	return f.resolveFn(token, codigo, contrato)
}

func (f *fakeGateway) IssueBoleto(_ context.Context, token string, req gateway.IssueRequest) (models.Boleto, error) {
	f.count("IssueBoleto")
	return f.issueFn(token, req)
}

func (f *fakeGateway) ListExistingAgreements(_ context.Context, token string, credor models.Credor) ([]models.Acordo, error) {
	f.count("ListExistingAgreements")
	return f.agreementsFn(token, credor)
}

func (f *fakeGateway) IssueSecondCopy(_ context.Context, token string, acordo models.Acordo) (models.Boleto, error) {
	f.count("IssueSecondCopy")
	return f.secondCopyFn(token, acordo)
}

// fakeStore is an in-memory UserStore recording every tag written.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]models.UserRecord
	writes  []models.StatusTag
	getErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]models.UserRecord)}
}

func (s *fakeStore) Get(_ context.Context, phone string) (*models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	record, ok := s.records[phone]
	if !ok {
		return nil, nil
	}
	copied := record
	return &copied, nil
}

func (s *fakeStore) Upsert(_ context.Context, record *models.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.UpdatedAt = time.Now().UTC()
	s.records[record.Phone] = *record
	s.writes = append(s.writes, record.StatusTag)
	return nil
}

func (s *fakeStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]models.UserRecord)
	return nil
}

func (s *fakeStore) record(phone string) (models.UserRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[phone]
	return record, ok
}

func (s *fakeStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

// fakeNotifier records every published event.
type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *fakeNotifier) Notify(event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *fakeNotifier) published() []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Event, len(n.events))
	copy(out, n.events)
	return out
}
