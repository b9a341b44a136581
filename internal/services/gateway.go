package services

import (
	"context"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/gateway"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
)

// Gateway is the slice of the Bellinati client the pipeline consumes.
// *gateway.Client satisfies it; tests substitute fakes.
type Gateway interface {
	Authenticate(ctx context.Context, document string) (string, error)
	ListCreditors(ctx context.Context, token string) (models.CredoresResponse, error)
	ListDebts(ctx context.Context, token string, credor models.Credor) ([]models.Divida, error)
	SimulatePaymentOptions(ctx context.Context, token string, params models.SimulacaoParams) (models.SimulacaoResponse, error)
	ResolveSummary(ctx context.Context, token, codigo, contrato string) (string, error)
	IssueBoleto(ctx context.Context, token string, req gateway.IssueRequest) (models.Boleto, error)
	ListExistingAgreements(ctx context.Context, token string, credor models.Credor) ([]models.Acordo, error)
	IssueSecondCopy(ctx context.Context, token string, acordo models.Acordo) (models.Boleto, error)
}
