package services

import (
	"context"
	"fmt"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/directory"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/observability"
	"go.uber.org/zap"
	"go.opentelemetry.io/otel"
)

// Reconstructor rebuilds a debtor's negotiation context from the live
// upstream. It performs one sequential pass of gateway lookups and has no
// other side effects: persisting the result is the caller's decision.
type Reconstructor struct {
	gw     Gateway
	dir    directory.UserDirectory
	logger *zap.Logger
}

// NewReconstructor wires the reconstructor.
func NewReconstructor(gw Gateway, dir directory.UserDirectory, logger *zap.Logger) *Reconstructor {
	return &Reconstructor{gw: gw, dir: dir, logger: logger}
}

// Reconstruct assembles the DebtContext for a phone number. Steps are
// strictly sequential; each output feeds the next call.
func (r *Reconstructor) Reconstruct(ctx context.Context, phone string) (*models.DebtContext, *directory.Entry, error) {
	ctx, span := otel.Tracer("services").Start(ctx, "Reconstruct")
	defer span.End()

	entry, err := r.dir.Lookup(ctx, phone)
	if err != nil {
		return nil, nil, err
	}

	token, err := r.gw.Authenticate(ctx, entry.Document)
	if err != nil {
		// Authenticate already wraps with ErrAuthFailed; never retried.
		return nil, entry, err
	}

	credores, err := r.gw.ListCreditors(ctx, token)
	if err != nil {
		return nil, entry, fmt.Errorf("%w: %w", models.ErrNoCreditor, err)
	}
	if len(credores.Credores) == 0 {
		return nil, entry, models.ErrNoCreditor
	}

	// The system assumes a single active creditor relationship; the first
	// entry wins. Same for the wallet below.
	credor := credores.Credores[0]

	if len(credor.CarteiraCrms) == 0 || credor.CarteiraCrms[0].Wallet() == 0 {
		return nil, entry, models.ErrMissingWalletID
	}
	carteira := credor.CarteiraCrms[0].Wallet()

	dividas, err := r.gw.ListDebts(ctx, token, credor)
	if err != nil {
		return nil, entry, fmt.Errorf("%w: %w", models.ErrDebtLookupFailed, err)
	}

	// Contracts keep debt order then contract order, duplicates included.
	// The phase comes from the first debt that has one.
	var contratos []string
	fase := ""
	for _, divida := range dividas {
		if fase == "" && divida.Fase != "" {
			fase = divida.Fase
		}
		for _, contrato := range divida.Contratos {
			contratos = append(contratos, contrato.Numero)
		}
	}

	crm := 0
	if len(credor.Crms) > 0 {
		crm = credor.Crms[0]
	}

	r.logger.Debug("context reconstructed",
		zap.String("phone", observability.MaskPhone(phone)),
		zap.Int("dividas", len(dividas)),
		zap.Int("contratos", len(contratos)))

	return &models.DebtContext{
		Token:      token,
		Financeira: credor.Financeira,
		Crm:        crm,
		Carteira:   carteira,
		Documento:  entry.Document,
		Fase:       fase,
		Contratos:  contratos,
		Credores:   credores,
		Dividas:    dividas,
	}, entry, nil
}
