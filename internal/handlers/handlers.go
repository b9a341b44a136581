package handlers

import (
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/services"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/store"
	"go.uber.org/zap"
)

// Handler groups the request handlers and their dependencies. One
// instance serves the whole API.
type Handler struct {
	negotiation *services.Negotiation
	sync        *services.SyncOrchestrator
	store       store.UserStore
	logger      *zap.Logger
}

// New wires the handler set.
func New(negotiation *services.Negotiation, sync *services.SyncOrchestrator, userStore store.UserStore, logger *zap.Logger) *Handler {
	return &Handler{
		negotiation: negotiation,
		sync:        sync,
		store:       userStore,
		logger:      logger,
	}
}
