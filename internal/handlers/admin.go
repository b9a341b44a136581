package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// clearConfirmToken must be supplied verbatim before the cache is wiped.
const clearConfirmToken = "LIMPAR"

// SyncDatabase acknowledges immediately and runs the batch sync in the
// background, mirroring the once-a-day operator flow.
func (h *Handler) SyncDatabase(c *gin.Context) {
	_, span := otel.Tracer("").Start(c.Request.Context(), "SyncDatabase")
	defer span.End()

	c.JSON(http.StatusOK, gin.H{"status": "sincronização iniciada em segundo plano"})

	go func() {
		// Detached from the request; the sync outlives the response.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		result, started := h.sync.SyncAll(ctx)
		if !started {
			return
		}
		h.logger.Info("background sync completed",
			zap.Int("total", result.Total),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed))
	}()
}

// ClearCache wipes every cached user record. Destructive, so it demands
// an explicit confirmation token in the body.
func (h *Handler) ClearCache(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ClearCache")
	defer span.End()

	var req models.ClearCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Confirm != clearConfirmToken {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "confirmação inválida: envie {\"confirm\": \"LIMPAR\"}"})
		return
	}

	if err := h.store.Clear(ctx); err != nil {
		h.logger.Error("cache clear failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "falha ao limpar o cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cache limpo"})
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}
