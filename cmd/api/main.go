package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/config"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/directory"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/gateway"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/handlers"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/logging"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/middleware"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/notify"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/observability"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/services"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments inject the environment.
	_ = godotenv.Load()

	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	observability.InitTracer()
	defer observability.ShutdownTracer()

	config.InitMongoDB()
	config.InitRedis()

	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wiring: gateway → reconstructor → negotiation → sync, with the
	// Mongo store and the notification dispatcher shared across them.
	gw := gateway.NewClient(config.AppConfig, logging.Logger)

	userStore := store.NewMongoStore(
		config.MongoDB,
		config.AppConfig.UserCacheCollection,
		config.Redis,
		config.AppConfig.RedisTTL,
		logging.Logger,
	)

	userDir := directory.NewMongo(config.MongoDB, config.AppConfig.UserDirectoryCollection)
	if err := userDir.EnsureSeed(context.Background(), directory.Seed()); err != nil {
		logging.Logger.Warn("failed to seed user directory", zap.Error(err))
	}

	dispatcher := notify.NewDispatcher(
		config.AppConfig.NotifyQueueSize,
		logging.Logger,
		notify.ConfiguredSinks(config.AppConfig)...,
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	recon := services.NewReconstructor(gw, userDir, logging.Logger)
	negotiation := services.NewNegotiation(recon, gw, userStore, dispatcher, logging.Logger)
	syncer := services.NewSyncOrchestrator(
		negotiation,
		userDir,
		config.Redis,
		config.AppConfig.SyncBatchSize,
		config.AppConfig.SyncBatchDelay,
		logging.Logger,
	)

	h := handlers.New(negotiation, syncer, userStore, logging.Logger)

	router := gin.New()
	router.Use(
		recoveryWithHandoff(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/v1/health", h.HealthCheck)

	negociacao := router.Group("/api/negociacao")
	{
		negociacao.POST("/buscar-credores", h.BuscarCredores)
		negociacao.POST("/buscar-opcoes-pagamento", h.BuscarOpcoesPagamento)
		negociacao.POST("/emitir-boleto", h.EmitirBoleto)
		negociacao.POST("/segunda-via", h.SegundaVia)
		negociacao.POST("/transbordo", h.Transbordo)
	}

	admin := router.Group("/api/admin")
	{
		admin.POST("/sync-database", h.SyncDatabase)
		admin.POST("/clear-cache", h.ClearCache)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("server exited gracefully")
}

// recoveryWithHandoff turns an unhandled panic into the generic handoff
// envelope so the chat client never sees a bare 500.
func recoveryWithHandoff() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err interface{}) {
		logging.Logger.Error("panic recovered in handler", zap.Any("panic", err))
		c.AbortWithStatusJSON(http.StatusOK, models.NewEnvelope(
			map[string]interface{}{"status": "transbordo"},
			"**Atendimento humano**\n\nOcorreu um imprevisto e sua conversa foi encaminhada para um atendente.",
		))
	})
}
