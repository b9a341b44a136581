package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// Bellinati upstream configuration
	AuthBaseURL    string        `json:"auth_base_url"`
	NegocieBaseURL string        `json:"negocie_base_url"`
	APIAppID       string        `json:"api_app_id"`
	APIAppPass     string        `json:"-"`
	GatewayTimeout time.Duration `json:"gateway_timeout"`

	// MongoDB configuration
	MongoURI                string `json:"mongo_uri"`
	MongoDatabase           string `json:"mongo_database"`
	UserCacheCollection     string `json:"mongo_user_cache_collection"`
	UserDirectoryCollection string `json:"mongo_user_directory_collection"`

	// Redis configuration
	RedisURI      string        `json:"redis_uri"`
	RedisPassword string        `json:"-"`
	RedisDB       int           `json:"redis_db"`
	RedisTTL      time.Duration `json:"redis_ttl"`

	// Sync orchestration
	SyncBatchSize  int           `json:"sync_batch_size"`
	SyncBatchDelay time.Duration `json:"sync_batch_delay"`

	// Notification sinks (empty value disables the sink)
	SMTPHost        string `json:"smtp_host"`
	SMTPPort        int    `json:"smtp_port"`
	SMTPUser        string `json:"smtp_user"`
	SMTPPass        string `json:"-"`
	EmailFrom       string `json:"email_from"`
	EmailTo         string `json:"email_to"`
	SheetWebhookURL string `json:"sheet_webhook_url"`
	NotifyQueueSize int    `json:"notify_queue_size"`

	// Tracing
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "3000"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnvOrDefault("REDIS_TTL", "3h"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	gatewayTimeout, err := time.ParseDuration(getEnvOrDefault("GATEWAY_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("invalid GATEWAY_TIMEOUT: %w", err)
	}

	batchSize, err := strconv.Atoi(getEnvOrDefault("SYNC_BATCH_SIZE", "2"))
	if err != nil {
		return fmt.Errorf("invalid SYNC_BATCH_SIZE: %w", err)
	}
	if batchSize < 1 {
		return fmt.Errorf("SYNC_BATCH_SIZE must be at least 1")
	}

	batchDelay, err := time.ParseDuration(getEnvOrDefault("SYNC_BATCH_DELAY", "750ms"))
	if err != nil {
		return fmt.Errorf("invalid SYNC_BATCH_DELAY: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnvOrDefault("SMTP_PORT", "587"))
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	queueSize, err := strconv.Atoi(getEnvOrDefault("NOTIFY_QUEUE_SIZE", "128"))
	if err != nil {
		return fmt.Errorf("invalid NOTIFY_QUEUE_SIZE: %w", err)
	}

	// Upstream credentials are required; there is no useful default.
	appID := os.Getenv("API_APP_ID")
	if appID == "" {
		return fmt.Errorf("API_APP_ID environment variable is required")
	}
	appPass := os.Getenv("API_APP_PASS")
	if appPass == "" {
		return fmt.Errorf("API_APP_PASS environment variable is required")
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// Bellinati upstream configuration
		AuthBaseURL:    getEnvOrDefault("API_AUTH_BASE_URL", "https://bpdigital-api.bellinatiperez.com.br"),
		NegocieBaseURL: getEnvOrDefault("API_NEGOCIE_BASE_URL", "https://api-negocie.bellinati.com.br"),
		APIAppID:       appID,
		APIAppPass:     appPass,
		GatewayTimeout: gatewayTimeout,

		// MongoDB configuration
		MongoURI:                getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnvOrDefault("MONGODB_DATABASE", "negocia"),
		UserCacheCollection:     getEnvOrDefault("MONGODB_USER_CACHE_COLLECTION", "user_cache"),
		UserDirectoryCollection: getEnvOrDefault("MONGODB_USER_DIRECTORY_COLLECTION", "user_directory"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RedisTTL:      redisTTL,

		// Sync orchestration
		SyncBatchSize:  batchSize,
		SyncBatchDelay: batchDelay,

		// Notification sinks
		SMTPHost:        getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:        smtpPort,
		SMTPUser:        getEnvOrDefault("SMTP_USER", ""),
		SMTPPass:        getEnvOrDefault("SMTP_PASS", ""),
		EmailFrom:       getEnvOrDefault("EMAIL_FROM", ""),
		EmailTo:         getEnvOrDefault("EMAIL_TO", ""),
		SheetWebhookURL: getEnvOrDefault("SHEET_WEBHOOK_URL", ""),
		NotifyQueueSize: queueSize,

		// Tracing
		TracingEnabled:  getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
