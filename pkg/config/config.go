package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// JWTConfig holds the key used to verify admin tokens
type JWTConfig struct {
	SigningKey string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// TelemetryConfig holds tracing configuration
type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

// SyncConfig holds the catalog sync pipeline configuration
type SyncConfig struct {
	DefaultMarkup         decimal.Decimal
	Workers               int
	MaterialThreshold     decimal.Decimal
	SignificanceThreshold decimal.Decimal
	LowStockThreshold     int
	RetentionDays         int
	Interval              time.Duration
	SourceKind            string
	SourcePath            string
	PolicyFile            string
}

// AssetsConfig holds product image download configuration
type AssetsConfig struct {
	Enabled       bool
	Dir           string
	PublicPrefix  string
	RatePerSecond float64
	Burst         int
	Workers       int
	Timeout       time.Duration
	UserAgent     string
	Referer       string
}

// HTTPNotifyConfig holds the notification API endpoint configuration
type HTTPNotifyConfig struct {
	URL     string
	APIKey  string
	OwnerID string
	AppID   string
	Timeout time.Duration
}

// SMTPConfig holds the mail server used for email notifications
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// NotifyConfig selects and configures notification transports
type NotifyConfig struct {
	Transports []string
	HTTP       HTTPNotifyConfig
	SMTP       SMTPConfig
}

// Config holds all configuration
type Config struct {
	DB        DBConfig
	Server    ServerConfig
	JWT       JWTConfig
	Log       LogConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
	Sync      SyncConfig
	Assets    AssetsConfig
	Notify    NotifyConfig
}

// Load loads configuration from environment variables. A .env file is read
// by the command root before Load runs.
func Load() (*Config, error) {
	config := &Config{
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "fusion_beef"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		JWT: JWTConfig{
			SigningKey: getEnv("JWT_SIGNING_KEY", "catalogsyncsecretkey"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "catalog_sync"),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "catalog-sync"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		Sync: SyncConfig{
			DefaultMarkup:         getEnvAsDecimal("SYNC_DEFAULT_MARKUP", decimal.NewFromInt(60)),
			Workers:               getEnvAsInt("SYNC_WORKERS", 8),
			MaterialThreshold:     getEnvAsDecimal("SYNC_MATERIAL_THRESHOLD", decimal.NewFromInt(1)),
			SignificanceThreshold: getEnvAsDecimal("SYNC_SIGNIFICANCE_THRESHOLD", decimal.Zero),
			LowStockThreshold:     getEnvAsInt("SYNC_LOW_STOCK_THRESHOLD", 50),
			RetentionDays:         getEnvAsInt("SYNC_RETENTION_DAYS", 0),
			Interval:              getEnvAsDuration("SYNC_INTERVAL", 0),
			SourceKind:            getEnv("SYNC_SOURCE_KIND", "json"),
			SourcePath:            getEnv("SYNC_SOURCE_PATH", "data/products.json"),
			PolicyFile:            getEnv("SYNC_POLICY_FILE", "catalog.json5"),
		},
		Assets: AssetsConfig{
			Enabled:       getEnvAsBool("ASSETS_ENABLED", false),
			Dir:           getEnv("ASSETS_DIR", "public/images/products"),
			PublicPrefix:  getEnv("ASSETS_PUBLIC_PREFIX", "/images/products"),
			RatePerSecond: getEnvAsFloat("ASSETS_RATE_PER_SECOND", 2),
			Burst:         getEnvAsInt("ASSETS_BURST", 4),
			Workers:       getEnvAsInt("ASSETS_WORKERS", 4),
			Timeout:       getEnvAsDuration("ASSETS_TIMEOUT", 30*time.Second),
			UserAgent:     getEnv("ASSETS_USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"),
			Referer:       getEnv("ASSETS_REFERER", ""),
		},
		Notify: NotifyConfig{
			Transports: getEnvAsList("NOTIFY_TRANSPORTS", []string{"log"}),
			HTTP: HTTPNotifyConfig{
				URL:     getEnv("NOTIFY_HTTP_URL", ""),
				APIKey:  getEnv("NOTIFY_HTTP_API_KEY", ""),
				OwnerID: getEnv("NOTIFY_HTTP_OWNER_ID", ""),
				AppID:   getEnv("NOTIFY_HTTP_APP_ID", ""),
				Timeout: getEnvAsDuration("NOTIFY_HTTP_TIMEOUT", 10*time.Second),
			},
			SMTP: SMTPConfig{
				Host:     getEnv("SMTP_HOST", ""),
				Port:     getEnvAsInt("SMTP_PORT", 587),
				Username: getEnv("SMTP_USERNAME", ""),
				Password: getEnv("SMTP_PASSWORD", ""),
				From:     getEnv("SMTP_FROM", ""),
				To:       getEnvAsList("SMTP_TO", nil),
			},
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects configuration the pipeline cannot run with
func (c *Config) Validate() error {
	if c.Sync.DefaultMarkup.IsNegative() {
		return fmt.Errorf("SYNC_DEFAULT_MARKUP must not be negative, got %s", c.Sync.DefaultMarkup)
	}
	if c.Sync.MaterialThreshold.IsNegative() || c.Sync.SignificanceThreshold.IsNegative() {
		return fmt.Errorf("price change thresholds must not be negative")
	}
	if c.DB.MaxOpenConns < 0 || c.DB.MaxOpenConns == 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be 0 (unlimited) or at least 2, got %d", c.DB.MaxOpenConns)
	}
	if c.Sync.Workers < 1 {
		return fmt.Errorf("SYNC_WORKERS must be at least 1, got %d", c.Sync.Workers)
	}
	switch c.Sync.SourceKind {
	case "json", "html":
	default:
		return fmt.Errorf("unknown SYNC_SOURCE_KIND %q", c.Sync.SourceKind)
	}
	return nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Server.Env),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as decimals
func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	valueStr := getEnv(key, "")
	if value, err := decimal.NewFromString(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get comma separated environment variables
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
