package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App       AppSettings       `yaml:"app"`
	Database  DatabaseSettings  `yaml:"database"`
	Server    ServerSettings    `yaml:"server"`
	JWT       JWTSettings       `yaml:"jwt"`
	Logging   LoggingSettings   `yaml:"logging"`
	CORS      CORSSettings      `yaml:"cors"`
	RateLimit RateLimitSettings `yaml:"rate_limit"`
	Timeline  TimelineSettings  `yaml:"timeline"`
	Popover   PopoverSettings   `yaml:"popover"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// JWTSettings contains the settings used to validate bearer tokens.
// Tokens are minted by the identity service; this API only verifies them.
type JWTSettings struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET"`
	Expiry time.Duration `yaml:"expiry" env:"JWT_EXPIRY"`
	Issuer string        `yaml:"issuer" env:"JWT_ISSUER"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// RateLimitSettings bounds write requests per client IP.
type RateLimitSettings struct {
	WriteRequests int           `yaml:"write_requests" env:"RATE_LIMIT_WRITES"`
	Window        time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW"`
}

// TimelineSettings configures the timeline annotation feature.
type TimelineSettings struct {
	UndoWindow         time.Duration `yaml:"undo_window" env:"TIMELINE_UNDO_WINDOW"`
	UndoCacheSize      int           `yaml:"undo_cache_size" env:"TIMELINE_UNDO_CACHE_SIZE"`
	DefaultIcon        string        `yaml:"default_icon" env:"TIMELINE_DEFAULT_ICON"`
	RootCollectionName string        `yaml:"root_collection_name" env:"TIMELINE_ROOT_COLLECTION_NAME"`
	ProductName        string        `yaml:"product_name" env:"TIMELINE_PRODUCT_NAME"`
}

// PopoverSettings configures the table info popover.
type PopoverSettings struct {
	ShowDelay time.Duration `yaml:"show_delay" env:"POPOVER_SHOW_DELAY"`
	HideDelay time.Duration `yaml:"hide_delay" env:"POPOVER_HIDE_DELAY"`
	Placement string        `yaml:"placement" env:"POPOVER_PLACEMENT"`
	CacheSize int           `yaml:"cache_size" env:"POPOVER_CACHE_SIZE"`
	CacheTTL  time.Duration `yaml:"cache_ttl" env:"POPOVER_CACHE_TTL"`
}

// ConnectionString returns the database connection string
func (dbs *DatabaseSettings) ConnectionString() string {
	password := dbs.Password
	if password != "" {
		password = ":" + password
	}

	return fmt.Sprintf(
		"%s%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
	)
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// Load loads the configuration from a config file and environment variables.
// A missing file is not an error; the environment and defaults fill the gaps.
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig(config)

	return config, nil
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = constants.DefaultAppName
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultJWTExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	if config.RateLimit.WriteRequests == 0 {
		config.RateLimit.WriteRequests = constants.DefaultWriteRateLimit
	}
	if config.RateLimit.Window == 0 {
		config.RateLimit.Window = constants.DefaultWriteRateWindow
	}

	if config.Timeline.UndoWindow == 0 {
		config.Timeline.UndoWindow = constants.DefaultUndoWindow
	}
	if config.Timeline.UndoCacheSize == 0 {
		config.Timeline.UndoCacheSize = constants.DefaultUndoCacheSize
	}
	if config.Timeline.DefaultIcon == "" {
		config.Timeline.DefaultIcon = constants.DefaultTimelineIcon
	}
	if config.Timeline.RootCollectionName == "" {
		config.Timeline.RootCollectionName = constants.DefaultRootCollectionName
	}
	if config.Timeline.ProductName == "" {
		config.Timeline.ProductName = constants.DefaultProductName
	}

	if config.Popover.ShowDelay == 0 {
		config.Popover.ShowDelay = constants.DefaultPopoverShowDelay
	}
	if config.Popover.HideDelay == 0 {
		config.Popover.HideDelay = constants.DefaultPopoverHideDelay
	}
	if config.Popover.Placement == "" {
		config.Popover.Placement = constants.DefaultPopoverPlacement
	}
	if config.Popover.CacheSize == 0 {
		config.Popover.CacheSize = constants.DefaultTableCacheSize
	}
	if config.Popover.CacheTTL == 0 {
		config.Popover.CacheTTL = constants.DefaultTableCacheTTL
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	if config.App.IsProduction() && (config.JWT.Secret == "" || config.JWT.Secret == "changeme") {
		return fmt.Errorf("JWT secret must be set in production")
	}

	if config.Database.User == "" {
		return fmt.Errorf("database user must be set")
	}

	if config.Timeline.UndoWindow < 0 {
		return fmt.Errorf("timeline undo window must not be negative: %s", config.Timeline.UndoWindow)
	}

	if config.Popover.ShowDelay < 0 || config.Popover.HideDelay < 0 {
		return fmt.Errorf("popover delays must not be negative")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(config.Logging.Level)); err != nil || config.Logging.Level == "" {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	logCfg := *config

	if logCfg.Database.Password != "" {
		logCfg.Database.Password = constants.LogRedactedValue
	}
	if logCfg.JWT.Secret != "" {
		logCfg.JWT.Secret = constants.LogRedactedValue
	}

	log.Info().
		Str("environment", logCfg.App.Environment).
		Str("version", logCfg.App.Version).
		Str("server", logCfg.Server.ServerAddress()).
		Str("db_host", logCfg.Database.Host).
		Int("db_port", logCfg.Database.Port).
		Str("db_name", logCfg.Database.Name).
		Str("log_level", logCfg.Logging.Level).
		Dur("undo_window", logCfg.Timeline.UndoWindow).
		Str("popover_placement", logCfg.Popover.Placement).
		Msg("Configuration loaded")
}
