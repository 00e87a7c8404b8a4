package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend providers for the validation and update capabilities.
const (
	BackendHTTP     = "http"
	BackendPostgres = "postgres"
)

// Report storage modes.
const (
	ReportStorageInline = "inline"
	ReportStorageS3     = "s3"
)

// Notification providers.
const (
	NotifyLog = "log"
	NotifySES = "ses"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Log      LogConfig
	Upload   UploadConfig
	Backend  BackendConfig
	Remote   RemoteConfig
	Report   ReportConfig
	Notify   NotifyConfig
	Pipeline PipelineConfig
	Update   UpdateConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DBConfig holds PostgreSQL connection settings for the record store.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	// ConnMaxLifetime recycles pooled connections.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings used for report hosting.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UploadConfig holds upload ceilings.
type UploadConfig struct {
	MaxFileSize int64 `mapstructure:"max_file_size"`
	MaxRows     int   `mapstructure:"max_rows"`
}

// BackendConfig selects which implementation validates and updates records.
type BackendConfig struct {
	Provider string `mapstructure:"provider"`
}

// RemoteConfig holds settings for the HTTP validation/update service.
type RemoteConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	ValidatePath string `mapstructure:"validate_path"`
	UpdatePath   string `mapstructure:"update_path"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ReportConfig holds invalid id report settings.
type ReportConfig struct {
	FileName  string `mapstructure:"file_name"`
	SheetName string `mapstructure:"sheet_name"`
	Storage   string `mapstructure:"storage"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// NotifyConfig holds notification delivery settings.
type NotifyConfig struct {
	Provider    string   `mapstructure:"provider"`
	Region      string   `mapstructure:"region"`
	FromAddress string   `mapstructure:"from_address"`
	FromName    string   `mapstructure:"from_name"`
	Recipients  []string `mapstructure:"recipients"`
}

// PipelineConfig holds pipeline run settings.
type PipelineConfig struct {
	ResetDelay time.Duration `mapstructure:"reset_delay"`
}

// UpdateConfig holds bulk update settings.
type UpdateConfig struct {
	// AllowedOptions restricts the accepted option names. Empty accepts any.
	AllowedOptions []string `mapstructure:"allowed_options"`
}

// Load reads configuration from environment variables with the EPOSUPDATE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EPOSUPDATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cors_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "epos")
	v.SetDefault("db.password", "epos_secret")
	v.SetDefault("db.name", "epos_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "epos-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Upload defaults
	v.SetDefault("upload.max_file_size", 1500000)
	v.SetDefault("upload.max_rows", 10000)

	// Backend defaults
	v.SetDefault("backend.provider", BackendHTTP)
	v.SetDefault("remote.base_url", "http://localhost:9090/epos")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.validate_path", "/validate")
	v.SetDefault("remote.update_path", "/update")
	v.SetDefault("remote.timeout_secs", 120)

	// Report defaults
	v.SetDefault("report.file_name", "EPOS_Invalid_IDs_Report")
	v.SetDefault("report.sheet_name", "Issues")
	v.SetDefault("report.storage", ReportStorageInline)
	v.SetDefault("report.key_prefix", "reports")

	// Notify defaults
	v.SetDefault("notify.provider", NotifyLog)
	v.SetDefault("notify.region", "us-east-1")
	v.SetDefault("notify.from_address", "noreply@example.com")
	v.SetDefault("notify.from_name", "EPOS Mass Update")
	v.SetDefault("notify.recipients", "")

	v.SetDefault("pipeline.reset_delay", "2s")
	v.SetDefault("update.allowed_options", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "EPOSUPDATE_SERVER_PORT",
		"server.read_timeout":     "EPOSUPDATE_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "EPOSUPDATE_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout": "EPOSUPDATE_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":      "EPOSUPDATE_SERVER_ENVIRONMENT",
		"server.cors_origins":     "EPOSUPDATE_SERVER_CORS_ORIGINS",
		"db.host":                 "EPOSUPDATE_DB_HOST",
		"db.port":                 "EPOSUPDATE_DB_PORT",
		"db.user":                 "EPOSUPDATE_DB_USER",
		"db.password":             "EPOSUPDATE_DB_PASSWORD",
		"db.name":                 "EPOSUPDATE_DB_NAME",
		"db.sslmode":              "EPOSUPDATE_DB_SSLMODE",
		"db.max_open":             "EPOSUPDATE_DB_MAX_OPEN",
		"db.max_idle":             "EPOSUPDATE_DB_MAX_IDLE",
		"db.conn_max_lifetime":    "EPOSUPDATE_DB_CONN_MAX_LIFETIME",
		"s3.region":               "EPOSUPDATE_S3_REGION",
		"s3.bucket":               "EPOSUPDATE_S3_BUCKET",
		"s3.endpoint":             "EPOSUPDATE_S3_ENDPOINT",
		"s3.access_key":           "EPOSUPDATE_S3_ACCESS_KEY",
		"s3.secret_key":           "EPOSUPDATE_S3_SECRET_KEY",
		"s3.presign_expiry":       "EPOSUPDATE_S3_PRESIGN_EXPIRY",
		"log.level":               "EPOSUPDATE_LOG_LEVEL",
		"log.format":              "EPOSUPDATE_LOG_FORMAT",
		"upload.max_file_size":    "EPOSUPDATE_UPLOAD_MAX_FILE_SIZE",
		"upload.max_rows":         "EPOSUPDATE_UPLOAD_MAX_ROWS",
		"backend.provider":        "EPOSUPDATE_BACKEND_PROVIDER",
		"remote.base_url":         "EPOSUPDATE_REMOTE_BASE_URL",
		"remote.api_key":          "EPOSUPDATE_REMOTE_API_KEY",
		"remote.validate_path":    "EPOSUPDATE_REMOTE_VALIDATE_PATH",
		"remote.update_path":      "EPOSUPDATE_REMOTE_UPDATE_PATH",
		"remote.timeout_secs":     "EPOSUPDATE_REMOTE_TIMEOUT_SECS",
		"report.file_name":        "EPOSUPDATE_REPORT_FILE_NAME",
		"report.sheet_name":       "EPOSUPDATE_REPORT_SHEET_NAME",
		"report.storage":          "EPOSUPDATE_REPORT_STORAGE",
		"report.key_prefix":       "EPOSUPDATE_REPORT_KEY_PREFIX",
		"notify.provider":         "EPOSUPDATE_NOTIFY_PROVIDER",
		"notify.region":           "EPOSUPDATE_NOTIFY_REGION",
		"notify.from_address":     "EPOSUPDATE_NOTIFY_FROM_ADDRESS",
		"notify.from_name":        "EPOSUPDATE_NOTIFY_FROM_NAME",
		"notify.recipients":       "EPOSUPDATE_NOTIFY_RECIPIENTS",
		"pipeline.reset_delay":    "EPOSUPDATE_PIPELINE_RESET_DELAY",
		"update.allowed_options":  "EPOSUPDATE_UPDATE_ALLOWED_OPTIONS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if EPOSUPDATE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("EPOSUPDATE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
		CORSOrigins:     splitList(v.GetString("server.cors_origins")),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSize: v.GetInt64("upload.max_file_size"),
		MaxRows:     v.GetInt("upload.max_rows"),
	}
	cfg.Backend = BackendConfig{
		Provider: strings.ToLower(v.GetString("backend.provider")),
	}
	cfg.Remote = RemoteConfig{
		BaseURL:      strings.TrimRight(v.GetString("remote.base_url"), "/"),
		APIKey:       v.GetString("remote.api_key"),
		ValidatePath: v.GetString("remote.validate_path"),
		UpdatePath:   v.GetString("remote.update_path"),
		TimeoutSecs:  v.GetInt("remote.timeout_secs"),
	}
	cfg.Report = ReportConfig{
		FileName:  v.GetString("report.file_name"),
		SheetName: v.GetString("report.sheet_name"),
		Storage:   strings.ToLower(v.GetString("report.storage")),
		KeyPrefix: v.GetString("report.key_prefix"),
	}
	cfg.Notify = NotifyConfig{
		Provider:    strings.ToLower(v.GetString("notify.provider")),
		Region:      v.GetString("notify.region"),
		FromAddress: v.GetString("notify.from_address"),
		FromName:    v.GetString("notify.from_name"),
		Recipients:  splitList(v.GetString("notify.recipients")),
	}
	cfg.Pipeline = PipelineConfig{
		ResetDelay: v.GetDuration("pipeline.reset_delay"),
	}
	cfg.Update = UpdateConfig{
		AllowedOptions: splitList(v.GetString("update.allowed_options")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects provider names no component understands.
func (c *Config) Validate() error {
	switch c.Backend.Provider {
	case BackendHTTP, BackendPostgres:
	default:
		return fmt.Errorf("unknown backend provider %q", c.Backend.Provider)
	}
	switch c.Report.Storage {
	case ReportStorageInline, ReportStorageS3:
	default:
		return fmt.Errorf("unknown report storage %q", c.Report.Storage)
	}
	switch c.Notify.Provider {
	case NotifyLog, NotifySES:
	default:
		return fmt.Errorf("unknown notify provider %q", c.Notify.Provider)
	}
	if c.Notify.Provider == NotifySES && len(c.Notify.Recipients) == 0 {
		return fmt.Errorf("notify provider %q requires at least one recipient", NotifySES)
	}
	return nil
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
