package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	DB DBConfig

	VertexProjectID            string
	VertexLocation             string
	VertexModel                string
	VertexBaseURL              string
	VertexAccessToken          string
	GoogleCredentialsPath      string
	LLMTimeout                 time.Duration
	LLMTemperature             float64
	LLMMaxOutputTokens         int
	LLMCircuitEnabled          bool
	LLMCircuitFailureCount     int
	LLMCircuitOpenTimeout      time.Duration
	LLMCircuitHalfOpenMaxReq   int
	QueryGuardEnabled          bool
	QueryMaxRows               int
	QueryMaxQuestionLength     int
	QueryBatchWorkers          int
	CacheEnabled               bool
	CacheTTL                   time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// DBConfig holds the discrete credential fields the connection string is
// composed from. URL, when set, wins over the discrete fields.
type DBConfig struct {
	URL             string
	User            string
	Password        string
	Host            string
	Port            int
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
	ApplicationName string
}

// DSN returns the postgres connection URL.
func (c DBConfig) DSN() string {
	if strings.TrimSpace(c.URL) != "" {
		return strings.TrimSpace(c.URL)
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	query := url.Values{}
	if c.SSLMode != "" {
		query.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	db, err := loadDBConfig()
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "90s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	llmTimeout, err := time.ParseDuration(getEnv("LLM_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_TIMEOUT: %w", err)
	}
	if llmTimeout <= 0 {
		return Config{}, fmt.Errorf("LLM_TIMEOUT must be > 0")
	}
	llmTemperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_TEMPERATURE: %w", err)
	}
	if llmTemperature < 0 || llmTemperature > 2 {
		return Config{}, fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}
	llmMaxOutputTokens, err := getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 2048)
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_MAX_OUTPUT_TOKENS: %w", err)
	}
	if llmMaxOutputTokens < 1 {
		return Config{}, fmt.Errorf("LLM_MAX_OUTPUT_TOKENS must be >= 1")
	}
	llmCircuitEnabled, err := strconv.ParseBool(getEnv("LLM_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_CIRCUIT_ENABLED: %w", err)
	}
	llmCircuitFailureCount, err := getEnvAsInt("LLM_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if llmCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("LLM_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	llmCircuitOpenTimeout, err := time.ParseDuration(getEnv("LLM_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if llmCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("LLM_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	llmCircuitHalfOpenMaxReq, err := getEnvAsInt("LLM_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if llmCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("LLM_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	vertexProjectID := strings.TrimSpace(getEnv("VERTEX_PROJECT_ID", ""))
	if vertexProjectID == "" {
		return Config{}, fmt.Errorf("VERTEX_PROJECT_ID is required")
	}
	vertexAccessToken := strings.TrimSpace(getEnv("VERTEX_ACCESS_TOKEN", ""))
	credentialsPath := strings.TrimSpace(getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""))
	if vertexAccessToken == "" && credentialsPath == "" {
		return Config{}, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS or VERTEX_ACCESS_TOKEN is required")
	}

	queryGuardEnabled, err := strconv.ParseBool(getEnv("NLQ_GUARD_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NLQ_GUARD_ENABLED: %w", err)
	}
	queryMaxRows, err := getEnvAsInt("NLQ_MAX_ROWS", 500)
	if err != nil {
		return Config{}, fmt.Errorf("parse NLQ_MAX_ROWS: %w", err)
	}
	if queryMaxRows < 0 {
		return Config{}, fmt.Errorf("NLQ_MAX_ROWS must be >= 0")
	}
	queryMaxQuestionLength, err := getEnvAsInt("NLQ_MAX_QUESTION_LENGTH", 1000)
	if err != nil {
		return Config{}, fmt.Errorf("parse NLQ_MAX_QUESTION_LENGTH: %w", err)
	}
	if queryMaxQuestionLength < 0 {
		return Config{}, fmt.Errorf("NLQ_MAX_QUESTION_LENGTH must be >= 0")
	}
	queryBatchWorkers, err := getEnvAsInt("NLQ_BATCH_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse NLQ_BATCH_WORKERS: %w", err)
	}
	if queryBatchWorkers < 1 {
		return Config{}, fmt.Errorf("NLQ_BATCH_WORKERS must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "football-stats-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DB:                         db,
		VertexProjectID:            vertexProjectID,
		VertexLocation:             strings.TrimSpace(getEnv("VERTEX_LOCATION", "us-central1")),
		VertexModel:                strings.TrimSpace(getEnv("VERTEX_MODEL", "gemini-2.0-flash-001")),
		VertexBaseURL:              strings.TrimSpace(getEnv("VERTEX_BASE_URL", "")),
		VertexAccessToken:          vertexAccessToken,
		GoogleCredentialsPath:      credentialsPath,
		LLMTimeout:                 llmTimeout,
		LLMTemperature:             llmTemperature,
		LLMMaxOutputTokens:         llmMaxOutputTokens,
		LLMCircuitEnabled:          llmCircuitEnabled,
		LLMCircuitFailureCount:     llmCircuitFailureCount,
		LLMCircuitOpenTimeout:      llmCircuitOpenTimeout,
		LLMCircuitHalfOpenMaxReq:   llmCircuitHalfOpenMaxReq,
		QueryGuardEnabled:          queryGuardEnabled,
		QueryMaxRows:               queryMaxRows,
		QueryMaxQuestionLength:     queryMaxQuestionLength,
		QueryBatchWorkers:          queryBatchWorkers,
		CacheEnabled:               cacheEnabled,
		CacheTTL:                   cacheTTL,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.VertexLocation == "" {
		return Config{}, fmt.Errorf("VERTEX_LOCATION cannot be empty")
	}
	if cfg.VertexModel == "" {
		return Config{}, fmt.Errorf("VERTEX_MODEL cannot be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

// LoadDB reads only the store settings. Tools that never talk to the model,
// such as the migration runner, use it instead of Load.
func LoadDB() (DBConfig, error) {
	return loadDBConfig()
}

func loadDBConfig() (DBConfig, error) {
	port, err := getEnvAsInt("DB_PORT", 5432)
	if err != nil {
		return DBConfig{}, fmt.Errorf("parse DB_PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return DBConfig{}, fmt.Errorf("DB_PORT must be between 1 and 65535")
	}
	maxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return DBConfig{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if maxOpenConns < 1 {
		return DBConfig{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	maxIdleConns, err := getEnvAsInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return DBConfig{}, fmt.Errorf("parse DB_MAX_IDLE_CONNS: %w", err)
	}
	connMaxLifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"))
	if err != nil {
		return DBConfig{}, fmt.Errorf("parse DB_CONN_MAX_LIFETIME: %w", err)
	}
	queryTimeout, err := time.ParseDuration(getEnv("DB_QUERY_TIMEOUT", "15s"))
	if err != nil {
		return DBConfig{}, fmt.Errorf("parse DB_QUERY_TIMEOUT: %w", err)
	}
	if queryTimeout <= 0 {
		return DBConfig{}, fmt.Errorf("DB_QUERY_TIMEOUT must be > 0")
	}

	cfg := DBConfig{
		URL:             strings.TrimSpace(getEnv("DB_URL", "")),
		User:            strings.TrimSpace(getEnv("DB_USER", "")),
		Password:        getEnv("DB_PASSWORD", ""),
		Host:            strings.TrimSpace(getEnv("DB_HOST", "localhost")),
		Port:            port,
		Name:            strings.TrimSpace(getEnv("DB_NAME", "")),
		SSLMode:         strings.TrimSpace(getEnv("DB_SSLMODE", "disable")),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
		QueryTimeout:    queryTimeout,
		ApplicationName: strings.TrimSpace(getEnv("DB_APPLICATION_NAME", "football-stats")),
	}
	if cfg.URL == "" {
		if cfg.User == "" {
			return DBConfig{}, fmt.Errorf("DB_USER is required when DB_URL is not set")
		}
		if cfg.Name == "" {
			return DBConfig{}, fmt.Errorf("DB_NAME is required when DB_URL is not set")
		}
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
