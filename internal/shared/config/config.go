package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string

	DatabaseURL   string
	DBPool        DBPool
	DocumentStore string
	MongoURI      string
	MongoDatabase string

	LLMProvider    string
	LLMModel       string
	LLMBaseURL     string
	OpenAIAPIKey   string
	LLMTimeout     time.Duration
	VertexProject  string
	VertexLocation string

	ObjectStoreType  string
	LocalStoreDir    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	SSEKMSKeyID      string
	QuarantinePrefix string

	AuthJWTSecret   string
	AuthJWTIssuer   string
	AuthJWTAudience string
	OIDCIssuer      string
	OIDCClientID    string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	RedisURL           string

	LambdaFunction string
}

// DBPool carries optional Postgres pool overrides. Zero values keep the
// defaults of the runtime the process runs in.
type DBPool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Load reads configuration from the environment with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" && normalizeDocumentStore(v.GetString("DOCUMENT_STORE")) == "postgres" {
		telemetry.Warn("config.missing", map[string]any{"key": "DATABASE_URL", "env": env})
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		LogLevel:        v.GetString("LOG_LEVEL"),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),

		DBPool: DBPool{
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
			PingTimeout:     v.GetDuration("DB_PING_TIMEOUT"),
		},

		DatabaseURL:   dbURL,
		DocumentStore: normalizeDocumentStore(v.GetString("DOCUMENT_STORE")),
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DATABASE"),

		LLMProvider:    strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		LLMModel:       v.GetString("LLM_MODEL"),
		LLMBaseURL:     v.GetString("LLM_BASE_URL"),
		OpenAIAPIKey:   v.GetString("OPENAI_API_KEY"),
		LLMTimeout:     time.Duration(v.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second,
		VertexProject:  v.GetString("VERTEX_PROJECT"),
		VertexLocation: v.GetString("VERTEX_LOCATION"),

		ObjectStoreType:  normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:    v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:        v.GetString("AWS_REGION"),
		S3Bucket:         v.GetString("S3_BUCKET"),
		S3Prefix:         v.GetString("S3_PREFIX"),
		SSEKMSKeyID:      v.GetString("SSE_KMS_KEY_ID"),
		QuarantinePrefix: v.GetString("QUARANTINE_PREFIX"),

		AuthJWTSecret:   v.GetString("AUTH_JWT_SECRET"),
		AuthJWTIssuer:   v.GetString("AUTH_JWT_ISSUER"),
		AuthJWTAudience: v.GetString("AUTH_JWT_AUDIENCE"),
		OIDCIssuer:      v.GetString("OIDC_ISSUER"),
		OIDCClientID:    v.GetString("OIDC_CLIENT_ID"),

		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),
		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),

		LambdaFunction: strings.TrimSpace(v.GetString("AWS_LAMBDA_FUNCTION_NAME")),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("DB_MAX_OPEN_CONNS", 0)
	v.SetDefault("DB_MAX_IDLE_CONNS", 0)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "0s")
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "0s")
	v.SetDefault("DB_PING_TIMEOUT", "0s")
	v.SetDefault("DOCUMENT_STORE", "postgres")
	v.SetDefault("MONGO_DATABASE", "covercraft")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	v.SetDefault("LLM_TIMEOUT_SECONDS", 0)
	v.SetDefault("VERTEX_LOCATION", "us-central1")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("QUARANTINE_PREFIX", "quarantine")
	v.SetDefault("UI_REDIRECT_URL", "/dashboard")
}

// IsDevLike reports whether env allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// InLambda reports whether the process runs inside AWS Lambda.
func (c Config) InLambda() bool {
	return c.LambdaFunction != ""
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeDocumentStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mongo", "mongodb":
		return "mongo"
	case "memory":
		return "memory"
	default:
		return "postgres"
	}
}
