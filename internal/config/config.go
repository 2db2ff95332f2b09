package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

type ServiceConfig struct {
	Env         Environment
	Port        string
	APIPrefix   string
	CORSOrigins []string
	LogCfg      LogConfig
	PostgresCfg PostgresConfig
	RabbitMQCfg RabbitMQConfig
	RedisCfg    RedisConfig
	MinioCfg    MinioConfig
	AuthCfg     AuthConfig
	ClaimCfg    ClaimConfig
}

type LogConfig struct {
	Dir   string
	Level string
}

type MinioConfig struct {
	MinioURL       string
	MinioAccessKey string
	MinioSecretKey string
	MinioLocation  string
	MinioSecure    string
	Bucket         string
	SignedURLTTL   time.Duration
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RabbitMQConfig struct {
	Enabled  bool
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret    string
	AccessTTL    time.Duration
	DemoUsername string
	DemoPassword string
}

type ClaimConfig struct {
	UploadGrantTTL   time.Duration
	StrictReferences bool
	UploadRateLimit  int64
	UploadRatePeriod time.Duration
	MaxUploadMB      int64
}

// Load reads an optional .env file and then builds the config from the environment.
func Load(files ...string) *ServiceConfig {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(files...)
	return New()
}

func New() *ServiceConfig {
	return &ServiceConfig{
		Env:         Environment(getEnvOrDefault("ENV", string(EnvDevelopment))),
		Port:        getEnvOrDefault("PORT", "8080"),
		APIPrefix:   getEnvOrDefault("API_PREFIX", "/api"),
		CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "")),
		LogCfg: LogConfig{
			Dir:   getEnvOrDefault("LOG_DIR", "/cattle-insurance/log"),
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "cattle_insurance"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Enabled:  getBoolOrDefault("RABBITMQ_ENABLED", false),
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		MinioCfg: MinioConfig{
			MinioURL:       getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9000"),
			MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:  getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:    getEnvOrDefault("MINIO_SECURE", "false"),
			Bucket:         getEnvOrDefault("MINIO_BUCKET", "cattle-files"),
			SignedURLTTL:   getDurationOrDefault("MINIO_SIGNED_URL_TTL", 365*24*time.Hour),
		},
		AuthCfg: AuthConfig{
			JWTSecret:    getEnvOrDefault("JWT_SECRET", ""),
			AccessTTL:    getDurationOrDefault("ACCESS_TOKEN_TTL", 24*time.Hour),
			DemoUsername: getEnvOrDefault("DEMO_AGENT_USERNAME", "agent1"),
			DemoPassword: getEnvOrDefault("DEMO_AGENT_PASSWORD", "demo123"),
		},
		ClaimCfg: ClaimConfig{
			UploadGrantTTL:   getDurationOrDefault("UPLOAD_GRANT_TTL", 7*24*time.Hour),
			StrictReferences: getBoolOrDefault("STRICT_REFERENCES", true),
			UploadRateLimit:  int64(getIntOrDefault("UPLOAD_RATE_LIMIT", 60)),
			UploadRatePeriod: getDurationOrDefault("UPLOAD_RATE_PERIOD", time.Minute),
			MaxUploadMB:      int64(getIntOrDefault("MAX_UPLOAD_MB", 64)),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
