package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML file.
const ConfigFileEnv = "SMARTCAREER_CONFIG"

type Config struct {
	Port     string `koanf:"port"`
	GinMode  string `koanf:"gin_mode"`
	LogLevel string `koanf:"log_level"`

	DBUrl string `koanf:"database_url"`

	JWTSecret     string `koanf:"jwt_secret"`
	JWTTTLMinutes int    `koanf:"jwt_ttl_minutes"`

	// Comma-separated list; "*" allows any origin.
	CORSOrigins string `koanf:"cors_origins"`

	// Redis/Upstash Configuration
	UpstashRedisURL      string `koanf:"upstash_redis_url"`
	UpstashRedisPassword string `koanf:"upstash_redis_password"`

	// Rate Limiting Configuration
	RateLimitWindowSeconds   int `koanf:"rate_limit_window_seconds"`
	RateLimitGlobalThreshold int `koanf:"rate_limit_global_threshold"`
	RateLimitAuthThreshold   int `koanf:"rate_limit_auth_threshold"`
	FailedLoginMaxAttempts   int `koanf:"failed_login_max_attempts"`
	FailedLoginBlockMinutes  int `koanf:"failed_login_block_minutes"`

	// Analyzer backend
	OpenAIAPIKey  string `koanf:"openai_api_key"`
	OpenAIModel   string `koanf:"openai_model"`
	OpenAIBaseURL string `koanf:"openai_base_url"`

	// Object storage (avatars, resume files). Empty bucket = in-memory store.
	S3Provider        string `koanf:"s3_provider"`
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key"`
	S3Region          string `koanf:"s3_region"`
	S3Bucket          string `koanf:"s3_bucket"`
	S3Endpoint        string `koanf:"s3_endpoint"`
	S3PublicURL       string `koanf:"s3_public_url"`

	MaxAvatarBytes int64 `koanf:"max_avatar_bytes"`
	MaxResumeBytes int64 `koanf:"max_resume_bytes"`

	SeedDemoData bool `koanf:"seed_demo_data"`
}

// Defaults returns the configuration used when nothing overrides a key.
func Defaults() *Config {
	return &Config{
		Port:                     "8080",
		GinMode:                  "debug",
		LogLevel:                 "info",
		JWTSecret:                "smartcareer-dev-secret",
		JWTTTLMinutes:            60 * 24,
		CORSOrigins:              "http://localhost:3000,http://127.0.0.1:3000",
		RateLimitWindowSeconds:   60,  // 1 minute window
		RateLimitGlobalThreshold: 100, // 100 requests per window
		RateLimitAuthThreshold:   10,  // 10 auth attempts per window
		FailedLoginMaxAttempts:   5,
		FailedLoginBlockMinutes:  15,
		OpenAIModel:              "gpt-4o-mini",
		S3Provider:               "aws",
		MaxAvatarBytes:           5 << 20,
		MaxResumeBytes:           10 << 20,
		SeedDemoData:             true,
	}
}

// LoadConfig layers defaults, the optional YAML file named by SMARTCAREER_CONFIG
// and the process environment (after .env has been loaded into it).
func LoadConfig() (*Config, error) {
	// Only effective locally; a missing .env is fine in production.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// PORT -> port, DATABASE_URL -> database_url. Unknown keys are ignored on unmarshal.
	envProvider := env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	cfg.S3PublicURL = strings.TrimRight(cfg.S3PublicURL, "/")

	if cfg.Port == "" {
		return nil, errors.New("port must not be empty")
	}
	if cfg.JWTTTLMinutes <= 0 {
		return nil, errors.New("jwt_ttl_minutes must be positive")
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Using in-memory repositories.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}
	if cfg.JWTSecret == Defaults().JWTSecret && cfg.IsProduction() {
		return nil, errors.New("JWT_SECRET must be set in release mode")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// AllowedOrigins splits CORSOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
