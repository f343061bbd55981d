package config

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Port           string        `env:"PORT,      default=4000"`
	Env            string        `env:"ENV,       default=development"`
	JWTSecret      string        `env:"JWT_SECRET, required"`
	TokenTTL       time.Duration `env:"TOKEN_TTL, default=48h"`
	LogLevel       string        `env:"LOG_LEVEL, default=info"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS, default=http://127.0.0.1:5500,http://localhost:5500"`
	MetricsEnabled bool          `env:"METRICS_ENABLED, default=true"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Upload  UploadConfig
	S3      S3Config
	Limiter LimiterConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB,  default=contributions"`
}

// RedisConfig is optional; an empty Addr disables login throttling.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type LimiterConfig struct {
	Limit  int           `env:"LOGIN_RATE_LIMIT,  default=20"`
	Window time.Duration `env:"LOGIN_RATE_WINDOW, default=1m"`
}

type UploadConfig struct {
	Backend     string   `env:"STORAGE_BACKEND,    default=local"`
	Dir         string   `env:"UPLOAD_DIR,         default=uploads"`
	MaxBytes    int64    `env:"UPLOAD_MAX_BYTES,   default=5242880"`
	AllowedExts []string `env:"UPLOAD_ALLOWED_EXT, default=.png,.jpg,.jpeg,.gif,.webp"`
}

type S3Config struct {
	Bucket    string `env:"S3_BUCKET"`
	Region    string `env:"S3_REGION, default=us-east-1"`
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	PublicURL string `env:"S3_PUBLIC_URL"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith is Load with an explicit lookuper, used by tests.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Upload.Backend {
	case StorageLocal:
	case StorageS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Upload.Backend)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.Redis.Addr != "" {
		if c.Limiter.Limit <= 0 {
			return fmt.Errorf("LOGIN_RATE_LIMIT must be positive when REDIS_ADDR is set")
		}
		if c.Limiter.Window <= 0 {
			return fmt.Errorf("LOGIN_RATE_WINDOW must be positive when REDIS_ADDR is set")
		}
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
	}
	return nil
}
