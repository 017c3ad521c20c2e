package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	Razorpay  RazorpayConfig  `mapstructure:"razorpay"`
	Video     VideoConfig     `mapstructure:"video"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
	// 支付发起接口的软性防滥用阈值，按用户计
	PaymentMaxRequests   int `mapstructure:"payment_max_requests"`
	PaymentWindowSeconds int `mapstructure:"payment_window_seconds"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// RazorpayConfig 网关密钥对，缺失时支付接口直接回 500 配置错误，绝不降级运行
type RazorpayConfig struct {
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
}

// VideoConfig 播放令牌签名配置
type VideoConfig struct {
	TokenSecret   string        `mapstructure:"token_secret"`
	TokenTTLHours time.Duration `mapstructure:"token_ttl_hours"`
}

// PricingConfig 目录数据缺失时的兜底定价，保证结账流程不因脏数据崩溃
type PricingConfig struct {
	DefaultPriceIndia   int64 `mapstructure:"default_price_india"`
	DefaultPriceIntl    int64 `mapstructure:"default_price_intl"`
	DefaultDiscount     int   `mapstructure:"default_discount"`
	FallbackAmountIndia int64 `mapstructure:"fallback_amount_india"`
	FallbackAmountIntl  int64 `mapstructure:"fallback_amount_intl"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("FROGGO")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Razorpay
	viper.BindEnv("razorpay.key_id", "RAZORPAY_KEY_ID")
	viper.BindEnv("razorpay.key_secret", "RAZORPAY_KEY_SECRET")

	// Video token
	viper.BindEnv("video.token_secret", "VIMEO_PRIVATE_TOKEN_SECRET")

	// Storage / MinIO
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	if cfg.Video.TokenTTLHours <= 0 {
		cfg.Video.TokenTTLHours = 1
	}
	cfg.Video.TokenTTLHours = cfg.Video.TokenTTLHours * time.Hour

	if cfg.RateLimit.PaymentMaxRequests <= 0 {
		cfg.RateLimit.PaymentMaxRequests = 5
	}
	if cfg.RateLimit.PaymentWindowSeconds <= 0 {
		cfg.RateLimit.PaymentWindowSeconds = 60
	}

	applyPricingDefaults(&cfg.Pricing)

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func applyPricingDefaults(p *PricingConfig) {
	if p.DefaultPriceIndia <= 0 {
		p.DefaultPriceIndia = 9999
	}
	if p.DefaultPriceIntl <= 0 {
		p.DefaultPriceIntl = 499
	}
	if p.DefaultDiscount <= 0 {
		p.DefaultDiscount = 50
	}
	if p.FallbackAmountIndia <= 0 {
		p.FallbackAmountIndia = 4999
	}
	if p.FallbackAmountIntl <= 0 {
		p.FallbackAmountIntl = 249
	}
}
