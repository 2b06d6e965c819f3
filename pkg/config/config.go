package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BOTTLEAMIGO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "BOTTLEAMIGO_APP_ENV"
	EnvPort            = "BOTTLEAMIGO_APP_PORT"
	EnvLogLevel        = "BOTTLEAMIGO_LOG_LEVEL"
	EnvLogFormat       = "BOTTLEAMIGO_LOG_FORMAT"
	EnvBFFBaseURL      = "BOTTLEAMIGO_BFF_BASE_URL"
	EnvBFFTimeout      = "BOTTLEAMIGO_BFF_TIMEOUT"
	EnvRedisURL        = "BOTTLEAMIGO_REDIS_URL"
	EnvSessionSecret   = "BOTTLEAMIGO_SESSION_SECRET"
	EnvSessionIssuer   = "BOTTLEAMIGO_SESSION_ISSUER"
	EnvSessionTTL      = "BOTTLEAMIGO_SESSION_TTL"
	EnvDashboardPoll   = "BOTTLEAMIGO_DASHBOARD_POLL_INTERVAL"
	EnvAmigoQRPrefix   = "BOTTLEAMIGO_AMIGO_QR_PREFIX"
	EnvLoginRateWindow = "BOTTLEAMIGO_LOGIN_RATE_WINDOW"
	EnvLoginRateLimit  = "BOTTLEAMIGO_LOGIN_RATE_IP_LIMIT"
	EnvLoginRateAcct   = "BOTTLEAMIGO_LOGIN_RATE_ACCOUNT_LIMIT"
)

type Config struct {
	App       AppConfig
	BFF       BFFConfig
	Redis     RedisConfig
	Session   SessionConfig
	Dashboard DashboardConfig
	Amigo     AmigoConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.BFF.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOTTLEAMIGO_APP_ENV" required:"true"`
	Port         string `envconfig:"BOTTLEAMIGO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BOTTLEAMIGO_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"BOTTLEAMIGO_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"BOTTLEAMIGO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BFFConfig points the portal at the backend-for-frontend API.
type BFFConfig struct {
	BaseURL string        `envconfig:"BOTTLEAMIGO_BFF_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"BOTTLEAMIGO_BFF_TIMEOUT" default:"10s"`
}

func (b BFFConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(b.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvBFFBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvBFFBaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", EnvBFFBaseURL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BOTTLEAMIGO_REDIS_URL"`
	Address      string        `envconfig:"BOTTLEAMIGO_REDIS_ADDR"`
	Password     string        `envconfig:"BOTTLEAMIGO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOTTLEAMIGO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOTTLEAMIGO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOTTLEAMIGO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOTTLEAMIGO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOTTLEAMIGO_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"BOTTLEAMIGO_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// SessionConfig controls the portal session cookies. Consumer and staff
// portals keep separate cookie names so the two sessions never collide.
type SessionConfig struct {
	Secret         string        `envconfig:"BOTTLEAMIGO_SESSION_SECRET" required:"true"`
	Issuer         string        `envconfig:"BOTTLEAMIGO_SESSION_ISSUER" default:"bottle-amigo-portal"`
	TTL            time.Duration `envconfig:"BOTTLEAMIGO_SESSION_TTL" default:"24h"`
	ConsumerCookie string        `envconfig:"BOTTLEAMIGO_SESSION_CONSUMER_COOKIE" default:"bottle_amigo_token"`
	StaffCookie    string        `envconfig:"BOTTLEAMIGO_SESSION_STAFF_COOKIE" default:"bottle_amigo_staff_token"`
	SecureCookie   bool          `envconfig:"BOTTLEAMIGO_SESSION_SECURE_COOKIE" default:"false"`
}

func (s SessionConfig) validate() error {
	if len(strings.TrimSpace(s.Secret)) < 16 {
		return fmt.Errorf("%s must be at least 16 characters", EnvSessionSecret)
	}
	if s.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionTTL)
	}
	if s.ConsumerCookie == s.StaffCookie {
		return fmt.Errorf("consumer and staff cookie names must differ")
	}
	return nil
}

type DashboardConfig struct {
	PollInterval time.Duration `envconfig:"BOTTLEAMIGO_DASHBOARD_POLL_INTERVAL" default:"30s"`
}

type AmigoConfig struct {
	QRPrefix string `envconfig:"BOTTLEAMIGO_AMIGO_QR_PREFIX" default:"bottle-amigo:"`
}

// RateLimitConfig throttles login attempts per client IP and per account
// (email for consumers, store id for staff).
type RateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"BOTTLEAMIGO_LOGIN_RATE_WINDOW" default:"1m"`
	LoginIPLimit      int           `envconfig:"BOTTLEAMIGO_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginAccountLimit int           `envconfig:"BOTTLEAMIGO_LOGIN_RATE_ACCOUNT_LIMIT" default:"10"`
}
