package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "mailprov"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Resend       ResendConfig
	Polar        PolarConfig
	Pricing      PricingConfig
	Delivery     DeliveryConfig
	Security     SecurityConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MAILPROV_APP_ENV" required:"true"`
	Port         string `envconfig:"MAILPROV_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MAILPROV_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MAILPROV_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MAILPROV_DB_DSN"`

	Host     string `envconfig:"MAILPROV_DB_HOST"`
	Port     int    `envconfig:"MAILPROV_DB_PORT" default:"5432"`
	User     string `envconfig:"MAILPROV_DB_USER"`
	Password string `envconfig:"MAILPROV_DB_PASSWORD"`
	Name     string `envconfig:"MAILPROV_DB_NAME"`
	SSLMode  string `envconfig:"MAILPROV_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MAILPROV_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MAILPROV_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MAILPROV_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAILPROV_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MAILPROV_REDIS_URL" required:"true"`
	DB           int           `envconfig:"MAILPROV_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAILPROV_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MAILPROV_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MAILPROV_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAILPROV_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MAILPROV_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"MAILPROV_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"MAILPROV_JWT_ISSUER" required:"true"`
}

type ResendConfig struct {
	APIKey      string `envconfig:"MAILPROV_RESEND_API_KEY"`
	DefaultFrom string `envconfig:"MAILPROV_RESEND_FROM_EMAIL" default:"access@mailprov.dev"`
}

type PolarConfig struct {
	AccessToken   string        `envconfig:"MAILPROV_POLAR_ACCESS_TOKEN"`
	BaseURL       string        `envconfig:"MAILPROV_POLAR_BASE_URL" default:"https://api.polar.sh/v1"`
	Timeout       time.Duration `envconfig:"MAILPROV_POLAR_TIMEOUT" default:"10s"`
	WebhookSecret string        `envconfig:"MAILPROV_POLAR_WEBHOOK_SECRET"`
}

// PricingConfig carries the display/estimate prices so callers never read
// ambient globals for money math.
type PricingConfig struct {
	MonthlyPriceCents int    `envconfig:"MAILPROV_PRICING_MONTHLY_CENTS" default:"2900"`
	Currency          string `envconfig:"MAILPROV_PRICING_CURRENCY" default:"USD"`
}

type DeliveryConfig struct {
	DefaultAdminNotes string        `envconfig:"MAILPROV_DELIVERY_DEFAULT_NOTES" default:"Credentials delivered"`
	IdempotencyTTL    time.Duration `envconfig:"MAILPROV_DELIVERY_IDEMPOTENCY_TTL" default:"168h"`
}

type SecurityConfig struct {
	// CredentialKey is the base64-encoded 32-byte key used to seal
	// delivered enterprise passwords at rest.
	CredentialKey string `envconfig:"MAILPROV_CREDENTIAL_KEY" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MAILPROV_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for _, pair := range []struct {
		env   string
		value string
	}{
		{"MAILPROV_DB_HOST", db.Host},
		{"MAILPROV_DB_USER", db.User},
		{"MAILPROV_DB_NAME", db.Name},
	} {
		if pair.value == "" {
			missing = append(missing, pair.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either MAILPROV_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
