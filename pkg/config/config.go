package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the backend reads.
const EnvPrefix = "OVIA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "OVIA_DB_DSN"
	EnvDBHost = "OVIA_DB_HOST"
	EnvDBUser = "OVIA_DB_USER"
	EnvDBName = "OVIA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Stripe       StripeConfig
	Checkout     CheckoutConfig
	Cart         CartConfig
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
	Env          string `envconfig:"OVIA_APP_ENV" required:"true"`
	Port         string `envconfig:"OVIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OVIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OVIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OVIA_DB_DSN"`
	Driver string `envconfig:"OVIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OVIA_DB_HOST"`
	LegacyPort     int    `envconfig:"OVIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OVIA_DB_USER"`
	LegacyPassword string `envconfig:"OVIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"OVIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"OVIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OVIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OVIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OVIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OVIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OVIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OVIA_REDIS_ADDR"`
	Password     string        `envconfig:"OVIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"OVIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OVIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OVIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OVIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OVIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OVIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"OVIA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"OVIA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"OVIA_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"OVIA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"OVIA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"OVIA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"OVIA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"OVIA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"OVIA_ARGON_KEY_LEN" default:"32"`
}

type StripeConfig struct {
	APIKey        string        `envconfig:"OVIA_STRIPE_API_KEY"`
	WebhookSecret string        `envconfig:"OVIA_STRIPE_WEBHOOK_SECRET"`
	Env           string        `envconfig:"OVIA_STRIPE_ENV" default:"test"`
	EventGuardTTL time.Duration `envconfig:"OVIA_STRIPE_EVENT_GUARD_TTL" default:"72h"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CheckoutConfig struct {
	SuccessURL string `envconfig:"OVIA_CHECKOUT_SUCCESS_URL" default:"http://localhost:3000/checkout/success?session_id={CHECKOUT_SESSION_ID}"`
	CancelURL  string `envconfig:"OVIA_CHECKOUT_CANCEL_URL" default:"http://localhost:3000/checkout/cancel"`
	ContactURL string `envconfig:"OVIA_CHECKOUT_WHOLESALE_CONTACT_URL" default:"/contact"`
}

type CartConfig struct {
	// RepriceOnReAdd re-resolves the unit price when an already-carted product
	// is added again. Off by default: the captured price holds for the life of
	// the cart line.
	RepriceOnReAdd bool `envconfig:"OVIA_CART_REPRICE_ON_READD" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OVIA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
