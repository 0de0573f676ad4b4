package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "OUTLETPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "OUTLETPOS_DB_DSN"
	EnvDBHost = "OUTLETPOS_DB_HOST"
	EnvDBUser = "OUTLETPOS_DB_USER"
	EnvDBName = "OUTLETPOS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Sales        SalesConfig
	Pricing      PricingConfig
	DeviceCheck  DeviceCheckConfig
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
	Env          string   `envconfig:"OUTLETPOS_APP_ENV" required:"true"`
	Port         string   `envconfig:"OUTLETPOS_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"OUTLETPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"OUTLETPOS_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"OUTLETPOS_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OUTLETPOS_DB_DSN"`
	Driver string `envconfig:"OUTLETPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OUTLETPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"OUTLETPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OUTLETPOS_DB_USER"`
	LegacyPassword string `envconfig:"OUTLETPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"OUTLETPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"OUTLETPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OUTLETPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OUTLETPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OUTLETPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OUTLETPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OUTLETPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OUTLETPOS_REDIS_ADDR"`
	Password     string        `envconfig:"OUTLETPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"OUTLETPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OUTLETPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OUTLETPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OUTLETPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OUTLETPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OUTLETPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"OUTLETPOS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"OUTLETPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"OUTLETPOS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"OUTLETPOS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"OUTLETPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"OUTLETPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"OUTLETPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"OUTLETPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"OUTLETPOS_ARGON_KEY_LEN" default:"32"`
}

// SalesConfig carries storefront policy applied when a sale is finalized.
type SalesConfig struct {
	WarrantyDays int `envconfig:"OUTLETPOS_SALES_WARRANTY_DAYS" default:"30"`
}

// PricingConfig carries the rounding policy the pricing engine applies.
type PricingConfig struct {
	RoundingIncrement int64 `envconfig:"OUTLETPOS_PRICING_ROUNDING_INCREMENT" default:"5"`
}

type DeviceCheckConfig struct {
	Enabled bool          `envconfig:"OUTLETPOS_DEVICECHECK_ENABLED" default:"false"`
	BaseURL string        `envconfig:"OUTLETPOS_DEVICECHECK_BASE_URL"`
	APIKey  string        `envconfig:"OUTLETPOS_DEVICECHECK_API_KEY"`
	Timeout time.Duration `envconfig:"OUTLETPOS_DEVICECHECK_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"OUTLETPOS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"OUTLETPOS_AUTO_MIGRATE" default:"false"`
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
