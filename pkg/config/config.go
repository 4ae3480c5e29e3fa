package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Flow         FlowConfig
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
	Env          string `envconfig:"CANCELFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"CANCELFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CANCELFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CANCELFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CANCELFLOW_DB_DSN"`
	Driver string `envconfig:"CANCELFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CANCELFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"CANCELFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CANCELFLOW_DB_USER"`
	LegacyPassword string `envconfig:"CANCELFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"CANCELFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"CANCELFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CANCELFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CANCELFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CANCELFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CANCELFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CANCELFLOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CANCELFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"CANCELFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"CANCELFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CANCELFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CANCELFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CANCELFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CANCELFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CANCELFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// FlowConfig carries the cancellation wizard knobs.
type FlowConfig struct {
	// MockUserID is the single development identity the wizard operates
	// on. Missing value is surfaced per-request as UNCONFIGURED, not at
	// boot, so health/metrics endpoints stay usable.
	MockUserID string `envconfig:"CANCELFLOW_MOCK_USER_ID"`

	// DiscountCents is subtracted from monthly_price when the downsell
	// offer is accepted.
	DiscountCents int64 `envconfig:"CANCELFLOW_DISCOUNT_CENTS" default:"1000"`

	// ProgressRateLimit caps progress saves per user per window.
	ProgressRateLimit  int64         `envconfig:"CANCELFLOW_PROGRESS_RATE_LIMIT" default:"60"`
	ProgressRateWindow time.Duration `envconfig:"CANCELFLOW_PROGRESS_RATE_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CANCELFLOW_AUTO_MIGRATE" default:"false"`
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
