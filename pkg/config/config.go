package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "VENDORPULSE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VENDORPULSE_DB_DSN"
	EnvDBHost = "VENDORPULSE_DB_HOST"
	EnvDBUser = "VENDORPULSE_DB_USER"
	EnvDBName = "VENDORPULSE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Idempotency  IdempotencyConfig
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
	Env          string `envconfig:"VENDORPULSE_APP_ENV" required:"true"`
	Port         string `envconfig:"VENDORPULSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VENDORPULSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENDORPULSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"VENDORPULSE_DB_DSN"`

	LegacyHost     string `envconfig:"VENDORPULSE_DB_HOST"`
	LegacyPort     int    `envconfig:"VENDORPULSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VENDORPULSE_DB_USER"`
	LegacyPassword string `envconfig:"VENDORPULSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"VENDORPULSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"VENDORPULSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VENDORPULSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENDORPULSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENDORPULSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENDORPULSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDORPULSE_REDIS_URL"`
	Address      string        `envconfig:"VENDORPULSE_REDIS_ADDR"`
	Password     string        `envconfig:"VENDORPULSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENDORPULSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDORPULSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDORPULSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDORPULSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDORPULSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDORPULSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"VENDORPULSE_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VENDORPULSE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VENDORPULSE_AUTO_MIGRATE" default:"false"`
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
