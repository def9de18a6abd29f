package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Telegram      TelegramConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"METALBAZA_APP_ENV" required:"true"`
	Port         string `envconfig:"METALBAZA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"METALBAZA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"METALBAZA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"METALBAZA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"METALBAZA_DB_DSN"`
	Driver string `envconfig:"METALBAZA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"METALBAZA_DB_HOST"`
	LegacyPort     int    `envconfig:"METALBAZA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"METALBAZA_DB_USER"`
	LegacyPassword string `envconfig:"METALBAZA_DB_PASSWORD"`
	LegacyName     string `envconfig:"METALBAZA_DB_NAME"`
	LegacySSLMode  string `envconfig:"METALBAZA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"METALBAZA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"METALBAZA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"METALBAZA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"METALBAZA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the SQLite driver was selected (local dev/tests).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"METALBAZA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"METALBAZA_REDIS_ADDR"`
	Password     string        `envconfig:"METALBAZA_REDIS_PASSWORD"`
	DB           int           `envconfig:"METALBAZA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"METALBAZA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"METALBAZA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"METALBAZA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"METALBAZA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"METALBAZA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"METALBAZA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"METALBAZA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"METALBAZA_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type TelegramConfig struct {
	BotToken string `envconfig:"METALBAZA_TELEGRAM_BOT_TOKEN"`
	// AdminChatID receives new-order notifications when set.
	AdminChatID int64 `envconfig:"METALBAZA_TELEGRAM_ADMIN_CHAT_ID"`
	// AllowHeaderAuth accepts the legacy X-Telegram-Id header in place of a
	// bearer token. The Mini App front end still relies on it.
	AllowHeaderAuth bool `envconfig:"METALBAZA_TELEGRAM_ALLOW_HEADER_AUTH" default:"true"`
	// InitDataMaxAge rejects initData payloads older than this window.
	InitDataMaxAge time.Duration `envconfig:"METALBAZA_TELEGRAM_INITDATA_MAX_AGE" default:"24h"`
}

type AuthRateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"METALBAZA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"METALBAZA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginIDLimit int           `envconfig:"METALBAZA_AUTH_RATE_LIMIT_LOGIN_ID_LIMIT" default:"5"`
}

type CheckoutConfig struct {
	// LockTTL bounds how long a per-user checkout lock may be held.
	LockTTL time.Duration `envconfig:"METALBAZA_CHECKOUT_LOCK_TTL" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"METALBAZA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
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
