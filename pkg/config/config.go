package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Recs          RecsConfig
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
	Env          string `envconfig:"LUME_APP_ENV" required:"true"`
	Port         string `envconfig:"LUME_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"LUME_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LUME_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LUME_DB_DSN"`
	Driver string `envconfig:"LUME_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LUME_DB_HOST"`
	Port     int    `envconfig:"LUME_DB_PORT" default:"5432"`
	User     string `envconfig:"LUME_DB_USER"`
	Password string `envconfig:"LUME_DB_PASSWORD"`
	Name     string `envconfig:"LUME_DB_NAME"`
	SSLMode  string `envconfig:"LUME_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LUME_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LUME_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LUME_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LUME_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either LUME_DB_DSN or host/user/name parts are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"LUME_REDIS_URL"`
	Address      string        `envconfig:"LUME_REDIS_ADDR"`
	Password     string        `envconfig:"LUME_REDIS_PASSWORD"`
	DB           int           `envconfig:"LUME_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LUME_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LUME_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LUME_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LUME_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LUME_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LUME_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LUME_JWT_ISSUER" default:"lume"`
	ExpirationMinutes int    `envconfig:"LUME_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LUME_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LUME_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LUME_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LUME_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LUME_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LUME_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LUME_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LUME_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LUME_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LUME_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LUME_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type RecsConfig struct {
	ScoringURL string        `envconfig:"LUME_RECS_SCORING_URL" default:"http://localhost:5001"`
	Timeout    time.Duration `envconfig:"LUME_RECS_TIMEOUT" default:"5s"`
	CacheTTL   time.Duration `envconfig:"LUME_RECS_CACHE_TTL" default:"5m"`
	MaxResults int           `envconfig:"LUME_RECS_MAX_RESULTS" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LUME_AUTO_MIGRATE" default:"false"`
}
