package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "wayplan"

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
	FeatureFlags  FeatureFlagsConfig
	Maps          MapsConfig
	Assist        AssistConfig
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
	Env          string `envconfig:"WAYPLAN_APP_ENV" required:"true"`
	Port         string `envconfig:"WAYPLAN_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"WAYPLAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WAYPLAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WAYPLAN_DB_DSN"`
	Driver string `envconfig:"WAYPLAN_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"WAYPLAN_DB_HOST"`
	Port     int    `envconfig:"WAYPLAN_DB_PORT" default:"5432"`
	User     string `envconfig:"WAYPLAN_DB_USER"`
	Password string `envconfig:"WAYPLAN_DB_PASSWORD"`
	Name     string `envconfig:"WAYPLAN_DB_NAME"`
	SSLMode  string `envconfig:"WAYPLAN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WAYPLAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WAYPLAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WAYPLAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WAYPLAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WAYPLAN_REDIS_URL"`
	Address      string        `envconfig:"WAYPLAN_REDIS_ADDR"`
	Password     string        `envconfig:"WAYPLAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"WAYPLAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WAYPLAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WAYPLAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WAYPLAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WAYPLAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WAYPLAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WAYPLAN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WAYPLAN_JWT_ISSUER" default:"wayplan"`
	ExpirationMinutes int    `envconfig:"WAYPLAN_JWT_EXPIRATION_MINUTES" default:"43200"`
	ResetTokenTTL     time.Duration `envconfig:"WAYPLAN_RESET_TOKEN_TTL" default:"30m"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WAYPLAN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WAYPLAN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WAYPLAN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WAYPLAN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WAYPLAN_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"WAYPLAN_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"WAYPLAN_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"WAYPLAN_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"WAYPLAN_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"WAYPLAN_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"WAYPLAN_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WAYPLAN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WAYPLAN_AUTO_MIGRATE" default:"false"`
}

type MapsConfig struct {
	APIKey  string        `envconfig:"WAYPLAN_GOOGLE_MAPS_API_KEY"`
	Timeout time.Duration `envconfig:"WAYPLAN_GOOGLE_MAPS_TIMEOUT" default:"10s"`
}

type AssistConfig struct {
	APIKey  string        `envconfig:"WAYPLAN_OPENROUTER_API_KEY"`
	Model   string        `envconfig:"WAYPLAN_OPENROUTER_MODEL" default:"google/gemini-2.0-flash-001"`
	Timeout time.Duration `envconfig:"WAYPLAN_OPENROUTER_TIMEOUT" default:"30s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if db.Driver == "sqlite" {
		return fmt.Errorf("WAYPLAN_DB_DSN is required for the sqlite driver")
	}

	missing := []string{}
	required := map[string]string{
		"WAYPLAN_DB_HOST": db.Host,
		"WAYPLAN_DB_USER": db.User,
		"WAYPLAN_DB_NAME": db.Name,
	}
	for _, key := range []string{"WAYPLAN_DB_HOST", "WAYPLAN_DB_USER", "WAYPLAN_DB_NAME"} {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either WAYPLAN_DB_DSN or %s are required", strings.Join(missing, ", "))
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
