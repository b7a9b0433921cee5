package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"planora.app/configs/configslog"
	"planora.app/models"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// AppConfig holds every setting read from the environment.
type AppConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"APP_PORT" envDefault:"3000"`

	DB DatabaseConfig `envPrefix:"DB_"`
	AI AIConfig       `envPrefix:"AI_"`

	// DefaultRole is assigned to users created on first sign-in.
	DefaultRole models.Role `env:"DEFAULT_ROLE" envDefault:"GUEST"`

	// Headers set by the upstream auth proxy.
	AuthUserHeader  string `env:"AUTH_USER_HEADER" envDefault:"X-Auth-Request-User"`
	AuthEmailHeader string `env:"AUTH_EMAIL_HEADER" envDefault:"X-Auth-Request-Email"`
	AuthNameHeader  string `env:"AUTH_NAME_HEADER" envDefault:"X-Auth-Request-Preferred-Username"`
	// AuthSignOutURL is where /auth/logout sends the browser after clearing the session.
	AuthSignOutURL  string `env:"AUTH_SIGN_OUT_URL" envDefault:"/oauth2/sign_out"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"planora"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	TimeZone string `env:"TIMEZONE" envDefault:"UTC"`
	// MaxConnectElapsed bounds the connection retry loop.
	MaxConnectElapsed time.Duration `env:"MAX_CONNECT_ELAPSED" envDefault:"30s"`
}

// DSN builds the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}

type AIConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.openai.com/v1"`
	APIKey  string        `env:"API_KEY"`
	Model   string        `env:"MODEL" envDefault:"gpt-4o-mini"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"8s"`
}

// Enabled reports whether AI enrichment should be attempted at all.
func (c AIConfig) Enabled() bool { return c.APIKey != "" }

var (
	appConfig *AppConfig
	loadOnce  sync.Once
	loadErr   error
)

// LoadConfig reads .env (when present) and parses the environment once.
func LoadConfig() (*AppConfig, error) {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			configslog.Log.Warn(".env file could not be read", zap.Error(err))
		}
		cfg, err := ParseConfig()
		if err != nil {
			loadErr = err
			return
		}
		appConfig = cfg
	})
	return appConfig, loadErr
}

// ParseConfig parses the current environment without touching .env files.
func ParseConfig() (*AppConfig, error) {
	cfg, err := env.ParseAs[AppConfig]()
	if err != nil {
		return nil, fmt.Errorf("config could not be parsed: %w", err)
	}
	if !cfg.DefaultRole.Valid() {
		return nil, fmt.Errorf("DEFAULT_ROLE %q is not a valid role", cfg.DefaultRole)
	}
	return &cfg, nil
}

// GetConfig returns the loaded configuration. LoadConfig must have succeeded.
func GetConfig() *AppConfig {
	if appConfig == nil {
		configslog.Log.Fatal("configuration requested before LoadConfig")
	}
	return appConfig
}

// IsProduction reports whether APP_ENV is production.
func (c *AppConfig) IsProduction() bool { return c.Env == "production" }
