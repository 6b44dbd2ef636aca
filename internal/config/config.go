package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig `envconfig:"DB"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	JWT      JWTConfig      `envconfig:"JWT"`
	App      AppConfig      `envconfig:"APP"`
	Payroll  PayrollConfig  `envconfig:"PAYROLL"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     int    `envconfig:"PORT" default:"5432"`
	User     string `envconfig:"USER" default:"postgres"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME" default:"payrollx"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
	MaxConns int32  `envconfig:"MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"MIN_CONNS" default:"5"`
}

// RedisConfig configures the holiday cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `envconfig:"ADDR"`
	Password string        `envconfig:"PASSWORD"`
	DB       int           `envconfig:"DB" default:"0"`
	TTL      time.Duration `envconfig:"TTL" default:"1h"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string        `envconfig:"SECRET_KEY"`
	AccessExpiration time.Duration `envconfig:"ACCESS_EXPIRATION_TIME" default:"1h"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port             int           `envconfig:"PORT" default:"8080"`
	Env              string        `envconfig:"ENV" default:"development"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	Store            string        `envconfig:"STORE" default:"postgres"`
	// SeedDemo loads demo employees into the memory store for the previous month.
	SeedDemo         bool          `envconfig:"SEED_DEMO" default:"false"`
	AllowedOrigins   []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ProcessRateLimit int           `envconfig:"PROCESS_RATE_LIMIT" default:"10"`
	ReadTimeout      time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout     time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// PayrollConfig overrides the non-tax run rules.
type PayrollConfig struct {
	OvertimeMultiplier string   `envconfig:"OVERTIME_MULTIPLIER" default:"1.5"`
	HoursPerDay        int      `envconfig:"HOURS_PER_DAY" default:"8"`
	RestDays           []string `envconfig:"REST_DAYS" default:"saturday,sunday"`
}

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return LoadFromEnv()
}

// LoadFromEnv reads configuration from the process environment only.
func LoadFromEnv() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	switch c.App.Store {
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("APP_STORE must be %q or %q", StorePostgres, StoreMemory)
	}
	if _, err := c.Payroll.Rules(); err != nil {
		return err
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Rules converts the overrides into payroll.Rules.
func (p PayrollConfig) Rules() (payroll.Rules, error) {
	rules := payroll.DefaultRules()

	multiplier, err := decimal.NewFromString(p.OvertimeMultiplier)
	if err != nil {
		return payroll.Rules{}, fmt.Errorf("invalid PAYROLL_OVERTIME_MULTIPLIER: %w", err)
	}
	rules.OvertimeMultiplier = multiplier
	rules.HoursPerDay = p.HoursPerDay

	rest := make([]time.Weekday, 0, len(p.RestDays))
	seen := make(map[time.Weekday]bool, len(p.RestDays))
	for _, name := range p.RestDays {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		day, ok := weekdays[name]
		if !ok {
			return payroll.Rules{}, fmt.Errorf("invalid PAYROLL_REST_DAYS entry %q", name)
		}
		if !seen[day] {
			seen[day] = true
			rest = append(rest, day)
		}
	}
	rules.RestDays = rest

	if err := rules.Validate(); err != nil {
		return payroll.Rules{}, err
	}
	return rules, nil
}
