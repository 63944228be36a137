package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/medication-reminder-api/logging"
	"github.com/linesmerrill/medication-reminder-api/models"
)

// Config holds the project config values
type Config struct {
	URL          string `env:"DB_URI,required,notEmpty"`
	DatabaseName string `env:"DB_NAME" envDefault:"medication-reminder"`
	BaseURL      string `env:"BASE_URL"`
	Port         string `env:"PORT" envDefault:"8080"`
	Environment  string `env:"ENVIRONMENT" envDefault:"production"`

	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// ScheduleTimezone is the zone whose calendar days the schedule expander works in
	ScheduleTimezone string        `env:"SCHEDULE_TIMEZONE" envDefault:"Local"`
	RedisURL         string        `env:"REDIS_URL"`
	LockTTL          time.Duration `env:"LOCK_TTL" envDefault:"30s"`

	Scheduler Scheduler `envPrefix:"SCHEDULER_"`
	RateLimit RateLimit `envPrefix:"LOGIN_RATE_"`

	location *time.Location
}

// Scheduler configures the nightly schedule pre-generation job
type Scheduler struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Spec    string `env:"SPEC" envDefault:"5 0 * * *"`
}

// RateLimit bounds login and register attempts per client. Only enforced when Redis is configured.
type RateLimit struct {
	Limit  int           `env:"LIMIT" envDefault:"10"`
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
}

// New sets up all config related services
func New() (*Config, error) {
	// a missing .env file is fine, the environment wins anyway
	_ = godotenv.Load()

	conf := &Config{}
	if err := env.Parse(conf); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	loc, err := time.LoadLocation(conf.ScheduleTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load SCHEDULE_TIMEZONE %q: %w", conf.ScheduleTimezone, err)
	}
	conf.location = loc

	//setup zap logger and replace default logger
	logger, err := setLogger(conf.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	_ = zap.ReplaceGlobals(logger)

	return conf, nil
}

// Location is the time zone schedules are generated in
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func setLogger(environment string) (*zap.Logger, error) {
	return logging.New(environment)
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	if httpStatusCode >= http.StatusInternalServerError {
		zap.S().Errorw(message, "status", httpStatusCode, "error", err)
	} else {
		zap.S().Debugw(message, "status", httpStatusCode, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	body := models.ErrorResponse{Success: false, Error: message}
	if err != nil {
		body.Error = err.Error()
	}
	_ = json.NewEncoder(w).Encode(body)
}
