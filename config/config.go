// Package config loads service configuration from the environment.
// File: config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned when a loaded value cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds everything main needs to wire the service.
type Config struct {
	// Server
	Port int
	Env  string

	// Public URLs handed to the page and the QR code
	ApplicationURL string
	WebsocketURL   string
	AllowedOrigins []string

	// Sessions
	SessionSecret string
	SessionMaxAge int

	// Files
	LogDir       string
	LeagueConfig string
	TemplatesDir string
	StaticDir    string
	LogoPath     string

	// Widgets
	WidgetIdleTTL       time.Duration
	WidgetReapInterval  time.Duration
	WSMessagesPerSecond float64
	WSMessageBurst      int

	// Observability
	CloudWatchEnabled   bool
	CloudWatchNamespace string
	XRayEnabled         bool
	ServiceName         string
}

// Load reads an optional .env file and then the environment.
// It returns an error if a value is present but unusable.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrInvalidConfig, err)
	}

	var env envParser
	cfg := &Config{
		Port: env.Int("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		ApplicationURL: getEnv("APPLICATION_URL", "http://localhost:8080"),
		WebsocketURL:   getEnv("WEBSOCKET_URL", "ws://localhost:8080/updates"),

		SessionSecret: getEnv("SESSION_SECRET", "secret"),
		SessionMaxAge: env.Int("SESSION_MAX_AGE", 86400*7),

		LogDir:       getEnv("LOG_DIR", "./logs"),
		LeagueConfig: getEnv("LEAGUE_CONFIG", ""),
		TemplatesDir: getEnv("TEMPLATES_DIR", "./templates"),
		StaticDir:    getEnv("STATIC_DIR", "./static"),
		LogoPath:     getEnv("LOGO_PATH", "./static/images/premier-league-logo.png"),

		WidgetIdleTTL:       env.Duration("WIDGET_IDLE_TTL", 30*time.Minute),
		WidgetReapInterval:  env.Duration("WIDGET_REAP_INTERVAL", time.Minute),
		WSMessagesPerSecond: env.Float("WS_MESSAGES_PER_SECOND", 20),
		WSMessageBurst:      env.Int("WS_MESSAGE_BURST", 40),

		CloudWatchEnabled:   env.Bool("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "LeaguePredictor"),
		XRayEnabled:         env.Bool("XRAY_ENABLED", false),
		ServiceName:         getEnv("SERVICE_NAME", "league-predictor"),
	}
	if err := env.Err(); err != nil {
		return nil, err
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:8080")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("%w: SESSION_SECRET must not be empty", ErrInvalidConfig)
	}
	if c.WidgetIdleTTL <= 0 || c.WidgetReapInterval <= 0 {
		return fmt.Errorf("%w: widget TTL and reap interval must be positive", ErrInvalidConfig)
	}
	if c.WSMessagesPerSecond <= 0 || c.WSMessageBurst <= 0 {
		return fmt.Errorf("%w: websocket rate limit must be positive", ErrInvalidConfig)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envParser reads typed variables and remembers every one it could not parse.
type envParser struct {
	errs []error
}

func (p *envParser) lookup(key string, parse func(string) error) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	if err := parse(value); err != nil {
		p.errs = append(p.errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err))
	}
}

func (p *envParser) Int(key string, fallback int) int {
	v := fallback
	p.lookup(key, func(s string) (err error) {
		v, err = strconv.Atoi(s)
		return err
	})
	return v
}

func (p *envParser) Float(key string, fallback float64) float64 {
	v := fallback
	p.lookup(key, func(s string) (err error) {
		v, err = strconv.ParseFloat(s, 64)
		return err
	})
	return v
}

func (p *envParser) Bool(key string, fallback bool) bool {
	v := fallback
	p.lookup(key, func(s string) (err error) {
		v, err = strconv.ParseBool(s)
		return err
	})
	return v
}

func (p *envParser) Duration(key string, fallback time.Duration) time.Duration {
	v := fallback
	p.lookup(key, func(s string) (err error) {
		v, err = time.ParseDuration(s)
		return err
	})
	return v
}

// Err joins every parse failure, or is nil.
func (p *envParser) Err() error {
	return errors.Join(p.errs...)
}
