package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"

	"github.com/shirry/webserver/internal/models"
)

type Configuration struct {
	Server     Server
	Dispatcher Dispatcher
	Admin      Admin
	Store      Store
	Auth       Authentication
	LogFormat  string `default:"console" debugmap:"visible"`
	LogLevel   string `default:"info" debugmap:"visible"`
}

type Server struct {
	Address        string        `default:"127.0.0.1" debugmap:"visible"`
	Port           int           `default:"7878" debugmap:"visible"`
	PagesFolder    string        `default:"pages" debugmap:"visible"`
	SleepDelay     time.Duration `default:"5s" debugmap:"visible"`
	MaxConnections int           `default:"0" debugmap:"visible"`
	BindAttempts   int           `default:"3" debugmap:"visible"`
}

type Dispatcher struct {
	Mode          string `default:"pool" debugmap:"visible"`
	Workers       int    `default:"3" debugmap:"visible"`
	QueueCapacity int    `default:"0" debugmap:"visible"`
	MaxInFlight   int    `default:"0" debugmap:"visible"`
}

type Admin struct {
	Enabled    bool   `default:"true" debugmap:"visible"`
	Address    string `default:"127.0.0.1" debugmap:"visible"`
	Port       int    `default:"8000" debugmap:"visible"`
	ServerMode string `default:"dev" debugmap:"visible"`
}

type Store struct {
	Enabled bool   `default:"true" debugmap:"visible"`
	Path    string `default:":memory:" debugmap:"visible"`
}

type Authentication struct {
	Enabled bool   `default:"false" debugmap:"visible"`
	Secret  string `debugmap:"hidden"`
}

// NewConfigurationWithDefaults returns a configuration with every default tag applied.
func NewConfigurationWithDefaults() (*Configuration, error) {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply configuration defaults: %w", err)
	}
	return cfg, nil
}

func (c *Configuration) Validate() error {
	var errs []error

	mode, err := models.ParseDispatchMode(c.Dispatcher.Mode)
	if err != nil {
		errs = append(errs, err)
	}
	if mode == models.DispatchModePool && c.Dispatcher.Workers <= 0 {
		errs = append(errs, fmt.Errorf("invalid number of workers %d: must be positive in pool mode", c.Dispatcher.Workers))
	}
	if c.Dispatcher.QueueCapacity < 0 {
		errs = append(errs, fmt.Errorf("invalid queue capacity %d", c.Dispatcher.QueueCapacity))
	}
	if c.Dispatcher.MaxInFlight < 0 {
		errs = append(errs, fmt.Errorf("invalid max in-flight %d", c.Dispatcher.MaxInFlight))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if c.Server.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("invalid max connections %d", c.Server.MaxConnections))
	}
	if c.Server.BindAttempts <= 0 {
		errs = append(errs, fmt.Errorf("invalid bind attempts %d: must be positive", c.Server.BindAttempts))
	}
	if c.Admin.Enabled && (c.Admin.Port <= 0 || c.Admin.Port > 65535) {
		errs = append(errs, fmt.Errorf("invalid admin port %d", c.Admin.Port))
	}
	if c.Admin.ServerMode != "dev" && c.Admin.ServerMode != "prod" {
		errs = append(errs, fmt.Errorf("invalid admin server mode %q: must be 'dev' or 'prod'", c.Admin.ServerMode))
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		errs = append(errs, errors.New("authentication is enabled but no secret was provided"))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// DebugMap returns the configuration as a map safe for logging. Fields
// tagged debugmap:"hidden" are masked.
func (c *Configuration) DebugMap() map[string]any {
	secret := ""
	if c.Auth.Secret != "" {
		secret = "(sensitive)"
	}
	return map[string]any{
		"Server": map[string]any{
			"Address":        c.Server.Address,
			"Port":           c.Server.Port,
			"PagesFolder":    c.Server.PagesFolder,
			"SleepDelay":     c.Server.SleepDelay.String(),
			"MaxConnections": c.Server.MaxConnections,
			"BindAttempts":   c.Server.BindAttempts,
		},
		"Dispatcher": map[string]any{
			"Mode":          c.Dispatcher.Mode,
			"Workers":       c.Dispatcher.Workers,
			"QueueCapacity": c.Dispatcher.QueueCapacity,
			"MaxInFlight":   c.Dispatcher.MaxInFlight,
		},
		"Admin": map[string]any{
			"Enabled":    c.Admin.Enabled,
			"Address":    c.Admin.Address,
			"Port":       c.Admin.Port,
			"ServerMode": c.Admin.ServerMode,
		},
		"Store": map[string]any{
			"Enabled": c.Store.Enabled,
			"Path":    c.Store.Path,
		},
		"Auth": map[string]any{
			"Enabled": c.Auth.Enabled,
			"Secret":  secret,
		},
		"LogFormat": c.LogFormat,
		"LogLevel":  c.LogLevel,
	}
}
