package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "FUNCLET"
	ConfigName = ".funclet"

	// CustomHandlerPortEnv is set by the Functions host when it launches the worker.
	CustomHandlerPortEnv = "FUNCTIONS_CUSTOMHANDLER_PORT"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("gateway.port", "7071")
	v.SetDefault("gateway.routePrefix", "api")
	v.SetDefault("worker.port", "7072")
	v.SetDefault("worker.executable", "funclet")
	v.SetDefault("queue.name", "outqueue")
	v.SetDefault("queue.capacity", 1024)
	v.SetDefault("queue.connection", "AzureWebJobsStorage")
	v.SetDefault("queue.endpoint", "")
	v.SetDefault("invoke.timeout", 10*time.Second)
	v.SetDefault("health.timeout", 10*time.Second)
	v.SetDefault("health.interval", 500*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("registry.path", "functions.yaml")
}

// NewConfig loads .env, then the optional .funclet.yaml (or configFile when
// set), then FUNCLET_* environment overrides.
func NewConfig(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if port := os.Getenv(CustomHandlerPortEnv); port != "" {
		config.Worker.Port = port
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Queue.Name) == "" {
		return funcleterrors.NewConfigError("queue.name must not be empty")
	}
	if c.Queue.Capacity <= 0 {
		return funcleterrors.NewConfigError("queue.capacity must be positive")
	}
	if c.Gateway.Port == "" || c.Worker.Port == "" {
		return funcleterrors.NewConfigError("gateway.port and worker.port are required")
	}
	if c.Invoke.Timeout <= 0 {
		return funcleterrors.NewConfigError("invoke.timeout must be positive")
	}
	if c.Health.Timeout <= 0 || c.Health.Interval <= 0 {
		return funcleterrors.NewConfigError("health.timeout and health.interval must be positive")
	}
	return nil
}

// WorkerURL is the base URL the host uses to reach the custom handler.
func (c *Config) WorkerURL() string {
	return fmt.Sprintf("http://%s:%s", c.Host, c.Worker.Port)
}
