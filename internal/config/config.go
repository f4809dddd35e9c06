package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendGemini  = "gemini"
	BackendMistral = "mistral"
	BackendRandom  = "random"
)

type Config struct {
	LogLevel     string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort     string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort   string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7777"`
	DefaultMode  string        `yaml:"default-mode" env-default:"pve"`
	SessionTTL   time.Duration `yaml:"session-ttl" env-default:"24h"`
	IdleTimeout  time.Duration `yaml:"idle-timeout" env-default:"30m"`
	Redis        Redis         `yaml:"redis"`
	Suggester    Suggester     `yaml:"suggester"`
	OpponentName string        `yaml:"opponent-name" env-default:"Gemini"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Suggester struct {
	Backend    string        `yaml:"backend" env:"SUGGESTER_BACKEND" env-default:"gemini"`
	Model      string        `yaml:"model" env:"SUGGESTER_MODEL"`
	APIKey     string        `yaml:"api-key" env:"SUGGESTER_API_KEY"`
	ThinkDelay time.Duration `yaml:"think-delay" env-default:"600ms"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the file at path and applies environment overrides on top.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) validate() error {
	switch that.Suggester.Backend {
	case BackendGemini, BackendMistral, BackendRandom:
	default:
		return fmt.Errorf("unknown suggester backend %q", that.Suggester.Backend)
	}

	if that.Suggester.ThinkDelay < 0 {
		return fmt.Errorf("think-delay must not be negative, got %s", that.Suggester.ThinkDelay)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
