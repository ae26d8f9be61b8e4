package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type SessionStore string

const (
	SessionStoreMemory SessionStore = "memory"
	SessionStoreRedis  SessionStore = "redis"
)

type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Asia/Colombo"`
	}

	Log struct {
		Level  string    `env:"LOG_LEVEL" envDefault:"info"`
		Format LogFormat `env:"LOG_FORMAT" envDefault:"console"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	ClinicAPI struct {
		URL        string        `env:"CLINIC_API_URL" envDefault:"https://dev-mgtappapi.omniclinic.io/api"`
		Timeout    time.Duration `env:"CLINIC_API_TIMEOUT" envDefault:"10s"`
		RetryCount int           `env:"CLINIC_API_RETRY_COUNT" envDefault:"0"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"intake_router:intake_router"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED"`
		URL      string `env:"RABBITMQ_URL"`
		Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"clinic"`

		AppointmentQueue string `env:"RABBITMQ_APPOINTMENT_QUEUE" envDefault:"intake-router.appointment"`
		AppointmentBind  string `env:"RABBITMQ_APPOINTMENT_BIND" envDefault:"*.intake-router-svc.appointment.#"`
		AllQueue         string `env:"RABBITMQ_ALL_QUEUE" envDefault:"intake-router.all"`
		AllBind          string `env:"RABBITMQ_ALL_BIND" envDefault:"*.intake-router-svc._all_.#"`
	}

	Cache struct {
		Enabled         bool          `env:"CACHE_ENABLED"`
		AppointmentSize int           `env:"CACHE_APPOINTMENT_SIZE" envDefault:"500"`
		AppointmentTTL  time.Duration `env:"CACHE_APPOINTMENT_TTL" envDefault:"5m"`
	}

	Session struct {
		Store SessionStore  `env:"SESSION_STORE" envDefault:"memory"`
		TTL   time.Duration `env:"SESSION_TTL" envDefault:"12h"`
		Size  int           `env:"SESSION_MEMORY_SIZE" envDefault:"10000"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
		Prefix   string `env:"REDIS_PREFIX" envDefault:"intake-router"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))
	cfg.Log.Format = LogFormat(strings.ToLower(string(cfg.Log.Format)))
	cfg.Session.Store = SessionStore(strings.ToLower(string(cfg.Session.Store)))

	cfg.Auth.BasicClients = parseBasicClients(cfg.Auth.BasicClientsString)

	// Кэш записей сбрасывается только по событиям из RabbitMQ, без него кэш не включаем
	if !cfg.RabbitMQ.Enabled {
		cfg.Cache.Enabled = false
	}

	if cfg.Session.Store != SessionStoreRedis {
		cfg.Session.Store = SessionStoreMemory
	}

	return cfg, nil
}

func parseBasicClients(raw string) []ConfigBasicClient {
	clients := []ConfigBasicClient{}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) == 2 && parts[0] != "" {
			clients = append(clients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}
	return clients
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
