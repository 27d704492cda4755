package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTP     `yaml:"http"`
	Postgres PG       `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	Chapa    Chapa    `yaml:"chapa"`
	Auth     Auth     `yaml:"auth"`
	SMTP     SMTP     `yaml:"smtp"`
	Limiter  Limiter  `yaml:"limiter"`
	Log      Log      `yaml:"log"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":8000"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	// BaseURL is the externally reachable address of this service,
	// used to build the provider callback URL.
	BaseURL string `yaml:"base_url" env:"HTTP_BASE_URL" env-default:"http://localhost:8000"`
}

type PG struct {
	URL      string `yaml:"url" env:"DB_URL"`
	MaxConns int32  `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	MinConns int32  `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"2"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Kafka struct {
	Brokers      []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	PaymentTopic string   `yaml:"payment_topic" env:"KAFKA_PAYMENT_TOPIC" env-default:"payment_events"`
}

type Chapa struct {
	SecretKey string        `yaml:"secret_key" env:"CHAPA_SECRET_KEY"`
	BaseURL   string        `yaml:"base_url" env:"CHAPA_BASE_URL" env-default:"https://api.chapa.co/v1"`
	Currency  string        `yaml:"currency" env:"CHAPA_CURRENCY" env-default:"ETB"`
	ReturnURL string        `yaml:"return_url" env:"CHAPA_RETURN_URL" env-default:"http://localhost:8000/api/payments/"`
	Timeout   time.Duration `yaml:"timeout" env:"CHAPA_TIMEOUT" env-default:"10s"`
}

type Auth struct {
	AccessSecret  string        `yaml:"access_secret" env:"ACCESS_SECRET"`
	RefreshSecret string        `yaml:"refresh_secret" env:"REFRESH_SECRET"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"ACCESS_TTL" env-default:"15m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"REFRESH_TTL" env-default:"720h"`
}

type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
}

type Limiter struct {
	Max        int           `yaml:"max" env:"LIMITER_MAX" env-default:"20"`
	Expiration time.Duration `yaml:"expiration" env:"LIMITER_EXPIRATION" env-default:"5s"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}

	return &cfg, nil
}
