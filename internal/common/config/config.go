package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"participant-service"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8004"`
		Origin string `env:"CORS_ORIGINS" envDefault:"*"`
	}

	Postgres struct {
		URL             string        `env:"DATABASE_URL" envDefault:"postgres://localhost/telegive_participant?sslmode=disable"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Captcha struct {
		MinNumber      int `env:"CAPTCHA_MIN_NUMBER" envDefault:"1"`
		MaxNumber      int `env:"CAPTCHA_MAX_NUMBER" envDefault:"10"`
		MaxAttempts    int `env:"CAPTCHA_MAX_ATTEMPTS" envDefault:"3"`
		TimeoutMinutes int `env:"CAPTCHA_TIMEOUT_MINUTES" envDefault:"10"`
	}

	Selection struct {
		Method       string `env:"SELECTION_METHOD" envDefault:"cryptographic_random"`
		AuditEnabled bool   `env:"SELECTION_AUDIT_ENABLED" envDefault:"true"`
	}

	Services struct {
		GiveawayURL  string        `env:"TELEGIVE_GIVEAWAY_URL" envDefault:"http://localhost:8001"`
		AuthURL      string        `env:"TELEGIVE_AUTH_URL" envDefault:"http://localhost:8002"`
		ChannelURL   string        `env:"TELEGIVE_CHANNEL_URL" envDefault:"http://localhost:8003"`
		ServiceToken string        `env:"AUTH_SERVICE_TOKEN" envDefault:""`
		Timeout      time.Duration `env:"SERVICE_HTTP_TIMEOUT" envDefault:"10s"`
	}

	Telegram struct {
		APIBase  string `env:"TELEGRAM_API_BASE" envDefault:"https://api.telegram.org"`
		BotToken string `env:"BOT_TOKEN" envDefault:""`
	}

	AMQP struct {
		URL string `env:"AMQP_URL" envDefault:""`
	}

	Cleanup struct {
		Interval  time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
		Retention time.Duration `env:"SESSION_RETENTION" envDefault:"168h"`
	}
}

// CaptchaTimeout returns the challenge lifetime as a duration.
func (c *Config) CaptchaTimeout() time.Duration {
	return time.Duration(c.Captcha.TimeoutMinutes) * time.Minute
}

func Load() *Config {
	// A missing .env file is fine; in production the variables are set
	// directly in the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
