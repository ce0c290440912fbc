package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"5000"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDBName   string `env:"MONGO_DB_NAME" envDefault:"cardzgalore"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`

	// KafkaBrokers empty means cart/stock events are not published.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// StockCoupling controls whether updating a cart line's quantity also
	// applies the delta to the referenced set's stock. The two paths are
	// deliberately kept separate: with coupling off, stock only moves via
	// the explicit adjustment endpoints.
	StockCoupling bool `env:"STOCK_COUPLING" envDefault:"false"`
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
