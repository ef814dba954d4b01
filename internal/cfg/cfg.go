package cfg

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jimlawless/whereami"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/mastimed/mobilegestion/pkg/logger"
)

type Config struct {
	Http            HTTPConfig
	Grpc            GRPCConfig
	Kafka           KafkaCfg
	Ledger          LedgerCfg
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type HTTPConfig struct {
	Port         string        `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"KEEP_ALIVE" envDefault:"60s"`
}

type GRPCConfig struct {
	Port        string `env:"GRPC_PORT" envDefault:"8091"`
	NetworkMode string `env:"GRPC_NETWORK_MODE" envDefault:"tcp"`
}

// KafkaCfg — публикация событий склада. По умолчанию выключена.
type KafkaCfg struct {
	Enabled           bool          `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers           []string      `env:"KAFKA_BROKERS" envSeparator:","`
	Topic             string        `env:"KAFKA_TOPIC" envDefault:"inventory-events"`
	NetworkMode       string        `env:"KAFKA_NETWORK_MODE" envDefault:"tcp"`
	Partitions        int           `env:"KAFKA_PARTITIONS" envDefault:"3"`
	ReplicationFactor int           `env:"REPLICATION_FACTOR" envDefault:"1"`
	OutboxSize        int           `env:"KAFKA_OUTBOX_SIZE" envDefault:"256"`   // ёмкость очереди событий в памяти
	MaxRetries        int           `env:"KAFKA_MAX_RETRIES" envDefault:"3"`     // повторы при временных ошибках брокера
	TopicTimeout      time.Duration `env:"KAFKA_TOPIC_TIMEOUT" envDefault:"10s"` // таймаут создания топика
}

type LedgerCfg struct {
	Seed bool `env:"LEDGER_SEED" envDefault:"true"` // заполнять склад начальным списком товаров
}

// Load загружает конфигурацию из переменных окружения и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	return load(log, env.Options{})
}

func load(log logger.Logger, opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		log.Errorf(err, "failed to parse environment")
		return nil, e.Wrap(whereami.WhereAmI(), e.Join(e.ErrIncorrectEnvVariable, err))
	}

	cfg.Kafka.Brokers = cleanList(cfg.Kafka.Brokers)

	if err := cfg.validate(); err != nil {
		log.Errorf(err, "invalid configuration")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Http.Port) == "" {
		return fmt.Errorf("HTTP_PORT: %w", e.ErrIncorrectEnvVariable)
	}

	if strings.TrimSpace(c.Grpc.Port) == "" {
		return fmt.Errorf("GRPC_PORT: %w", e.ErrIncorrectEnvVariable)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", e.ErrIncorrectEnvVariable)
	}

	if !c.Kafka.Enabled {
		return nil
	}

	if len(c.Kafka.Brokers) == 0 {
		return e.ErrKafkaBrokersRequired
	}

	if c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC: %w", e.ErrIncorrectEnvVariable)
	}

	if c.Kafka.OutboxSize <= 0 || c.Kafka.MaxRetries < 0 {
		return fmt.Errorf("KAFKA_OUTBOX_SIZE/KAFKA_MAX_RETRIES: %w", e.ErrIncorrectEnvVariable)
	}

	return nil
}

// cleanList убирает пробелы и пустые элементы из списка адресов.
func cleanList(items []string) []string {
	res := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			res = append(res, it)
		}
	}

	return res
}
