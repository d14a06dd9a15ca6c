// Package config provides configuration structures and validation for the ledger.
// Settings are layered: defaults, then a .env file, then environment variables, then
// command line flags.
package config

import (
	"errors"
	"strings"
	"time"
)

// EnvProduction disables strict invariant checking in the engine
const EnvProduction = "production"

// Config holds the complete application configuration. Optional subsystems carry an
// Enabled switch and are only validated when switched on.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Pipeline    PipelineConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Journal     JournalConfig
	Server      ServerConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// StrictMode reports whether internal-consistency failures should crash the process
func (c ApplicationConfig) StrictMode() bool {
	return c.Env != EnvProduction
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// PipelineConfig sizes the channels between pipeline stages
type PipelineConfig struct {
	SourceBufferSize  int // Raw records waiting for the normalizer
	CommandBufferSize int // Commands waiting for the engine
	RejectionBuffer   int // Rejections waiting for the journal
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	RecordTopic       string // Topic carrying transaction records
	SnapshotTopic     string // Topic receiving final account snapshots, empty disables
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	DLQTopic          string // Topic for malformed records, empty disables
}

// PostgresConfig contains PostgreSQL configuration for the snapshot store
type PostgresConfig struct {
	Enabled         bool
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig contains MongoDB configuration for the rejection journal
type MongoDBConfig struct {
	Enabled         bool
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// JournalConfig contains rejection journal configuration
type JournalConfig struct {
	WorkerPoolSize int
	WriteTimeout   time.Duration
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Enabled         bool
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// validate checks every enabled section and reports all problems at once
func (c *Config) validate() error {
	var validationErrors []string

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, "LOG_LEVEL must be one of debug, info, warn, error")
	}

	if c.Pipeline.SourceBufferSize <= 0 {
		validationErrors = append(validationErrors, "SOURCE_BUFFER_SIZE must be greater than 0")
	}
	if c.Pipeline.CommandBufferSize <= 0 {
		validationErrors = append(validationErrors, "COMMAND_BUFFER_SIZE must be greater than 0")
	}
	if c.Pipeline.RejectionBuffer <= 0 {
		validationErrors = append(validationErrors, "REJECTION_BUFFER_SIZE must be greater than 0")
	}

	if c.Journal.WorkerPoolSize <= 0 {
		validationErrors = append(validationErrors, "JOURNAL_WORKER_POOL_SIZE must be greater than 0")
	}
	if c.Journal.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "JOURNAL_WRITE_TIMEOUT must be greater than 0")
	}

	if c.Kafka.Brokers == "" {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.RecordTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_RECORD_TOPIC is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes < c.Kafka.MinBytes {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must not be less than KAFKA_CONSUMER_MIN_BYTES")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}

	if c.Postgres.Enabled {
		if c.Postgres.URL == "" {
			validationErrors = append(validationErrors, "POSTGRES_URL is required")
		}
		if c.Postgres.MaxConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns < 0 || c.Postgres.MinConns > c.Postgres.MaxConns {
			validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be between 0 and POSTGRES_MAX_CONNS")
		}
		if c.Postgres.MigrationsPath == "" {
			validationErrors = append(validationErrors, "POSTGRES_MIGRATIONS_PATH is required")
		}
	}

	if c.MongoDB.Enabled {
		if c.MongoDB.URI == "" {
			validationErrors = append(validationErrors, "MONGO_URI is required")
		}
		if c.MongoDB.Database == "" {
			validationErrors = append(validationErrors, "MONGO_DATABASE is required")
		}
		if c.MongoDB.Timeout <= 0 {
			validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
		}
	}

	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			validationErrors = append(validationErrors, "SERVER_PORT must be between 1 and 65535")
		}
		if c.Server.ShutdownTimeout <= 0 {
			validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
		}
		if c.Server.ReadTimeout <= 0 {
			validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
		}
		if c.Server.WriteTimeout <= 0 {
			validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
		}
		if c.Server.IdleTimeout <= 0 {
			validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
		}
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}
	return nil
}
