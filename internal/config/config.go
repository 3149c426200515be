package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	GRPC     GRPCConfig
	HTTP     HTTPConfig
	Journal  JournalConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Log      LogConfig
}

type AppConfig struct {
	Name    string
	Env     string
	Version string
}

type GRPCConfig struct {
	Port       int
	Reflection bool
}

type HTTPConfig struct {
	Port int
	// адрес gRPC сервера, к которому проксирует gateway
	GRPCTarget string `mapstructure:"grpc_target"`
}

// JournalConfig - журнал вызовов. Driver: memory, postgres или mongo.
type JournalConfig struct {
	Enabled  bool
	Driver   string
	Capacity int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

type MongoConfig struct {
	URI         string
	Database    string
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
	Timeout     time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

const EnvPrefix = "GREETER"

// LoadConfig читает config.yaml из path (если он есть) и переменные окружения GREETER_*
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "greeter")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("grpc.port", 50051)
	v.SetDefault("grpc.reflection", true)
	v.SetDefault("http.port", 8888)
	v.SetDefault("http.grpc_target", "localhost:50051")
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.driver", "memory")
	v.SetDefault("journal.capacity", 1000)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "greeter")
	v.SetDefault("postgres.password", "password")
	v.SetDefault("postgres.name", "greeter")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.max_idle", 5)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "greeter")
	v.SetDefault("mongo.max_pool_size", 20)
	v.SetDefault("mongo.min_pool_size", 0)
	v.SetDefault("mongo.timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate проверяет значения, которые viper не может проверить сам
func (c *Config) Validate() error {
	if c.GRPC.Port <= 0 || c.GRPC.Port > 65535 {
		return fmt.Errorf("invalid grpc.port: %d", c.GRPC.Port)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http.port: %d", c.HTTP.Port)
	}
	switch c.Journal.Driver {
	case "memory", "postgres", "mongo":
	default:
		return fmt.Errorf("invalid journal.driver: %q", c.Journal.Driver)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log.format: %q", c.Log.Format)
	}
	return nil
}

func (c *Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPC.Port)
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}
