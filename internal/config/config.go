package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultPath путь к конфигу, если CONFIG_PATH не задан
const DefaultPath = "config.toml"

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	Redis      RedisConfig      `toml:"redis"`
	Kafka      KafkaConfig      `toml:"kafka"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig подключение к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig параметры логгера
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SchedulingConfig параметры расписания
type SchedulingConfig struct {
	OpeningHour        int    `toml:"opening_hour"`
	ClosingHour        int    `toml:"closing_hour"`
	SlotStepMinutes    int    `toml:"slot_step_minutes"`
	Location           string `toml:"location"` // IANA, например "America/Sao_Paulo"
	HardDeleteOnCancel bool   `toml:"hard_delete_on_cancel"`
	DefaultPageSize    int    `toml:"default_page_size"`
	MaxPageSize        int    `toml:"max_page_size"`
}

// LoadLocation часовой пояс, по которому читается "сейчас"
func (c SchedulingConfig) LoadLocation() (*time.Location, error) {
	if c.Location == "" || c.Location == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Location)
}

// RedisConfig блокировка слотов; пустой addr отключает блокировку
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	LockTTLSec int    `toml:"lock_ttl"`
}

// LockTTL время жизни блокировки слота
func (c RedisConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSec) * time.Second
}

// KafkaConfig публикация событий
type KafkaConfig struct {
	Enabled         bool   `toml:"enabled"`
	Brokers         string `toml:"brokers"` // через запятую
	Topic           string `toml:"topic"`
	WriteTimeout    int    `toml:"write_timeout"`     // секунды
	BatchTimeoutMs  int    `toml:"batch_timeout_ms"`  // ожидание добора пачки writer'ом
	OutboxPollMs    int    `toml:"outbox_poll_ms"`    // период опроса outbox
	OutboxBatchSize int    `toml:"outbox_batch_size"` // событий за один проход relay
}

// BatchTimeout ожидание добора пачки в kafka.Writer
func (c KafkaConfig) BatchTimeout() time.Duration {
	return time.Duration(c.BatchTimeoutMs) * time.Millisecond
}

// PollInterval период опроса outbox
func (c KafkaConfig) PollInterval() time.Duration {
	return time.Duration(c.OutboxPollMs) * time.Millisecond
}

// Load читает .env (если есть), затем TOML и переопределения из окружения
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "scheduling_service",
		},
		Scheduling: SchedulingConfig{
			OpeningHour:     8,
			ClosingHour:     18,
			SlotStepMinutes: 30,
			Location:        "Local",
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Redis: RedisConfig{
			Addr:       "127.0.0.1:6379",
			LockTTLSec: 5,
		},
		Kafka: KafkaConfig{
			Topic:           "appointments.events",
			WriteTimeout:    5,
			BatchTimeoutMs:  10,
			OutboxPollMs:    500,
			OutboxBatchSize: 100,
		},
	}
}

// applyEnv секреты и адреса из окружения имеют приоритет над файлом
func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DB_PORT=%q", ErrInvalidConfig, v)
		}
		c.Database.Port = port
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = v
	}
	return nil
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port %d is out of range", c.Server.HTTPPort))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}

	s := c.Scheduling
	if s.OpeningHour < 0 || s.ClosingHour > 24 || s.ClosingHour <= s.OpeningHour {
		errs = append(errs, fmt.Errorf("scheduling: invalid working window %d-%d", s.OpeningHour, s.ClosingHour))
	}
	if s.SlotStepMinutes <= 0 || 60%s.SlotStepMinutes != 0 {
		errs = append(errs, fmt.Errorf("scheduling.slot_step_minutes must divide 60, got %d", s.SlotStepMinutes))
	}
	if _, err := s.LoadLocation(); err != nil {
		errs = append(errs, fmt.Errorf("scheduling.location: %v", err))
	}
	if s.DefaultPageSize <= 0 || s.MaxPageSize < s.DefaultPageSize {
		errs = append(errs, fmt.Errorf("scheduling: page sizes %d/%d are inconsistent", s.DefaultPageSize, s.MaxPageSize))
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if c.Kafka.Enabled && (c.Kafka.Brokers == "" || c.Kafka.Topic == "") {
		errs = append(errs, errors.New("kafka.brokers and kafka.topic are required when kafka is enabled"))
	}
	if c.Kafka.Enabled && (c.Kafka.BatchTimeoutMs <= 0 || c.Kafka.OutboxPollMs <= 0 || c.Kafka.OutboxBatchSize <= 0) {
		errs = append(errs, fmt.Errorf("kafka: batch_timeout_ms %d, outbox_poll_ms %d and outbox_batch_size %d must be positive",
			c.Kafka.BatchTimeoutMs, c.Kafka.OutboxPollMs, c.Kafka.OutboxBatchSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
