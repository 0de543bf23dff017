package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/pkg/types"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Redis          RedisConfig          `toml:"redis"`
	Kafka          KafkaConfig          `toml:"kafka"`
	AgentDirectory AgentDirectoryConfig `toml:"agent_directory"`
	DistanceMatrix DistanceMatrixConfig `toml:"distance_matrix"`
	Scoring        ScoringConfig        `toml:"scoring"`
	Approval       ApprovalConfig       `toml:"approval"`
	Routing        RoutingConfig        `toml:"routing"`
	Reminders      RemindersConfig      `toml:"reminders"`
	Dispatch       DispatchConfig       `toml:"dispatch"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

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

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig кэш маршрутов; пустой addr отключает кэш
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	RouteTTL int    `toml:"route_ttl"` // секунды
}

// KafkaConfig очередь напоминаний для диспетчера уведомлений
type KafkaConfig struct {
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	WriteTimeout int      `toml:"write_timeout"` // секунды
}

type AgentDirectoryConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// DistanceMatrixConfig внешний провайдер матрицы расстояний; пустой url - только haversine
type DistanceMatrixConfig struct {
	URL               string  `toml:"url"`
	APIKey            string  `toml:"api_key"`
	Timeout           int     `toml:"timeout"` // секунды
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// ScoringConfig баллы категорий priority score
type ScoringConfig struct {
	PropertyValueMax int `toml:"property_value_max"`
	ComplexityMax    int `toml:"complexity_max"`
	AgentTierMax     int `toml:"agent_tier_max"`
	FlexibilityMax   int `toml:"flexibility_max"`
	LeadTimeMax      int `toml:"lead_time_max"`

	PropertyValuePoints map[string]int `toml:"property_value_points"`
	ComplexityPoints    map[string]int `toml:"complexity_points"`
	AgentTierPoints     map[string]int `toml:"agent_tier_points"`
	DurationMinutes     map[string]int `toml:"duration_minutes"`

	LeadTimePlateauDays int `toml:"lead_time_plateau_days"`
}

type ApprovalConfig struct {
	AutoApprovalThreshold  int `toml:"auto_approval_threshold"`
	ManagerReviewThreshold int `toml:"manager_review_threshold"`
}

type RoutingConfig struct {
	MinutesPerMile      float64 `toml:"minutes_per_mile"`
	MaxTwoOptIterations int     `toml:"max_two_opt_iterations"`
}

// RemindersConfig offsets в формате time.ParseDuration ("168h", "2h")
type RemindersConfig struct {
	Offsets          []string `toml:"offsets"`
	DefaultStartTime string   `toml:"default_start_time"`
	Timezone         string   `toml:"timezone"`
}

// DispatchConfig периодическая выгрузка наступивших напоминаний
type DispatchConfig struct {
	Enabled   bool `toml:"enabled"`
	Interval  int  `toml:"interval"` // секунды
	BatchSize int  `toml:"batch_size"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переменные окружения, затем валидирует
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	engine := domain.DefaultEngineSettings()

	offsets := make([]string, 0, len(engine.Reminders.Offsets))
	for _, off := range engine.Reminders.Offsets {
		offsets = append(offsets, off.String())
	}

	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "video_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "video_booking_service",
		},
		Redis: RedisConfig{RouteTTL: 3600},
		Kafka: KafkaConfig{
			Topic:        "booking-reminders",
			WriteTimeout: 10,
		},
		AgentDirectory: AgentDirectoryConfig{Timeout: 5},
		DistanceMatrix: DistanceMatrixConfig{
			Timeout:           5,
			RequestsPerSecond: 5,
			Burst:             1,
		},
		Scoring: ScoringConfig{
			PropertyValueMax:    engine.Scoring.PropertyValueMax,
			ComplexityMax:       engine.Scoring.ComplexityMax,
			AgentTierMax:        engine.Scoring.AgentTierMax,
			FlexibilityMax:      engine.Scoring.FlexibilityMax,
			LeadTimeMax:         engine.Scoring.LeadTimeMax,
			PropertyValuePoints: stringKeys(engine.Scoring.PropertyValuePoints),
			ComplexityPoints:    stringKeys(engine.Scoring.ComplexityPoints),
			AgentTierPoints:     stringKeys(engine.Scoring.AgentTierPoints),
			DurationMinutes:     stringKeys(engine.Scoring.DurationMinutes),
			LeadTimePlateauDays: engine.Scoring.LeadTimePlateauDays,
		},
		Approval: ApprovalConfig{
			AutoApprovalThreshold:  engine.Approval.AutoApprovalThreshold,
			ManagerReviewThreshold: engine.Approval.ManagerReviewThreshold,
		},
		Routing: RoutingConfig{
			MinutesPerMile:      engine.Routing.MinutesPerMile,
			MaxTwoOptIterations: engine.Routing.MaxTwoOptIterations,
		},
		Reminders: RemindersConfig{
			Offsets:          offsets,
			DefaultStartTime: domain.DefaultReminderStartTime,
			Timezone:         "UTC",
		},
		Dispatch: DispatchConfig{
			Enabled:   true,
			Interval:  60,
			BatchSize: 100,
		},
	}
}

// applyEnv переопределяет секреты из окружения
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok && v != "" {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("DB_HOST"); ok && v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok && v != "" {
		c.Redis.Password = v
	}
	if v, ok := os.LookupEnv("DISTANCE_MATRIX_API_KEY"); ok && v != "" {
		c.DistanceMatrix.APIKey = v
	}
}

// Validate проверяет конфигурацию, включая настройки движка
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.AgentDirectory.URL == "" {
		return fmt.Errorf("%w: agent_directory.url is required", ErrInvalidConfig)
	}
	if c.DistanceMatrix.URL != "" && c.DistanceMatrix.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: distance_matrix.requests_per_second must be positive", ErrInvalidConfig)
	}
	if c.Dispatch.Enabled {
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return fmt.Errorf("%w: kafka.brokers and kafka.topic are required when dispatch is enabled", ErrInvalidConfig)
		}
		if c.Dispatch.Interval <= 0 || c.Dispatch.BatchSize <= 0 {
			return fmt.Errorf("%w: dispatch.interval and dispatch.batch_size must be positive", ErrInvalidConfig)
		}
	}

	if _, err := c.Engine(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Engine собирает настройки движка из конфигурации
func (c *Config) Engine() (domain.EngineSettings, error) {
	loc, err := time.LoadLocation(c.Reminders.Timezone)
	if err != nil {
		return domain.EngineSettings{}, fmt.Errorf("reminders.timezone: %w", err)
	}

	offsets := make([]time.Duration, 0, len(c.Reminders.Offsets))
	for _, raw := range c.Reminders.Offsets {
		off, err := time.ParseDuration(raw)
		if err != nil {
			return domain.EngineSettings{}, fmt.Errorf("reminders.offsets: %w", err)
		}
		offsets = append(offsets, off)
	}

	start, err := types.NewTimeStringFromString(c.Reminders.DefaultStartTime)
	if err != nil {
		return domain.EngineSettings{}, fmt.Errorf("reminders.default_start_time: %w", err)
	}

	settings := domain.EngineSettings{
		Scoring: domain.ScoringSettings{
			PropertyValueMax:    c.Scoring.PropertyValueMax,
			ComplexityMax:       c.Scoring.ComplexityMax,
			AgentTierMax:        c.Scoring.AgentTierMax,
			FlexibilityMax:      c.Scoring.FlexibilityMax,
			LeadTimeMax:         c.Scoring.LeadTimeMax,
			PropertyValuePoints: typedKeys[domain.PropertyValueTier](c.Scoring.PropertyValuePoints),
			ComplexityPoints:    typedKeys[domain.ShootComplexity](c.Scoring.ComplexityPoints),
			AgentTierPoints:     typedKeys[domain.AgentTier](c.Scoring.AgentTierPoints),
			DurationMinutes:     typedKeys[domain.ShootComplexity](c.Scoring.DurationMinutes),
			LeadTimePlateauDays: c.Scoring.LeadTimePlateauDays,
		},
		Approval: domain.ApprovalSettings{
			AutoApprovalThreshold:  c.Approval.AutoApprovalThreshold,
			ManagerReviewThreshold: c.Approval.ManagerReviewThreshold,
		},
		Routing: domain.RoutingSettings{
			MinutesPerMile:      c.Routing.MinutesPerMile,
			MaxTwoOptIterations: c.Routing.MaxTwoOptIterations,
		},
		Reminders: domain.ReminderSettings{
			Offsets:          offsets,
			DefaultStartTime: start,
			Location:         loc,
		},
	}

	if err := settings.Validate(); err != nil {
		return domain.EngineSettings{}, err
	}
	return settings, nil
}

func stringKeys[K ~string](in map[K]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}

func typedKeys[K ~string](in map[string]int) map[K]int {
	out := make(map[K]int, len(in))
	for k, v := range in {
		out[K(k)] = v
	}
	return out
}
