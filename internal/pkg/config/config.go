// Package config предоставляет управление конфигурацией приложения
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Server содержит конфигурацию HTTP-сервера
type Server struct {
	Host                   string `json:"host" yaml:"host"`
	Port                   int    `json:"port" yaml:"port"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
	MaxUploadSizeMB        int    `json:"max_upload_size_mb" yaml:"max_upload_size_mb"`
}

// Flatten содержит конфигурацию разворачивания сообщений в таблицу
type Flatten struct {
	// Columns — упорядоченный список идентификаторов полей.
	// Допустимы пути через точку (poll.question) и метаданные чата
	// (chat_name, chat_id, chat_type).
	Columns []string `json:"columns" yaml:"columns"`
	// ChatTypes ограничивает набор чатов при обработке полного takeout.
	ChatTypes []string `json:"chat_types" yaml:"chat_types"`

	// Флаги отключают нормализацию; по умолчанию текст склеивается
	// в строку, ссылки заменяются заполнителем, префикс "user"
	// у from_id убирается.
	KeepRawText    bool `json:"keep_raw_text" yaml:"keep_raw_text"`
	KeepLinks      bool `json:"keep_links" yaml:"keep_links"`
	KeepFromPrefix bool `json:"keep_from_prefix" yaml:"keep_from_prefix"`
}

// Output содержит конфигурацию вывода результата
type Output struct {
	Format string `json:"format" yaml:"format"` // csv, xlsx, console
	Path   string `json:"path" yaml:"path"`
}

// Stats содержит конфигурацию агрегации статистики
type Stats struct {
	Freq             string `json:"freq" yaml:"freq"` // day, month, year
	ExcludeForwarded bool   `json:"exclude_forwarded" yaml:"exclude_forwarded"`
}

// Processing содержит конфигурацию обработки задач сервера
type Processing struct {
	TaskTimeoutSeconds int `json:"task_timeout_seconds" yaml:"task_timeout_seconds"` // 0 - без ограничений
	CacheTTLMinutes    int `json:"cache_ttl_minutes" yaml:"cache_ttl_minutes"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// Config содержит конфигурацию приложения
type Config struct {
	Server     Server     `json:"server" yaml:"server"`
	Flatten    Flatten    `json:"flatten" yaml:"flatten"`
	Output     Output     `json:"output" yaml:"output"`
	Stats      Stats      `json:"stats" yaml:"stats"`
	Processing Processing `json:"processing" yaml:"processing"`
	Logging    Logging    `json:"logging" yaml:"logging"`
}

// LoadConfig загружает конфигурацию приложения из config.yml,
// переменных окружения или .env файла.
func LoadConfig() (*Config, error) {
	return LoadConfigFile("config.yml")
}

// LoadConfigFile загружает конфигурацию из указанного YAML-файла с
// откатом на переменные окружения, если файла нет.
func LoadConfigFile(filename string) (*Config, error) {
	// Загрузка переменных окружения из .env файла, если он существует
	if err := godotenv.Load(); err != nil {
		// Отсутствие .env — это нормально, полагаемся на окружение или YAML
	}

	cfg, err := loadFromYAML(filename)
	if err != nil {
		// Если YAML недоступен, собираем конфигурацию из окружения
		cfg, err = loadFromEnv()
		if err != nil {
			return nil, fmt.Errorf("не удалось загрузить конфигурацию из env: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// loadFromYAML загружает конфигурацию из YAML-файла
func loadFromYAML(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}

	return &cfg, nil
}

// loadFromEnv загружает конфигурацию из переменных окружения
func loadFromEnv() (*Config, error) {
	portStr := getEnv("SERVER_PORT", strconv.Itoa(DefaultServerPort))
	taskTimeoutStr := getEnv("TASK_TIMEOUT_SECONDS", strconv.Itoa(DefaultTaskTimeoutSeconds))
	cacheTTLStr := getEnv("CACHE_TTL_MINUTES", strconv.Itoa(DefaultCacheTTLMinutes))

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый SERVER_PORT: %w", err)
	}

	taskTimeout, err := strconv.Atoi(taskTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый TASK_TIMEOUT_SECONDS: %w", err)
	}

	cacheTTL, err := strconv.Atoi(cacheTTLStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый CACHE_TTL_MINUTES: %w", err)
	}

	cfg := &Config{
		Server: Server{
			Host: getEnv("SERVER_HOST", DefaultServerHost),
			Port: port,
		},
		Output: Output{
			Format: getEnv("OUTPUT_FORMAT", DefaultOutputFormat),
			Path:   getEnv("OUTPUT_PATH", DefaultOutputPath),
		},
		Processing: Processing{
			TaskTimeoutSeconds: taskTimeout,
			CacheTTLMinutes:    cacheTTL,
		},
		Logging: Logging{
			Level: getEnv("LOG_LEVEL", DefaultLogLevel),
		},
	}

	if columns := getEnv("COLUMNS", ""); columns != "" {
		cfg.Flatten.Columns = splitList(columns)
	}
	if chatTypes := getEnv("CHAT_TYPES", ""); chatTypes != "" {
		cfg.Flatten.ChatTypes = splitList(chatTypes)
	}

	return cfg, nil
}

// applyDefaults заполняет не заданные явно поля значениями по умолчанию.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = DefaultShutdownTimeoutSeconds
	}
	if c.Server.MaxUploadSizeMB == 0 {
		c.Server.MaxUploadSizeMB = DefaultMaxUploadSizeMB
	}
	if len(c.Flatten.Columns) == 0 {
		c.Flatten.Columns = append([]string{}, DefaultColumns...)
	}
	if len(c.Flatten.ChatTypes) == 0 {
		c.Flatten.ChatTypes = append([]string{}, DefaultChatTypes...)
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultOutputFormat
	}
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}
	if c.Stats.Freq == "" {
		c.Stats.Freq = DefaultStatsFreq
	}
	if c.Processing.CacheTTLMinutes == 0 {
		c.Processing.CacheTTLMinutes = DefaultCacheTTLMinutes
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// Address возвращает адрес сервера в формате "host:port"
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// CacheTTL возвращает срок жизни кэша как Duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Processing.CacheTTLMinutes) * time.Minute
}

// TaskTimeout возвращает таймаут задачи как Duration; 0 — без ограничений.
func (c *Config) TaskTimeout() time.Duration {
	return time.Duration(c.Processing.TaskTimeoutSeconds) * time.Second
}

// ShutdownTimeout возвращает таймаут остановки сервера как Duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if len(c.Flatten.Columns) == 0 {
		return fmt.Errorf("flatten.columns не может быть пустым")
	}
	for i, col := range c.Flatten.Columns {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("flatten.columns[%d] не может быть пустым", i)
		}
	}

	switch c.Output.Format {
	case "csv", "xlsx", "console":
		// all good
	default:
		return fmt.Errorf("output.format должен быть одним из: csv, xlsx, console")
	}

	if c.Output.Format != "console" && c.Output.Path == "" {
		return fmt.Errorf("output.path не может быть пустым для формата %s", c.Output.Format)
	}

	switch c.Stats.Freq {
	case "day", "month", "year":
		// all good
	default:
		return fmt.Errorf("stats.freq должен быть одним из: day, month, year")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port должен быть действительным номером порта (1-65535)")
	}

	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("server.shutdown_timeout_seconds должно быть положительным")
	}

	if c.Server.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("server.max_upload_size_mb должно быть положительным")
	}

	if c.Processing.TaskTimeoutSeconds < 0 {
		return fmt.Errorf("processing.task_timeout_seconds должно быть неотрицательным (0 для отсутствия ограничений)")
	}

	if c.Processing.CacheTTLMinutes <= 0 {
		return fmt.Errorf("processing.cache_ttl_minutes должно быть положительным целым числом")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level должен быть одним из: debug, info, warn, error")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию, если она не установлена
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList разбирает список значений, разделенных запятыми.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
