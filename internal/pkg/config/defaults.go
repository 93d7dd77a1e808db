package config

import "time"

// Значения конфигурации по умолчанию.
const (
	// Server defaults
	DefaultServerHost             = "0.0.0.0"
	DefaultServerPort             = 8080
	DefaultShutdownTimeoutSeconds = 15
	DefaultMaxUploadSizeMB        = 50

	// Processing defaults
	DefaultTaskTimeoutSeconds = 600
	DefaultCacheTTLMinutes    = 60
	DefaultCleanupInterval    = 1 * time.Hour
	DefaultTaskTTL            = 24 * time.Hour

	// Output defaults
	DefaultOutputFormat = "csv"
	DefaultOutputPath   = "messages.csv"

	// Stats defaults
	DefaultStatsFreq = "month"

	// Logging defaults
	DefaultLogLevel = "info"
)

// DefaultColumns — набор колонок по умолчанию: метаданные чата плюс
// поля сообщения, достаточные для статистики активности.
var DefaultColumns = []string{
	"chat_id",
	"chat_name",
	"chat_type",
	"id",
	"date",
	"type",
	"from_id",
	"text",
	"forwarded_from",
	"media_type",
	"duration_seconds",
	"file",
}

// DefaultChatTypes — типы чатов, попадающие в таблицу по умолчанию.
var DefaultChatTypes = []string{"private_group", "personal_chat"}
