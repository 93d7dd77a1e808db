// Package cli содержит команды консольного интерфейса парсера выгрузок.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ulyantsev/tg-takeout-parser/internal/adapters/exporter"
	"github.com/ulyantsev/tg-takeout-parser/internal/pkg/config"
	"github.com/ulyantsev/tg-takeout-parser/internal/ports"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tg-takeout-parser",
	Short: "Разворачивает выгрузку Telegram в плоскую таблицу сообщений",
	Long: `tg-takeout-parser читает JSON-файл выгрузки Telegram (полный takeout
или экспорт одного чата) и строит таблицу: одна строка на сообщение,
колонки — настраиваемый список полей, включая пути через точку
(poll.question) и метаданные чата (chat_name, chat_id, chat_type).

Таблицу можно сохранить в CSV или Excel, вывести в консоль либо
агрегировать в статистику активности по периодам.`,
}

// Execute запускает корневую команду.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yml", "путь к файлу конфигурации")
}

// loadConfig загружает и валидирует конфигурацию, настраивает логгер.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// newExporter выбирает экспортер по формату из конфигурации.
func newExporter(format, path string) (ports.Exporter, error) {
	switch format {
	case "csv":
		return exporter.NewCsvExporter(path), nil
	case "xlsx":
		return exporter.NewXlsxExporter(path), nil
	case "console":
		return exporter.NewConsoleExporter(), nil
	default:
		return nil, fmt.Errorf("неизвестный формат вывода: %q", format)
	}
}
