package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ulyantsev/tg-takeout-parser/internal/adapters/parser"
	"github.com/ulyantsev/tg-takeout-parser/internal/cache"
	"github.com/ulyantsev/tg-takeout-parser/internal/core/services"
	"github.com/ulyantsev/tg-takeout-parser/internal/server/usecase"
)

var (
	flattenColumns   []string
	flattenChatTypes []string
	flattenFormat    string
	flattenOutput    string
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <result.json>",
	Short: "Строит плоскую таблицу сообщений из файла выгрузки",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Флаги командной строки перекрывают конфигурацию
		if len(flattenColumns) > 0 {
			cfg.Flatten.Columns = flattenColumns
		}
		if len(flattenChatTypes) > 0 {
			cfg.Flatten.ChatTypes = flattenChatTypes
		}
		if flattenFormat != "" {
			cfg.Output.Format = flattenFormat
		}
		if flattenOutput != "" {
			cfg.Output.Path = flattenOutput
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}

		normalizer := services.NewNormalizeService(!cfg.Flatten.KeepLinks, !cfg.Flatten.KeepFromPrefix)
		uc := usecase.NewProcessTakeoutUseCase(
			cfg,
			parser.NewJsonParser(),
			services.NewFlattenService(),
			normalizer,
			cache.NewCacheStore(),
		)

		table, err := uc.ProcessTakeout(context.Background(), args[0])
		if err != nil {
			return err
		}

		exp, err := newExporter(cfg.Output.Format, cfg.Output.Path)
		if err != nil {
			return err
		}
		if err := exp.Export(table); err != nil {
			return fmt.Errorf("не удалось экспортировать таблицу: %w", err)
		}

		if cfg.Output.Format != "console" {
			slog.Info("Таблица сохранена", "path", cfg.Output.Path, "rows", len(table.Rows))
		}
		return nil
	},
}

func init() {
	flattenCmd.Flags().StringSliceVar(&flattenColumns, "columns", nil, "список колонок через запятую (перекрывает конфигурацию)")
	flattenCmd.Flags().StringSliceVar(&flattenChatTypes, "chat-types", nil, "типы чатов для включения в таблицу")
	flattenCmd.Flags().StringVarP(&flattenFormat, "format", "f", "", "формат вывода: csv, xlsx, console")
	flattenCmd.Flags().StringVarP(&flattenOutput, "output", "o", "", "путь к файлу результата")
	rootCmd.AddCommand(flattenCmd)
}
