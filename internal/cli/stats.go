package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ulyantsev/tg-takeout-parser/internal/adapters/parser"
	"github.com/ulyantsev/tg-takeout-parser/internal/adapters/source"
	"github.com/ulyantsev/tg-takeout-parser/internal/core/services"
	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
)

var (
	statsFreq             string
	statsExcludeForwarded bool
	statsSplit            bool
	statsFormat           string
	statsOutput           string
)

var statsCmd = &cobra.Command{
	Use:   "stats <result.json>",
	Short: "Агрегирует статистику активности по периодам",
	Long: `stats строит по выгрузке таблицу активности: число чатов, сообщений,
символов и секунд медиа за каждый период. С флагом --split статистика
разделяется на отправленные и полученные сообщения по идентификатору
владельца из personal_information (доступно только для полного takeout).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if statsFreq != "" {
			cfg.Stats.Freq = statsFreq
		}
		if cmd.Flags().Changed("exclude-forwarded") {
			cfg.Stats.ExcludeForwarded = statsExcludeForwarded
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}

		data, err := source.NewFileSource(args[0]).Fetch()
		if err != nil {
			return err
		}
		takeout, err := parser.NewJsonParser().Parse(data)
		if err != nil {
			return err
		}

		flattener := services.NewFlattenService()
		table, err := flattener.FlattenTakeout(takeout, cfg.Flatten.Columns, cfg.Flatten.ChatTypes)
		if err != nil {
			return err
		}
		if !cfg.Flatten.KeepRawText {
			services.NewNormalizeService(!cfg.Flatten.KeepLinks, !cfg.Flatten.KeepFromPrefix).Apply(table)
		}

		statsSvc := services.NewStatsService()
		opts := services.StatsOptions{
			Freq:             cfg.Stats.Freq,
			ExcludeForwarded: cfg.Stats.ExcludeForwarded,
		}

		var result *domain.Table
		if statsSplit {
			result, err = statsSvc.SentReceived(table, takeout.OwnerID, opts)
		} else {
			result, err = statsSvc.Aggregate(table, opts)
		}
		if err != nil {
			return err
		}

		format := cfg.Output.Format
		if statsFormat != "" {
			format = statsFormat
		}
		outPath := cfg.Output.Path
		if statsOutput != "" {
			outPath = statsOutput
		}

		exp, err := newExporter(format, outPath)
		if err != nil {
			return err
		}
		return exp.Export(result)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsFreq, "freq", "", "период агрегации: day, month, year")
	statsCmd.Flags().BoolVar(&statsExcludeForwarded, "exclude-forwarded", false, "исключить пересланные сообщения")
	statsCmd.Flags().BoolVar(&statsSplit, "split", false, "разделить статистику на отправленные и полученные")
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "console", "формат вывода: csv, xlsx, console")
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "", "путь к файлу результата")
	rootCmd.AddCommand(statsCmd)
}
