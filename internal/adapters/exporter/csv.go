package exporter

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
	"github.com/ulyantsev/tg-takeout-parser/internal/ports"
)

// CsvExporter реализует интерфейс Exporter для записи таблицы в CSV-файл.
type CsvExporter struct {
	filePath string
}

// NewCsvExporter создает новый экземпляр CsvExporter.
func NewCsvExporter(filePath string) ports.Exporter {
	return &CsvExporter{filePath: filePath}
}

// Export записывает таблицу в CSV: первой строкой — заголовок с именами
// колонок, затем по строке на сообщение. Пропущенные поля — пустые ячейки.
func (e *CsvExporter) Export(table *domain.Table) error {
	file, err := os.Create(e.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
