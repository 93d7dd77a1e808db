package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
	"github.com/ulyantsev/tg-takeout-parser/internal/ports"
)

const sheetName = "Messages"

// XlsxExporter реализует интерфейс Exporter для записи таблицы в Excel-файл.
type XlsxExporter struct {
	filePath string
}

// NewXlsxExporter создает новый экземпляр XlsxExporter.
func NewXlsxExporter(filePath string) ports.Exporter {
	return &XlsxExporter{filePath: filePath}
}

// Export записывает таблицу на лист Messages: первая строка — заголовки,
// дальше по строке на сообщение.
func (e *XlsxExporter) Export(table *domain.Table) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	// Заголовки
	for i, col := range table.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return fmt.Errorf("failed to set header cell: %w", err)
		}
	}

	// Данные
	for r, row := range table.Rows {
		for c, value := range row {
			if domain.IsMissing(value) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(e.filePath); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}
	return nil
}
