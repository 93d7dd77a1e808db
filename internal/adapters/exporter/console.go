package exporter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
	"github.com/ulyantsev/tg-takeout-parser/internal/ports"
)

// maxColumnWidth ограничивает ширину колонки при выводе в консоль,
// чтобы длинные тексты сообщений не разваливали таблицу.
const maxColumnWidth = 40

// ConsoleExporter реализует интерфейс Exporter для вывода таблицы в консоль.
type ConsoleExporter struct{}

// NewConsoleExporter создает новый экземпляр ConsoleExporter.
func NewConsoleExporter() ports.Exporter {
	return &ConsoleExporter{}
}

// Export печатает таблицу с выровненными колонками.
func (e *ConsoleExporter) Export(table *domain.Table) error {
	if len(table.Rows) == 0 {
		fmt.Println("No messages found.")
		return nil
	}

	widths := columnWidths(table)

	printRow := func(cells []string) {
		var sb strings.Builder
		for i, cell := range cells {
			cell = runewidth.Truncate(cell, widths[i], "…")
			sb.WriteString("| ")
			sb.WriteString(cell)
			sb.WriteString(generatePadding(cell, widths[i]))
			sb.WriteString(" ")
		}
		sb.WriteString("|")
		fmt.Println(sb.String())
	}

	printRow(table.Columns)
	for _, row := range table.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		printRow(cells)
	}
	fmt.Printf("%d rows\n", len(table.Rows))
	return nil
}

// columnWidths вычисляет ширину каждой колонки по самому широкому
// значению с учетом отображаемой ширины символов.
func columnWidths(table *domain.Table) []int {
	widths := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = runewidth.StringWidth(col)
	}
	for _, row := range table.Rows {
		for i, v := range row {
			if w := runewidth.StringWidth(formatCell(v)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
	}
	return widths
}

// generatePadding добивает строку пробелами до ширины колонки.
func generatePadding(s string, colWidth int) string {
	paddingNeeded := colWidth - runewidth.StringWidth(s)
	if paddingNeeded > 0 {
		return strings.Repeat(" ", paddingNeeded)
	}
	return ""
}
