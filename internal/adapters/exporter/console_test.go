package exporter

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
)

func TestConsoleExporter(t *testing.T) {
	t.Run("NewConsoleExporter создает корректный экземпляр", func(t *testing.T) {
		exporter := NewConsoleExporter()
		if exporter == nil {
			t.Error("Ожидался экземпляр ConsoleExporter, получен nil")
		}
	})

	t.Run("Export выводит выровненную таблицу", func(t *testing.T) {
		// Перехватываем stdout
		old := os.Stdout
		r, w, _ := os.Pipe()
		os.Stdout = w

		exporter := &ConsoleExporter{}
		table := domain.NewTable(domain.FieldSpec{"id", "text", "from"})
		table.Append(domain.Row{float64(1), "hello", "John Doe"})
		table.Append(domain.Row{float64(2), "hi", nil})

		err := exporter.Export(table)

		w.Close()
		os.Stdout = old

		if err != nil {
			t.Errorf("Неожиданная ошибка: %v", err)
		}

		var buf bytes.Buffer
		buf.ReadFrom(r)
		output := buf.String()

		if !strings.Contains(output, "id") || !strings.Contains(output, "text") {
			t.Error("Ожидался заголовок с именами колонок")
		}
		if !strings.Contains(output, "John Doe") {
			t.Error("Ожидалось значение 'John Doe' в выводе")
		}
		if !strings.Contains(output, "2 rows") {
			t.Error("Ожидался итоговый счетчик строк")
		}
	})

	t.Run("Export пустой таблицы сообщает об отсутствии сообщений", func(t *testing.T) {
		old := os.Stdout
		r, w, _ := os.Pipe()
		os.Stdout = w

		exporter := &ConsoleExporter{}
		table := domain.NewTable(domain.FieldSpec{"id"})

		err := exporter.Export(table)

		w.Close()
		os.Stdout = old

		if err != nil {
			t.Errorf("Неожиданная ошибка: %v", err)
		}

		var buf bytes.Buffer
		buf.ReadFrom(r)
		if !strings.Contains(buf.String(), "No messages found.") {
			t.Error("Ожидалось сообщение об отсутствии строк")
		}
	})

	t.Run("Длинные значения усекаются до ширины колонки", func(t *testing.T) {
		table := domain.NewTable(domain.FieldSpec{"text"})
		table.Append(domain.Row{strings.Repeat("a", 100)})

		widths := columnWidths(table)
		if widths[0] != maxColumnWidth {
			t.Errorf("Ожидалась ширина %d, получено %d", maxColumnWidth, widths[0])
		}
	})
}
