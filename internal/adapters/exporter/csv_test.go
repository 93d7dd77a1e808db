package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
)

func TestCsvExporter(t *testing.T) {
	t.Run("NewCsvExporter создает корректный экземпляр", func(t *testing.T) {
		exporter := NewCsvExporter("out.csv")
		if exporter == nil {
			t.Error("Ожидался экземпляр CsvExporter, получен nil")
		}
	})

	t.Run("Export записывает заголовок и строки", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "messages.csv")
		exporter := NewCsvExporter(path)

		table := domain.NewTable(domain.FieldSpec{"id", "text", "from"})
		table.Append(domain.Row{float64(1), "hello", "John"})
		table.Append(domain.Row{float64(2), "пример текста", nil})

		if err := exporter.Export(table); err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		file, err := os.Open(path)
		if err != nil {
			t.Fatalf("Не удалось открыть результат: %v", err)
		}
		defer file.Close()

		records, err := csv.NewReader(file).ReadAll()
		if err != nil {
			t.Fatalf("Не удалось прочитать CSV: %v", err)
		}

		expected := [][]string{
			{"id", "text", "from"},
			{"1", "hello", "John"},
			{"2", "пример текста", ""},
		}
		if !reflect.DeepEqual(records, expected) {
			t.Errorf("Ожидалось %v, получено %v", expected, records)
		}
	})

	t.Run("Export пустой таблицы дает только заголовок", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.csv")
		exporter := NewCsvExporter(path)

		table := domain.NewTable(domain.FieldSpec{"id", "date"})
		if err := exporter.Export(table); err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}

		file, err := os.Open(path)
		if err != nil {
			t.Fatalf("Не удалось открыть результат: %v", err)
		}
		defer file.Close()

		records, err := csv.NewReader(file).ReadAll()
		if err != nil {
			t.Fatalf("Не удалось прочитать CSV: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("Ожидался только заголовок, получено %d строк", len(records))
		}
	})

	t.Run("Export возвращает ошибку для недоступного пути", func(t *testing.T) {
		exporter := NewCsvExporter(filepath.Join(t.TempDir(), "no_such_dir", "out.csv"))
		table := domain.NewTable(domain.FieldSpec{"id"})

		if err := exporter.Export(table); err == nil {
			t.Error("Ожидалась ошибка для недоступного пути")
		}
	})
}

func TestFormatCell(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{"Сентинел пропуска — пустая ячейка", nil, ""},
		{"Строка", "text", "text"},
		{"Булево значение", true, "true"},
		{"Целое из JSON", float64(42), "42"},
		{"Дробное из JSON", float64(1.5), "1.5"},
		{"Нормализованный идентификатор", int64(12345), "12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatCell(tc.value); got != tc.want {
				t.Errorf("Ожидалось %q, получено %q", tc.want, got)
			}
		})
	}
}
