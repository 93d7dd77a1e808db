package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
)

func TestXlsxExporter(t *testing.T) {
	t.Run("Export записывает заголовки и данные на лист", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "messages.xlsx")
		exporter := NewXlsxExporter(path)

		table := domain.NewTable(domain.FieldSpec{"id", "text", "from"})
		table.Append(domain.Row{float64(1), "hello", "John"})
		table.Append(domain.Row{float64(2), "hi", nil})

		require.NoError(t, exporter.Export(table))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		header, err := f.GetCellValue(sheetName, "B1")
		require.NoError(t, err)
		assert.Equal(t, "text", header)

		cell, err := f.GetCellValue(sheetName, "B2")
		require.NoError(t, err)
		assert.Equal(t, "hello", cell)

		// Пропущенное поле — пустая ячейка
		missing, err := f.GetCellValue(sheetName, "C3")
		require.NoError(t, err)
		assert.Equal(t, "", missing)
	})

	t.Run("Export пустой таблицы оставляет только заголовки", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.xlsx")
		exporter := NewXlsxExporter(path)

		table := domain.NewTable(domain.FieldSpec{"id"})
		require.NoError(t, exporter.Export(table))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows(sheetName)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}
