package domain

import (
	"reflect"
	"testing"
)

func TestTable(t *testing.T) {
	t.Run("NewTable копирует спецификацию колонок", func(t *testing.T) {
		spec := FieldSpec{"id", "text"}
		table := NewTable(spec)

		spec[0] = "changed"
		if table.Columns[0] != "id" {
			t.Error("Таблица не должна зависеть от изменений спецификации")
		}
	})

	t.Run("Append сохраняет порядок строк", func(t *testing.T) {
		table := NewTable(FieldSpec{"id"})
		table.Append(Row{1})
		table.Append(Row{2})

		if !reflect.DeepEqual(table.Rows, []Row{{1}, {2}}) {
			t.Errorf("Ожидался порядок [[1] [2]], получено %v", table.Rows)
		}
	})

	t.Run("ColumnIndex находит колонку", func(t *testing.T) {
		table := NewTable(FieldSpec{"id", "poll.question"})

		if idx := table.ColumnIndex("poll.question"); idx != 1 {
			t.Errorf("Ожидался индекс 1, получено %d", idx)
		}
		if idx := table.ColumnIndex("missing"); idx != -1 {
			t.Errorf("Ожидался индекс -1, получено %d", idx)
		}
	})

	t.Run("Value возвращает сентинел для недоступных ячеек", func(t *testing.T) {
		table := NewTable(FieldSpec{"id"})
		table.Append(Row{1})

		if v := table.Value(0, "id"); v != 1 {
			t.Errorf("Ожидалось 1, получено %v", v)
		}
		if !IsMissing(table.Value(0, "missing")) {
			t.Error("Ожидался сентинел для несуществующей колонки")
		}
		if !IsMissing(table.Value(5, "id")) {
			t.Error("Ожидался сентинел для несуществующей строки")
		}
	})
}

func TestIsMissing(t *testing.T) {
	if !IsMissing(nil) {
		t.Error("nil должен распознаваться как пропуск")
	}
	if IsMissing("") {
		t.Error("Пустая строка — это значение, а не пропуск")
	}
	if IsMissing(0) {
		t.Error("Ноль — это значение, а не пропуск")
	}
}
