package ports

import (
	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
)

// DataSource определяет интерфейс для получения исходных данных выгрузки.
type DataSource interface {
	// Fetch загружает данные из источника и возвращает их в виде байтового среза.
	Fetch() ([]byte, error)
}

// Parser определяет интерфейс для разбора данных выгрузки.
type Parser interface {
	// Parse преобразует сырые данные в структурированную модель выгрузки.
	// Возвращает ошибку, если данные не содержат списка сообщений
	// ни в формате полного takeout, ни в формате экспорта одного чата.
	Parse(data []byte) (*domain.Takeout, error)
}

// Flattener определяет интерфейс для разворачивания сообщений в таблицу.
type Flattener interface {
	// Flatten строит таблицу по одному чату: одна строка на сообщение,
	// колонки — точно в порядке fields.
	Flatten(doc *domain.ExportDocument, fields domain.FieldSpec) (*domain.Table, error)

	// FlattenTakeout строит единую таблицу по всем чатам выгрузки,
	// ограничиваясь чатами перечисленных типов (пустой список — без фильтра).
	FlattenTakeout(t *domain.Takeout, fields domain.FieldSpec, chatTypes []string) (*domain.Table, error)
}

// Exporter определяет интерфейс для вывода итоговой таблицы.
type Exporter interface {
	// Export записывает таблицу в целевой формат.
	Export(table *domain.Table) error
}
