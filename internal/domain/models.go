package domain

// MessageEntry представляет одно сообщение из файла экспорта.
// Набор полей зависит от типа сообщения, поэтому структура не фиксирована:
// значения могут быть скалярами, списками или вложенными объектами
// (например, poll, contact_information, location_information).
type MessageEntry map[string]any

// ExportDocument представляет один экспортированный чат: метаданные
// уровня чата плюс список сообщений.
type ExportDocument struct {
	Name     string
	Type     string
	ID       int64
	Messages []MessageEntry
}

// Takeout представляет корень файла выгрузки. Полный takeout содержит
// несколько чатов и идентификатор владельца из personal_information;
// экспорт одного чата сворачивается в Takeout с единственным чатом
// и OwnerID == 0.
type Takeout struct {
	OwnerID int64
	Chats   []ExportDocument
}

// FieldSpec — упорядоченный набор идентификаторов полей для извлечения.
// Идентификатор — это либо ключ сообщения, либо путь через вложенные
// объекты, разделенный точками (например, "poll.question").
type FieldSpec []string

// Идентификаторы метаданных уровня чата. Они разрешаются из корня
// документа, а не из сообщения, и одинаковы во всех строках чата.
const (
	ChatNameField = "chat_name"
	ChatIDField   = "chat_id"
	ChatTypeField = "chat_type"
)

// Row — одна строка таблицы. Значения выровнены по Table.Columns.
// Отсутствующее в исходном сообщении поле представлено нетипизированным
// nil — это и есть сентинел пропущенного значения (см. IsMissing).
type Row []any

// Table — упорядоченная последовательность строк одинаковой формы,
// по одной на сообщение.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable создает пустую таблицу с колонками из спецификации полей.
func NewTable(fields FieldSpec) *Table {
	cols := make([]string, len(fields))
	copy(cols, fields)
	return &Table{Columns: cols}
}

// Append добавляет строку в конец таблицы.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// ColumnIndex возвращает индекс колонки по имени или -1, если колонки нет.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value возвращает значение ячейки по номеру строки и имени колонки.
// Для несуществующей колонки возвращается сентинел пропуска.
func (t *Table) Value(row int, column string) any {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return nil
	}
	return t.Rows[row][idx]
}

// IsMissing сообщает, является ли значение ячейки сентинелом
// пропущенного поля.
func IsMissing(v any) bool {
	return v == nil
}
