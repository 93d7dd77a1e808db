package services

import (
	"strconv"
	"strings"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
)

// LinkPlaceholder подставляется вместо текста ссылок при нормализации,
// чтобы длина ссылок не искажала статистику по символам.
const LinkPlaceholder = "<<link>>"

// NormalizeService приводит "сырые" ячейки таблицы к пригодному для
// анализа виду: склеивает составные тексты и убирает префикс "user"
// из идентификаторов отправителей.
type NormalizeService struct {
	replaceLinks    bool
	stripUserPrefix bool
}

// NewNormalizeService создает новый экземпляр NormalizeService.
func NewNormalizeService(replaceLinks, stripUserPrefix bool) *NormalizeService {
	return &NormalizeService{
		replaceLinks:    replaceLinks,
		stripUserPrefix: stripUserPrefix,
	}
}

// Apply нормализует таблицу на месте: колонку text — в плоскую строку,
// колонку from_id — в числовой идентификатор. Отсутствующие колонки
// и nil-ячейки остаются нетронутыми.
func (s *NormalizeService) Apply(table *domain.Table) {
	textIdx := table.ColumnIndex("text")
	fromIdx := table.ColumnIndex("from_id")

	for _, row := range table.Rows {
		if textIdx >= 0 && !domain.IsMissing(row[textIdx]) {
			row[textIdx] = NormalizeTextValue(row[textIdx], s.replaceLinks)
		}
		if s.stripUserPrefix && fromIdx >= 0 && !domain.IsMissing(row[fromIdx]) {
			row[fromIdx] = normalizeFromID(row[fromIdx])
		}
	}
}

// NormalizeTextValue приводит значение поля text к строке.
// В выгрузке text — либо строка, либо список из строк и типизированных
// элементов (ссылки, упоминания, жирный текст и т.д.); элементы
// склеиваются пробелами, ссылки опционально заменяются заполнителем.
func NormalizeTextValue(value any, replaceLinks bool) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			switch e := elem.(type) {
			case string:
				parts = append(parts, e)
			case map[string]any:
				if replaceLinks && e["type"] == "link" {
					parts = append(parts, LinkPlaceholder)
					continue
				}
				if text, ok := e["text"].(string); ok {
					parts = append(parts, text)
				}
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// normalizeFromID убирает префикс "user" и переводит идентификатор в число.
// Каналы ("channel123") и нераспознанные значения остаются как есть.
func normalizeFromID(value any) any {
	str, ok := value.(string)
	if !ok {
		return value
	}
	trimmed := strings.TrimPrefix(str, "user")
	if trimmed == str {
		return value
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return value
	}
	return id
}
