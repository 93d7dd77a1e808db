package services

import (
	"fmt"
	"strings"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
	"github.com/ulyantsev/tg-takeout-parser/internal/ports"
)

// FlattenServiceImpl реализует интерфейс Flattener: разворачивает
// сообщения переменной формы в таблицу фиксированных колонок.
type FlattenServiceImpl struct{}

// NewFlattenService создает новый экземпляр FlattenServiceImpl.
func NewFlattenService() ports.Flattener {
	return &FlattenServiceImpl{}
}

// Flatten строит таблицу по одному чату: одна строка на сообщение,
// по одной ячейке на каждый идентификатор из fields, в заданном порядке.
// Отсутствующее или недостижимое поле дает nil-ячейку, а не ошибку.
func (s *FlattenServiceImpl) Flatten(doc *domain.ExportDocument, fields domain.FieldSpec) (*domain.Table, error) {
	if doc == nil || doc.Messages == nil {
		return nil, fmt.Errorf("документ экспорта не содержит списка сообщений")
	}

	table := domain.NewTable(fields)
	for _, msg := range doc.Messages {
		table.Append(flattenEntry(doc, msg, fields))
	}
	return table, nil
}

// FlattenTakeout строит единую таблицу по всем чатам выгрузки.
// Чаты, тип которых не входит в chatTypes, пропускаются целиком;
// пустой chatTypes означает отсутствие фильтра.
func (s *FlattenServiceImpl) FlattenTakeout(t *domain.Takeout, fields domain.FieldSpec, chatTypes []string) (*domain.Table, error) {
	if t == nil {
		return nil, fmt.Errorf("выгрузка не содержит чатов")
	}

	allowed := make(map[string]bool, len(chatTypes))
	for _, ct := range chatTypes {
		allowed[ct] = true
	}

	table := domain.NewTable(fields)
	for i := range t.Chats {
		doc := &t.Chats[i]
		if len(allowed) > 0 && !allowed[doc.Type] {
			continue
		}
		if doc.Messages == nil {
			return nil, fmt.Errorf("чат %q не содержит списка сообщений", doc.Name)
		}
		for _, msg := range doc.Messages {
			table.Append(flattenEntry(doc, msg, fields))
		}
	}
	return table, nil
}

// flattenEntry собирает одну строку: значения ячеек в порядке fields.
func flattenEntry(doc *domain.ExportDocument, entry domain.MessageEntry, fields domain.FieldSpec) domain.Row {
	row := make(domain.Row, 0, len(fields))
	for _, field := range fields {
		row = append(row, resolveField(doc, entry, field))
	}
	return row
}

// resolveField извлекает значение одного идентификатора.
// Метаданные чата берутся из корня документа, остальные идентификаторы —
// из сообщения, при необходимости с обходом вложенных объектов по точкам.
func resolveField(doc *domain.ExportDocument, entry domain.MessageEntry, field string) any {
	switch field {
	case domain.ChatNameField:
		return doc.Name
	case domain.ChatIDField:
		return doc.ID
	case domain.ChatTypeField:
		return doc.Type
	}

	if !strings.Contains(field, ".") {
		v, ok := entry[field]
		if !ok {
			return nil
		}
		return v
	}

	var current any = map[string]any(entry)
	for _, segment := range strings.Split(field, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			// Промежуточное значение — не объект: поле недостижимо
			return nil
		}
		current, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return current
}
