package parser

import (
	"encoding/json"
	"fmt"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
	"github.com/ulyantsev/tg-takeout-parser/internal/ports"
)

// JsonParser реализует интерфейс Parser для разбора JSON-выгрузки.
// Поддерживаются два формата: полный takeout с корневым объектом
// chats.list и экспорт одного чата с корневым списком messages.
type JsonParser struct{}

// NewJsonParser создает новый экземпляр JsonParser.
func NewJsonParser() ports.Parser {
	return &JsonParser{}
}

// rawChat повторяет структуру одного чата в файле выгрузки.
// Сообщения остаются произвольными объектами: их состав зависит
// от типа сообщения.
type rawChat struct {
	Name     string                `json:"name"`
	Type     string                `json:"type"`
	ID       int64                 `json:"id"`
	Messages []domain.MessageEntry `json:"messages"`
}

// probe различает формат корневого объекта, не разбирая его целиком.
type probe struct {
	PersonalInformation struct {
		UserID int64 `json:"user_id"`
	} `json:"personal_information"`
	Chats struct {
		List []rawChat `json:"list"`
	} `json:"chats"`
	Messages json.RawMessage `json:"messages"`
}

// Parse преобразует срез байт с JSON в модель Takeout.
func (p *JsonParser) Parse(data []byte) (*domain.Takeout, error) {
	var pr probe
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json: %w", err)
	}

	// Полный takeout: chats.list присутствует
	if pr.Chats.List != nil {
		out := &domain.Takeout{OwnerID: pr.PersonalInformation.UserID}
		for _, c := range pr.Chats.List {
			out.Chats = append(out.Chats, toDocument(c))
		}
		return out, nil
	}

	// Экспорт одного чата: поле messages присутствует в корне
	if pr.Messages != nil {
		var c rawChat
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat export: %w", err)
		}
		return &domain.Takeout{Chats: []domain.ExportDocument{toDocument(c)}}, nil
	}

	// Единственная фатальная ошибка формата: списка сообщений нет вообще
	return nil, fmt.Errorf("файл выгрузки не содержит списка сообщений (ожидался takeout или экспорт чата)")
}

func toDocument(c rawChat) domain.ExportDocument {
	doc := domain.ExportDocument{
		Name:     c.Name,
		Type:     c.Type,
		ID:       c.ID,
		Messages: c.Messages,
	}
	if doc.Messages == nil {
		doc.Messages = []domain.MessageEntry{}
	}
	return doc
}
