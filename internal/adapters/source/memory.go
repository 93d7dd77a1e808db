package source

import (
	"fmt"

	"github.com/ulyantsev/tg-takeout-parser/internal/ports"
)

// MemorySource реализует интерфейс DataSource для чтения выгрузки из памяти.
// Используется в тестах и при обработке уже загруженных данных.
type MemorySource struct {
	data []byte
}

// NewMemorySource создает новый экземпляр MemorySource.
func NewMemorySource(data []byte) ports.DataSource {
	return &MemorySource{data: data}
}

// Fetch возвращает данные из памяти.
func (s *MemorySource) Fetch() ([]byte, error) {
	if s.data == nil {
		return nil, fmt.Errorf("данные не установлены")
	}

	// Возвращаем копию, чтобы вызывающая сторона не могла изменить оригинал
	dataCopy := make([]byte, len(s.data))
	copy(dataCopy, s.data)

	return dataCopy, nil
}
