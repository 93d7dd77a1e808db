package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ulyantsev/tg-takeout-parser/internal/adapters/source"
	"github.com/ulyantsev/tg-takeout-parser/internal/cache"
	"github.com/ulyantsev/tg-takeout-parser/internal/core/services"
	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
	"github.com/ulyantsev/tg-takeout-parser/internal/pkg/config"
	"github.com/ulyantsev/tg-takeout-parser/internal/ports"
)

// ProcessTakeoutUseCase инкапсулирует бизнес-логику обработки файла
// выгрузки: чтение, разбор, разворачивание в таблицу и нормализацию.
type ProcessTakeoutUseCase struct {
	cfg        *config.Config
	parser     ports.Parser
	flattener  ports.Flattener
	normalizer *services.NormalizeService
	cacheStore *cache.CacheStore
}

// NewProcessTakeoutUseCase создает новый экземпляр ProcessTakeoutUseCase.
func NewProcessTakeoutUseCase(
	cfg *config.Config,
	parser ports.Parser,
	flattener ports.Flattener,
	normalizer *services.NormalizeService,
	cacheStore *cache.CacheStore,
) *ProcessTakeoutUseCase {
	return &ProcessTakeoutUseCase{
		cfg:        cfg,
		parser:     parser,
		flattener:  flattener,
		normalizer: normalizer,
		cacheStore: cacheStore,
	}
}

// ProcessTakeout обрабатывает один файл выгрузки и возвращает плоскую
// таблицу сообщений. Результат кэшируется по хешу содержимого файла.
func (uc *ProcessTakeoutUseCase) ProcessTakeout(ctx context.Context, filePath string) (*domain.Table, error) {
	fileHash, err := cache.CalculateFileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("не удалось вычислить хеш файла %s: %w", filePath, err)
	}

	if cachedItem, found := uc.cacheStore.Get(fileHash); found {
		slog.Info("Попадание в кэш", "hash", fileHash)
		return cachedItem.Table, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("Обработка файла", "path", filePath)

	ds := source.NewFileSource(filePath)
	data, err := ds.Fetch()
	if err != nil {
		return nil, fmt.Errorf("не удалось извлечь данные из %s: %w", filePath, err)
	}

	takeout, err := uc.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать данные из %s: %w", filePath, err)
	}
	slog.Info("Разобрана выгрузка", "path", filePath, "chat_count", len(takeout.Chats))

	table, err := uc.flattener.FlattenTakeout(takeout, uc.cfg.Flatten.Columns, uc.cfg.Flatten.ChatTypes)
	if err != nil {
		return nil, fmt.Errorf("не удалось развернуть сообщения из %s: %w", filePath, err)
	}
	slog.Info("Построена таблица", "path", filePath, "row_count", len(table.Rows))

	if !uc.cfg.Flatten.KeepRawText {
		uc.normalizer.Apply(table)
	}

	ttl := uc.cfg.CacheTTL()
	uc.cacheStore.Put(fileHash, table, ttl)
	slog.Info("Результат кэширован", "hash", fileHash, "ttl", ttl.String())

	return table, nil
}
