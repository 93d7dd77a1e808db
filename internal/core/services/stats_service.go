package services

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
)

// Частоты агрегации статистики.
const (
	FreqDay   = "day"
	FreqMonth = "month"
	FreqYear  = "year"
)

// Формат даты в файлах выгрузки Telegram.
const exportDateLayout = "2006-01-02T15:04:05"

// StatsOptions задает параметры агрегации статистики.
type StatsOptions struct {
	// Freq — период группировки: day, month или year.
	Freq string
	// ExcludeForwarded исключает пересланные сообщения из подсчета.
	ExcludeForwarded bool
}

// StatsServiceImpl агрегирует плоскую таблицу сообщений в статистику
// по периодам: число чатов, сообщений, символов и секунд медиа.
type StatsServiceImpl struct{}

// NewStatsService создает новый экземпляр StatsServiceImpl.
func NewStatsService() *StatsServiceImpl {
	return &StatsServiceImpl{}
}

// bucket накапливает значения одного периода.
type bucket struct {
	chats    map[string]bool
	messages int
	chars    int
	mediaSec float64
}

// Aggregate строит таблицу статистики по периодам. Вход — плоская
// таблица сообщений с колонками date, chat_id, text, duration_seconds,
// forwarded_from; отсутствующие колонки просто не дают вклада.
// Результат отсортирован по периоду по возрастанию.
func (s *StatsServiceImpl) Aggregate(table *domain.Table, opts StatsOptions) (*domain.Table, error) {
	if table == nil {
		return nil, fmt.Errorf("таблица сообщений не задана")
	}

	layout, err := periodLayout(opts.Freq)
	if err != nil {
		return nil, err
	}

	dateIdx := table.ColumnIndex("date")
	if dateIdx < 0 {
		return nil, fmt.Errorf("таблица не содержит колонки date, статистика невозможна")
	}
	chatIdx := table.ColumnIndex(domain.ChatIDField)
	textIdx := table.ColumnIndex("text")
	durationIdx := table.ColumnIndex("duration_seconds")
	forwardedIdx := table.ColumnIndex("forwarded_from")

	buckets := make(map[string]*bucket)
	for _, row := range table.Rows {
		if opts.ExcludeForwarded && forwardedIdx >= 0 && !domain.IsMissing(row[forwardedIdx]) {
			continue
		}

		period, ok := formatPeriod(row[dateIdx], layout)
		if !ok {
			// Сообщения без разборчивой даты (служебные записи) пропускаем
			continue
		}

		b := buckets[period]
		if b == nil {
			b = &bucket{chats: make(map[string]bool)}
			buckets[period] = b
		}

		b.messages++
		if chatIdx >= 0 && !domain.IsMissing(row[chatIdx]) {
			b.chats[fmt.Sprint(row[chatIdx])] = true
		}
		if textIdx >= 0 {
			if text, ok := row[textIdx].(string); ok {
				b.chars += utf8.RuneCountInString(text)
			}
		}
		if durationIdx >= 0 {
			b.mediaSec += toFloat(row[durationIdx])
		}
	}

	periods := make([]string, 0, len(buckets))
	for p := range buckets {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	out := domain.NewTable(domain.FieldSpec{"date", "chats", "msg", "chr", "media_sec"})
	for _, p := range periods {
		b := buckets[p]
		out.Append(domain.Row{p, int64(len(b.chats)), int64(b.messages), int64(b.chars), int64(b.mediaSec)})
	}
	return out, nil
}

// SentReceived строит статистику с раздельными колонками для отправленных
// и полученных сообщений. Владелец определяется по from_id == ownerID;
// пересланные сообщения исключаются только из отправленных, как и при
// ручном анализе собственной активности.
func (s *StatsServiceImpl) SentReceived(table *domain.Table, ownerID int64, opts StatsOptions) (*domain.Table, error) {
	if table == nil {
		return nil, fmt.Errorf("таблица сообщений не задана")
	}
	if ownerID == 0 {
		return nil, fmt.Errorf("идентификатор владельца неизвестен: выгрузка без personal_information")
	}

	fromIdx := table.ColumnIndex("from_id")
	if fromIdx < 0 {
		return nil, fmt.Errorf("таблица не содержит колонки from_id, разделение невозможно")
	}

	sent := domain.NewTable(table.Columns)
	received := domain.NewTable(table.Columns)
	for _, row := range table.Rows {
		if isOwner(row[fromIdx], ownerID) {
			sent.Append(row)
		} else {
			received.Append(row)
		}
	}

	sentOpts := opts
	sentOpts.ExcludeForwarded = true
	sentStats, err := s.Aggregate(sent, sentOpts)
	if err != nil {
		return nil, err
	}
	receivedStats, err := s.Aggregate(received, opts)
	if err != nil {
		return nil, err
	}

	return mergeOnPeriod(sentStats, receivedStats), nil
}

// mergeOnPeriod объединяет две таблицы статистики по колонке date,
// давая колонкам суффиксы _sent и _received. Периоды, присутствующие
// только в одной таблице, получают нулевые значения в другой.
func mergeOnPeriod(sent, received *domain.Table) *domain.Table {
	columns := domain.FieldSpec{"date"}
	for _, c := range sent.Columns[1:] {
		columns = append(columns, c+"_sent")
	}
	for _, c := range received.Columns[1:] {
		columns = append(columns, c+"_received")
	}

	sentByPeriod := rowsByPeriod(sent)
	receivedByPeriod := rowsByPeriod(received)

	periodSet := make(map[string]bool)
	for p := range sentByPeriod {
		periodSet[p] = true
	}
	for p := range receivedByPeriod {
		periodSet[p] = true
	}
	periods := make([]string, 0, len(periodSet))
	for p := range periodSet {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	width := len(sent.Columns) - 1
	out := domain.NewTable(columns)
	for _, p := range periods {
		row := domain.Row{p}
		row = append(row, statValues(sentByPeriod[p], width)...)
		row = append(row, statValues(receivedByPeriod[p], width)...)
		out.Append(row)
	}
	return out
}

func rowsByPeriod(t *domain.Table) map[string]domain.Row {
	m := make(map[string]domain.Row, len(t.Rows))
	for _, row := range t.Rows {
		if p, ok := row[0].(string); ok {
			m[p] = row
		}
	}
	return m
}

func statValues(row domain.Row, width int) domain.Row {
	if row == nil {
		zeros := make(domain.Row, width)
		for i := range zeros {
			zeros[i] = int64(0)
		}
		return zeros
	}
	return row[1:]
}

// periodLayout возвращает формат ключа периода для заданной частоты.
func periodLayout(freq string) (string, error) {
	switch freq {
	case FreqDay:
		return "2006-01-02", nil
	case FreqMonth, "":
		return "2006-01", nil
	case FreqYear:
		return "2006", nil
	default:
		return "", fmt.Errorf("неизвестная частота агрегации: %q", freq)
	}
}

// formatPeriod разбирает дату сообщения и сворачивает ее до периода.
func formatPeriod(value any, layout string) (string, bool) {
	str, ok := value.(string)
	if !ok {
		return "", false
	}
	ts, err := time.Parse(exportDateLayout, str)
	if err != nil {
		return "", false
	}
	return ts.Format(layout), true
}

// isOwner сравнивает from_id с идентификатором владельца: после
// нормализации это число, в сыром виде — строка вида "user12345".
func isOwner(fromID any, ownerID int64) bool {
	switch v := fromID.(type) {
	case int64:
		return v == ownerID
	case float64:
		return int64(v) == ownerID
	case string:
		return v == fmt.Sprintf("user%d", ownerID)
	default:
		return false
	}
}

// toFloat приводит числовую ячейку к float64; JSON-числа приходят
// как float64, после нормализации возможны int64.
func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}
