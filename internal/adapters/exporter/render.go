package exporter

import (
	"fmt"
	"strconv"

	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
)

// formatCell приводит значение ячейки к строке для текстовых форматов.
// Сентинел пропущенного поля выводится пустой ячейкой.
func formatCell(v any) string {
	if domain.IsMissing(v) {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		// JSON-числа приходят как float64; целые выводим без дробной части
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
