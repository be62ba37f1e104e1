package table

import (
	"fmt"
	"math"
	"strconv"
)

// ParseValue превращает текст ячейки в значение. Число распознается только
// если его каноническая запись совпадает с исходной строкой, поэтому
// "00123" и "1,5" остаются строками.
func ParseValue(s string) Value {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(i, 10) == s {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil &&
		!math.IsNaN(f) && !math.IsInf(f, 0) &&
		strconv.FormatFloat(f, 'f', -1, 64) == s {
		return f
	}
	return s
}

// FormatValue возвращает строковое представление значения, пустое для nil
func FormatValue(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// IsBlank сообщает, пустое ли значение
func IsBlank(v Value) bool {
	return FormatValue(v) == ""
}
