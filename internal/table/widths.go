package table

import "unicode/utf8"

// ColumnWidths вычисляет ширину каждой колонки: максимум из длины заголовка
// и длины строкового представления значений во всех строках (в символах).
func ColumnWidths(headers []string, rows [][]Value) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	for _, row := range rows {
		for i, v := range row {
			if i >= len(widths) {
				break
			}
			if l := utf8.RuneCountInString(FormatValue(v)); l > widths[i] {
				widths[i] = l
			}
		}
	}
	return widths
}
