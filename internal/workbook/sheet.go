package workbook

import (
	"strings"
	"unicode/utf8"

	"github.com/ryabkov82/agent-report/internal/table"
)

const (
	// MaxSheetNameLen - ограничение Excel на длину имени листа
	MaxSheetNameLen = 31
	// BlankSheetName используется для группы с пустым ключом
	BlankSheetName = "(blank)"
)

// Sheet - лист книги: заголовок, строки и ширина колонок в символах
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]table.Value
	Widths  []int
}

// NewSheet строит лист из таблицы и считает ширину колонок по ее строкам
func NewSheet(name string, t *table.Table) Sheet {
	return NewSheetFromRows(name, t.Columns(), t.Rows())
}

// NewSheetFromRows строит лист из готовых строк
func NewSheetFromRows(name string, headers []string, rows [][]table.Value) Sheet {
	return Sheet{
		Name:    SheetName(name),
		Headers: append([]string(nil), headers...),
		Rows:    rows,
		Widths:  table.ColumnWidths(headers, rows),
	}
}

// SheetName приводит произвольную подпись к допустимому имени листа:
// пустая подпись заменяется на BlankSheetName, запрещенные символы на "_",
// апострофы по краям убираются, длина обрезается до MaxSheetNameLen.
func SheetName(label string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, label)
	name = strings.Trim(name, "'")

	if utf8.RuneCountInString(name) > MaxSheetNameLen {
		name = string([]rune(name)[:MaxSheetNameLen])
	}
	if strings.TrimSpace(name) == "" {
		return BlankSheetName
	}
	return name
}
