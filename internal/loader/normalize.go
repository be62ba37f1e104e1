package loader

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ryabkov82/agent-report/internal/config"
	"github.com/ryabkov82/agent-report/internal/table"
)

// Раскладка исходного отчета: три служебные строки сверху (последняя из них -
// заголовок) и две итоговые снизу.
const (
	HeadRows  = 3
	TailRows  = 2
	HeaderRow = 2
	MinRows   = HeadRows + TailRows + 1
)

// Normalize приводит сырую сетку к таблице со схемой
// ColumnsToKeep ++ NewColumns. Шаги выполняются строго по порядку.
func Normalize(raw [][]table.Value, m config.Mappings) (*table.Table, error) {
	t, err := slice(raw)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("rows", t.Len()).Int("columns", len(t.Columns())).Msg("Разобран заголовок")

	t = t.Drop(m.ColumnsToDrop)

	t, err = t.Rename(m.RenameMapping)
	if err != nil {
		return nil, malformed("переименование колонок: %v", err)
	}

	t, err = t.Select(m.ColumnsToKeep)
	if err != nil {
		var missing *table.MissingError
		if errors.As(err, &missing) {
			return nil, &MissingColumnsError{Names: missing.Names}
		}
		return nil, malformed("выбор колонок: %v", err)
	}

	if t.Has(m.ProductColumn) {
		t, err = t.MapColumn(m.ProductColumn, func(v table.Value) table.Value {
			return RemapProduct(v, m.ProductNameMapping)
		})
		if err != nil {
			return nil, err
		}
	}

	t, err = t.AppendColumns(m.NewColumns, "")
	if err != nil {
		return nil, malformed("добавление колонок: %v", err)
	}

	log.Debug().Int("rows", t.Len()).Strs("columns", t.Columns()).Msg("Таблица нормализована")
	return t, nil
}

// RemapProduct заменяет название продукта по справочнику. Значения, которых
// нет в справочнике, и нестроковые значения возвращаются без изменений.
func RemapProduct(v table.Value, mapping map[string]string) table.Value {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if mapped, ok := mapping[s]; ok && mapped != "" {
		return mapped
	}
	return v
}

// slice отрезает служебные строки и строит таблицу с заголовком из HeaderRow
func slice(raw [][]table.Value) (*table.Table, error) {
	if len(raw) < MinRows {
		return nil, malformed("недостаточно строк: %d, нужно не меньше %d", len(raw), MinRows)
	}

	header := raw[HeaderRow]
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(table.FormatValue(cell))
		if name == "" {
			return nil, malformed("пустое имя колонки в позиции %d", i+1)
		}
		if prev, dup := seen[name]; dup {
			return nil, malformed("колонка %q повторяется в позициях %d и %d", name, prev+1, i+1)
		}
		seen[name] = i
		columns[i] = name
	}
	if len(columns) == 0 {
		return nil, malformed("пустая строка заголовка")
	}

	body := raw[HeadRows : len(raw)-TailRows]
	rows := make([][]table.Value, len(body))
	for i, row := range body {
		for j := len(columns); j < len(row); j++ {
			if !table.IsBlank(row[j]) {
				return nil, malformed("строка %d: значение вне заголовка в колонке %d", HeadRows+i+1, j+1)
			}
		}
		if len(row) > len(columns) {
			row = row[:len(columns)]
		}
		rows[i] = row
	}

	return table.New(columns, rows)
}
