package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownColumn   = errors.New("неизвестная колонка")
	ErrDuplicateColumn = errors.New("повторяющаяся колонка")
)

// Value - скалярное значение ячейки: nil (пусто), string, int64 или float64
type Value = any

// Table - упорядоченный набор строк с фиксированной схемой колонок.
// Все операции возвращают новую таблицу, исходная не изменяется.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New создает таблицу. Короткие строки дополняются пустыми значениями,
// строки длиннее схемы считаются ошибкой.
func New(columns []string, rows [][]Value) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		index[c] = i
	}

	data := make([][]Value, len(rows))
	for i, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("строка %d: %d значений при %d колонках", i, len(row), len(columns))
		}
		r := make([]Value, len(columns))
		copy(r, row)
		data[i] = r
	}

	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    data,
	}, nil
}

func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Row возвращает копию строки i в порядке колонок
func (t *Table) Row(i int) []Value {
	return append([]Value(nil), t.rows[i]...)
}

// Rows возвращает копию всех строк
func (t *Table) Rows() [][]Value {
	out := make([][]Value, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// Get возвращает значение колонки column в строке i
func (t *Table) Get(i int, column string) (Value, error) {
	idx, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return t.rows[i][idx], nil
}

// Drop удаляет перечисленные колонки. Отсутствующие имена игнорируются.
func (t *Table) Drop(columns []string) *Table {
	drop := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		drop[c] = struct{}{}
	}

	keep := make([]int, 0, len(t.columns))
	names := make([]string, 0, len(t.columns))
	for i, c := range t.columns {
		if _, ok := drop[c]; ok {
			continue
		}
		keep = append(keep, i)
		names = append(names, c)
	}
	return t.project(names, keep)
}

// Rename переименовывает колонки по mapping. Имена без соответствия не меняются.
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		if n, ok := mapping[c]; ok {
			names[i] = n
		} else {
			names[i] = c
		}
	}
	return New(names, t.rows)
}

// Select оставляет ровно перечисленные колонки в заданном порядке.
// Если каких-то колонок нет, возвращается *MissingError со всеми отсутствующими именами.
func (t *Table) Select(columns []string) (*Table, error) {
	idx := make([]int, 0, len(columns))
	var missing []string
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		seen[c] = struct{}{}

		i, ok := t.index[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		idx = append(idx, i)
	}
	if len(missing) > 0 {
		return nil, &MissingError{Names: missing}
	}
	return t.project(columns, idx), nil
}

// MapColumn применяет fn к каждому значению колонки
func (t *Table) MapColumn(column string, fn func(Value) Value) (*Table, error) {
	idx, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	out := t.clone()
	for _, row := range out.rows {
		row[idx] = fn(row[idx])
	}
	return out, nil
}

// AppendColumns добавляет колонки в конец схемы, заполняя их значением fill
func (t *Table) AppendColumns(columns []string, fill Value) (*Table, error) {
	names := append(t.Columns(), columns...)
	rows := make([][]Value, len(t.rows))
	for i, row := range t.rows {
		r := make([]Value, 0, len(names))
		r = append(r, row...)
		for range columns {
			r = append(r, fill)
		}
		rows[i] = r
	}
	return New(names, rows)
}

func (t *Table) project(names []string, idx []int) *Table {
	index := make(map[string]int, len(names))
	for i, c := range names {
		index[c] = i
	}

	rows := make([][]Value, len(t.rows))
	for r, row := range t.rows {
		out := make([]Value, len(idx))
		for i, src := range idx {
			out[i] = row[src]
		}
		rows[r] = out
	}

	return &Table{
		columns: append([]string(nil), names...),
		index:   index,
		rows:    rows,
	}
}

func (t *Table) clone() *Table {
	return t.project(t.columns, identity(len(t.columns)))
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// MissingError перечисляет колонки, которых нет в таблице
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("отсутствуют колонки: %s", strings.Join(quoteAll(e.Names), ", "))
}

func (e *MissingError) Unwrap() error {
	return ErrUnknownColumn
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strconv.Quote(n)
	}
	return out
}
