package table

import "fmt"

// Group - строки таблицы с одинаковым значением ключевой колонки
type Group struct {
	Key  Value
	Rows *Table
}

// GroupBy разбивает таблицу по значению колонки key за один проход.
// Группы идут в порядке первого появления ключа, порядок строк внутри
// группы сохраняется. Пустой ключ образует отдельную группу.
func GroupBy(t *Table, key string) ([]Group, error) {
	idx, ok := t.index[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}

	order := make([]groupKey, 0)
	members := make(map[groupKey][]int)
	for i, row := range t.rows {
		k := keyOf(row[idx])
		if _, seen := members[k]; !seen {
			order = append(order, k)
		}
		members[k] = append(members[k], i)
	}

	groups := make([]Group, 0, len(order))
	for _, k := range order {
		rows := make([][]Value, len(members[k]))
		for j, i := range members[k] {
			rows[j] = t.rows[i]
		}
		g := &Table{columns: t.columns, index: t.index, rows: rows}
		groups = append(groups, Group{Key: k.value, Rows: g.clone()})
	}
	return groups, nil
}

// groupKey различает значения разных типов с одинаковой записью,
// а nil и "" считает одним пустым ключом
type groupKey struct {
	kind  string
	value Value
}

func keyOf(v Value) groupKey {
	switch x := v.(type) {
	case nil:
		return groupKey{kind: "blank", value: ""}
	case string:
		if x == "" {
			return groupKey{kind: "blank", value: ""}
		}
		return groupKey{kind: "string", value: x}
	case int64, float64, int:
		return groupKey{kind: fmt.Sprintf("%T", x), value: x}
	default:
		return groupKey{kind: fmt.Sprintf("%T", x), value: FormatValue(x)}
	}
}
