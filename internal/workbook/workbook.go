package workbook

import (
	"fmt"
	"strings"
)

// Workbook - неизменяемый упорядоченный набор листов. Каждый метод
// возвращает новую книгу.
type Workbook struct {
	sheets []Sheet
}

func Empty() Workbook {
	return Workbook{}
}

// WithSheet добавляет лист в конец. Совпадение имени с уже добавленным листом
// (без учета регистра) - ошибка, лист не перезаписывается.
func (w Workbook) WithSheet(s Sheet) (Workbook, error) {
	if s.Name == "" {
		return w, fmt.Errorf("пустое имя листа")
	}
	for _, existing := range w.sheets {
		if strings.EqualFold(existing.Name, s.Name) {
			return w, &CollisionError{Name: s.Name, Existing: existing.Name}
		}
	}

	sheets := make([]Sheet, len(w.sheets), len(w.sheets)+1)
	copy(sheets, w.sheets)
	return Workbook{sheets: append(sheets, s)}, nil
}

// MoveToFront переносит лист name на первое место, остальные сохраняют порядок
func (w Workbook) MoveToFront(name string) (Workbook, error) {
	idx := -1
	for i, s := range w.sheets {
		if s.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return w, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	sheets := make([]Sheet, 0, len(w.sheets))
	sheets = append(sheets, w.sheets[idx])
	sheets = append(sheets, w.sheets[:idx]...)
	sheets = append(sheets, w.sheets[idx+1:]...)
	return Workbook{sheets: sheets}, nil
}

func (w Workbook) Len() int {
	return len(w.sheets)
}

// Names возвращает имена листов в порядке книги
func (w Workbook) Names() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheets возвращает копию списка листов
func (w Workbook) Sheets() []Sheet {
	return append([]Sheet(nil), w.sheets...)
}

// Sheet возвращает лист по имени
func (w Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}
