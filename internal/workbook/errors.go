package workbook

import (
	"errors"
	"fmt"
)

// ErrSheetNameCollision - два листа получили одно и то же имя
var ErrSheetNameCollision = errors.New("конфликт имен листов")

// ErrSheetNotFound - лист с таким именем отсутствует в книге
var ErrSheetNotFound = errors.New("лист не найден")

// CollisionError описывает конфликт: новый лист совпал по имени с существующим
// (Excel сравнивает имена без учета регистра)
type CollisionError struct {
	Name     string
	Existing string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%v: %q совпадает с %q", ErrSheetNameCollision, e.Name, e.Existing)
}

func (e *CollisionError) Unwrap() error {
	return ErrSheetNameCollision
}
