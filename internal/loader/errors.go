package loader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedInput - исходная таблица не соответствует ожидаемой раскладке
var ErrMalformedInput = errors.New("некорректные входные данные")

// ErrMissingColumn - нужной колонки нет после удаления и переименования
var ErrMissingColumn = errors.New("отсутствует обязательная колонка")

// MissingColumnsError перечисляет все отсутствующие колонки из columnsToKeep
type MissingColumnsError struct {
	Names []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingColumn, strings.Join(e.Names, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumn
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}
