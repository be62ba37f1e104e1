package workbook

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/ryabkov82/agent-report/internal/table"
)

// WidthPadding добавляется к вычисленной ширине колонки
const WidthPadding = 2

// Encode записывает книгу в формате xlsx. Листы создаются в порядке книги,
// первый лист становится активным.
func Encode(w io.Writer, wb Workbook) error {
	if wb.Len() == 0 {
		return fmt.Errorf("книга не содержит листов")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("ошибка создания стиля заголовка: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, s := range wb.sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return fmt.Errorf("ошибка переименования листа %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("ошибка создания листа %q: %w", s.Name, err)
		}

		if err := writeSheet(f, s, headerStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("ошибка записи книги: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s Sheet, headerStyle int) error {
	sw, err := f.NewStreamWriter(s.Name)
	if err != nil {
		return fmt.Errorf("ошибка создания StreamWriter для %q: %w", s.Name, err)
	}

	// Ширину нужно задать до первой строки
	for i, width := range s.Widths {
		if err := sw.SetColWidth(i+1, i+1, ColumnWidth(width)); err != nil {
			return fmt.Errorf("ошибка установки ширины колонки %d на %q: %w", i+1, s.Name, err)
		}
	}

	headerRow := make([]interface{}, len(s.Headers))
	for i, h := range s.Headers {
		headerRow[i] = excelize.Cell{Value: h, StyleID: headerStyle}
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("ошибка записи заголовков на %q: %w", s.Name, err)
	}

	for i, row := range s.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, rowValues(row)); err != nil {
			return fmt.Errorf("ошибка записи строки %d на %q: %w", i+2, s.Name, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("ошибка flush листа %q: %w", s.Name, err)
	}

	log.Debug().Str("sheet", s.Name).Int("rows", len(s.Rows)).Msg("Лист записан")
	return nil
}

// ColumnWidth переводит ширину в символах в ширину колонки Excel
func ColumnWidth(chars int) float64 {
	width := float64(chars + WidthPadding)
	if width > excelize.MaxColumnWidth {
		return excelize.MaxColumnWidth
	}
	return width
}

func rowValues(row []table.Value) []interface{} {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	return values
}
