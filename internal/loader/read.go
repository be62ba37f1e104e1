package loader

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/ryabkov82/agent-report/internal/table"
)

// ReadFirstSheet читает первый лист книги. Формат выбирается по расширению:
// .xls читается через extrame/xls, остальное через excelize.
func ReadFirstSheet(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", filename, err)
	}

	if strings.ToLower(filepath.Ext(filename)) == ".xls" {
		return readXLS(data, filename)
	}
	return readXLSX(data, filename)
}

func readXLSX(data []byte, filename string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, malformed("ошибка открытия файла %s: %v", filename, err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, malformed("в файле %s нет листов", filename)
	}

	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, malformed("ошибка чтения строк из %s: %v", filename, err)
	}

	log.Debug().
		Str("file", filename).
		Str("sheet", sheetList[0]).
		Int("rows", len(rows)).
		Msg("Прочитан первый лист")
	return rows, nil
}

func readXLS(data []byte, filename string) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, malformed("ошибка открытия файла %s: %v", filename, err)
	}
	if wb.NumSheets() == 0 {
		return nil, malformed("в файле %s нет листов", filename)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, malformed("не удалось прочитать первый лист %s", filename)
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, trimTrailing(cells))
	}

	log.Debug().
		Str("file", filename).
		Str("sheet", sheet.Name).
		Int("rows", len(rows)).
		Msg("Прочитан первый лист")
	return rows, nil
}

// ParseGrid переводит текстовую сетку в значения ячеек
func ParseGrid(rows [][]string) [][]table.Value {
	grid := make([][]table.Value, len(rows))
	for i, row := range rows {
		values := make([]table.Value, len(row))
		for j, cell := range row {
			values[j] = table.ParseValue(cell)
		}
		grid[i] = values
	}
	return grid
}

func trimTrailing(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}
