// Package report строит листы по агентам и сводный лист EarningsReport.
package report

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ryabkov82/agent-report/internal/table"
	"github.com/ryabkov82/agent-report/internal/workbook"
)

const (
	EarningsSheetPrefix = "EarningsReport_"
	// DateLayout - MMDDYYYY
	DateLayout = "01022006"
	// SeparatorRows - две пустые строки и строка с заголовком перед блоком агента
	SeparatorRows = 3
)

// EarningsSheetName возвращает имя сводного листа на дату now
func EarningsSheetName(now time.Time) string {
	return EarningsSheetPrefix + now.Format(DateLayout)
}

// BuildAgentSheets строит по листу на каждого агента в порядке первого
// появления. Ширина колонок считается только по строкам агента.
func BuildAgentSheets(t *table.Table, key string) ([]workbook.Sheet, error) {
	groups, err := table.GroupBy(t, key)
	if err != nil {
		return nil, err
	}

	sheets := make([]workbook.Sheet, 0, len(groups))
	for _, g := range groups {
		sheets = append(sheets, workbook.NewSheet(table.FormatValue(g.Key), g.Rows))
	}
	return sheets, nil
}

// BuildEarningsReport собирает сводный лист: перед блоком каждого агента,
// включая первый, вставляются две пустые строки и строка с заголовком.
// Ширина колонок считается по всему содержимому листа.
func BuildEarningsReport(t *table.Table, key string, now time.Time) (workbook.Sheet, error) {
	groups, err := table.GroupBy(t, key)
	if err != nil {
		return workbook.Sheet{}, err
	}

	columns := t.Columns()
	separator := separatorBlock(columns)

	rows := make([][]table.Value, 0, t.Len()+SeparatorRows*len(groups))
	for _, g := range groups {
		rows = append(rows, separatorCopy(separator)...)
		rows = append(rows, g.Rows.Rows()...)
	}

	return workbook.NewSheetFromRows(EarningsSheetName(now), columns, rows), nil
}

// Build собирает итоговую книгу: листы агентов, затем сводный лист,
// который переносится на первое место.
func Build(t *table.Table, key string, now time.Time) (workbook.Workbook, error) {
	agentSheets, err := BuildAgentSheets(t, key)
	if err != nil {
		return workbook.Workbook{}, err
	}

	wb := workbook.Empty()
	for _, s := range agentSheets {
		if wb, err = wb.WithSheet(s); err != nil {
			return workbook.Workbook{}, fmt.Errorf("лист агента: %w", err)
		}
	}

	earnings, err := BuildEarningsReport(t, key, now)
	if err != nil {
		return workbook.Workbook{}, err
	}
	if wb, err = wb.WithSheet(earnings); err != nil {
		return workbook.Workbook{}, fmt.Errorf("сводный лист: %w", err)
	}

	wb, err = wb.MoveToFront(earnings.Name)
	if err != nil {
		return workbook.Workbook{}, err
	}

	log.Debug().
		Int("agents", len(agentSheets)).
		Int("rows", t.Len()).
		Str("earnings_sheet", earnings.Name).
		Msg("Книга собрана")
	return wb, nil
}

func separatorBlock(columns []string) [][]table.Value {
	blank := make([]table.Value, len(columns))
	header := make([]table.Value, len(columns))
	for i, c := range columns {
		blank[i] = ""
		header[i] = c
	}
	return [][]table.Value{blank, blank, header}
}

func separatorCopy(block [][]table.Value) [][]table.Value {
	out := make([][]table.Value, len(block))
	for i, row := range block {
		out[i] = append([]table.Value(nil), row...)
	}
	return out
}
