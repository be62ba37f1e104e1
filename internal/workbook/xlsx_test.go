package workbook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ryabkov82/agent-report/internal/table"
)

func TestEncodeRoundTrip(t *testing.T) {
	agent := NewSheetFromRows("A", []string{"Date", "Agent", "Premium"}, [][]table.Value{
		{"09/01/2024", "A", int64(100)},
		{"09/02/2024", "A", 12.5},
	})
	report := NewSheetFromRows("EarningsReport_10142026", []string{"Date", "Agent", "Premium"}, [][]table.Value{
		{"", "", ""},
		{"Date", "Agent", "Premium"},
		{"09/01/2024", "A", nil},
	})

	wb, err := Empty().WithSheet(agent)
	require.NoError(t, err)
	wb, err = wb.WithSheet(report)
	require.NoError(t, err)
	wb, err = wb.MoveToFront(report.Name)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, wb))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"EarningsReport_10142026", "A"}, f.GetSheetList())
	assert.Equal(t, 0, f.GetActiveSheetIndex())

	rows, err := f.GetRows("A")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Agent", "Premium"}, rows[0])
	assert.Equal(t, []string{"09/02/2024", "A", "12.5"}, rows[2])

	width, err := f.GetColWidth("A", "A")
	require.NoError(t, err)
	assert.Equal(t, ColumnWidth(10), width)

	rows, err = f.GetRows("EarningsReport_10142026")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Agent", "Premium"}, rows[2])
}

func TestEncodeEmptyWorkbook(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, Empty()))
}

func TestColumnWidth(t *testing.T) {
	assert.Equal(t, 7.0, ColumnWidth(5))
	assert.Equal(t, float64(excelize.MaxColumnWidth), ColumnWidth(1000))
}
