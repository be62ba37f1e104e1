package regroup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ryabkov82/agent-report/internal/config"
	"github.com/ryabkov82/agent-report/internal/loader"
)

var fixedNow = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

// statementXLSX собирает выгрузку с баннером, заголовком в третьей строке и итогами
func statementXLSX(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"Commission Statement"},
		{"Period: 09/2024"},
		{"Agency", "Payment Date", "Writing Agt", "Product", "Product Co", "Premium Amt"},
		{"North", "09/01/2024", "A", "LSW Level Term 30-G", "LSW", 100},
		{"North", "09/02/2024", "A", "Custom Plan", "LSW", 200},
		{"North", "09/03/2024", "B", "FlexLife II", "LSW", 300},
		{"North", "09/04/2024", "A", "SummitLife", "LSW", 400},
		{"Total", "", "", "", "", 1000},
		{"End of report"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func testMappings() config.Mappings {
	m := config.DefaultMappings()
	m.ColumnsToKeep = []string{"Date", "Agent", "Product Name"}
	m.NewColumns = []string{"Notes"}
	return m
}

func TestRegroup(t *testing.T) {
	var out bytes.Buffer
	res, err := Regroup(bytes.NewReader(statementXLSX(t)), "statement.xlsx", &out, testMappings(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, []string{"EarningsReport_10142026", "A", "B"}, res.Sheets)
	assert.Equal(t, 2, res.Agents)
	assert.Equal(t, 4, res.RowCount)

	f, err := excelize.OpenReader(&out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, res.Sheets, f.GetSheetList())

	rows, err := f.GetRows("A")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Agent", "Product Name", "Notes"}, rows[0])
	assert.Equal(t, []string{"09/01/2024", "A", "30 Year Term"}, rows[1])
	assert.Equal(t, []string{"09/02/2024", "A", "Custom Plan"}, rows[2])

	rows, err = f.GetRows("EarningsReport_10142026")
	require.NoError(t, err)
	// заголовок + 4 строки данных + 2 разделителя по 3 строки
	assert.Len(t, rows, 1+4+6)
	assert.Equal(t, "FlexLife", rows[10][2])
}

func TestRegroupMissingColumnProducesNothing(t *testing.T) {
	m := testMappings()
	m.ColumnsToKeep = append(m.ColumnsToKeep, "Policy #")

	var out bytes.Buffer
	_, err := Regroup(bytes.NewReader(statementXLSX(t)), "statement.xlsx", &out, m, fixedNow)
	assert.ErrorIs(t, err, loader.ErrMissingColumn)
	assert.Zero(t, out.Len())
}

func TestRegroupFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "statement.xlsx")
	require.NoError(t, os.WriteFile(input, statementXLSX(t), 0644))

	p := &FileProcessor{Mappings: testMappings(), Now: func() time.Time { return fixedNow }}
	cfg := &config.Config{InputPath: input, OutputPath: filepath.Join(dir, "out", OutputFileName)}

	res, err := p.RegroupFile(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.OutputPath, res.OutputFile)
	assert.FileExists(t, cfg.OutputPath)

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be removed")
}

func TestRegroupFileLeavesNoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "short.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "only one row"))
	require.NoError(t, f.SaveAs(input))
	require.NoError(t, f.Close())

	cfg := &config.Config{InputPath: input, OutputPath: filepath.Join(dir, OutputFileName)}
	_, err := NewFileProcessor(testMappings()).RegroupFile(cfg)
	assert.ErrorIs(t, err, loader.ErrMalformedInput)
	assert.NoFileExists(t, cfg.OutputPath)
}
