package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	cfg := &Config{InputPath: "./in/../report.XLSX"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "report.XLSX", cfg.InputPath)
	assert.Equal(t, "grouped_data.xlsx", cfg.OutputPath)

	assert.Error(t, (&Config{}).Validate())
	assert.Error(t, (&Config{InputPath: "report.csv"}).Validate())
	assert.NoError(t, (&Config{InputPath: "legacy.xls"}).Validate())
}

func TestLoadMappingsLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columnsToKeep: [Date, Agent, Product Name]\nnewColumns: [Notes]\n"), 0644))

	cfg := &Config{}
	m, err := cfg.LoadMappings(envOf(map[string]string{
		EnvMappingsFile: path,
		EnvNewColumns:   `["Notes", "Paid"]`,
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Agent", "Product Name"}, m.ColumnsToKeep)
	assert.Equal(t, []string{"Notes", "Paid"}, m.NewColumns, "env wins over file")
}

func TestLoadMappingsRejectsInvalid(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.LoadMappings(envOf(map[string]string{EnvColumnsToKeep: `[]`}))
	assert.ErrorIs(t, err, ErrInvalidMappings)

	_, err = cfg.LoadMappings(envOf(map[string]string{EnvColumnsToKeep: `[`}))
	assert.ErrorIs(t, err, ErrConfigParse)
}
