package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefaultMappingsAreValid(t *testing.T) {
	m := DefaultMappings()
	require.NoError(t, m.Validate())
	assert.Len(t, m.ColumnsToKeep, 15)
	assert.Equal(t, "Agent", m.AgentColumn)
	assert.Equal(t, "FlexLife", m.ProductNameMapping["FlexLife II"])
}

func TestApplyEnvAbsentKeepsDefaults(t *testing.T) {
	m, err := ApplyEnv(DefaultMappings(), envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultMappings(), m)
}

func TestApplyEnvOverrides(t *testing.T) {
	m, err := ApplyEnv(DefaultMappings(), envOf(map[string]string{
		EnvColumnsToKeep:               `["Date","Agent"]`,
		EnvNewColumns:                  `["Notes"]`,
		EnvProductNameMapping:          `{}`,
		EnvAnnuityCommissionPercentage: `2.5`,
		EnvExcludedAgents:              `["House"]`,
		EnvAgentColumn:                 "Agent",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Agent"}, m.ColumnsToKeep)
	assert.Equal(t, []string{"Notes"}, m.NewColumns)
	assert.Empty(t, m.ProductNameMapping)
	assert.Equal(t, 2.5, m.AnnuityCommissionPercentage)
	assert.Equal(t, []string{"House"}, m.ExcludedAgents)
	require.NoError(t, m.Validate())
}

func TestApplyEnvMalformed(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvColumnsToDrop, `not json`},
		{EnvRenameMapping, `["a","b"]`},
		{EnvColumnsToKeep, `{"a":1}`},
		{EnvProductAgentCommissionMapping, `{"x":"y"}`},
		{EnvAnnuityCommissionPercentage, `"ten"`},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := ApplyEnv(DefaultMappings(), envOf(map[string]string{tt.key: tt.value}))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigParse)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "env", pe.Source)
			assert.Equal(t, tt.key, pe.Key)
		})
	}
}

func TestLoadMappingsFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	content := `
columnsToKeep: [Date, Agent]
newColumns: [Notes]
productNameMapping: {}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := LoadMappingsFile(DefaultMappings(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Agent"}, m.ColumnsToKeep)
	assert.Equal(t, []string{"Notes"}, m.NewColumns)
	assert.Empty(t, m.ProductNameMapping)
	assert.Equal(t, DefaultMappings().ColumnsToDrop, m.ColumnsToDrop, "absent key keeps previous value")
}

func TestLoadMappingsFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"renameMapping": {"Writing Agt": "Agent"}}`), 0644))

	m, err := LoadMappingsFile(DefaultMappings(), path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Writing Agt": "Agent"}, m.RenameMapping)
}

func TestLoadMappingsFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columnsToKeep: {a: [1"), 0644))

	_, err := LoadMappingsFile(DefaultMappings(), path)
	assert.ErrorIs(t, err, ErrConfigParse)

	_, err = LoadMappingsFile(DefaultMappings(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfigParse)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(m *Mappings)
	}{
		{"empty keep", func(m *Mappings) { m.ColumnsToKeep = nil }},
		{"duplicate keep", func(m *Mappings) { m.ColumnsToKeep = append(m.ColumnsToKeep, "Date") }},
		{"new overlaps keep", func(m *Mappings) { m.NewColumns = []string{"Agent"} }},
		{"blank new column", func(m *Mappings) { m.NewColumns = []string{" "} }},
		{"blank rename target", func(m *Mappings) { m.RenameMapping = map[string]string{"Product": ""} }},
		{"agent not kept", func(m *Mappings) { m.AgentColumn = "Writing Agt" }},
		{"product not kept", func(m *Mappings) { m.ProductColumn = "Product" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultMappings()
			tt.edit(&m)
			assert.ErrorIs(t, m.Validate(), ErrInvalidMappings)
		})
	}
}

func TestValidateProductColumnOptionalWithoutMapping(t *testing.T) {
	m := DefaultMappings()
	m.ColumnsToKeep = []string{"Date", "Agent"}
	m.NewColumns = []string{"Notes"}
	m.ProductNameMapping = nil
	assert.NoError(t, m.Validate())
}
