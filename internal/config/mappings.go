package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigParse - значение конфигурации задано, но не разбирается
var ErrConfigParse = errors.New("ошибка разбора конфигурации")

// ErrInvalidMappings - таблицы соответствий противоречат друг другу
var ErrInvalidMappings = errors.New("некорректные таблицы соответствий")

// Mappings - таблицы соответствий, по которым перестраивается отчет
type Mappings struct {
	ColumnsToDrop      []string          `json:"columnsToDrop" yaml:"columnsToDrop"`
	RenameMapping      map[string]string `json:"renameMapping" yaml:"renameMapping"`
	ColumnsToKeep      []string          `json:"columnsToKeep" yaml:"columnsToKeep"`
	ProductNameMapping map[string]string `json:"productNameMapping" yaml:"productNameMapping"`
	NewColumns         []string          `json:"newColumns" yaml:"newColumns"`

	// Передаются как есть через /api/mappings, в перестроении не участвуют
	ProductAgentCommissionMapping map[string]float64 `json:"productAgentCommissionMapping" yaml:"productAgentCommissionMapping"`
	AnnuityCommissionPercentage   float64            `json:"annuityCommissionPercentage" yaml:"annuityCommissionPercentage"`
	ExcludedAgents                []string           `json:"excludedAgents" yaml:"excludedAgents"`

	AgentColumn   string `json:"agentColumn" yaml:"agentColumn"`
	ProductColumn string `json:"productColumn" yaml:"productColumn"`
}

// ParseError описывает значение, которое не удалось разобрать
type ParseError struct {
	Source string // "env", "file"
	Key    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrConfigParse, e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrConfigParse, e.Err}
}

// DefaultMappings возвращает таблицы для отчета о комиссионных
func DefaultMappings() Mappings {
	return Mappings{
		ColumnsToDrop: []string{
			"Agency",
			"Payee ID",
			"Payee Name",
			"Income Class",
			"Writing Agt #",
			"Writing Agent Level",
			"Premium Transaction",
			"Process Date",
			"Premium Eff Date",
			"Writing Agent Agency",
			"Agency Name",
		},
		RenameMapping: map[string]string{
			"Product":      "Product Name",
			"Payment Date": "Date",
			"Writing Agt":  "Agent",
			"Product Co":   "Insurance Company",
		},
		ColumnsToKeep: []string{
			"Date",
			"Insurance Company",
			"Product Type",
			"Policy #",
			"Product Name",
			"Policy Issue Date",
			"Insured Name",
			"Billing Frequency",
			"Premium Amt",
			"Comm Rate %",
			"Gross Comm Earned",
			"% of particip",
			"Compensation Type",
			"Agent",
			"Transaction Type",
		},
		ProductNameMapping: map[string]string{
			"LSW Level Term 30-G": "30 Year Term",
			"LSW Level Term 20-G": "20 Year Term",
			"LSW Level Term 15-G": "15 Year Term",
			"LSW Level Term 10-G": "10 Year Term",
			"FlexLife II":         "FlexLife",
			"FlexLife":            "FlexLife",
			"SummitLife":          "SummitLife",
			"SEC GROWTH":          "SEC GROWTH",
		},
		NewColumns: []string{
			"--",
			"Commission %",
			"Commission Amount",
			"Commission Paid",
			"Payment Method",
			"Payment Date",
		},
		ProductAgentCommissionMapping: map[string]float64{},
		ExcludedAgents:                []string{},
		AgentColumn:                   "Agent",
		ProductColumn:                 "Product Name",
	}
}

// LoadMappingsFile накладывает на m значения из YAML или JSON файла.
// Ключи, отсутствующие в файле, сохраняют прежние значения.
func LoadMappingsFile(m Mappings, path string) (Mappings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("ошибка чтения файла соответствий %s: %w", path, err)
	}

	var overlay fileMappings
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return m, &ParseError{Source: "file", Key: path, Err: err}
	}
	return overlay.apply(m), nil
}

// fileMappings различает отсутствующий ключ (nil) и явно пустое значение
type fileMappings struct {
	ColumnsToDrop                 *[]string           `yaml:"columnsToDrop"`
	RenameMapping                 *map[string]string  `yaml:"renameMapping"`
	ColumnsToKeep                 *[]string           `yaml:"columnsToKeep"`
	ProductNameMapping            *map[string]string  `yaml:"productNameMapping"`
	NewColumns                    *[]string           `yaml:"newColumns"`
	ProductAgentCommissionMapping *map[string]float64 `yaml:"productAgentCommissionMapping"`
	AnnuityCommissionPercentage   *float64            `yaml:"annuityCommissionPercentage"`
	ExcludedAgents                *[]string           `yaml:"excludedAgents"`
	AgentColumn                   *string             `yaml:"agentColumn"`
	ProductColumn                 *string             `yaml:"productColumn"`
}

func (f fileMappings) apply(m Mappings) Mappings {
	if f.ColumnsToDrop != nil {
		m.ColumnsToDrop = *f.ColumnsToDrop
	}
	if f.RenameMapping != nil {
		m.RenameMapping = *f.RenameMapping
	}
	if f.ColumnsToKeep != nil {
		m.ColumnsToKeep = *f.ColumnsToKeep
	}
	if f.ProductNameMapping != nil {
		m.ProductNameMapping = *f.ProductNameMapping
	}
	if f.NewColumns != nil {
		m.NewColumns = *f.NewColumns
	}
	if f.ProductAgentCommissionMapping != nil {
		m.ProductAgentCommissionMapping = *f.ProductAgentCommissionMapping
	}
	if f.AnnuityCommissionPercentage != nil {
		m.AnnuityCommissionPercentage = *f.AnnuityCommissionPercentage
	}
	if f.ExcludedAgents != nil {
		m.ExcludedAgents = *f.ExcludedAgents
	}
	if f.AgentColumn != nil {
		m.AgentColumn = *f.AgentColumn
	}
	if f.ProductColumn != nil {
		m.ProductColumn = *f.ProductColumn
	}
	return m
}

// Переменные окружения
const (
	EnvColumnsToDrop                 = "COLUMNS_TO_DROP"
	EnvRenameMapping                 = "RENAME_MAPPING"
	EnvColumnsToKeep                 = "COLUMNS_TO_KEEP"
	EnvProductNameMapping            = "PRODUCT_NAME_MAPPING"
	EnvProductAgentCommissionMapping = "PRODUCT_AGENT_COMMISSION_MAPPING"
	EnvNewColumns                    = "NEW_COLUMNS"
	EnvAnnuityCommissionPercentage   = "ANNUITY_COMMISSION_PERCENTAGE"
	EnvExcludedAgents                = "EXCLUDED_AGENTS"
	EnvAgentColumn                   = "AGENT_COLUMN"
	EnvProductColumn                 = "PRODUCT_COLUMN"
)

// LookupFunc совместима с os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ApplyEnv накладывает на m значения из окружения. Каждое значение - JSON.
// Отсутствующая переменная оставляет прежнее значение, некорректная - ошибка.
func ApplyEnv(m Mappings, lookup LookupFunc) (Mappings, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	fields := []struct {
		key string
		dst any
	}{
		{EnvColumnsToDrop, &m.ColumnsToDrop},
		{EnvRenameMapping, &m.RenameMapping},
		{EnvColumnsToKeep, &m.ColumnsToKeep},
		{EnvProductNameMapping, &m.ProductNameMapping},
		{EnvProductAgentCommissionMapping, &m.ProductAgentCommissionMapping},
		{EnvNewColumns, &m.NewColumns},
		{EnvAnnuityCommissionPercentage, &m.AnnuityCommissionPercentage},
		{EnvExcludedAgents, &m.ExcludedAgents},
	}

	for _, f := range fields {
		raw, ok := lookup(f.key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if err := decodeStrict(raw, f.dst); err != nil {
			return m, &ParseError{Source: "env", Key: f.key, Err: err}
		}
	}

	if v, ok := lookup(EnvAgentColumn); ok && v != "" {
		m.AgentColumn = v
	}
	if v, ok := lookup(EnvProductColumn); ok && v != "" {
		m.ProductColumn = v
	}

	return m, nil
}

// decodeStrict разбирает JSON в новое значение, чтобы ошибка не портила dst
func decodeStrict(raw string, dst any) error {
	switch p := dst.(type) {
	case *[]string:
		var v []string
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		*p = v
	case *map[string]string:
		var v map[string]string
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		*p = v
	case *map[string]float64:
		var v map[string]float64
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		*p = v
	case *float64:
		var v float64
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		*p = v
	default:
		return fmt.Errorf("неподдерживаемый тип %T", dst)
	}
	return nil
}

// Validate проверяет согласованность таблиц один раз на входе
func (m Mappings) Validate() error {
	if len(m.ColumnsToKeep) == 0 {
		return fmt.Errorf("%w: columnsToKeep пуст", ErrInvalidMappings)
	}

	seen := make(map[string]struct{}, len(m.ColumnsToKeep)+len(m.NewColumns))
	for _, c := range append(append([]string(nil), m.ColumnsToKeep...), m.NewColumns...) {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: пустое имя колонки", ErrInvalidMappings)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: колонка %q указана дважды в columnsToKeep/newColumns", ErrInvalidMappings, c)
		}
		seen[c] = struct{}{}
	}

	for from, to := range m.RenameMapping {
		if strings.TrimSpace(to) == "" {
			return fmt.Errorf("%w: пустое новое имя для %q", ErrInvalidMappings, from)
		}
	}

	if !contains(m.ColumnsToKeep, m.AgentColumn) {
		return fmt.Errorf("%w: колонка агента %q не входит в columnsToKeep", ErrInvalidMappings, m.AgentColumn)
	}
	if len(m.ProductNameMapping) > 0 && !contains(m.ColumnsToKeep, m.ProductColumn) {
		return fmt.Errorf("%w: колонка продукта %q не входит в columnsToKeep", ErrInvalidMappings, m.ProductColumn)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
