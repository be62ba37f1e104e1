package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultOutputPath = "./grouped_data.xlsx"
	DefaultAddr       = ":8080"
	EnvMappingsFile   = "MAPPINGS_FILE"
)

type Config struct {
	InputPath    string
	OutputPath   string
	MappingsFile string // YAML/JSON с таблицами соответствий, необязательный
	Addr         string // адрес HTTP сервера для serve
}

// Validate проверяет и нормализует параметры запуска convert
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("необходимо указать входной файл")
	}

	ext := strings.ToLower(filepath.Ext(c.InputPath))
	if ext != ".xlsx" && ext != ".xls" {
		return fmt.Errorf("неподдерживаемый формат файла %s: ожидается .xlsx или .xls", c.InputPath)
	}

	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}

	// Нормализация путей
	c.InputPath = filepath.Clean(c.InputPath)
	c.OutputPath = filepath.Clean(c.OutputPath)

	return nil
}

// LoadMappings собирает таблицы соответствий: значения по умолчанию,
// затем файл (MappingsFile или MAPPINGS_FILE), затем переменные окружения.
func (c *Config) LoadMappings(lookup LookupFunc) (Mappings, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	m := DefaultMappings()

	path := c.MappingsFile
	if path == "" {
		path, _ = lookup(EnvMappingsFile)
	}
	if path != "" {
		var err error
		if m, err = LoadMappingsFile(m, path); err != nil {
			return Mappings{}, err
		}
	}

	m, err := ApplyEnv(m, lookup)
	if err != nil {
		return Mappings{}, err
	}

	if err := m.Validate(); err != nil {
		return Mappings{}, err
	}
	return m, nil
}
