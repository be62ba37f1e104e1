package regroup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ryabkov82/agent-report/internal/config"
	"github.com/ryabkov82/agent-report/internal/loader"
	"github.com/ryabkov82/agent-report/internal/report"
	"github.com/ryabkov82/agent-report/internal/workbook"
)

// OutputFileName - имя файла, под которым отдается результат
const OutputFileName = "grouped_data.xlsx"

type FileRegrouper interface {
	RegroupFile(cfg *config.Config) (*Result, error)
}

// Result - сводка по построенной книге
type Result struct {
	OutputFile string   `json:"output_file,omitempty"`
	Sheets     []string `json:"sheets"`
	Agents     int      `json:"agents"`
	RowCount   int      `json:"row_count"`
}

// Regroup читает отчет из src, перестраивает его и пишет xlsx в dst.
// Книга собирается целиком до первой записи в dst.
func Regroup(src io.Reader, filename string, dst io.Writer, m config.Mappings, now time.Time) (*Result, error) {
	raw, err := loader.ReadFirstSheet(src, filename)
	if err != nil {
		return nil, err
	}

	t, err := loader.Normalize(loader.ParseGrid(raw), m)
	if err != nil {
		return nil, err
	}

	wb, err := report.Build(t, m.AgentColumn, now)
	if err != nil {
		return nil, err
	}

	if err := workbook.Encode(dst, wb); err != nil {
		return nil, err
	}

	return &Result{
		Sheets:   wb.Names(),
		Agents:   wb.Len() - 1,
		RowCount: t.Len(),
	}, nil
}

// FileProcessor перестраивает файл на диске
type FileProcessor struct {
	Mappings config.Mappings
	Now      func() time.Time
}

func NewFileProcessor(m config.Mappings) FileRegrouper {
	return &FileProcessor{Mappings: m, Now: time.Now}
}

// RegroupFile пишет результат во временный файл рядом с OutputPath и
// переименовывает его только после успешной записи.
func (p *FileProcessor) RegroupFile(cfg *config.Config) (*Result, error) {
	in, err := os.Open(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", cfg.InputPath, err)
	}
	defer in.Close()

	dir := filepath.Dir(cfg.OutputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания папки %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".grouped-*.xlsx")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	res, err := Regroup(in, filepath.Base(cfg.InputPath), tmp, p.Mappings, now())
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("ошибка закрытия временного файла: %w", closeErr)
	}
	if err != nil {
		return nil, err
	}

	if err := os.Rename(tmpName, cfg.OutputPath); err != nil {
		return nil, fmt.Errorf("ошибка сохранения файла %s: %w", cfg.OutputPath, err)
	}
	res.OutputFile = cfg.OutputPath

	log.Info().
		Str("input", cfg.InputPath).
		Str("output", cfg.OutputPath).
		Int("agents", res.Agents).
		Int("rows", res.RowCount).
		Msg("Отчет перестроен")
	return res, nil
}
