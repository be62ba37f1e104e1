package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ryabkov82/agent-report/internal/config"
	"github.com/ryabkov82/agent-report/internal/regroup"
	"github.com/ryabkov82/agent-report/internal/server"
)

type Output struct {
	Success    bool     `json:"success"`
	OutputFile string   `json:"output_file,omitempty"`
	Sheets     []string `json:"sheets,omitempty"`
	Error      string   `json:"error,omitempty"`
	Duration   string   `json:"duration"`
	RowCount   int      `json:"row_count,omitempty"`
}

// errReported - ошибка уже выведена в JSON, cobra печатать ее не должна
var errReported = errors.New("ошибка выведена")

func main() {
	setupEnvironment()

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:           "agent-report",
		Short:         "Перестроение отчета о комиссионных по агентам",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfg.MappingsFile, "mappings", "", "YAML/JSON файл с таблицами соответствий")

	convertCmd := &cobra.Command{
		Use:   "convert [input.xlsx]",
		Short: "Перестроить файл и сохранить книгу с листами по агентам",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.InputPath = args[0]
			return runConvert(cfg)
		},
	}
	convertCmd.Flags().StringVarP(&cfg.OutputPath, "out", "o", config.DefaultOutputPath, "результирующий файл")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер загрузки отчетов",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", getEnvWithDefault("ADDR", config.DefaultAddr), "адрес HTTP сервера")

	mappingsCmd := &cobra.Command{
		Use:   "mappings",
		Short: "Вывести действующие таблицы соответствий",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cfg.LoadMappings(nil)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		},
	}

	rootCmd.AddCommand(convertCmd, serveCmd, mappingsCmd)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			log.Error().Err(err).Msg("Ошибка выполнения")
		}
		os.Exit(1)
	}
}

func runConvert(cfg *config.Config) error {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return fail(start, fmt.Sprintf("Ошибка конфигурации: %v", err))
	}

	m, err := cfg.LoadMappings(nil)
	if err != nil {
		return fail(start, fmt.Sprintf("Ошибка конфигурации: %v", err))
	}

	res, err := regroup.NewFileProcessor(m).RegroupFile(cfg)
	if err != nil {
		return fail(start, fmt.Sprintf("Ошибка перестроения: %v", err))
	}

	return emitJSON(Output{
		Success:    true,
		OutputFile: res.OutputFile,
		Sheets:     res.Sheets,
		RowCount:   res.RowCount,
		Duration:   time.Since(start).String(),
	})
}

func runServe(cfg *config.Config) error {
	m, err := cfg.LoadMappings(nil)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Msg("HTTP сервер запущен")
	return srv.ListenAndServe()
}

func fail(start time.Time, msg string) error {
	if err := emitJSON(Output{
		Success:  false,
		Error:    msg,
		Duration: time.Since(start).String(),
	}); err != nil {
		return err
	}
	return errReported
}

func emitJSON(out Output) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("ошибка вывода JSON: %w", err)
	}
	return nil
}
