package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ryabkov82/agent-report/internal/config"
	"github.com/ryabkov82/agent-report/internal/loader"
	"github.com/ryabkov82/agent-report/internal/regroup"
	"github.com/ryabkov82/agent-report/internal/workbook"
)

const (
	MaxUploadSize = 32 << 20
	UploadField   = "file"
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Server struct {
	mappings config.Mappings
	now      func() time.Time
	mux      *http.ServeMux
}

func New(m config.Mappings) *Server {
	s := &Server{mappings: m, now: time.Now, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/mappings", s.handleMappings)
	s.mux.HandleFunc("/api/upload", s.handleUpload)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)

	log.Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", rec.status).
		Dur("duration", time.Since(start)).
		Msg("HTTP запрос")
}

// handleMappings отдает действующие таблицы соответствий
func (s *Server) handleMappings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, s.mappings)
}

// handleUpload принимает отчет в поле file и возвращает grouped_data.xlsx.
// Обрабатывается только первый файл формы.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("ошибка разбора формы: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File[UploadField]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("файл не передан в поле %q", UploadField))
		return
	}
	header := files[0]

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("неподдерживаемый формат файла %q", header.Filename))
		return
	}

	src, err := header.Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("ошибка чтения файла: %w", err))
		return
	}
	defer src.Close()

	var out bytes.Buffer
	res, err := regroup.Regroup(src, header.Filename, &out, s.mappings, s.now())
	if err != nil {
		log.Warn().Err(err).Str("file", header.Filename).Msg("Не удалось перестроить отчет")
		writeError(w, statusFor(err), err)
		return
	}

	log.Info().
		Str("file", header.Filename).
		Int("agents", res.Agents).
		Int("rows", res.RowCount).
		Msg("Отчет перестроен")

	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", regroup.OutputFileName))
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = out.WriteTo(w)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, loader.ErrMalformedInput),
		errors.Is(err, loader.ErrMissingColumn),
		errors.Is(err, workbook.ErrSheetNameCollision):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("метод не поддерживается"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Ошибка вывода JSON")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
