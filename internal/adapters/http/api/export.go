package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/okian/popcast/internal/adapters/repository"
	"github.com/okian/popcast/internal/adapters/spreadsheet"
	"github.com/okian/popcast/pkg/logger"
)

// ExportHandler serves the spreadsheet download.
type ExportHandler struct {
	deps     Dependencies
	filename string
}

// NewExportHandler creates a new export handler that names the attachment
// filename.
func NewExportHandler(deps Dependencies, filename string) *ExportHandler {
	if filename == "" {
		filename = DefaultExportFilename
	}
	return &ExportHandler{deps: deps, filename: filename}
}

// HandleExport handles GET /api/export_excel.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()

	b, err := h.deps.ExportWorkbook(ctx)
	switch {
	case errors.Is(err, repository.ErrNoData):
		writeError(w, http.StatusBadRequest, "no_data", msgNoData, nil)
		return
	case err != nil:
		logger.Get().Error(ctx, "export failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "", err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": h.filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		logger.Get().Warn(ctx, "export write interrupted", logger.Error(err))
	}
}
