package api

import (
	"fmt"
	"net/http"

	"github.com/okian/popcast/pkg/logger"
)

// AdminHandler serves store maintenance routes.
type AdminHandler struct {
	deps Dependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// HandleReset handles POST /api/reinitialiser.
func (h *AdminHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.deps.Reset(r.Context()); err != nil {
		logger.Get().Error(r.Context(), "reset failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: msgReset})
}

// HandleLoadExamples handles POST /api/charger_exemples.
func (h *AdminHandler) HandleLoadExamples(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	names, err := h.deps.LoadExamples(r.Context())
	if err != nil {
		logger.Get().Error(r.Context(), "loading examples failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, loadExamplesResponse{
		Success:        true,
		Message:        fmt.Sprintf(msgExamplesFmt, len(names)),
		VillesAjoutees: names,
	})
}
