package api

import "net/http"

// RootHandler serves the service description at /.
type RootHandler struct {
	endpoints map[string]string
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{
		endpoints: map[string]string{
			"ajouter_ville":    "/api/ajouter_ville (POST)",
			"get_villes":       "/api/get_villes (GET)",
			"export_excel":     "/api/export_excel (GET)",
			"reinitialiser":    "/api/reinitialiser (POST)",
			"charger_exemples": "/api/charger_exemples (POST)",
		},
	}
}

type rootResponse struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, rootResponse{
		Message:   msgRootService,
		Status:    msgRootStatusOK,
		Endpoints: h.endpoints,
	})
}
