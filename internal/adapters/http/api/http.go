// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/popcast/internal/adapters/repository"
	"github.com/okian/popcast/internal/domain/model"
	"github.com/okian/popcast/internal/domain/types"
)

// DefaultExportFilename is the attachment name of the workbook download.
const DefaultExportFilename = "projections_demographiques.xlsx"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// AddLocality projects and stores one census. Validation failures wrap
	// model.ErrInvalidCensus.
	AddLocality(ctx context.Context, c model.Census) (types.Record, error)

	// Read operations expose stored projections.
	Localities(ctx context.Context) repository.Snapshot
	Locality(ctx context.Context, name string) (types.Record, error)

	Reset(ctx context.Context) error
	LoadExamples(ctx context.Context) ([]string, error)

	// ExportWorkbook returns repository.ErrNoData when nothing is stored.
	ExportWorkbook(ctx context.Context) ([]byte, error)

	// BaseYear names the population_<year> request fields.
	BaseYear() int
}

// Record mirrors the projection shape returned by the API.
type Record = types.Record

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler       *RootHandler
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	localitiesHandler *LocalitiesHandler
	exportHandler     *ExportHandler
	adminHandler      *AdminHandler
}

// ServerOption customizes a Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	exportFilename string
}

// WithExportFilename sets the attachment name of the workbook download.
func WithExportFilename(name string) ServerOption {
	return func(o *serverOptions) {
		if name != "" {
			o.exportFilename = name
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	o := serverOptions{exportFilename: DefaultExportFilename}
	for _, opt := range opts {
		opt(&o)
	}

	return &Server{
		rootHandler:       NewRootHandler(),
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		localitiesHandler: NewLocalitiesHandler(deps),
		exportHandler:     NewExportHandler(deps, o.exportFilename),
		adminHandler:      NewAdminHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/{$}", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/ajouter_ville", MetricsMiddleware(s.localitiesHandler.HandleAddLocality, "ajouter_ville"))
	mux.HandleFunc("/api/get_villes", MetricsMiddleware(s.localitiesHandler.HandleGetLocalities, "get_villes"))
	mux.HandleFunc("/api/export_excel", MetricsMiddleware(s.exportHandler.HandleExport, "export_excel"))
	mux.HandleFunc("/api/reinitialiser", MetricsMiddleware(s.adminHandler.HandleReset, "reinitialiser"))
	mux.HandleFunc("/api/charger_exemples", MetricsMiddleware(s.adminHandler.HandleLoadExamples, "charger_exemples"))
}

// Response messages.
const (
	msgInvalidData  = "Données invalides"
	msgNoData       = "Aucune donnée à exporter"
	msgNotFound     = "Ville introuvable"
	msgMethod       = "Méthode non autorisée"
	msgReset        = "Données réinitialisées"
	msgExamplesFmt  = "%d villes chargées avec succès"
	msgRootService  = "API de Projection Démographique"
	msgRootStatusOK = "online"
)

type errorResponse struct {
	Erreur string `json:"erreur"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type addLocalityResponse struct {
	Success   bool   `json:"success"`
	Ville     string `json:"ville"`
	Resultats Record `json:"resultats"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loadExamplesResponse struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	VillesAjoutees []string `json:"villes_ajoutees"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string, err error) {
	resp := errorResponse{Erreur: msg, Code: code}
	if err != nil && err.Error() != msg {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

// allowMethod answers 405 with an Allow header when r does not use method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	if method == http.MethodGet && r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", method)
	err := NewKind(r.Method+" "+r.URL.Path, ErrMethodNotAllowed)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", msgMethod, err)
	return false
}
