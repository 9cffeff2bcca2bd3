package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/popcast/internal/adapters/repository"
	"github.com/okian/popcast/internal/domain/model"
	"github.com/okian/popcast/internal/domain/projection"
	"github.com/okian/popcast/pkg/logger"
)

const (
	fieldLocality         = "nom_ville"
	fieldPopulationPrefix = "population_"
	maxRequestBytes       = 1 << 20
)

// LocalitiesHandler serves locality creation and lookup.
type LocalitiesHandler struct {
	deps Dependencies
}

// NewLocalitiesHandler creates a new localities handler.
func NewLocalitiesHandler(deps Dependencies) *LocalitiesHandler {
	return &LocalitiesHandler{deps: deps}
}

// HandleAddLocality handles POST /api/ajouter_ville.
func (h *LocalitiesHandler) HandleAddLocality(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()

	census, err := decodeCensus(io.LimitReader(r.Body, maxRequestBytes), h.deps.BaseYear())
	if err != nil {
		if errors.Is(err, ErrBadRequest) {
			writeError(w, http.StatusBadRequest, "invalid_data", msgInvalidData, err)
			return
		}
		logger.Get().Debug(ctx, "undecodable census request", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "", err.Error(), nil)
		return
	}

	rec, err := h.deps.AddLocality(ctx, census)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCensus) {
			writeError(w, http.StatusBadRequest, "invalid_data", msgInvalidData, err)
			return
		}
		logger.Get().Error(ctx, "add locality failed", logger.String("locality", census.Locality), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "", err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, addLocalityResponse{
		Success:   true,
		Ville:     census.Locality,
		Resultats: rec,
	})
}

// HandleGetLocalities handles GET /api/get_villes. With a nom query
// parameter it returns that locality's record only.
func (h *LocalitiesHandler) HandleGetLocalities(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()

	if !r.URL.Query().Has("nom") {
		writeJSON(w, http.StatusOK, h.deps.Localities(ctx))
		return
	}

	rec, err := h.deps.Locality(ctx, r.URL.Query().Get("nom"))
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrEmptyLocality):
		writeError(w, http.StatusNotFound, "not_found", msgNotFound, nil)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "", err.Error(), nil)
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

var errTrailingData = errors.New("unexpected data after JSON object")

// decodeCensus reads a census request body. Malformed JSON, including any
// data after the object, is returned as is; missing or unusable fields wrap ErrBadRequest.
func decodeCensus(body io.Reader, baseYear int) (model.Census, error) {
	const op = "api.decode_census"

	var fields map[string]json.RawMessage
	dec := json.NewDecoder(body)
	if err := dec.Decode(&fields); err != nil {
		return model.Census{}, Wrap(op, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return model.Census{}, Wrap(op, errTrailingData)
	}

	var c model.Census
	name, ok := fields[fieldLocality]
	if !ok {
		return model.Census{}, WrapKind(op, ErrBadRequest, fmt.Errorf("missing %s", fieldLocality))
	}
	if err := json.Unmarshal(name, &c.Locality); err != nil {
		return model.Census{}, WrapKind(op, ErrBadRequest, fmt.Errorf("%s must be a string", fieldLocality))
	}

	for i := range c.Populations {
		key := fieldPopulationPrefix + strconv.Itoa(baseYear+i*projection.SampleInterval)
		raw, ok := fields[key]
		if !ok {
			return model.Census{}, WrapKind(op, ErrBadRequest, fmt.Errorf("missing %s", key))
		}
		v, err := parsePopulation(raw)
		if err != nil {
			return model.Census{}, WrapKind(op, ErrBadRequest, fmt.Errorf("%s: %w", key, err))
		}
		c.Populations[i] = v
	}
	return c, nil
}

// parsePopulation accepts a JSON number or a string holding one.
func parsePopulation(raw json.RawMessage) (float64, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}

	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, errors.New("not a number")
		}
		f = parsed
	default:
		return 0, errors.New("not a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number")
	}
	return f, nil
}
