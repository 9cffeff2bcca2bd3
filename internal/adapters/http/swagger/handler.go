// Package swagger serves the OpenAPI document and a ReDoc page for it.
package swagger

import (
	"context"
	_ "embed"
	"net/http"
	"strconv"
	"strings"
)

// OpenAPI contains the embedded OpenAPI YAML document.
//
//go:embed openapi.yaml
var OpenAPI []byte

// RedocScriptURL is the ReDoc bundle loaded by the docs page.
const RedocScriptURL = "https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"

// documentBaseYear is the base year the embedded document is written for.
const (
	documentBaseYear = 2016
	sampleInterval   = 2
)

// Option customizes the served document.
type Option func(*options)

type options struct {
	baseYear int
}

// WithBaseYear renames the population_<year> request fields to match the
// service's base year.
func WithBaseYear(year int) Option {
	return func(o *options) {
		if year > 0 {
			o.baseYear = year
		}
	}
}

// Document returns the OpenAPI document with request field names derived
// from baseYear.
func Document(baseYear int) []byte {
	if baseYear <= 0 || baseYear == documentBaseYear {
		return OpenAPI
	}
	pairs := make([]string, 0, 6)
	for i := 0; i < 3; i++ {
		pairs = append(pairs,
			populationField(documentBaseYear+i*sampleInterval),
			populationField(baseYear+i*sampleInterval))
	}
	return []byte(strings.NewReplacer(pairs...).Replace(string(OpenAPI)))
}

func populationField(year int) string {
	return "population_" + strconv.Itoa(year)
}

// Register attaches the API docs routes to mux.
// Routes:
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> embedded OpenAPI document
func Register(_ context.Context, mux *http.ServeMux, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}

	o := options{baseYear: documentBaseYear}
	for _, opt := range opts {
		opt(&o)
	}
	doc := Document(o.baseYear)

	mux.HandleFunc("GET /api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(doc)
	})
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>API de Projection Démographique - ReDoc</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="` + RedocScriptURL + `"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
