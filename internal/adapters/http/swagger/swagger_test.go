package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"go.yaml.in/yaml/v3"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a swagger handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		convey.Convey("When registering the swagger handler", func() {
			Register(ctx, mux)

			convey.Convey("Then it should handle /openapi.yaml route", func() {
				req := httptest.NewRequest("GET", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
				convey.So(w.Body.Len(), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("And it should handle /api-docs route", func() {
				req := httptest.NewRequest("GET", "/api-docs", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, RedocScriptURL)
			})

			convey.Convey("And it should reject other methods", func() {
				req := httptest.NewRequest("POST", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		convey.Convey("When registering on a nil mux", func() {
			convey.So(func() { Register(ctx, nil) }, convey.ShouldPanic)
		})
	})
}

func TestOpenAPIDocument(t *testing.T) {
	convey.Convey("Given the embedded OpenAPI document", t, func() {
		var doc struct {
			OpenAPI string                    `yaml:"openapi"`
			Paths   map[string]map[string]any `yaml:"paths"`
		}
		err := yaml.Unmarshal(OpenAPI, &doc)

		convey.Convey("Then it should parse and describe every API route", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(doc.OpenAPI, convey.ShouldStartWith, "3.")
			convey.So(doc.Paths["/"], convey.ShouldContainKey, "get")
			convey.So(doc.Paths["/api/ajouter_ville"], convey.ShouldContainKey, "post")
			convey.So(doc.Paths["/api/get_villes"], convey.ShouldContainKey, "get")
			convey.So(doc.Paths["/api/export_excel"], convey.ShouldContainKey, "get")
			convey.So(doc.Paths["/api/reinitialiser"], convey.ShouldContainKey, "post")
			convey.So(doc.Paths["/api/charger_exemples"], convey.ShouldContainKey, "post")
			convey.So(doc.Paths["/healthz"], convey.ShouldContainKey, "get")
			convey.So(doc.Paths["/stats"], convey.ShouldContainKey, "get")
		})
	})
}

func TestDocumentBaseYear(t *testing.T) {
	convey.Convey("Given a service configured with another base year", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux, WithBaseYear(2018))

		convey.Convey("When fetching the OpenAPI document", func() {
			req := httptest.NewRequest("GET", "/openapi.yaml", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			var doc struct {
				Components struct {
					Schemas map[string]struct {
						Required   []string       `yaml:"required"`
						Properties map[string]any `yaml:"properties"`
					} `yaml:"schemas"`
				} `yaml:"components"`
			}
			err := yaml.Unmarshal(w.Body.Bytes(), &doc)

			convey.Convey("Then the census fields should follow that base year", func() {
				convey.So(err, convey.ShouldBeNil)
				census := doc.Components.Schemas["CensusRequest"]
				convey.So(census.Required, convey.ShouldResemble,
					[]string{"nom_ville", "population_2018", "population_2020", "population_2022"})
				convey.So(census.Properties, convey.ShouldContainKey, "population_2022")
				convey.So(census.Properties, convey.ShouldNotContainKey, "population_2016")
			})
		})
	})

	convey.Convey("Given the default base year", t, func() {
		convey.So(string(Document(2016)), convey.ShouldEqual, string(OpenAPI))
		convey.So(string(Document(0)), convey.ShouldEqual, string(OpenAPI))
	})
}
