package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/popcast/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, "0.0.0.0:5000")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.BaseYear, convey.ShouldEqual, 2016)
			convey.So(cfg.Horizons, convey.ShouldResemble, []int{7, 8, 9, 10})
			convey.So(cfg.ExportFilename, convey.ShouldEqual, "projections_demographiques.xlsx")
			convey.So(cfg.ExportSheet, convey.ShouldEqual, "Projections")
			convey.So(cfg.CORSAllowOrigin, convey.ShouldEqual, "*")
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "popcast")
			convey.So(cfg.MetricsRefreshInterval, convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.MetricsLabels, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid setting", t, func() {
		cases := map[string]func(*config.Config){
			"addr must not be empty":                    func(c *config.Config) { c.Addr = "" },
			"base_year must be positive":                func(c *config.Config) { c.BaseYear = 0 },
			"horizons must not be empty":                func(c *config.Config) { c.Horizons = nil },
			"horizons must be greater than 4":           func(c *config.Config) { c.Horizons = []int{4, 7} },
			"export_filename must not be empty":         func(c *config.Config) { c.ExportFilename = "" },
			"export_sheet must not be empty":            func(c *config.Config) { c.ExportSheet = "" },
			"metrics_namespace must not be empty":       func(c *config.Config) { c.MetricsNamespace = "" },
			"metrics_refresh_interval must be positive": func(c *config.Config) { c.MetricsRefreshInterval = 0 },
		}

		convey.Convey("Then each should fail with ErrInvalidConfig", func() {
			for msg, mutate := range cases {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, msg)
			}
		})
	})
}
