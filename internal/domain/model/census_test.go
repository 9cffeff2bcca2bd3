package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/okian/popcast/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestCensusValidate(t *testing.T) {
	convey.Convey("Given census input", t, func() {
		convey.Convey("When every field is valid", func() {
			c := model.Census{Locality: "YAOUNDE 1", Populations: [3]float64{429252, 461134, 494353}}

			convey.Convey("Then validation should pass", func() {
				convey.So(c.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When all populations are zero", func() {
			c := model.Census{Locality: "ghost town"}

			convey.Convey("Then validation should pass", func() {
				convey.So(c.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the locality is blank", func() {
			c := model.Census{Locality: "   ", Populations: [3]float64{1, 2, 3}}

			convey.Convey("Then it should be rejected", func() {
				err := c.Validate()
				convey.So(errors.Is(err, model.ErrInvalidCensus), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "missing locality")
			})
		})

		convey.Convey("When a population is negative", func() {
			c := model.Census{Locality: "A", Populations: [3]float64{-1, 2, 3}}

			convey.Convey("Then it should be rejected", func() {
				err := c.Validate()
				convey.So(errors.Is(err, model.ErrInvalidCensus), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "negative")
			})
		})

		convey.Convey("When a population is not finite", func() {
			nan := model.Census{Locality: "A", Populations: [3]float64{1, math.NaN(), 3}}
			inf := model.Census{Locality: "A", Populations: [3]float64{1, 2, math.Inf(1)}}

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(nan.Validate(), model.ErrInvalidCensus), convey.ShouldBeTrue)
				convey.So(errors.Is(inf.Validate(), model.ErrInvalidCensus), convey.ShouldBeTrue)
			})
		})
	})
}
