package api

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOpErrors(t *testing.T) {
	Convey("Given an underlying cause", t, func() {
		cause := errors.New("disk full")

		Convey("When wrapping with an operation only", func() {
			err := Wrap("api.export", cause)

			Convey("Then the message and chain should include the cause", func() {
				So(err.Error(), ShouldEqual, "api.export: disk full")
				So(errors.Is(err, cause), ShouldBeTrue)
			})
		})

		Convey("When wrapping a nil error", func() {
			So(Wrap("api.export", nil), ShouldBeNil)
		})

		Convey("When wrapping with a kind", func() {
			err := WrapKind("api.add_locality", ErrBadRequest, cause)

			Convey("Then both kind and cause should match", func() {
				So(err.Error(), ShouldEqual, "api.add_locality: bad request: disk full")
				So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
			})
		})

		Convey("When creating a bare kind", func() {
			err := NewKind("api.reset", ErrMethodNotAllowed)

			Convey("Then it should match only the kind", func() {
				So(err.Error(), ShouldEqual, "api.reset: method not allowed")
				So(errors.Is(err, ErrMethodNotAllowed), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeFalse)
			})
		})
	})
}
