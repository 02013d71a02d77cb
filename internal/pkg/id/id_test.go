package id

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewOrdered(t *testing.T) {
	Convey("NewOrdered 单调递增", t, func() {
		prev := NewOrdered()
		for i := 0; i < 1000; i++ {
			next := NewOrdered()
			So(next > prev, ShouldBeTrue)
			prev = next
		}
		So(IsValid(prev), ShouldBeTrue)
	})

	Convey("IsValid", t, func() {
		So(IsValid(New()), ShouldBeTrue)
		So(IsValid("not-a-uuid"), ShouldBeFalse)
	})
}
