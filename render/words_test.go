package render

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLayoutWords(t *testing.T) {
	Convey("layoutWords staggers words across the scene", t, func() {
		const (
			width  = 1080
			height = 1920
		)

		Convey("each word gets an even slot with overlap", func() {
			words := layoutWords("one two three four", 8.0, width, height, 1)
			So(words, ShouldHaveLength, 4)

			slot := 2.0
			for i, w := range words {
				So(w.Start, ShouldAlmostEqual, float64(i)*slot, 1e-9)
				if w.End < 8.0 {
					So(w.End, ShouldAlmostEqual, w.Start+slot*1.5, 1e-9)
				}
			}
			// The last word never outlives the scene.
			So(words[3].End, ShouldBeLessThanOrEqualTo, 8.0)
		})

		Convey("positions stay inside the safe margins", func() {
			for seed := int64(0); seed < 25; seed++ {
				for _, w := range layoutWords("lots of moving words on screen here", 7.0, width, height, seed) {
					So(w.X, ShouldBeGreaterThanOrEqualTo, safeMarginX)
					So(w.X, ShouldBeLessThan, width-safeMarginXEnd)
					So(w.Y, ShouldBeGreaterThanOrEqualTo, safeMarginY)
					So(w.Y, ShouldBeLessThan, height-safeMarginY)
				}
			}
		})

		Convey("sizes jitter within the expected band", func() {
			for _, w := range layoutWords("alpha beta gamma delta epsilon", 5.0, width, height, 7) {
				So(w.Size, ShouldBeGreaterThanOrEqualTo, wordBaseSize-10)
				So(w.Size, ShouldBeLessThanOrEqualTo, wordBaseSize+20)
			}
		})

		Convey("the same seed reproduces the same layout", func() {
			a := layoutWords("repeatable dynamic words", 6.0, width, height, 42)
			b := layoutWords("repeatable dynamic words", 6.0, width, height, 42)
			So(a, ShouldResemble, b)
		})

		Convey("different seeds move things around", func() {
			a := layoutWords("repeatable dynamic words", 6.0, width, height, 1)
			b := layoutWords("repeatable dynamic words", 6.0, width, height, 2)
			So(a, ShouldNotResemble, b)
		})

		Convey("empty text yields no placements", func() {
			So(layoutWords("   ", 5.0, width, height, 1), ShouldBeNil)
		})
	})
}
