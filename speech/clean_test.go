package speech

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClean(t *testing.T) {
	Convey("Clean prepares script text for the synthesizer", t, func() {

		Convey("timestamp brackets are stripped", func() {
			So(Clean("[0-3s] Welcome gamers."), ShouldEqual, "Welcome gamers. ..")
		})

		Convey("comments and blank lines are dropped", func() {
			So(Clean("# a note\n\nHello there.\n"), ShouldEqual, "Hello there. ..")
		})

		Convey("quotes and formatting characters are removed", func() {
			So(Clean(`He said "wow" and *left*`), ShouldEqual, "He said wow and left")
		})

		Convey("emphatic endings get a longer pause than periods", func() {
			So(Clean("So exciting!"), ShouldEndWith, " ...")
			So(Clean("Really?"), ShouldEndWith, " ...")
			So(Clean("A plain sentence."), ShouldEndWith, " ..")
		})

		Convey("lines join into one narration string", func() {
			out := Clean("[0-3s] First line!\n[3-6s] Second line.")
			So(out, ShouldEqual, "First line! ... Second line. ..")
		})

		Convey("a script with nothing usable cleans to empty", func() {
			So(Clean("# nothing\n\n[0-5s]\n"), ShouldEqual, "")
		})
	})
}
