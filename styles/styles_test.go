package styles

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"shortsmith/types"
)

func TestResolve(t *testing.T) {
	Convey("Resolve returns per-category style profiles", t, func() {

		Convey("known categories get their own profile", func() {
			gaming := Resolve("gaming")
			So(gaming.Primary.Hex(), ShouldEqual, "0xFF6B35")
			So(gaming.Animation, ShouldEqual, types.AnimZoom)
			So(gaming.Energy, ShouldEqual, types.EnergyHigh)

			educational := Resolve("educational")
			So(educational.Background, ShouldEqual, types.BackgroundSolid)
			So(educational.Energy, ShouldEqual, types.EnergyMedium)
		})

		Convey("unknown categories fall back to the default profile", func() {
			So(Resolve("podcasting"), ShouldResemble, Resolve(DefaultCategory))
		})
	})
}

func TestVoice(t *testing.T) {
	Convey("Voice returns per-category synthesizer voices", t, func() {
		So(Voice("gaming"), ShouldEqual, "en-US-GuyNeural")
		So(Voice("anime"), ShouldEqual, "en-US-AriaNeural")

		Convey("unknown categories fall back to the default voice", func() {
			So(Voice("podcasting"), ShouldEqual, DefaultVoice)
		})
	})
}

func TestLoadExtensions(t *testing.T) {
	Convey("LoadExtensions merges yaml entries into the registries", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "styles.yaml")
		ext := `
styles:
  cooking:
    primary_color: "#AA1100"
    secondary_color: "#0011AA"
    font: arial
    animation: fade
    background: solid
    energy: low
voices:
  cooking: en-GB-SoniaNeural
`
		So(os.WriteFile(path, []byte(ext), 0644), ShouldBeNil)
		So(LoadExtensions(path), ShouldBeNil)

		profile := Resolve("cooking")
		So(profile.Primary, ShouldResemble, types.RGB{R: 0xAA, G: 0x11, B: 0x00})
		So(profile.Animation, ShouldEqual, types.AnimFade)
		So(Voice("cooking"), ShouldEqual, "en-GB-SoniaNeural")

		Convey("a missing file is an error", func() {
			So(LoadExtensions(filepath.Join(dir, "absent.yaml")), ShouldNotBeNil)
		})
	})
}
