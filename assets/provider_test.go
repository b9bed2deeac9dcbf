package assets

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"shortsmith/config"
	"shortsmith/tempfiles"
	"shortsmith/types"
)

func TestKeywords(t *testing.T) {
	Convey("Keywords derives search terms from scene text", t, func() {

		Convey("category defaults come first", func() {
			kw := Keywords("short", "gaming")
			So(kw, ShouldResemble, []string{"gaming", "esports", "controller", "computer", "short"})
		})

		Convey("content words must be longer than 3 characters", func() {
			kw := Keywords("the big red speedrun record", "")
			So(kw, ShouldResemble, []string{"speedrun", "record"})
		})

		Convey("stopwords are excluded", func() {
			kw := Keywords("this that with from incredible", "")
			So(kw, ShouldResemble, []string{"incredible"})
		})

		Convey("punctuation is trimmed and words lowercased", func() {
			kw := Keywords("Incredible! Speedrun,", "")
			So(kw, ShouldResemble, []string{"incredible", "speedrun"})
		})

		Convey("at most five keywords total", func() {
			kw := Keywords("alpha bravo charlie delta echo", "gaming")
			So(kw, ShouldHaveLength, 5)
		})
	})
}

type stubSearcher struct {
	urls []string
	err  error
}

func (s *stubSearcher) Search(ctx context.Context, keyword string, limit int) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.urls) > limit {
		return s.urls[:limit], nil
	}
	return s.urls, nil
}

func TestFetch(t *testing.T) {
	Convey("Fetch resolves scene imagery", t, func() {
		cfg := config.Default()
		registry := tempfiles.NewRegistry()
		workdir := t.TempDir()
		scene := types.Scene{Text: "epic gaming moments", VisualSource: "epic gaming moments", Kind: types.KindImageSequence}
		style := types.StyleProfile{Primary: types.RGB{R: 0xFF, G: 0x6B, B: 0x35}}

		Convey("a dead stock boundary degrades to placeholders, never an error", func() {
			provider := NewProvider(cfg, &stubSearcher{err: fmt.Errorf("no credentials")}, registry)

			images := provider.Fetch(context.Background(), scene, "gaming", style, workdir)
			So(len(images), ShouldBeGreaterThan, 0)
			So(len(images), ShouldBeLessThanOrEqualTo, cfg.Stock.MaxPerScene)
			for _, img := range images {
				_, err := os.Stat(img)
				So(err, ShouldBeNil)
			}
			defer registry.Cleanup()
		})

		Convey("empty search results also degrade to placeholders", func() {
			provider := NewProvider(cfg, &stubSearcher{}, registry)

			images := provider.Fetch(context.Background(), scene, "gaming", style, workdir)
			So(len(images), ShouldBeGreaterThan, 0)
			defer registry.Cleanup()
		})

		Convey("successful searches download and register the images", func() {
			payload := bytes.Repeat([]byte{0xFF}, 512)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(payload)
			}))
			defer server.Close()

			provider := NewProvider(cfg, &stubSearcher{urls: []string{server.URL + "/a.jpg", server.URL + "/b.jpg"}}, registry)

			images := provider.Fetch(context.Background(), scene, "gaming", style, workdir)
			// 2 urls for each of the first 2 keywords, capped per scene.
			So(len(images), ShouldEqual, cfg.Stock.MaxPerScene)
			So(len(registry.Paths()), ShouldBeGreaterThanOrEqualTo, len(images))
			for _, img := range images {
				data, err := os.ReadFile(img)
				So(err, ShouldBeNil)
				So(data, ShouldResemble, payload)
			}
			registry.Cleanup()
			for _, img := range images {
				_, err := os.Stat(img)
				So(os.IsNotExist(err), ShouldBeTrue)
			}
		})
	})
}
