package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"shortsmith/config"
	"shortsmith/tempfiles"
	"shortsmith/types"
)

type fakeSynth struct {
	duration float64
	err      error
	registry *tempfiles.Registry
}

func (f *fakeSynth) Synthesize(ctx context.Context, script, category, workdir string) (types.AudioAsset, error) {
	if f.err != nil {
		return types.AudioAsset{}, f.err
	}
	path := filepath.Join(workdir, "tts.mp3")
	_ = os.WriteFile(path, []byte("audio"), 0644)
	if f.registry != nil {
		f.registry.Register(path)
	}
	return types.AudioAsset{Path: path, Duration: f.duration}, nil
}

type fakeAssets struct{}

func (fakeAssets) Fetch(ctx context.Context, scene types.Scene, category string, style types.StyleProfile, workdir string) []string {
	return []string{"img.png"}
}

type fakeRenderer struct {
	mu        sync.Mutex
	completed []int
	err       error
}

func (f *fakeRenderer) RenderScene(ctx context.Context, scene types.Scene, index int, style types.StyleProfile, images []string, workdir string) (types.RenderedClip, error) {
	if f.err != nil {
		return types.RenderedClip{}, f.err
	}
	// Later scenes finish first so completion order differs from
	// timeline order.
	time.Sleep(time.Duration(5-index) * 5 * time.Millisecond)
	f.mu.Lock()
	f.completed = append(f.completed, index)
	f.mu.Unlock()
	return types.RenderedClip{Path: fmt.Sprintf("scene_%03d.mp4", index), Duration: scene.Duration(), Index: index}, nil
}

type fakeCompositor struct {
	gotClips []types.RenderedClip
	gotAudio types.AudioAsset
}

func (f *fakeCompositor) Compose(ctx context.Context, clips []types.RenderedClip, audio types.AudioAsset, energy types.EnergyLevel, outPath, workdir string) (string, float64, error) {
	f.gotClips = clips
	f.gotAudio = audio
	video := 0.0
	for _, c := range clips {
		video += c.Duration
	}
	if audio.Duration < video {
		return outPath, audio.Duration, nil
	}
	return outPath, video, nil
}

func testStages(registry *tempfiles.Registry, synth *fakeSynth, renderer *fakeRenderer, comp *fakeCompositor) stages {
	synth.registry = registry
	return stages{
		synth:      synth,
		assets:     fakeAssets{},
		renderer:   renderer,
		compositor: comp,
		registry:   registry,
	}
}

func TestRun(t *testing.T) {
	Convey("the pipeline runs parse, speech, render and compose", t, func() {
		cfg := config.Default()
		cfg.Paths.Workdir = t.TempDir()
		g := &Generator{cfg: cfg}
		out := filepath.Join(t.TempDir(), "final.mp4")

		script := "[0-3s] Welcome!\n[3-8s] This is epic!\n[8-10s] Like and subscribe!"

		Convey("clips reach the compositor in timeline order", func() {
			comp := &fakeCompositor{}
			renderer := &fakeRenderer{}
			s := testStages(tempfiles.NewRegistry(), &fakeSynth{duration: 9.5}, renderer, comp)

			result, err := g.run(context.Background(), Request{Script: script, Category: "gaming", OutputPath: out}, s)
			So(err, ShouldBeNil)
			So(result.SceneCount, ShouldEqual, 3)
			So(result.VideoPath, ShouldEqual, out)

			So(comp.gotClips, ShouldHaveLength, 3)
			for i, clip := range comp.gotClips {
				So(clip.Index, ShouldEqual, i)
			}
			// Sanity: the stub really did complete out of order.
			So(renderer.completed[0], ShouldNotEqual, 0)

			// min(V, A): audio is shorter than the 10s timeline.
			So(result.Duration, ShouldEqual, 9.5)
		})

		Convey("an empty script short-circuits before any asset exists", func() {
			comp := &fakeCompositor{}
			s := testStages(tempfiles.NewRegistry(), &fakeSynth{duration: 1}, &fakeRenderer{}, comp)

			_, err := g.run(context.Background(), Request{Script: "# notes only\n\n", OutputPath: out}, s)
			So(errors.Is(err, ErrNothingToRender), ShouldBeTrue)
			So(comp.gotClips, ShouldBeNil)
			So(s.registry.Paths(), ShouldBeEmpty)
		})

		Convey("a malformed script is a parse error", func() {
			s := testStages(tempfiles.NewRegistry(), &fakeSynth{duration: 1}, &fakeRenderer{}, &fakeCompositor{})
			_, err := g.run(context.Background(), Request{Script: "[oops-5s] broken", OutputPath: out}, s)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "parse script")
		})

		Convey("synthesis failure aborts the run but temp assets are cleaned", func() {
			registry := tempfiles.NewRegistry()
			s := testStages(registry, &fakeSynth{err: fmt.Errorf("tts unreachable")}, &fakeRenderer{}, &fakeCompositor{})

			_, err := g.run(context.Background(), Request{Script: script, OutputPath: out}, s)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "speech stage")
			// Cleanup already ran on the way out.
			So(registry.Paths(), ShouldBeEmpty)
		})

		Convey("render failure surfaces as a render stage error", func() {
			s := testStages(tempfiles.NewRegistry(), &fakeSynth{duration: 5}, &fakeRenderer{err: fmt.Errorf("ffmpeg exploded")}, &fakeCompositor{})
			_, err := g.run(context.Background(), Request{Script: script, OutputPath: out}, s)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "render stage")
		})
	})
}
