// Package pipeline runs one script-to-video generation end to end: parse,
// synthesize speech and render scenes in parallel, composite, clean up.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"shortsmith/assets"
	"shortsmith/compose"
	"shortsmith/config"
	"shortsmith/render"
	"shortsmith/speech"
	"shortsmith/styles"
	"shortsmith/tempfiles"
	"shortsmith/timeline"
	"shortsmith/types"
)

// ErrNothingToRender is returned for scripts with no usable lines. It is a
// distinct "empty input" condition, not a generation failure: no asset has
// been created when it is returned.
var ErrNothingToRender = errors.New("script contains no renderable scenes")

// Request describes one render run.
type Request struct {
	Script   string
	Category string
	Title    string
	// OutputPath is optional; empty picks a generated name under the
	// configured output directory.
	OutputPath string
	// Seed drives randomized word placement; 0 means derive from the clock.
	Seed int64
}

// Result is the finished video.
type Result struct {
	VideoPath  string
	Duration   float64
	SceneCount int
}

// Generator wires the pipeline stages together.
type Generator struct {
	cfg      *config.Config
	searcher assets.ImageSearcher
}

// New creates a Generator using the real stock-image boundary.
func New(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg, searcher: assets.NewStockSearcher(cfg)}
}

// NewWithSearcher creates a Generator with a custom stock-image boundary.
func NewWithSearcher(cfg *config.Config, searcher assets.ImageSearcher) *Generator {
	return &Generator{cfg: cfg, searcher: searcher}
}

// Stage boundaries, narrowed for the orchestrator (and its tests).
type speechSynthesizer interface {
	Synthesize(ctx context.Context, script, category, workdir string) (types.AudioAsset, error)
}

type assetFetcher interface {
	Fetch(ctx context.Context, scene types.Scene, category string, style types.StyleProfile, workdir string) []string
}

type sceneRenderer interface {
	RenderScene(ctx context.Context, scene types.Scene, index int, style types.StyleProfile, images []string, workdir string) (types.RenderedClip, error)
}

type videoCompositor interface {
	Compose(ctx context.Context, clips []types.RenderedClip, audio types.AudioAsset, energy types.EnergyLevel, outPath, workdir string) (string, float64, error)
}

type stages struct {
	synth      speechSynthesizer
	assets     assetFetcher
	renderer   sceneRenderer
	compositor videoCompositor
	registry   *tempfiles.Registry
}

// Run executes one full generation. Temp assets registered along the way
// are cleaned up unconditionally, whether the run succeeds, fails or is
// cancelled.
func (g *Generator) Run(ctx context.Context, req Request) (Result, error) {
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	registry := tempfiles.NewRegistry()
	s := stages{
		synth:      speech.NewSynthesizer(g.cfg, registry),
		assets:     assets.NewProvider(g.cfg, g.searcher, registry),
		renderer:   render.NewRenderer(g.cfg, registry, seed),
		compositor: compose.NewCompositor(g.cfg, registry),
		registry:   registry,
	}
	return g.run(ctx, req, s)
}

func (g *Generator) run(ctx context.Context, req Request, s stages) (Result, error) {
	tl, err := timeline.Parse(req.Script, g.cfg.Script.DefaultSceneSec)
	if err != nil {
		return Result{}, fmt.Errorf("parse script: %w", err)
	}
	if tl.Empty() {
		return Result{}, ErrNothingToRender
	}

	runID := uuid.NewString()[:8]
	workdir := filepath.Join(g.cfg.Paths.Workdir, runID)
	if err := os.MkdirAll(workdir, 0755); err != nil {
		return Result{}, fmt.Errorf("create workdir: %w", err)
	}
	defer func() {
		s.registry.Cleanup()
		// Best effort: the workdir is empty once cleanup ran.
		_ = os.Remove(workdir)
	}()

	outPath := req.OutputPath
	if outPath == "" {
		if err := os.MkdirAll(g.cfg.Paths.Output, 0755); err != nil {
			return Result{}, fmt.Errorf("create output dir: %w", err)
		}
		outPath = filepath.Join(g.cfg.Paths.Output,
			fmt.Sprintf("youtube_short_%s_%s.mp4", req.Category, time.Now().Format("20060102_150405")))
	}

	style := styles.Resolve(req.Category)
	log.Info().Str("run", runID).Str("title", req.Title).Str("category", req.Category).
		Int("scenes", len(tl.Scenes)).Float64("timeline_sec", tl.Duration()).
		Msg("starting video generation")

	// Speech and every scene render are independent; they run in parallel
	// and converge at the compositor. The clips slice is written by index
	// and only read after Wait, so timeline order survives any completion
	// order.
	var audio types.AudioAsset
	clips := make([]types.RenderedClip, len(tl.Scenes))

	eg, gctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		a, err := s.synth.Synthesize(gctx, req.Script, req.Category, workdir)
		if err != nil {
			return fmt.Errorf("speech stage: %w", err)
		}
		audio = a
		return nil
	})

	for i := range tl.Scenes {
		i := i
		scene := tl.Scenes[i]
		eg.Go(func() error {
			var images []string
			if scene.Kind == types.KindImageSequence {
				images = s.assets.Fetch(gctx, scene, req.Category, style, workdir)
			}
			clip, err := s.renderer.RenderScene(gctx, scene, i, style, images, workdir)
			if err != nil {
				return fmt.Errorf("render stage: %w", err)
			}
			clips[i] = clip
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	finalPath, duration, err := s.compositor.Compose(ctx, clips, audio, style.Energy, outPath, workdir)
	if err != nil {
		return Result{}, fmt.Errorf("compose stage: %w", err)
	}

	return Result{VideoPath: finalPath, Duration: duration, SceneCount: len(tl.Scenes)}, nil
}
