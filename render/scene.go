// Package render turns one scene descriptor plus its style and assets
// into a timed visual clip. Each visual kind is an ffmpeg filter graph
// over a style-driven background still; clips come out at the fixed
// vertical frame size with no audio.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"shortsmith/config"
	"shortsmith/tempfiles"
	"shortsmith/types"
)

// Renderer renders scenes independently of each other; it is safe to call
// RenderScene concurrently for different scenes.
type Renderer struct {
	cfg      *config.Config
	registry *tempfiles.Registry
	seed     int64
}

// NewRenderer creates a Renderer. The seed drives dynamic_text word
// placement so renders are reproducible.
func NewRenderer(cfg *config.Config, registry *tempfiles.Registry, seed int64) *Renderer {
	return &Renderer{cfg: cfg, registry: registry, seed: seed}
}

// RenderScene renders a scene to a clip of exactly scene.Duration()
// seconds. For image_sequence scenes a failed assembly falls back to a
// plain text overlay rather than failing the run.
func (r *Renderer) RenderScene(ctx context.Context, scene types.Scene, index int, style types.StyleProfile, images []string, workdir string) (types.RenderedClip, error) {
	duration := scene.Duration()
	if duration <= 0 {
		return types.RenderedClip{}, fmt.Errorf("scene %d has non-positive duration %.3f", index, duration)
	}

	outFile := filepath.Join(workdir, fmt.Sprintf("scene_%03d.mp4", index))

	if scene.Kind == types.KindImageSequence {
		err := r.renderImageSequence(ctx, scene, index, style, images, outFile, workdir)
		if err == nil {
			r.registry.Register(outFile)
			return types.RenderedClip{Path: outFile, Duration: duration, Index: index}, nil
		}
		log.Warn().Int("scene", index).Err(err).Msg("image sequence failed, falling back to text overlay")
	}

	background, err := r.backgroundStill(style, workdir)
	if err != nil {
		return types.RenderedClip{}, fmt.Errorf("scene %d background: %w", index, err)
	}

	var filter string
	switch scene.Kind {
	case types.KindTitleCard:
		filter = r.titleCardFilter(scene.Text, style)
	case types.KindDynamicText:
		filter = r.dynamicTextFilter(scene.Text, style, duration, r.seed+int64(index))
	case types.KindCTAAnimation:
		filter = r.ctaFilter(scene.Text, style)
	default:
		filter = r.textOverlayFilter(scene.Text, style)
	}

	if err := r.stillToClip(ctx, background, filter, duration, outFile); err != nil {
		return types.RenderedClip{}, fmt.Errorf("scene %d render: %w", index, err)
	}
	r.registry.Register(outFile)

	log.Debug().Int("scene", index).Str("kind", string(scene.Kind)).Float64("duration", duration).Msg("scene clip ready")
	return types.RenderedClip{Path: outFile, Duration: duration, Index: index}, nil
}

// stillToClip loops a still image for the given duration with a filter
// chain applied, using the run's fixed encode profile.
func (r *Renderer) stillToClip(ctx context.Context, still, filter string, duration float64, outFile string) error {
	args := []string{
		"-loop", "1",
		"-i", still,
		"-t", fmt.Sprintf("%.3f", duration),
	}
	if filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args, r.encodeArgs()...)
	args = append(args, outFile)
	return runFFmpeg(ctx, args...)
}

func (r *Renderer) encodeArgs() []string {
	return []string{
		"-r", fmt.Sprintf("%d", r.cfg.Video.FPS),
		"-c:v", "libx264",
		"-preset", r.cfg.Video.Preset,
		"-crf", fmt.Sprintf("%d", r.cfg.Video.CRF),
		"-pix_fmt", "yuv420p",
		"-an",
	}
}

// oscillation is a whole-frame periodic scale wobble.
func (r *Renderer) oscillation(amplitude, periodSec float64) string {
	frames := int(periodSec * float64(r.cfg.Video.FPS))
	return fmt.Sprintf(
		"zoompan=z='1+%.3f*abs(sin(2*PI*on/%d))':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=1:s=%dx%d",
		amplitude, frames, r.cfg.Video.Width, r.cfg.Video.Height,
	)
}

// backgroundMotion returns the ambient background wobble for high-energy
// styles, or "" when the style sits still.
func (r *Renderer) backgroundMotion(style types.StyleProfile) string {
	if style.Energy == types.EnergyHigh {
		return r.oscillation(0.05, 1.0)
	}
	return ""
}

func joinFilters(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ",")
}

// titleCardFilter centers the scene text over the background. Zoom styles
// oscillate the whole card; bounce styles toggle the title between two
// vertical positions.
func (r *Renderer) titleCardFilter(text string, style types.StyleProfile) string {
	y := "(h-text_h)/2"
	if style.Animation == types.AnimBounce {
		y = "'(h-text_h)/2-40*lt(mod(t,0.8),0.4)'"
	}
	title := fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=80:borderw=3:bordercolor=%s:x=(w-text_w)/2:y=%s",
		escapeDrawtext(text), style.Primary.Hex(), y,
	)

	if style.Animation == types.AnimZoom {
		return joinFilters(r.backgroundMotion(style), title, r.oscillation(0.1, 1.0))
	}
	return joinFilters(r.backgroundMotion(style), title)
}

// dynamicTextFilter gives every word its own slot, size and position, each
// fading out individually.
func (r *Renderer) dynamicTextFilter(text string, style types.StyleProfile, duration float64, seed int64) string {
	placements := layoutWords(text, duration, r.cfg.Video.Width, r.cfg.Video.Height, seed)

	parts := []string{r.backgroundMotion(style)}
	for _, p := range placements {
		parts = append(parts, fmt.Sprintf(
			"drawtext=text='%s':fontcolor=white:fontsize=%d:borderw=2:bordercolor=%s:x=%d:y=%d:alpha='if(lt(t,%.3f),1,max((%.3f-t)/%.3f,0))':enable='between(t,%.3f,%.3f)'",
			escapeDrawtext(p.Text), p.Size, style.Primary.Hex(), p.X, p.Y,
			p.End-wordFadeSec, p.End, wordFadeSec,
			p.Start, p.End,
		))
	}
	return joinFilters(parts...)
}

// ctaFilter renders a pulsing call-to-action plus a static subscribe
// prompt near the top of the frame.
func (r *Renderer) ctaFilter(text string, style types.StyleProfile) string {
	main := fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize='50+5*sin(4*PI*t)':borderw=3:bordercolor=%s:x=(w-text_w)/2:y=(h-text_h)/2",
		escapeDrawtext(text), style.Primary.Hex(),
	)
	prompt := fmt.Sprintf(
		"drawtext=text='SUBSCRIBE':fontcolor=%s:fontsize=40:x=(w-text_w)/2:y=150",
		style.Primary.Hex(),
	)
	return joinFilters(r.backgroundMotion(style), main, prompt)
}

// textOverlayFilter is the plain fallback treatment: one static outlined
// text element.
func (r *Renderer) textOverlayFilter(text string, style types.StyleProfile) string {
	overlay := fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=45:borderw=2:bordercolor=black:x=(w-text_w)/2:y=(h-text_h)/2",
		escapeDrawtext(text),
	)
	return joinFilters(r.backgroundMotion(style), overlay)
}

// renderImageSequence slices the scene across its images: each image gets
// an equal slot, scaled to cover the frame and centered over the
// background, with a progressive zoom-in when the style calls for it.
func (r *Renderer) renderImageSequence(ctx context.Context, scene types.Scene, index int, style types.StyleProfile, images []string, outFile, workdir string) error {
	if len(images) == 0 {
		return fmt.Errorf("no images for scene %d", index)
	}

	background, err := r.backgroundStill(style, workdir)
	if err != nil {
		return err
	}

	slot := scene.Duration() / float64(len(images))
	w, h := r.cfg.Video.Width, r.cfg.Video.Height

	var segments []string
	for i, img := range images {
		segment := filepath.Join(workdir, fmt.Sprintf("scene_%03d_seg_%02d.mp4", index, i))

		compose := fmt.Sprintf(
			"[1:v]scale=-2:%d[img];[0:v][img]overlay=(main_w-overlay_w)/2:(main_h-overlay_h)/2[comp]", h,
		)
		mapLabel := "[comp]"
		if style.Animation == types.AnimZoom {
			// Progressive zoom across the image's slot.
			step := 0.1 / (slot * float64(r.cfg.Video.FPS))
			compose += fmt.Sprintf(
				";[comp]zoompan=z='min(zoom+%.6f,1.1)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=1:s=%dx%d[out]",
				step, w, h,
			)
			mapLabel = "[out]"
		}

		args := []string{
			"-loop", "1", "-i", background,
			"-loop", "1", "-i", img,
			"-t", fmt.Sprintf("%.3f", slot),
			"-filter_complex", compose,
			"-map", mapLabel,
		}
		args = append(args, r.encodeArgs()...)
		args = append(args, segment)

		if err := runFFmpeg(ctx, args...); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		r.registry.Register(segment)
		segments = append(segments, segment)
	}

	return r.concatSegments(ctx, segments, outFile, workdir, index)
}

// concatSegments joins per-image segments into the scene clip.
func (r *Renderer) concatSegments(ctx context.Context, segments []string, outFile, workdir string, index int) error {
	listFile := filepath.Join(workdir, fmt.Sprintf("scene_%03d_concat.txt", index))
	var lines []string
	for _, seg := range segments {
		lines = append(lines, fmt.Sprintf("file '%s'", seg))
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return err
	}
	r.registry.Register(listFile)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
	}
	args = append(args, r.encodeArgs()...)
	args = append(args, outFile)
	return runFFmpeg(ctx, args...)
}
