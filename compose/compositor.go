// Package compose folds rendered scene clips into the final video: ordered
// concatenation, one audio track, duration reconciliation and the global
// post effects.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"shortsmith/config"
	"shortsmith/media"
	"shortsmith/tempfiles"
	"shortsmith/types"
)

// CompositionError reports a failure while concatenating or exporting the
// final video. It is fatal to the run.
type CompositionError struct {
	Stage string
	Err   error
}

func (e *CompositionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("composition: %s", e.Stage)
	}
	return fmt.Sprintf("composition (%s): %v", e.Stage, e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }

// Compositor owns the final assembly steps. It takes ownership of the
// scene clips it is handed.
type Compositor struct {
	cfg      *config.Config
	registry *tempfiles.Registry
}

// NewCompositor creates a Compositor registering its intermediates with
// the run's temp registry.
func NewCompositor(cfg *config.Config, registry *tempfiles.Registry) *Compositor {
	return &Compositor{cfg: cfg, registry: registry}
}

// reconcileDuration is the duration law: when video and audio disagree the
// composite is truncated to the shorter of the two, never extended.
func reconcileDuration(video, audio float64) float64 {
	if video < audio {
		return video
	}
	return audio
}

// Compose concatenates the clips in timeline order, attaches the audio
// track, reconciles the durations and applies the global fade and
// high-energy ambient motion. It returns the finished file and its
// measured duration.
func (c *Compositor) Compose(ctx context.Context, clips []types.RenderedClip, audio types.AudioAsset, energy types.EnergyLevel, outPath, workdir string) (string, float64, error) {
	if len(clips) == 0 {
		return "", 0, &CompositionError{Stage: "empty timeline"}
	}
	if audio.Duration <= 0 {
		return "", 0, &CompositionError{Stage: "audio", Err: fmt.Errorf("zero-duration audio asset %s", audio.Path)}
	}

	// Timeline order, regardless of render completion order.
	ordered := append([]types.RenderedClip(nil), clips...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	silent, videoDur, err := c.concatenate(ctx, ordered, workdir)
	if err != nil {
		return "", 0, &CompositionError{Stage: "concatenate", Err: err}
	}

	if truncated := videoDur - reconcileDuration(videoDur, audio.Duration); truncated > 0.05 {
		log.Debug().Float64("video", videoDur).Float64("audio", audio.Duration).
			Msg("video longer than narration, trailing visuals will be dropped")
	} else if dropped := audio.Duration - reconcileDuration(videoDur, audio.Duration); dropped > 0.05 {
		log.Debug().Float64("video", videoDur).Float64("audio", audio.Duration).
			Msg("narration longer than video, trailing audio will be dropped")
	}

	merged, err := c.attachAudio(ctx, silent, audio.Path, workdir)
	if err != nil {
		return "", 0, &CompositionError{Stage: "attach audio", Err: err}
	}

	duration, err := media.ProbeDuration(merged)
	if err != nil {
		return "", 0, &CompositionError{Stage: "probe", Err: err}
	}

	if err := c.postEffects(ctx, merged, duration, energy, outPath); err != nil {
		return "", 0, &CompositionError{Stage: "post effects", Err: err}
	}

	log.Info().Str("path", outPath).Float64("duration", duration).Msg("final video ready")
	return outPath, duration, nil
}

// concatenate joins the scene clips into one silent video track.
func (c *Compositor) concatenate(ctx context.Context, clips []types.RenderedClip, workdir string) (string, float64, error) {
	listFile := filepath.Join(workdir, "clips_concat.txt")
	var lines []string
	total := 0.0
	for _, clip := range clips {
		lines = append(lines, fmt.Sprintf("file '%s'", clip.Path))
		total += clip.Duration
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return "", 0, err
	}
	c.registry.Register(listFile)

	outFile := filepath.Join(workdir, "visuals_raw.mp4")
	err := c.runFFmpeg(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c:v", "libx264",
		"-preset", c.cfg.Video.Preset,
		"-crf", fmt.Sprintf("%d", c.cfg.Video.CRF),
		"-r", fmt.Sprintf("%d", c.cfg.Video.FPS),
		"-pix_fmt", "yuv420p",
		"-an",
		outFile,
	)
	if err != nil {
		return "", 0, err
	}
	c.registry.Register(outFile)
	return outFile, total, nil
}

// attachAudio sets the narration as the sole audio track. -shortest
// implements the truncate-to-min duration policy.
func (c *Compositor) attachAudio(ctx context.Context, videoFile, audioFile, workdir string) (string, error) {
	outFile := filepath.Join(workdir, "composite.mp4")
	err := c.runFFmpeg(ctx,
		"-i", videoFile,
		"-i", audioFile,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", c.cfg.Video.AudioBitrate,
		"-shortest",
		outFile,
	)
	if err != nil {
		return "", err
	}
	c.registry.Register(outFile)
	return outFile, nil
}

// postEffects applies the global fade in/out and, for high-energy styles,
// a slow whole-frame oscillation on top of the per-scene animation.
func (c *Compositor) postEffects(ctx context.Context, inFile string, duration float64, energy types.EnergyLevel, outPath string) error {
	fade := c.cfg.Video.FadeSec
	filters := []string{
		fmt.Sprintf("fade=t=in:st=0:d=%.2f", fade),
		fmt.Sprintf("fade=t=out:st=%.3f:d=%.2f", duration-fade, fade),
	}
	if energy == types.EnergyHigh {
		// Period ~10s, small amplitude.
		frames := 10 * c.cfg.Video.FPS
		filters = append(filters, fmt.Sprintf(
			"zoompan=z='1+0.02*abs(sin(2*PI*on/%d))':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=1:s=%dx%d",
			frames, c.cfg.Video.Width, c.cfg.Video.Height,
		))
	}

	return c.runFFmpeg(ctx,
		"-i", inFile,
		"-vf", strings.Join(filters, ","),
		"-c:v", "libx264",
		"-preset", c.cfg.Video.Preset,
		"-crf", fmt.Sprintf("%d", c.cfg.Video.CRF),
		"-pix_fmt", "yuv420p",
		"-c:a", "copy",
		"-movflags", "+faststart",
		outPath,
	)
}

func (c *Compositor) runFFmpeg(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", append([]string{"-y"}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > 400 {
			detail = "..." + detail[len(detail)-400:]
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, detail)
	}
	return nil
}
