// Package speech generates the narration track through an external TTS
// binary. Synthesis failure is fatal to the render: there is no fallback
// audio, and retry policy belongs to the caller.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"shortsmith/config"
	"shortsmith/media"
	"shortsmith/styles"
	"shortsmith/tempfiles"
	"shortsmith/types"
)

// SynthesisError wraps any failure while producing the speech track.
type SynthesisError struct {
	Voice string
	Err   error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis (voice %s): %v", e.Voice, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Synthesizer drives the TTS command configured in config.Speech.Command.
// The default, edge-tts, accepts:
//
//	edge-tts --voice V --text "..." --write-media out.mp3
type Synthesizer struct {
	cfg      *config.Config
	registry *tempfiles.Registry
}

// NewSynthesizer creates a Synthesizer that registers its output with the
// run's temp registry.
func NewSynthesizer(cfg *config.Config, registry *tempfiles.Registry) *Synthesizer {
	return &Synthesizer{cfg: cfg, registry: registry}
}

// Synthesize cleans the script, picks the category voice and produces the
// narration audio in workdir, reporting its measured duration.
func (s *Synthesizer) Synthesize(ctx context.Context, script, category, workdir string) (types.AudioAsset, error) {
	voice := styles.Voice(category)

	text := Clean(script)
	if text == "" {
		return types.AudioAsset{}, &SynthesisError{Voice: voice, Err: fmt.Errorf("no narration text after cleaning")}
	}

	outFile := filepath.Join(workdir, fmt.Sprintf("tts_%s.mp3", uuid.NewString()[:8]))
	s.registry.Register(outFile)

	log.Info().Str("voice", voice).Int("chars", len(text)).Msg("generating speech track")

	cmd := exec.CommandContext(ctx, s.cfg.Speech.Command,
		"--voice", voice,
		"--text", text,
		"--write-media", outFile,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return types.AudioAsset{}, &SynthesisError{Voice: voice, Err: fmt.Errorf("%s: %w", s.cfg.Speech.Command, err)}
	}

	duration, err := media.ProbeDuration(outFile)
	if err != nil {
		return types.AudioAsset{}, &SynthesisError{Voice: voice, Err: err}
	}

	log.Info().Str("path", outFile).Float64("duration", duration).Msg("speech track ready")
	return types.AudioAsset{Path: outFile, Duration: duration}, nil
}
