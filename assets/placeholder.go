package assets

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"shortsmith/types"
)

// placeholders synthesizes one frame per keyword (up to the per-scene
// image cap): a solid fill in the style's primary color with the keyword
// burned in as a centered caption. This path must never fail: if the
// caption step breaks, the bare fill is used as-is.
func (p *Provider) placeholders(ctx context.Context, keywords []string, style types.StyleProfile, workdir string) []string {
	var images []string
	for i, keyword := range keywords {
		if i >= p.cfg.Stock.MaxPerScene {
			break
		}
		base, err := p.solidFrame(style.Primary, keyword, workdir)
		if err != nil {
			log.Warn().Str("keyword", keyword).Err(err).Msg("placeholder frame failed")
			continue
		}

		captioned, err := p.caption(ctx, base, keyword, workdir)
		if err != nil {
			log.Debug().Str("keyword", keyword).Err(err).Msg("placeholder caption skipped")
			captioned = base
		}
		images = append(images, captioned)
	}
	return images
}

// solidFrame writes a full-frame PNG filled with one color.
func (p *Provider) solidFrame(fill types.RGB, keyword, workdir string) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, p.cfg.Video.Width, p.cfg.Video.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: fill.R, G: fill.G, B: fill.B, A: 255}}, image.Point{}, draw.Src)

	outFile := filepath.Join(workdir, fmt.Sprintf("placeholder_%s_%s.png", sanitize(keyword), uuid.NewString()[:8]))
	f, err := os.Create(outFile)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(outFile)
		return "", err
	}
	p.registry.Register(outFile)
	return outFile, nil
}

// caption burns the keyword onto the frame as centered text.
func (p *Provider) caption(ctx context.Context, basePath, keyword, workdir string) (string, error) {
	outFile := strings.TrimSuffix(basePath, ".png") + "_text.png"

	filter := fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=100:x=(w-text_w)/2:y=(h-text_h)/2",
		escapeDrawtext(strings.ToUpper(keyword)),
	)
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", basePath,
		"-vf", filter,
		outFile,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg caption: %w", err)
	}
	p.registry.Register(outFile)
	return outFile, nil
}

func escapeDrawtext(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	s = strings.ReplaceAll(s, ":", `\:`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return s
}
