package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"shortsmith/types"
)

// backgroundStill writes the style's background as a full-frame PNG.
// "solid" is a single fill; everything else renders as a top-to-bottom
// gradient between the style's two colors. Gradient is also the fallback
// for background kinds this renderer has no local treatment for.
func (r *Renderer) backgroundStill(style types.StyleProfile, workdir string) (string, error) {
	w, h := r.cfg.Video.Width, r.cfg.Video.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	switch style.Background {
	case types.BackgroundSolid:
		fill := color.RGBA{R: style.Primary.R, G: style.Primary.G, B: style.Primary.B, A: 255}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetRGBA(x, y, fill)
			}
		}
	default:
		for y := 0; y < h; y++ {
			ratio := float64(y) / float64(h)
			row := color.RGBA{
				R: lerp(style.Primary.R, style.Secondary.R, ratio),
				G: lerp(style.Primary.G, style.Secondary.G, ratio),
				B: lerp(style.Primary.B, style.Secondary.B, ratio),
				A: 255,
			}
			for x := 0; x < w; x++ {
				img.SetRGBA(x, y, row)
			}
		}
	}

	outFile := filepath.Join(workdir, fmt.Sprintf("bg_%s_%s.png", style.Background, uuid.NewString()[:8]))
	f, err := os.Create(outFile)
	if err != nil {
		return "", fmt.Errorf("create background: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(outFile)
		return "", fmt.Errorf("encode background: %w", err)
	}
	r.registry.Register(outFile)
	return outFile, nil
}

func lerp(a, b uint8, ratio float64) uint8 {
	return uint8(float64(a)*(1-ratio) + float64(b)*ratio)
}
