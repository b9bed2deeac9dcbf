package types

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// VisualKind is the rendering treatment applied to a scene.
type VisualKind string

const (
	KindTitleCard     VisualKind = "title_card"
	KindDynamicText   VisualKind = "dynamic_text"
	KindImageSequence VisualKind = "image_sequence"
	KindCTAAnimation  VisualKind = "cta_animation"
	KindTextOverlay   VisualKind = "text_overlay"
)

// AnimationKind selects how a style animates text and images.
type AnimationKind string

const (
	AnimZoom   AnimationKind = "zoom"
	AnimSlide  AnimationKind = "slide"
	AnimFade   AnimationKind = "fade"
	AnimBounce AnimationKind = "bounce"
)

// BackgroundKind selects the style's background treatment.
type BackgroundKind string

const (
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
	BackgroundVideo    BackgroundKind = "video"
	BackgroundSolid    BackgroundKind = "solid"
)

// EnergyLevel controls how much ambient motion a style gets.
type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

// Scene is one timed unit of the video. Scenes are built by the script
// parser and never mutated afterward.
type Scene struct {
	Start         float64    `json:"start_time"`
	End           float64    `json:"end_time"`
	Text          string     `json:"text"`
	Kind          VisualKind `json:"visual_kind"`
	VisualSource  string     `json:"visual_source"`
	Effects       []string   `json:"effects"`
	AudioEmphasis bool       `json:"audio_emphasis"`
}

// Duration returns the scene length in seconds.
func (s Scene) Duration() float64 {
	return s.End - s.Start
}

// Timeline is the ordered, contiguous scene sequence for one render run.
// Contiguity (scene[i].End == scene[i+1].Start) is guaranteed by the parser.
type Timeline struct {
	Scenes []Scene `json:"scenes"`
}

// Empty reports whether the script produced no usable scenes.
func (t Timeline) Empty() bool {
	return len(t.Scenes) == 0
}

// Duration returns the nominal total length: the last scene's end time.
func (t Timeline) Duration() float64 {
	if t.Empty() {
		return 0
	}
	return t.Scenes[len(t.Scenes)-1].End
}

// RGB is a color as it appears in style profiles and ffmpeg filters.
type RGB struct {
	R, G, B uint8
}

// Hex returns the ffmpeg color syntax, e.g. 0xFF6B35.
func (c RGB) Hex() string {
	return fmt.Sprintf("0x%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// UnmarshalYAML lets style extension files write colors as "#rrggbb".
func (c *RGB) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseHex(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// StyleProfile holds the per-category rendering parameters. Profiles are
// static configuration: looked up once, never mutated.
type StyleProfile struct {
	Primary    RGB            `yaml:"primary_color"`
	Secondary  RGB            `yaml:"secondary_color"`
	Font       string         `yaml:"font"`
	Animation  AnimationKind  `yaml:"animation"`
	Background BackgroundKind `yaml:"background"`
	Energy     EnergyLevel    `yaml:"energy"`
}

// RenderedClip is one scene rendered to a self-contained visual asset.
// The renderer owns it until the compositor takes it for concatenation.
type RenderedClip struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration_sec"`
	Index    int     `json:"index"`
}

// AudioAsset is the generated speech track.
type AudioAsset struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration_sec"`
}
