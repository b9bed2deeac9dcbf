// Package styles maps content categories to rendering styles and
// synthesizer voices. Profiles are static data: new categories are added
// as entries (built in or via a yaml extension file), never as code
// branches.
package styles

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"shortsmith/types"
)

// DefaultCategory is the profile used for unknown categories.
const DefaultCategory = "gaming"

// DefaultVoice is the synthesizer voice for unknown categories.
const DefaultVoice = "en-US-JennyNeural"

var styleProfiles = map[string]types.StyleProfile{
	"gaming": {
		Primary:    types.RGB{R: 0xFF, G: 0x6B, B: 0x35},
		Secondary:  types.RGB{R: 0x00, G: 0x4E, B: 0x7C},
		Font:       "arial-bold",
		Animation:  types.AnimZoom,
		Background: types.BackgroundGradient,
		Energy:     types.EnergyHigh,
	},
	"anime": {
		Primary:    types.RGB{R: 0xFF, G: 0x69, B: 0xB4},
		Secondary:  types.RGB{R: 0x8A, G: 0x2B, B: 0xE2},
		Font:       "arial-bold",
		Animation:  types.AnimBounce,
		Background: types.BackgroundGradient,
		Energy:     types.EnergyHigh,
	},
	"educational": {
		Primary:    types.RGB{R: 0x2E, G: 0x86, B: 0xAB},
		Secondary:  types.RGB{R: 0xA2, G: 0x3B, B: 0x72},
		Font:       "arial",
		Animation:  types.AnimSlide,
		Background: types.BackgroundSolid,
		Energy:     types.EnergyMedium,
	},
}

var voiceProfiles = map[string]string{
	"gaming":      "en-US-GuyNeural",
	"anime":       "en-US-AriaNeural",
	"educational": "en-US-DavisNeural",
}

// Resolve returns the style profile for a category, falling back to the
// default category for unknown ones.
func Resolve(category string) types.StyleProfile {
	if profile, ok := styleProfiles[category]; ok {
		return profile
	}
	return styleProfiles[DefaultCategory]
}

// Voice returns the synthesizer voice id for a category.
func Voice(category string) string {
	if voice, ok := voiceProfiles[category]; ok {
		return voice
	}
	return DefaultVoice
}

// Categories returns every known category key.
func Categories() []string {
	keys := make([]string, 0, len(styleProfiles))
	for k := range styleProfiles {
		keys = append(keys, k)
	}
	return keys
}

type extensionFile struct {
	Styles map[string]types.StyleProfile `yaml:"styles"`
	Voices map[string]string             `yaml:"voices"`
}

// LoadExtensions merges category entries from a yaml file into the built-in
// registries. Existing categories are overridden entry-wise.
func LoadExtensions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read style extensions: %w", err)
	}
	var ext extensionFile
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return fmt.Errorf("parse style extensions %s: %w", path, err)
	}
	for category, profile := range ext.Styles {
		styleProfiles[category] = profile
	}
	for category, voice := range ext.Voices {
		voiceProfiles[category] = voice
	}
	return nil
}
