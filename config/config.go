package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable for one render run. Defaults cover the single
// supported output profile: 1080x1920 vertical at 30fps.
type Config struct {
	Video  VideoConfig  `yaml:"video"`
	Script ScriptConfig `yaml:"script"`
	Speech SpeechConfig `yaml:"speech"`
	Stock  StockConfig  `yaml:"stock"`
	Paths  PathsConfig  `yaml:"paths"`
}

type VideoConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	FPS          int     `yaml:"fps"`
	FadeSec      float64 `yaml:"fade_sec"`
	CRF          int     `yaml:"crf"`
	Preset       string  `yaml:"preset"`
	AudioBitrate string  `yaml:"audio_bitrate"`
}

type ScriptConfig struct {
	DefaultSceneSec float64 `yaml:"default_scene_sec"`
}

type SpeechConfig struct {
	// Command is the TTS binary invoked as:
	//   <command> --voice V --text "..." --write-media out.mp3
	Command string `yaml:"command"`
}

type StockConfig struct {
	// Endpoint is the keyword-search API base URL. The API key comes from
	// the STOCK_API_KEY environment variable, never from yaml.
	Endpoint         string `yaml:"endpoint"`
	ImagesPerKeyword int    `yaml:"images_per_keyword"`
	MaxPerScene      int    `yaml:"max_per_scene"`
	TimeoutSec       int    `yaml:"timeout_sec"`
}

type PathsConfig struct {
	Workdir string `yaml:"workdir"`
	Output  string `yaml:"output"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Video: VideoConfig{
			Width:        1080,
			Height:       1920,
			FPS:          30,
			FadeSec:      0.5,
			CRF:          22,
			Preset:       "fast",
			AudioBitrate: "192k",
		},
		Script: ScriptConfig{
			DefaultSceneSec: 5.0,
		},
		Speech: SpeechConfig{
			Command: "edge-tts",
		},
		Stock: StockConfig{
			Endpoint:         "https://api.pexels.com/v1/search",
			ImagesPerKeyword: 2,
			MaxPerScene:      3,
			TimeoutSec:       60,
		},
		Paths: PathsConfig{
			Workdir: "work",
			Output:  "output",
		},
	}
}

// Load reads a yaml config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
