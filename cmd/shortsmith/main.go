package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"shortsmith/config"
	"shortsmith/logger"
	"shortsmith/pipeline"
	"shortsmith/styles"
)

var (
	scriptPath string
	category   string
	title      string
	outputPath string
	configPath string
	stylesPath string
	logLevel   string
	seed       int64
)

func main() {
	root := &cobra.Command{
		Use:          "shortsmith",
		Short:        "Render a short-form vertical video from a timed script",
		SilenceUsage: true,
		RunE:         run,
	}

	root.Flags().StringVarP(&scriptPath, "script", "s", "", "path to the script text file (required)")
	root.Flags().StringVarP(&category, "category", "c", styles.DefaultCategory, "content category (style and voice selection)")
	root.Flags().StringVarP(&title, "title", "t", "", "display title for logging")
	root.Flags().StringVarP(&outputPath, "output", "o", "", "output video path (default: generated name)")
	root.Flags().StringVar(&configPath, "config", "", "optional yaml config file")
	root.Flags().StringVar(&stylesPath, "styles", "", "optional yaml style/voice extension file")
	root.Flags().StringVar(&logLevel, "log-level", "info", "zerolog level")
	root.Flags().Int64Var(&seed, "seed", 0, "seed for randomized text layout (0 = from clock)")
	_ = root.MarkFlagRequired("script")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// .env is local-dev convenience; absence is fine.
	_ = godotenv.Load()
	logger.Setup(logLevel, "console")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if stylesPath != "" {
		if err := styles.LoadExtensions(stylesPath); err != nil {
			return err
		}
	}

	script, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.New(cfg).Run(ctx, pipeline.Request{
		Script:     string(script),
		Category:   category,
		Title:      title,
		OutputPath: outputPath,
		Seed:       seed,
	})
	if errors.Is(err, pipeline.ErrNothingToRender) {
		log.Warn().Str("script", scriptPath).Msg("script has no renderable lines, nothing to do")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("video generation failed")
		return err
	}

	log.Info().Str("video", result.VideoPath).Float64("duration", result.Duration).
		Int("scenes", result.SceneCount).Msg("done")
	return nil
}
