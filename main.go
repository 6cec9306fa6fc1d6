package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"reelforge/config"
	"reelforge/handlers"
	"reelforge/internal/assetstore"
	"reelforge/internal/ffmpeg"
	"reelforge/internal/minimax"
	"reelforge/internal/pipeline"
	"reelforge/internal/plan"
	"reelforge/internal/runway"
	"reelforge/internal/styles"
	"reelforge/internal/tts"
	"reelforge/internal/videosource"
	"reelforge/middleware"
)

func main() {
	root := &cobra.Command{
		Use:   "reelforge",
		Short: "Short-form vertical video generation pipeline",
	}
	root.PersistentFlags().String("config", "reelforge.yaml", "path to the optional YAML config file")

	root.AddCommand(serveCommand(), generateCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// application bundles everything assembled once at startup.
type application struct {
	cfg         *config.Config
	log         *logrus.Logger
	store       *assetstore.Store
	ffmpeg      *ffmpeg.FFmpeg
	tts         *tts.Adapter
	fetcher     *videosource.Fetcher
	coordinator *pipeline.Coordinator
}

func buildApplication(configPath string) (*application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := config.NewLogger(cfg.LogLevel)

	store, err := assetstore.New(cfg.Scratch)
	if err != nil {
		return nil, err
	}

	ff := ffmpeg.New(cfg, log)
	fetcher := videosource.NewFetcher(nil)

	mm := cfg.MiniMax
	speechClient := minimax.NewClient(mm.APIKey,
		minimax.WithBaseURL(mm.BaseURL),
		minimax.WithVoice(mm.VoiceID, mm.Speed),
		minimax.WithModels(mm.SpeechModel, mm.VideoModel),
		minimax.WithTaskBudget(mm.CreateTimeout, mm.PollInterval, mm.PollAttempts),
	)
	adapter := tts.New(speechClient, ff, store, cfg.Render.SilenceSeconds, log)

	// Default chain used by the CLI pipeline: premium provider first when
	// enabled, then the primary provider, then the local animation.
	var strategies []videosource.Strategy
	if cfg.Runway.Enabled {
		rw := cfg.Runway
		runwayClient := runway.NewClient(rw.APIKey,
			runway.WithBaseURL(rw.BaseURL),
			runway.WithModel(rw.Model, rw.Ratio),
			runway.WithTaskBudget(rw.CreateTimeout, rw.PollInterval, rw.PollBudget),
		)
		strategies = append(strategies, videosource.NewRunwayStrategy(runwayClient, fetcher, store))
	}
	strategies = append(strategies,
		videosource.NewMiniMaxStrategy(speechClient, fetcher, store),
		videosource.NewFallbackStrategy(fetcher, ff, store),
	)
	resolver := videosource.NewResolver(log, strategies...)

	coordinator := pipeline.New(adapter, resolver, ff, store, log)

	return &application{
		cfg:         cfg,
		log:         log,
		store:       store,
		ffmpeg:      ff,
		tts:         adapter,
		fetcher:     fetcher,
		coordinator: coordinator,
	}, nil
}

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			app, err := buildApplication(configPath)
			if err != nil {
				return err
			}

			h := handlers.NewApplicationHandler(
				app.log, app.cfg, app.store, app.ffmpeg, app.tts, app.coordinator, app.fetcher,
			)

			fiberApp := fiber.New(fiber.Config{
				// Renders can take minutes; polling budgets alone are ~90s.
				ReadTimeout: 0,
			})
			fiberApp.Use(cors.New(cors.Config{
				AllowOrigins: "*",
				AllowHeaders: "Origin, Content-Type, Accept, X-Minimax-Api-Key, X-Runway-Api-Key",
			}))
			fiberApp.Use(middleware.RequestLogger(app.log))

			fiberApp.Get("/health", func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{"status": "ok"})
			})

			apiV1 := fiberApp.Group("/api/v1")
			apiV1.Post("/plan", h.CreatePlan)
			apiV1.Post("/tts", h.SynthesizeSpeech)
			apiV1.Post("/video", h.ResolveVideo)
			apiV1.Post("/video/runway", h.ResolveVideoRunway)
			apiV1.Post("/render", h.Render)

			app.log.WithField("port", app.cfg.Port).Info("starting reelforge API")
			return fiberApp.Listen(":" + app.cfg.Port)
		},
	}
	return cmd
}

func generateCommand() *cobra.Command {
	var (
		prompt    string
		imageURL  string
		style     string
		output    string
		fastMode  bool
		mockAudio bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the full pipeline once and write the final MP4",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			app, err := buildApplication(configPath)
			if err != nil {
				return err
			}

			p := plan.Demo(prompt)
			if style != "" {
				p = styles.Apply(p, styles.Variant(style))
			}

			result, err := app.coordinator.Generate(context.Background(), pipeline.Request{
				Script:    p.VoiceoverScript,
				Beats:     p.Beats,
				ImageURL:  imageURL,
				Prompt:    p.ChosenHook,
				FastMode:  fastMode,
				MockAudio: mockAudio,
			})
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("tiktok_%s.mp4", result.FinalID)
			}
			if err := copyFile(result.FinalPath, output); err != nil {
				return err
			}

			app.log.WithFields(logrus.Fields{
				"output":     output,
				"provenance": result.Provenance,
			}).Info("final video written")
			fmt.Printf("wrote %s (video source: %s)\n", output, result.Provenance)
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "topic prompt for the demo plan")
	cmd.Flags().StringVar(&imageURL, "image", "", "source image URL")
	cmd.Flags().StringVar(&style, "style", "", "tone preset: gen_z, storytime, brand_safe, high_energy")
	cmd.Flags().StringVar(&output, "output", "", "output file path")
	cmd.Flags().BoolVar(&fastMode, "fast", false, "skip remote providers, animate the image locally")
	cmd.Flags().BoolVar(&mockAudio, "mock-audio", false, "use the silent placeholder narration")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
