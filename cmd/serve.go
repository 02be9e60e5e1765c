package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"storyreel/internal/captions"
	"storyreel/internal/config"
	"storyreel/internal/export"
	"storyreel/internal/ffmpeg"
	"storyreel/internal/groq"
	"storyreel/internal/retry"
	"storyreel/internal/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storyreel HTTP API",
	Long: `Serve runs the HTTP API that generates stories, narrates them with
text-to-speech, produces time-stamped captions, and assembles the final
captioned video with FFmpeg.`,
	RunE: runServe,
}

var (
	configPath      string
	listenAddr      string
	backgroundVideo string
	workspaceRoot   string
	workspaceTTLMin int
	rateLimit       int
	maxRetries      int
)

func init() {
	defaults := config.Default()

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "config file path")
	serveCmd.Flags().StringVarP(&listenAddr, "addr", "a", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&backgroundVideo, "background-video", "", "background video asset path")
	serveCmd.Flags().StringVar(&workspaceRoot, "workspace-root", "", "export workspace directory (default: OS temp dir)")
	serveCmd.Flags().IntVar(&workspaceTTLMin, "workspace-ttl", defaults.WorkspaceTTLMin, "minutes before stale workspaces are swept")
	serveCmd.Flags().IntVar(&rateLimit, "rate-limit", defaults.APIRateLimitPerMin, "provider API requests per minute")
	serveCmd.Flags().IntVar(&maxRetries, "max-retries", defaults.Retry.MaxRetries, "transcription retries after the first attempt")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.ResolveEnv()

	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if backgroundVideo != "" {
		cfg.BackgroundVideo = backgroundVideo
	}
	if workspaceRoot != "" {
		cfg.WorkspaceRoot = workspaceRoot
	}
	if cmd.Flags().Changed("workspace-ttl") {
		cfg.WorkspaceTTLMin = workspaceTTLMin
	}
	if cmd.Flags().Changed("rate-limit") {
		cfg.APIRateLimitPerMin = rateLimit
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.Retry.MaxRetries = maxRetries
	}

	if cfg.GroqAPIKey == "" {
		slog.Warn("GROQ_API_KEY not set; story generation falls back to canned stories and narration will fail")
	}
	if !ffmpeg.Available() {
		slog.Warn("ffmpeg not found on PATH; export and frame extraction will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := groq.NewClient(cfg)
	coordinator := captions.NewCoordinator(client, retry.Policy{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  time.Duration(cfg.Retry.BaseDelayMs) * time.Millisecond,
		Multiplier: 2,
		Jitter:     0.5,
		Retryable:  groq.IsTransient,
	}, ffmpeg.ProbeBytesDuration)
	assembler := export.NewAssembler(cfg)
	srv := server.New(cfg, client, client, coordinator, assembler)

	ttl := time.Duration(cfg.WorkspaceTTLMin) * time.Minute
	sweepEvery := ttl / 4
	if sweepEvery < time.Minute {
		sweepEvery = time.Minute
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		export.Janitor(gctx, cfg.WorkspaceRoot, ttl, sweepEvery)
		return nil
	})

	return g.Wait()
}
