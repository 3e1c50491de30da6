package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/encoder"
	"github.com/kozaktomas/attendance-kiosk/internal/kiosk"
	"github.com/kozaktomas/attendance-kiosk/internal/ledger"
	"github.com/kozaktomas/attendance-kiosk/internal/match"
	"github.com/kozaktomas/attendance-kiosk/internal/metrics"
	"github.com/kozaktomas/attendance-kiosk/internal/roster"
	"github.com/kozaktomas/attendance-kiosk/internal/voice"
	"github.com/kozaktomas/attendance-kiosk/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the kiosk web server",
	Long: `Start the attendance kiosk web server.
The server hosts the camera page, processes captured frames against the
enrolled roster, and maintains the attendance ledger.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 5000, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

// buildService assembles the orchestrator from configuration: encoder
// client, roster, matcher, ledger, voice feedback.
func buildService(ctx context.Context, cfg *config.Config, met *metrics.Metrics) (*kiosk.Service, error) {
	enc := encoder.NewClient(cfg.Encoder.URL, cfg.Encoder.Model)

	fmt.Println("Encoding facial signatures... please wait.")
	r, err := roster.Load(ctx, cfg.Kiosk.ImagesPath, enc)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	fmt.Printf("%d students loaded.\n", r.Len())

	l, err := ledger.Open(cfg.Kiosk.LedgerPath, cfg.Kiosk.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	opts := []kiosk.Option{
		kiosk.WithMaxFrameSize(cfg.Kiosk.MaxFrameSize),
	}
	if cfg.Voice.URL != "" {
		fmt.Printf("Voice feedback enabled (cooldown %s)\n", cfg.Voice.Cooldown)
		opts = append(opts, kiosk.WithAnnouncer(
			voice.NewTTSClient(cfg.Voice.URL),
			voice.NewCooldown(cfg.Voice.Cooldown),
			&cfg.Phrases,
		))
	}

	m := match.New(r, cfg.Kiosk.MatchTolerance)
	return kiosk.New(r, m, l, enc, met, opts...), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	met := metrics.New()

	service, err := buildService(context.Background(), cfg, met)
	if err != nil {
		return err
	}

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, service, met, port, host)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Println("\nShutting down...")
		case <-server.ShutdownRequested():
			fmt.Println("Shutdown requested via admin endpoint")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Attendance Kiosk on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
