package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikhilbhutani/localmeetbridge/internal/api"
	"github.com/nikhilbhutani/localmeetbridge/internal/config"
	"github.com/nikhilbhutani/localmeetbridge/internal/upstream"
)

func main() {
	// stdout is reserved for the startup banner.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ln, err := api.ListenLoopback(cfg.Addr())
	if err != nil {
		slog.Error("failed to bind listener", "error", err)
		os.Exit(1)
	}

	client := upstream.New(cfg)
	router := api.NewRouter(cfg.Auth.Token, client)

	srv := &http.Server{
		Handler:           router.Setup(),
		ReadHeaderTimeout: 15 * time.Second,
		// Transcription alone may take up to 120s upstream, plus the translate call.
		WriteTimeout: 200 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	printBanner(os.Stdout, "http://"+ln.Addr().String(), cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting bridge", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// printBanner writes the three lines the operator needs to configure the
// extension. This is the only place the token is ever printed.
func printBanner(w io.Writer, url string, cfg *config.Config) {
	fmt.Fprintln(w, "  URL:   "+url)
	fmt.Fprintln(w, "  TOKEN: "+cfg.Auth.Token)
	if cfg.TTS.Enabled {
		fmt.Fprintf(w, "  TTS:   enabled model=%s voice=%s\n", cfg.TTS.Model, cfg.TTS.Voice)
	} else {
		fmt.Fprintln(w, "  TTS:   disabled (set ENABLE_TTS=true later)")
	}
}
