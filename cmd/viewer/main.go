// viewer is the desktop fractal explorer. The view follows the mouse wheel,
// drags, pinches and taps; keys switch landmarks, palettes and modes.
//
//	wheel / pinch   zoom        drag        pan
//	click           pick seed   right click negated seed (julia)
//	1-6             landmarks   M           mandelbrot / julia
//	C               coloring    P           palette
//	T               theme       + / -       iterations
//	R               reset       E           export PNG
//	S               log state query
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	var configPath, state, exportDir string
	cmd := &cobra.Command{
		Use:           "viewer",
		Short:         "Explore the Mandelbrot and Julia sets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return view(cmd.Context(), configPath, state, exportDir)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "explorer.toml", "TOML config file; a missing file means defaults")
	cmd.Flags().StringVarP(&state, "state", "s", "", "state query to start from, as logged by the S key")
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory exported PNGs are written to")
	return cmd.ExecuteContext(context.Background())
}

func view(ctx context.Context, configPath, state, exportDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := cfg.RegisterPalettes(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	q, err := url.ParseQuery(state)
	if err != nil {
		return fmt.Errorf("state: %w", err)
	}
	v := fractal.ParseValues(q, cfg.View())
	v.Normalize()

	g, err := newGame(ctx, cfg, v, exportDir, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("Fractal Explorer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.RefreshHz)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("ebiten.RunGame: %w", err)
	}
	logger.Info("bye", "state", g.view.Values().Encode())
	return nil
}
