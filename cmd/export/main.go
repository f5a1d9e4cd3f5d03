// export renders a single high resolution still of an explorer state and
// saves it as a PNG file. The state is the query string the explorer keeps
// in its URL.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/config"
	"github.com/marben/fractal_explorer/render"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

type options struct {
	configPath  string
	state       string
	landmark    string
	width       int
	canvasW     int
	canvasH     int
	supersample int
	out         string
}

func run() error {
	var o options
	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Render a still of a fractal explorer state to PNG",
		Example:       `  export --state 'mode=julia&cx=-0.8&cy=0.156&iter=2000' --width 7680 --out julia.png`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return export(cmd.Context(), o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "explorer.toml", "TOML config file; a missing file means defaults")
	f.StringVarP(&o.state, "state", "s", "", "explorer state query, e.g. 'x=-0.75&y=0.1&scale=5000'")
	f.StringVarP(&o.landmark, "landmark", "l", "", "frame a named landmark instead of the state's center and scale")
	f.IntVarP(&o.width, "width", "w", 0, "output width in pixels (default from config)")
	f.IntVar(&o.canvasW, "canvas-width", 1920, "width of the canvas the state was viewed on")
	f.IntVar(&o.canvasH, "canvas-height", 1080, "height of the canvas the state was viewed on")
	f.IntVar(&o.supersample, "supersample", 1, "render this many times larger per side and downscale")
	f.StringVarP(&o.out, "out", "o", "fractal.png", "output file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cmd.ExecuteContext(ctx)
}

func export(ctx context.Context, o options) error {
	cfg, err := config.Load(o.configPath)
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

	view, err := stateView(cfg, o)
	if err != nil {
		return err
	}
	width := o.width
	if width <= 0 {
		width = cfg.ExportWidth
	}
	v, w, h, err := render.Rescale(view, o.canvasW, o.canvasH, width)
	if err != nil {
		return err
	}

	var lastPct atomic.Int64
	d := render.Dispatcher{
		Workers:  cfg.Workers,
		TileSize: cfg.TileSize,
		OnProgress: func(done, total int) {
			pct := int64(done * 100 / total)
			if old := lastPct.Load(); pct/10 > old/10 && lastPct.CompareAndSwap(old, pct) {
				logger.Info("rendering", "progress", fmt.Sprintf("%d%%", pct))
			}
		},
	}

	logger.Info("rendering still", "width", w, "height", h, "supersample", o.supersample,
		"mode", v.Mode, "iterations", v.MaxIter)
	start := time.Now()
	img, err := d.Still(ctx, v, w, h, o.supersample)
	if err != nil {
		return err
	}
	logger.Info("rendered", "took", time.Since(start))

	if err := savePNG(o.out, img); err != nil {
		return err
	}
	logger.Info("saved", "file", o.out)
	return nil
}

// stateView builds the view to export: config default, then the state
// query, then the landmark framing.
func stateView(cfg config.Config, o options) (fractal.ViewState, error) {
	q, err := url.ParseQuery(o.state)
	if err != nil {
		return fractal.ViewState{}, fmt.Errorf("state: %w", err)
	}
	v := fractal.ParseValues(q, cfg.View())
	v.Normalize()
	if o.landmark != "" {
		l, ok := fractal.LandmarkByName(o.landmark)
		if !ok {
			return v, fmt.Errorf("unknown landmark %q", o.landmark)
		}
		l.Frame(&v, o.canvasW, o.canvasH)
	}
	return v, nil
}
