package overview

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	fractal "github.com/marben/fractal_explorer"
)

var printer = message.NewPrinter(language.English)

// Describe returns the info panel text for v. budget is the iteration
// budget of the last frame; 0 means unknown.
func Describe(v fractal.ViewState, fps, budget int) string {
	var sb strings.Builder
	line := func(format string, args ...any) {
		sb.WriteString(printer.Sprintf(format, args...))
		sb.WriteByte('\n')
	}

	line("Mode: %s", strings.ToUpper(v.Mode.String()))
	line("Center: %.6f, %.6f", v.Center.X, v.Center.Y)
	line("Scale: %.2f px/unit", v.Scale)
	if budget > 0 && budget != v.MaxIter {
		line("Iter: %d (%d while moving)", v.MaxIter, budget)
	} else {
		line("Iter: %d", v.MaxIter)
	}
	line("FPS: %d", fps)
	if v.Mode == fractal.ModeJulia {
		line("Julia C: %.6f, %.6f", v.Seed.X, v.Seed.Y)
	}
	line("Palette: %s (%s)", v.Palette, v.ColorMode)
	line("Theme: %s", v.Theme)
	return strings.TrimSuffix(sb.String(), "\n")
}

// FPSMeter counts presented frames and reports the rate once per second.
// The zero value is ready to use.
type FPSMeter struct {
	since  time.Time
	frames int
	fps    int
}

// Tick records a frame at now. It reports true when a new rate is
// available.
func (m *FPSMeter) Tick(now time.Time) bool {
	if m.since.IsZero() {
		m.since = now
		return false
	}
	m.frames++
	elapsed := now.Sub(m.since)
	if elapsed < time.Second {
		return false
	}
	m.fps = int(float64(m.frames)/elapsed.Seconds() + 0.5)
	m.frames = 0
	m.since = now
	return true
}

// FPS returns the last reported rate.
func (m *FPSMeter) FPS() int {
	return m.fps
}
