package gesture

import (
	"net/url"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/palette"
)

// Control widget keys understood by Apply on top of the state keys.
const (
	KeyAction   = "action"
	KeyLandmark = "landmark"

	ActionReset  = "reset"
	ActionToggle = "toggle"
)

// Apply performs a control widget change given as state query fields.
// The action runs first, then the landmark framing, then the state fields.
// Unknown palettes and landmarks are ignored. Widget changes are not
// gestures and do not reduce quality.
func (c *Controller) Apply(q url.Values) {
	switch q.Get(KeyAction) {
	case ActionReset:
		c.view.Reset()
	case ActionToggle:
		c.view.ToggleMode()
	}

	if l, ok := fractal.LandmarkByName(q.Get(KeyLandmark)); ok {
		vp := c.viewport()
		if vp.W > 0 && vp.H > 0 {
			l.Frame(c.view, int(vp.W), int(vp.H))
		}
	}

	prev := c.view.Palette
	fractal.ApplyValues(c.view, q)
	if !palette.Has(c.view.Palette) {
		c.view.Palette = prev
	}
}
