package fractal

import (
	"math"
	"net/url"
	"strconv"
)

// Keys of the flat key-value state encoding. The encoding is the query
// string of the explorer's URL.
const (
	keyMode    = "mode"
	keySeedX   = "cx"
	keySeedY   = "cy"
	keyCenterX = "x"
	keyCenterY = "y"
	keyScale   = "scale"
	keyIter    = "iter"
	keyPalette = "palette"
	keyTheme   = "theme"
	keyInterp  = "interp"
)

// Values encodes the view as url values.
func (v ViewState) Values() url.Values {
	q := url.Values{}
	q.Set(keyMode, v.Mode.String())
	q.Set(keySeedX, formatFloat(v.Seed.X))
	q.Set(keySeedY, formatFloat(v.Seed.Y))
	q.Set(keyCenterX, formatFloat(v.Center.X))
	q.Set(keyCenterY, formatFloat(v.Center.Y))
	q.Set(keyScale, formatFloat(v.Scale))
	q.Set(keyIter, strconv.Itoa(v.MaxIter))
	if v.Palette != "" {
		q.Set(keyPalette, v.Palette)
	}
	if v.Theme != "" {
		q.Set(keyTheme, v.Theme)
	}
	q.Set(keyInterp, v.ColorMode.String())
	return q
}

// ParseValues decodes q on top of base. Every field is optional; a field
// that is absent or malformed keeps the value from base, and fields that
// parse but break an invariant (scale <= 0, iter < 1) are ignored the same
// way. iter is clamped to MaxIterLimit. Restoration never fails as a whole.
func ParseValues(q url.Values, base ViewState) ViewState {
	v := base
	ApplyValues(&v, q)
	return v
}

// ApplyValues overwrites the fields of v present and well formed in q.
// Control widgets use it to change single parameters of a live view.
func ApplyValues(v *ViewState, q url.Values) {
	if m, ok := ParseMode(q.Get(keyMode)); ok {
		v.Mode = m
	}
	if f, ok := num(q, keySeedX); ok {
		v.Seed.X = f
	}
	if f, ok := num(q, keySeedY); ok {
		v.Seed.Y = f
	}
	if f, ok := num(q, keyCenterX); ok {
		v.Center.X = f
	}
	if f, ok := num(q, keyCenterY); ok {
		v.Center.Y = f
	}
	if f, ok := num(q, keyScale); ok && f > 0 {
		v.Scale = f
	}
	if f, ok := num(q, keyIter); ok && f >= 1 {
		v.MaxIter = int(math.Min(f, MaxIterLimit))
	}
	if p := q.Get(keyPalette); p != "" {
		v.Palette = p
	}
	if t := q.Get(keyTheme); validTheme(t) {
		v.Theme = t
	}
	if c, ok := ParseColorMode(q.Get(keyInterp)); ok {
		v.ColorMode = c
	}
}

func num(q url.Values, key string) (float64, bool) {
	s := q.Get(key)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
