// Package palette holds the color palettes of the explorer and maps escape
// results onto them.
package palette

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	fractal "github.com/marben/fractal_explorer"
)

// MaxColors is the number of palette slots the kernel has.
const MaxColors = 8

// RGB is a color with components in [0, 1].
type RGB = colorful.Color

// Palette is an ordered list of control colors. The order defines the
// interpolation anchors.
type Palette []RGB

var (
	ErrEmpty    = errors.New("palette: no colors")
	ErrTooLarge = fmt.Errorf("palette: more than %d colors", MaxColors)
)

// Parse builds a palette from hex colors such as "#0b132b" or "#0ef".
func Parse(hex ...string) (Palette, error) {
	if len(hex) == 0 {
		return nil, ErrEmpty
	}
	if len(hex) > MaxColors {
		return nil, ErrTooLarge
	}
	p := make(Palette, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette: color %d %q: %w", i, h, err)
		}
		p[i] = c
	}
	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(hex ...string) Palette {
	p, err := Parse(hex...)
	if err != nil {
		panic(err)
	}
	return p
}

// Slots returns the palette as the kernel sees it: longer palettes are
// truncated, shorter ones repeat their last color in the unused slots, and
// an empty palette is all black.
func (p Palette) Slots() (slots [MaxColors]RGB, size int) {
	size = min(len(p), MaxColors)
	var last RGB
	for i := range slots {
		if i < size {
			last = p[i]
		}
		slots[i] = last
	}
	return slots, size
}

var (
	mu       sync.RWMutex
	registry = map[string]Palette{
		"Aurora":    MustParse("#0b132b", "#1c2541", "#3a506b", "#5bc0be", "#6fffe9"),
		"Solar":     MustParse("#0a0f1f", "#f94144", "#f3722c", "#f9c74f", "#90be6d", "#43aa8b", "#577590"),
		"Neon":      MustParse("#030304", "#00ffd1", "#0ef", "#9f68ff", "#f441a5", "#fffb96"),
		"Retro":     MustParse("#1a1423", "#3d314a", "#684756", "#9b7e6f", "#c2b19f"),
		"Grayscale": MustParse("#000000", "#2c2c2c", "#5a5a5a", "#8c8c8c", "#bdbdbd", "#e6e6e6", "#ffffff"),
	}
)

// Register adds a named palette. Registered palettes are immutable; a name
// can not be registered twice.
func Register(name string, p Palette) error {
	if name == "" {
		return errors.New("palette: empty name")
	}
	if len(p) == 0 {
		return ErrEmpty
	}
	if len(p) > MaxColors {
		return ErrTooLarge
	}

	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[name]; ok {
		return fmt.Errorf("palette: %q already registered", name)
	}
	registry[name] = append(Palette(nil), p...)
	return nil
}

// Lookup returns the palette registered under name, or the default palette
// when there is none.
func Lookup(name string) Palette {
	mu.RLock()
	defer mu.RUnlock()
	if p, ok := registry[name]; ok {
		return p
	}
	return registry[fractal.DefaultPalette]
}

// Has reports whether a palette is registered under name.
func Has(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[name]
	return ok
}

// Names lists the registered palettes in alphabetical order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Next returns the palette after name in Names, wrapping around.
func Next(name string) string {
	names := Names()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
