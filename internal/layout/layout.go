// Package layout computes overlay panel geometry. All values are terminal
// cells with the origin in the top-left corner and rows growing downward.
package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Rect is a cell-aligned rectangle.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// MidX returns the horizontal centre of the rectangle.
func (r Rect) MidX() int {
	return r.X + r.W/2
}

// MidY returns the vertical centre of the rectangle.
func (r Rect) MidY() int {
	return r.Y + r.H/2
}

// Bottom returns the first row below the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}

// Size is a width/height pair.
type Size struct {
	W int
	H int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// ParseSize parses "WxH", e.g. "32x5".
func ParseSize(v string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(v)), "x")
	if !ok {
		return Size{}, fmt.Errorf("size %q: want WxH", v)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Size{}, fmt.Errorf("size %q: width: %w", v, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Size{}, fmt.Errorf("size %q: height: %w", v, err)
	}
	if width <= 0 || height <= 0 {
		return Size{}, fmt.Errorf("size %q: dimensions must be positive", v)
	}
	return Size{W: width, H: height}, nil
}

const (
	DefaultSpacing = 1
)

var (
	DefaultBaseline = Size{W: 32, H: 5}
	DefaultSelected = Size{W: 36, H: 7}
)

// Engine arranges panels in a single column centred on the work area.
type Engine struct {
	Baseline Size
	Selected Size
	Spacing  int
}

// Default returns the engine used when no geometry is configured.
func Default() Engine {
	return Engine{Baseline: DefaultBaseline, Selected: DefaultSelected, Spacing: DefaultSpacing}
}

// SizeFor returns the panel size for ordinal i given the selected ordinal.
func (e Engine) SizeFor(i, selected int) Size {
	if i == selected {
		return e.Selected
	}
	return e.Baseline
}

// ColumnHeight returns the summed panel heights plus inter-panel spacing.
func (e Engine) ColumnHeight(n, selected int) int {
	if n <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < n; i++ {
		total += e.SizeFor(i, selected).H
	}
	return total + (n-1)*e.Spacing
}

// Frames returns one frame per panel. The selected panel uses the enlarged
// size and the column stays centred on the work area regardless of which
// panel is enlarged. A selected index outside [0, n) enlarges nothing.
func (e Engine) Frames(n, selected int, area Rect) []Rect {
	if n <= 0 {
		return []Rect{}
	}
	frames := make([]Rect, n)
	midX := area.MidX()
	y := area.MidY() - e.ColumnHeight(n, selected)/2
	for i := 0; i < n; i++ {
		size := e.SizeFor(i, selected)
		frames[i] = Rect{
			X: midX - size.W/2,
			Y: y,
			W: size.W,
			H: size.H,
		}
		y += size.H + e.Spacing
	}
	return frames
}

// Validate reports geometry that cannot produce a usable column.
func (e Engine) Validate() error {
	if e.Baseline.W <= 2 || e.Baseline.H <= 2 {
		return fmt.Errorf("baseline panel must be larger than 2x2 (got %dx%d)", e.Baseline.W, e.Baseline.H)
	}
	if e.Selected.W < e.Baseline.W || e.Selected.H < e.Baseline.H {
		return fmt.Errorf("selected panel %dx%d is smaller than baseline %dx%d", e.Selected.W, e.Selected.H, e.Baseline.W, e.Baseline.H)
	}
	if e.Spacing < 0 {
		return fmt.Errorf("spacing must be >= 0 (got %d)", e.Spacing)
	}
	return nil
}
