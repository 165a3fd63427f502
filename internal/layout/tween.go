package layout

import "math"

// Tween interpolates a set of frames from one layout to another over a
// fixed number of steps.
type Tween struct {
	from  []Rect
	to    []Rect
	steps int
	step  int
}

// NewTween prepares an animation between two layouts of equal length. A
// non-positive step count produces a tween that is already finished.
func NewTween(from, to []Rect, steps int) *Tween {
	t := &Tween{
		from:  append([]Rect(nil), from...),
		to:    append([]Rect(nil), to...),
		steps: steps,
	}
	if len(t.from) != len(t.to) {
		t.from = append([]Rect(nil), to...)
	}
	if t.steps <= 0 {
		t.steps = 0
	}
	return t
}

// Done reports whether the tween has reached its target.
func (t *Tween) Done() bool {
	return t == nil || t.step >= t.steps
}

// Advance moves one step forward and returns the frames for that step.
func (t *Tween) Advance() []Rect {
	if t == nil {
		return nil
	}
	if t.step < t.steps {
		t.step++
	}
	return t.Current()
}

// Current returns the frames for the current step.
func (t *Tween) Current() []Rect {
	if t == nil {
		return nil
	}
	if t.steps == 0 || t.step >= t.steps {
		return append([]Rect(nil), t.to...)
	}
	p := easeOutCubic(float64(t.step) / float64(t.steps))
	out := make([]Rect, len(t.to))
	for i := range t.to {
		out[i] = Lerp(t.from[i], t.to[i], p)
	}
	return out
}

// Target returns the final frames.
func (t *Tween) Target() []Rect {
	if t == nil {
		return nil
	}
	return append([]Rect(nil), t.to...)
}

// Lerp interpolates each edge of a rectangle, rounding to the nearest cell.
func Lerp(a, b Rect, p float64) Rect {
	if p <= 0 {
		return a
	}
	if p >= 1 {
		return b
	}
	mix := func(x, y int) int {
		return int(math.Round(float64(x) + (float64(y)-float64(x))*p))
	}
	return Rect{X: mix(a.X, b.X), Y: mix(a.Y, b.Y), W: mix(a.W, b.W), H: mix(a.H, b.H)}
}

func easeOutCubic(x float64) float64 {
	inv := 1 - x
	return 1 - inv*inv*inv
}
