package layout

import (
	"reflect"
	"testing"
)

var screen = Rect{X: 0, Y: 0, W: 120, H: 40}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestFramesEnlargeSelectedPanel(t *testing.T) {
	e := Default()
	frames := e.Frames(3, 0, screen)
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if frames[0].W != DefaultSelected.W || frames[0].H != DefaultSelected.H {
		t.Fatalf("selected frame %s, want size %s", frames[0], DefaultSelected)
	}
	for _, f := range frames[1:] {
		if f.W != DefaultBaseline.W || f.H != DefaultBaseline.H {
			t.Fatalf("frame %s, want size %s", f, DefaultBaseline)
		}
	}
}

func TestFramesCentredHorizontally(t *testing.T) {
	e := Default()
	for _, f := range e.Frames(4, 2, screen) {
		if abs(screen.MidX()-(f.X+f.W/2)) > 1 {
			t.Fatalf("frame %s not centred on x", f)
		}
	}
}

func TestFramesStackWithSpacing(t *testing.T) {
	e := Engine{Baseline: Size{W: 10, H: 3}, Selected: Size{W: 14, H: 6}, Spacing: 2}
	frames := e.Frames(3, 1, screen)
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if frames[1].Y != frames[0].Bottom()+2 || frames[2].Y != frames[1].Bottom()+2 {
		t.Fatalf("frames not spaced by 2: %v", frames)
	}
	if frames[1].H != 6 {
		t.Fatalf("selected height = %d, want 6", frames[1].H)
	}
}

func TestFramesColumnCentredForEverySelection(t *testing.T) {
	e := Default()
	for n := 1; n <= 6; n++ {
		for s := 0; s < n; s++ {
			frames := e.Frames(n, s, screen)
			top := frames[0].Y
			bottom := frames[n-1].Bottom()
			extent := 0
			for _, f := range frames {
				extent += f.H
			}
			extent += (n - 1) * e.Spacing
			if bottom-top != extent {
				t.Fatalf("n=%d s=%d: column spans %d rows, want %d", n, s, bottom-top, extent)
			}
			centre := float64(top) + float64(extent)/2
			if d := float64(screen.MidY()) - centre; d > 1 || d < -1 {
				t.Fatalf("n=%d s=%d: column centre %.1f, screen centre %d", n, s, centre, screen.MidY())
			}
		}
	}
}

func TestFramesEmpty(t *testing.T) {
	frames := Default().Frames(0, 0, screen)
	if frames == nil || len(frames) != 0 {
		t.Fatalf("expected empty non-nil frames, got %#v", frames)
	}
}

func TestFramesOffsetWorkArea(t *testing.T) {
	area := Rect{X: 10, Y: 5, W: 60, H: 30}
	frames := Default().Frames(1, 0, area)
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].X != area.MidX()-DefaultSelected.W/2 || frames[0].Y != area.MidY()-DefaultSelected.H/2 {
		t.Fatalf("frame %s not centred in %s", frames[0], area)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default engine: %v", err)
	}
	bad := map[string]Engine{
		"tiny baseline":    {Baseline: Size{W: 2, H: 5}, Selected: DefaultSelected},
		"selected smaller": {Baseline: DefaultSelected, Selected: DefaultBaseline},
		"negative spacing": {Baseline: DefaultBaseline, Selected: DefaultSelected, Spacing: -1},
	}
	for name, e := range bad {
		if err := e.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestTweenReachesTarget(t *testing.T) {
	from := []Rect{{X: 0, Y: 0, W: 10, H: 3}}
	to := []Rect{{X: 10, Y: 20, W: 20, H: 7}}
	tw := NewTween(from, to, 4)
	if tw.Done() {
		t.Fatalf("tween finished before advancing")
	}

	var last []Rect
	for !tw.Done() {
		last = tw.Advance()
	}
	if !reflect.DeepEqual(last, to) || !reflect.DeepEqual(tw.Current(), to) {
		t.Fatalf("tween ended at %v, want %v", last, to)
	}
}

func TestTweenMovesMonotonically(t *testing.T) {
	from := []Rect{{X: 0, Y: 0, W: 10, H: 3}}
	to := []Rect{{X: 0, Y: 30, W: 10, H: 3}}
	tw := NewTween(from, to, 6)
	prev := from[0].Y
	for !tw.Done() {
		y := tw.Advance()[0].Y
		if y < prev {
			t.Fatalf("tween moved backwards: %d after %d", y, prev)
		}
		prev = y
	}
}

func TestTweenZeroStepsIsFinished(t *testing.T) {
	to := []Rect{{X: 1, Y: 1, W: 5, H: 5}}
	tw := NewTween(nil, to, 0)
	if !tw.Done() {
		t.Fatalf("zero-step tween should be done")
	}
	if !reflect.DeepEqual(tw.Current(), to) {
		t.Fatalf("Current = %v, want %v", tw.Current(), to)
	}
}

func TestParseSize(t *testing.T) {
	size, err := ParseSize(" 40X9 ")
	if err != nil {
		t.Fatalf("ParseSize: %v", err)
	}
	if size != (Size{W: 40, H: 9}) || size.String() != "40x9" {
		t.Fatalf("ParseSize = %s", size)
	}

	for _, bad := range []string{"", "40", "x9", "40x", "0x5", "-3x5", "axb"} {
		if _, err := ParseSize(bad); err == nil {
			t.Fatalf("ParseSize(%q): expected error", bad)
		}
	}
}
