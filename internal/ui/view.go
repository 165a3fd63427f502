package ui

import (
	"strings"

	"github.com/atomicstack/tmux-overlay-switcher/internal/overlay"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const shadowGlyph = "\u2591"

// View renders the desktop: every visible panel composited over a blank
// canvas, followed by the footer row.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	rows := m.height - footerRows
	if rows < 0 {
		rows = 0
	}
	canvas := make([]string, rows)
	blank := strings.Repeat(" ", m.width)
	for i := range canvas {
		canvas[i] = blank
	}

	for _, w := range m.desktop.stack() {
		lines := m.renderPanel(w)
		if w.policy.Shadow {
			shadow := make([]string, len(lines))
			row := styles.Shadow.Render(strings.Repeat(shadowGlyph, w.frame.W))
			for i := range shadow {
				shadow[i] = row
			}
			overlayAt(canvas, shadow, m.width, w.frame.X+1, w.frame.Y+1, w.frame.W)
		}
		overlayAt(canvas, lines, m.width, w.frame.X, w.frame.Y, w.frame.W)
	}

	if m.overlay.IsOpen() && m.overlay.Session().Len() == 0 && rows > 0 {
		msg := styles.Empty.Render("no running applications")
		x := (m.width - lipgloss.Width(msg)) / 2
		overlayAt(canvas, []string{msg}, m.width, x, rows/2, lipgloss.Width(msg))
	}

	out := canvas
	if m.height >= footerRows {
		out = append(out, m.footer())
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderPanel(w *panelWindow) []string {
	style := styles.Panel
	if w.id == m.desktop.key {
		style = styles.KeyPanel
	}
	innerW := w.frame.W - style.GetHorizontalFrameSize()
	innerH := w.frame.H - style.GetVerticalFrameSize()
	if innerW < 0 {
		innerW = 0
	}
	if innerH < 0 {
		innerH = 0
	}
	content := m.presenter.Render(w.candidate, overlay.ContentArea{
		Width:    innerW,
		Height:   innerH,
		Selected: w.id == m.desktop.key,
	})
	box := style.
		Width(innerW).
		Height(innerH).
		MaxWidth(w.frame.W).
		MaxHeight(w.frame.H).
		Render(content)
	return strings.Split(box, "\n")
}

// overlayAt writes fg onto bg at column x, row y. Parts falling outside the
// canvas are clipped.
func overlayAt(bg []string, fg []string, width, x, y, fgW int) {
	if fgW <= 0 {
		return
	}
	for i, line := range fg {
		row := y + i
		if row < 0 || row >= len(bg) {
			continue
		}
		if n := ansi.StringWidth(line); n < fgW {
			line += strings.Repeat(" ", fgW-n)
		} else if n > fgW {
			line = ansi.Cut(line, 0, fgW)
		}
		start := x
		if start < 0 {
			line = ansi.Cut(line, -start, fgW)
			start = 0
		}
		visible := fgW - (start - x)
		if start+visible > width {
			visible = width - start
		}
		if visible <= 0 {
			continue
		}
		line = ansi.Cut(line, 0, visible)
		left := ansi.Cut(bg[row], 0, start)
		right := ansi.Cut(bg[row], start+visible, width)
		bg[row] = left + line + right
	}
}

func (m *Model) footer() string {
	parts := []string{styles.FooterKey.Render(m.hooks.Gesture().String()) + " toggle"}
	if m.overlay.IsOpen() {
		for _, b := range m.hooks.Bindings() {
			help := b.Help()
			parts = append(parts, styles.FooterKey.Render(help.Key)+" "+help.Desc)
		}
	}
	parts = append(parts, styles.FooterKey.Render("ctrl+c")+" quit")
	text := strings.Join(parts, "  ")
	switch {
	case m.errMsg != "":
		text += "  " + styles.Error.Render(m.errMsg)
	case m.globalStatus != "":
		text += "  " + styles.Info.Render(m.globalStatus)
	}
	if m.width > 0 && lipgloss.Width(text) > m.width {
		text = truncate.StringWithTail(text, uint(m.width), "…")
	}
	return styles.Footer.Render(text)
}
