package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmux-overlay-switcher/internal/icons"
	"github.com/atomicstack/tmux-overlay-switcher/internal/overlay"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// cardPresenter draws the icon and name of a candidate, with its pane
// target underneath when there is room.
type cardPresenter struct{}

// NewCardPresenter returns the presenter used by default.
func NewCardPresenter() overlay.Presenter {
	return cardPresenter{}
}

func (cardPresenter) Render(c overlay.Candidate, area overlay.ContentArea) string {
	if area.Width <= 0 || area.Height <= 0 {
		return ""
	}
	iconStyle, labelStyle := styles.PanelIcon, styles.PanelLabel
	if area.Selected {
		iconStyle, labelStyle = styles.KeyPanelIcon, styles.KeyPanelLabel
	}
	icon := c.Icon
	if icon == "" {
		icon = icons.Default
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = c.Handle.PaneID
	}
	title := truncate.StringWithTail(icon+" "+name, uint(area.Width), "…")
	if rest := strings.TrimPrefix(title, icon); rest != title {
		title = iconStyle.Render(icon) + labelStyle.Render(rest)
	} else {
		title = labelStyle.Render(title)
	}
	lines := []string{title}
	if area.Height >= 3 {
		detail := c.Handle.Target
		if c.Handle.PID > 0 {
			detail = fmt.Sprintf("%s  pid %d", detail, c.Handle.PID)
		}
		detail = strings.TrimSpace(detail)
		if detail != "" {
			lines = append(lines, styles.PanelDetail.Render(truncate.StringWithTail(detail, uint(area.Width), "…")))
		}
	}
	return lipgloss.Place(area.Width, area.Height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}
