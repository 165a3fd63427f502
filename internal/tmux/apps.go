package tmux

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// App is a pane running a user-facing program.
type App struct {
	PaneID  string
	PID     int
	Target  string
	Command string
	Title   string
}

// Label returns the name shown for the app.
func (a App) Label() string {
	return a.Command
}

// AppFilter decides which panes are eligible.
type AppFilter struct {
	// SelfPane is excluded so the switcher never lists itself.
	SelfPane string
	// Exclude lists extra command names to hide, compared case-insensitively.
	Exclude []string
}

// backgroundCommands are programs that mean "nothing running" in a pane.
var backgroundCommands = map[string]struct{}{
	"bash":   {},
	"zsh":    {},
	"fish":   {},
	"sh":     {},
	"dash":   {},
	"ksh":    {},
	"mksh":   {},
	"tcsh":   {},
	"csh":    {},
	"nu":     {},
	"elvish": {},
	"xonsh":  {},
	"login":  {},
	"tmux":   {},
	"":       {},
}

const appFormat = "#{pane_id}\t#{pane_pid}\t#{session_name}:#{window_index}.#{pane_index}\t#{pane_current_command}\t#{pane_title}\t#{pane_dead}"

type appLine struct {
	App
	dead bool
}

// FetchApplications lists eligible apps across every session in the order
// tmux reports them.
func FetchApplications(socketPath string, filter AppFilter) ([]App, error) {
	client, err := newTmux(socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to tmux: %w", err)
	}
	defer client.Close()

	lines, err := fetchAppLines(client)
	if err != nil {
		panes, paneErr := client.ListAllPanes()
		if paneErr != nil {
			return nil, fmt.Errorf("list panes: %w", paneErr)
		}
		lines = fallbackAppLines(panes)
	}

	exclude := make(map[string]struct{}, len(filter.Exclude))
	for _, name := range filter.Exclude {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			exclude[name] = struct{}{}
		}
	}
	out := make([]App, 0, len(lines))
	for _, line := range lines {
		if line.dead || line.PaneID == filter.SelfPane {
			continue
		}
		if !Eligible(line.Command) {
			continue
		}
		if _, skip := exclude[strings.ToLower(line.Command)]; skip {
			continue
		}
		out = append(out, line.App)
	}
	return out, nil
}

// Eligible reports whether a pane's foreground command is a user-facing
// program rather than an idle shell.
func Eligible(command string) bool {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return false
	}
	name := strings.ToLower(filepath.Base(trimmed))
	name = strings.TrimPrefix(name, "-")
	if name == "" || name == "." || name == "/" {
		return false
	}
	_, background := backgroundCommands[name]
	return !background
}

func fetchAppLines(client tmuxClient) ([]appLine, error) {
	rawLines, err := client.ListPanesFormat("", "", appFormat)
	if err != nil {
		return nil, err
	}
	return parseAppLines(rawLines), nil
}

func parseAppLines(rawLines []string) []appLine {
	result := make([]appLine, 0, len(rawLines))
	for _, line := range rawLines {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 6)
		if len(parts) < 6 {
			continue
		}
		pid, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
		result = append(result, appLine{
			App: App{
				PaneID:  strings.TrimSpace(parts[0]),
				PID:     pid,
				Target:  strings.TrimSpace(parts[2]),
				Command: strings.TrimSpace(parts[3]),
				Title:   strings.TrimSpace(parts[4]),
			},
			dead: strings.TrimSpace(parts[5]) == "1",
		})
	}
	return result
}

func fallbackAppLines(panes []*gotmux.Pane) []appLine {
	lines := make([]appLine, 0, len(panes))
	for _, p := range panes {
		if p == nil {
			continue
		}
		lines = append(lines, appLine{App: App{
			PaneID:  p.Id,
			Target:  p.Id,
			Command: p.CurrentCommand,
			Title:   p.Title,
		}})
	}
	return lines
}
