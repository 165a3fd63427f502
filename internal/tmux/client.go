package tmux

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// SocketEnvVar overrides the tmux socket when no flag is given.
const SocketEnvVar = "TMUX_OVERLAY_SWITCHER_SOCKET"

type tmuxClient interface {
	ListAllPanes() ([]*gotmux.Pane, error)
	ListPanesFormat(target, filter, format string) ([]string, error)
	DisplayMessage(target, format string) (string, error)
	Close() error
}

var newTmux = func(socketPath string) (tmuxClient, error) {
	if socketPath != "" {
		return gotmux.NewTmux(socketPath)
	}
	return gotmux.DefaultTmux()
}

// CurrentPane returns the pane the switcher runs in, as reported by tmux.
func CurrentPane() string {
	return strings.TrimSpace(os.Getenv("TMUX_PANE"))
}

// CurrentClientID attempts to detect the client showing the switcher so
// switch-client targets the visible tmux client instead of the control-mode
// connection.
func CurrentClientID(socketPath string) string {
	client, err := newTmux(socketPath)
	if err != nil {
		return ""
	}
	defer client.Close()
	name, err := client.DisplayMessage(CurrentPane(), "#{client_name}")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

// ResolveSocketPath picks the tmux socket from the flag, the environment or
// tmux's own default location.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv(SocketEnvVar); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}
