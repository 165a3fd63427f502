package tmux

import (
	"fmt"
	"strings"
)

// SelectPane brings a pane to the front: the client is switched to it when
// known, then its window and the pane itself are selected.
func SelectPane(socketPath, clientID, target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("pane target required")
	}
	args := baseArgs(socketPath)
	if clientID != "" {
		if err := runExecCommand("tmux", append(args, "switch-client", "-c", clientID, "-t", target)...).Run(); err != nil {
			return fmt.Errorf("switch-client %s: %w", target, err)
		}
	}
	if err := runExecCommand("tmux", append(args, "select-window", "-t", target)...).Run(); err != nil {
		return fmt.Errorf("select-window %s: %w", target, err)
	}
	if err := runExecCommand("tmux", append(args, "select-pane", "-t", target)...).Run(); err != nil {
		return fmt.Errorf("select-pane %s: %w", target, err)
	}
	return nil
}
