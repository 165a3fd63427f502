package tmux

import (
	"fmt"
	"strings"
)

// KeyBinder installs a root-table binding that forwards a key to the
// switcher. While the switcher's pane has focus the key is passed through to
// it instead, so it reaches the local observer.
type KeyBinder struct {
	SocketPath string
	SelfPane   string
	Executable string
	HookSocket string
}

// Bind installs the forwarding binding for key.
func (b KeyBinder) Bind(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key required")
	}
	if b.Executable == "" || b.HookSocket == "" {
		return fmt.Errorf("executable and hook socket required")
	}
	args := append(baseArgs(b.SocketPath), b.bindArgs(key)...)
	if out, err := runExecCommand("tmux", args...).Output(); err != nil {
		return fmt.Errorf("bind-key %s: %w%s", key, err, trimOutput(out))
	}
	return nil
}

// Unbind removes the binding for key.
func (b KeyBinder) Unbind(key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	args := append(baseArgs(b.SocketPath), "unbind-key", "-n", key)
	return runExecCommand("tmux", args...).Run()
}

func (b KeyBinder) bindArgs(key string) []string {
	forward := fmt.Sprintf("%s -send-key %s -hook-socket %s",
		shellQuote(b.Executable), shellQuote(key), shellQuote(b.HookSocket))
	passthrough := "send-keys " + key
	runForward := fmt.Sprintf("run-shell -b %q", forward)
	if b.SelfPane == "" {
		return []string{"bind-key", "-n", key, runForward}
	}
	condition := fmt.Sprintf("#{==:#{pane_id},%s}", b.SelfPane)
	return []string{"bind-key", "-n", key, "if-shell", "-F", condition, passthrough, runForward}
}

func trimOutput(out []byte) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return ""
	}
	return ": " + s
}
