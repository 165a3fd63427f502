package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var ErrPaneUnavailable = errors.New("tmux pane unavailable")

// Server is a throwaway tmux server with its own socket and log directory.
type Server struct {
	t      *testing.T
	Socket string
	Dir    string
}

// RequireTmux skips the calling test when tmux is not on PATH.
func RequireTmux(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("skipping: tmux binary not available")
	}
}

// NewServer starts a detached tmux server running a single "sleep" pane so
// candidate enumeration always has something to list. The server is killed
// and its log scanned for crashes when the test finishes.
func NewServer(t *testing.T) *Server {
	t.Helper()
	RequireTmux(t)
	dir, err := os.MkdirTemp("/tmp", "tos-tmux-*")
	if err != nil {
		t.Fatalf("tmux temp dir: %v", err)
	}
	s := &Server{t: t, Socket: filepath.Join(dir, "tmux.sock"), Dir: dir}
	t.Cleanup(func() {
		s.stop()
		s.checkLog()
		_ = os.RemoveAll(dir)
	})
	if err := s.Command("-f", "/dev/null", "-vv", "new-session", "-d", "-s", "apps", "sleep", "600").Run(); err != nil {
		t.Skipf("skipping: failed to start tmux server: %v", err)
	}
	return s
}

// Command builds a tmux invocation against the server. TMUX is cleared so
// an enclosing session never leaks in, and -vv logs land in Dir.
func (s *Server) Command(args ...string) *exec.Cmd {
	cmd := exec.Command("tmux", append([]string{"-S", s.Socket}, args...)...)
	cmd.Dir = s.Dir
	env := make([]string, 0, len(os.Environ())+2)
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, "TMUX=") {
			env = append(env, entry)
		}
	}
	cmd.Env = append(env, "TMUX=", "TMUX_TMPDIR="+s.Dir)
	return cmd
}

// Run executes a tmux command and fails the test on error.
func (s *Server) Run(args ...string) string {
	s.t.Helper()
	out, err := s.Command(args...).CombinedOutput()
	if err != nil {
		s.t.Fatalf("tmux %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// RootBindings lists the root key table, where the switcher installs its
// global gesture.
func (s *Server) RootBindings() string {
	s.t.Helper()
	return s.Run("list-keys", "-T", "root")
}

// SendKeys types keys into a pane.
func (s *Server) SendKeys(target string, keys ...string) {
	s.t.Helper()
	s.Run(append([]string{"send-keys", "-t", target}, keys...)...)
}

// Capture returns the rendered contents of a pane.
func (s *Server) Capture(target string) (string, error) {
	out, err := s.Command("capture-pane", "-e", "-p", "-t", target).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", ErrPaneUnavailable
		}
		return "", fmt.Errorf("capture-pane: %w", err)
	}
	return string(out), nil
}

// WaitFor polls a pane until its capture satisfies match. exitPath, when
// set, is a file the launched switcher writes its exit code to; a non-zero
// code fails the test immediately.
func (s *Server) WaitFor(ctx context.Context, target, exitPath string, match func(string) bool) string {
	s.t.Helper()
	last := ""
	for {
		select {
		case <-ctx.Done():
			s.t.Fatalf("timeout waiting for pane %s: %v\nlast capture:\n%s", target, ctx.Err(), last)
		case <-time.After(50 * time.Millisecond):
		}
		if code := readExitCode(exitPath); code != "" && code != "0" {
			s.t.Fatalf("tmux-overlay-switcher exited early with code %s", code)
		}
		out, err := s.Capture(target)
		if errors.Is(err, ErrPaneUnavailable) {
			continue
		}
		if err != nil {
			s.t.Fatalf("%v", err)
		}
		last = out
		if match(out) {
			return out
		}
	}
}

func readExitCode(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *Server) stop() {
	if err := s.Command("kill-server").Run(); err != nil {
		s.t.Logf("kill-server on %s: %v", s.Socket, err)
	}
}

func (s *Server) checkLog() {
	files, _ := filepath.Glob(filepath.Join(s.Dir, "tmux-server-*.log"))
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if bytes.Contains(content, []byte("server exited unexpectedly")) {
			s.t.Errorf("tmux server reported unexpected exit; see %s", path)
		}
	}
}
