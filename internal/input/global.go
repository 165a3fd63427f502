package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/tmux-overlay-switcher/internal/logging/events"
)

const (
	readTimeout      = 2 * time.Second
	liveDialTimeout  = 200 * time.Millisecond
	acceptBackoffMin = 5 * time.Millisecond
	acceptBackoffMax = time.Second
)

// ErrAlreadyRunning means another switcher owns the observer socket.
var ErrAlreadyRunning = errors.New("another switcher is already listening")

// Binder installs the key binding that forwards the gesture to the
// observer socket when another pane has focus.
type Binder interface {
	Bind(key string) error
	Unbind(key string) error
}

// GlobalConfig describes where the global observer listens.
type GlobalConfig struct {
	SocketPath string
	Binder     Binder
}

// GlobalObserver receives forwarded key presses on a unix socket and feeds
// them to a handler from its own goroutines.
type GlobalObserver struct {
	socketPath string
	key        string
	binder     Binder
	listener   net.Listener
	handle     func(KeyEvent) bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// StartGlobal installs the global observer. Failures leave the manager
// usable with local observers only; the error is logged and returned.
func (m *Manager) StartGlobal(cfg GlobalConfig) error {
	m.mu.Lock()
	if m.global != nil {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	observer, err := newGlobalObserver(cfg, m.gesture, m.HandleGlobal)
	if err != nil {
		events.Hook.GlobalUnavailable(err)
		return err
	}
	m.mu.Lock()
	m.global = observer
	m.mu.Unlock()
	events.Hook.GlobalInstalled(observer.key, observer.socketPath)
	return nil
}

// GlobalActive reports whether the global observer is installed.
func (m *Manager) GlobalActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.global != nil
}

func newGlobalObserver(cfg GlobalConfig, gesture Gesture, handle func(KeyEvent) bool) (*GlobalObserver, error) {
	if strings.TrimSpace(cfg.SocketPath) == "" {
		return nil, errors.New("global observer: socket path required")
	}
	key, err := gesture.TmuxKey()
	if err != nil {
		return nil, fmt.Errorf("global observer: %w", err)
	}
	listener, err := listenUnix(cfg.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("global observer: %w", err)
	}
	if cfg.Binder != nil {
		if err := cfg.Binder.Bind(key); err != nil {
			listener.Close()
			_ = os.Remove(cfg.SocketPath)
			return nil, fmt.Errorf("global observer: bind %s: %w", key, err)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	g := &GlobalObserver{
		socketPath: cfg.SocketPath,
		key:        key,
		binder:     cfg.Binder,
		listener:   listener,
		handle:     handle,
		ctx:        ctx,
		cancel:     cancel,
	}
	g.wg.Add(1)
	go g.accept()
	return g, nil
}

func listenUnix(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create socket directory: %w", err)
	}
	if info, err := os.Lstat(path); err == nil {
		if info.Mode()&os.ModeSocket == 0 {
			return nil, fmt.Errorf("%s exists and is not a socket", path)
		}
		if conn, err := net.DialTimeout("unix", path, liveDialTimeout); err == nil {
			conn.Close()
			return nil, fmt.Errorf("%s: %w", path, ErrAlreadyRunning)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("remove stale socket: %w", err)
		}
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("restrict socket permissions: %w", err)
	}
	return listener, nil
}

func (g *GlobalObserver) accept() {
	defer g.wg.Done()
	var delay time.Duration
	for {
		conn, err := g.listener.Accept()
		if err != nil {
			if g.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			delay = nextAcceptDelay(delay)
			events.Hook.AcceptFailed(err, delay)
			select {
			case <-g.ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}
		delay = 0
		g.wg.Add(1)
		go g.serve(conn)
	}
}

// nextAcceptDelay doubles the pause after each consecutive Accept failure.
func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev <= 0 {
		return acceptBackoffMin
	}
	if next := prev * 2; next < acceptBackoffMax {
		return next
	}
	return acceptBackoffMax
}

func (g *GlobalObserver) serve(conn net.Conn) {
	defer g.wg.Done()
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if g.ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ev, err := decodeLine(line)
		if err != nil {
			events.Hook.Malformed(line, err)
			continue
		}
		g.handle(ev)
	}
}

// Stop closes the listener, waits for in-flight connections and removes the
// key binding and socket file.
func (g *GlobalObserver) Stop() {
	if g == nil {
		return
	}
	g.cancel()
	g.listener.Close()
	g.wg.Wait()
	if g.binder != nil {
		if err := g.binder.Unbind(g.key); err != nil {
			events.Hook.GlobalUnavailable(fmt.Errorf("unbind %s: %w", g.key, err))
		}
	}
	_ = os.Remove(g.socketPath)
	events.Hook.GlobalRemoved(g.key)
}

func encodeLine(key string) string {
	return "key " + key + "\n"
}

func decodeLine(line string) (KeyEvent, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "key" {
		return KeyEvent{}, fmt.Errorf("unexpected message %q", line)
	}
	return ParseTmuxKey(fields[1])
}

// Send forwards a key press to a running observer. It is what the tmux
// binding executes when another pane has focus.
func Send(socketPath, key string, timeout time.Duration) error {
	if _, err := ParseTmuxKey(key); err != nil {
		return err
	}
	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", socketPath, err)
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(encodeLine(key))); err != nil {
		return fmt.Errorf("send key: %w", err)
	}
	return nil
}

// DefaultSocketPath returns the per-user socket location.
func DefaultSocketPath() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); dir != "" {
		return filepath.Join(dir, "tmux-overlay-switcher", "hook.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("tmux-overlay-switcher-%d", os.Getuid()), "hook.sock")
}
