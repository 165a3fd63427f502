package tmux

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

type fakeClient struct {
	panes                []*gotmux.Pane
	panesErr             error
	listPanesFormatLines []string
	listPanesFormatErr   error
	lastFormat           string
	displayMessageFn     func(target, format string) (string, error)
	closed               bool
}

func (f *fakeClient) ListAllPanes() ([]*gotmux.Pane, error) {
	return f.panes, f.panesErr
}

func (f *fakeClient) ListPanesFormat(target, filter, format string) ([]string, error) {
	f.lastFormat = format
	if f.listPanesFormatErr != nil {
		return nil, f.listPanesFormatErr
	}
	return f.listPanesFormatLines, nil
}

func (f *fakeClient) DisplayMessage(target, format string) (string, error) {
	if f.displayMessageFn != nil {
		return f.displayMessageFn(target, format)
	}
	return "", nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func withStubTmux(t *testing.T, fn func(string) (tmuxClient, error)) {
	t.Helper()
	prev := newTmux
	newTmux = fn
	t.Cleanup(func() { newTmux = prev })
}

type recordedCommand struct {
	name string
	args []string
}

type stubCommander struct {
	err    error
	output []byte
}

func (s stubCommander) Run() error {
	return s.err
}

func (s stubCommander) Output() ([]byte, error) {
	return s.output, s.err
}

func withStubCommander(t *testing.T, err error) *[]recordedCommand {
	t.Helper()
	var calls []recordedCommand
	prev := runExecCommand
	runExecCommand = func(name string, args ...string) commander {
		calls = append(calls, recordedCommand{name: name, args: append([]string(nil), args...)})
		return stubCommander{err: err}
	}
	t.Cleanup(func() { runExecCommand = prev })
	return &calls
}

func TestFetchApplicationsFiltersPanes(t *testing.T) {
	client := &fakeClient{listPanesFormatLines: []string{
		"%1\t101\tmain:0.0\tzsh\thost\t0",
		"%2\t102\tmain:0.1\tnvim\tnotes.md\t0",
		"%3\t103\tmain:1.0\thtop\thtop\t1",
		"%4\t104\tmain:1.1\ttmux-overlay-switcher\tswitcher\t0",
		"%5\t105\twork:0.0\tlazygit\trepo\t0",
		"%6\t106\twork:0.1\t-bash\thost\t0",
		"%7\t107\twork:0.2\tWatch\tdash\t0",
		"broken line",
	}}
	withStubTmux(t, func(string) (tmuxClient, error) { return client, nil })

	apps, err := FetchApplications("/tmp/sock", AppFilter{SelfPane: "%4", Exclude: []string{"watch"}})
	if err != nil {
		t.Fatalf("FetchApplications: %v", err)
	}
	want := []App{
		{PaneID: "%2", PID: 102, Target: "main:0.1", Command: "nvim", Title: "notes.md"},
		{PaneID: "%5", PID: 105, Target: "work:0.0", Command: "lazygit", Title: "repo"},
	}
	if !reflect.DeepEqual(apps, want) {
		t.Fatalf("unexpected apps:\n got %#v\nwant %#v", apps, want)
	}
	if !client.closed {
		t.Fatalf("expected client to be closed")
	}
	if !strings.Contains(client.lastFormat, "#{pane_dead}") {
		t.Fatalf("format should request pane_dead, got %q", client.lastFormat)
	}
}

func TestFetchApplicationsFallsBackToListAllPanes(t *testing.T) {
	client := &fakeClient{
		listPanesFormatErr: errors.New("format unsupported"),
		panes: []*gotmux.Pane{
			{Id: "%1", CurrentCommand: "bash"},
			{Id: "%2", CurrentCommand: "vim", Title: "main.go"},
			{Id: "%3"},
		},
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return client, nil })

	apps, err := FetchApplications("", AppFilter{})
	if err != nil {
		t.Fatalf("FetchApplications: %v", err)
	}
	if len(apps) != 1 || apps[0].PaneID != "%2" || apps[0].Label() != "vim" {
		t.Fatalf("unexpected fallback apps %#v", apps)
	}
}

func TestFetchApplicationsPropagatesErrors(t *testing.T) {
	withStubTmux(t, func(string) (tmuxClient, error) { return nil, errors.New("no server") })
	if _, err := FetchApplications("", AppFilter{}); err == nil {
		t.Fatalf("expected connect error")
	}

	client := &fakeClient{listPanesFormatErr: errors.New("boom"), panesErr: errors.New("still boom")}
	withStubTmux(t, func(string) (tmuxClient, error) { return client, nil })
	if _, err := FetchApplications("", AppFilter{}); err == nil {
		t.Fatalf("expected list error")
	}
}

func TestEligible(t *testing.T) {
	cases := map[string]bool{
		"zsh":          false,
		"-zsh":         false,
		"/bin/bash":    false,
		"":             false,
		"   ":          false,
		"-":            false,
		"nvim":         true,
		"python3":      true,
		"Fish":         false,
		"lazydocker":   true,
		"ssh":          true,
		"tmux":         false,
		"node":         true,
		"login":        false,
		"tmux-session": true,
	}
	for cmd, want := range cases {
		if got := Eligible(cmd); got != want {
			t.Fatalf("Eligible(%q) = %v, want %v", cmd, got, want)
		}
	}
}

func TestKeyBinderBind(t *testing.T) {
	calls := withStubCommander(t, nil)
	b := KeyBinder{SocketPath: "/tmp/sock", SelfPane: "%9", Executable: "/usr/bin/switcher", HookSocket: "/run/hook.sock"}
	if err := b.Bind("M-O"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one tmux call, got %d", len(*calls))
	}
	args := (*calls)[0].args
	want := []string{
		"-S", "/tmp/sock", "bind-key", "-n", "M-O", "if-shell", "-F", "#{==:#{pane_id},%9}",
		"send-keys M-O",
		`run-shell -b "'/usr/bin/switcher' -send-key 'M-O' -hook-socket '/run/hook.sock'"`,
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected bind args:\n got %q\nwant %q", args, want)
	}
}

func TestKeyBinderWithoutSelfPaneAlwaysForwards(t *testing.T) {
	calls := withStubCommander(t, nil)
	b := KeyBinder{Executable: "switcher", HookSocket: "hook.sock"}
	if err := b.Bind("C-M-o"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	args := (*calls)[0].args
	if args[0] != "bind-key" || args[3] != `run-shell -b "'switcher' -send-key 'C-M-o' -hook-socket 'hook.sock'"` {
		t.Fatalf("unexpected args %q", args)
	}
}

func TestKeyBinderErrors(t *testing.T) {
	calls := withStubCommander(t, errors.New("no server running"))
	b := KeyBinder{Executable: "switcher", HookSocket: "hook.sock"}
	if err := b.Bind("M-O"); err == nil || !strings.Contains(err.Error(), "no server running") {
		t.Fatalf("expected wrapped bind error, got %v", err)
	}
	if err := (KeyBinder{}).Bind("M-O"); err == nil {
		t.Fatalf("expected error without executable")
	}
	if err := b.Bind(" "); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if len(*calls) != 1 {
		t.Fatalf("only the valid bind should reach tmux, got %d calls", len(*calls))
	}
}

func TestKeyBinderUnbind(t *testing.T) {
	calls := withStubCommander(t, nil)
	if err := (KeyBinder{SocketPath: "/tmp/sock"}).Unbind("M-O"); err != nil {
		t.Fatalf("Unbind: %v", err)
	}
	want := []string{"-S", "/tmp/sock", "unbind-key", "-n", "M-O"}
	if !reflect.DeepEqual((*calls)[0].args, want) {
		t.Fatalf("unexpected unbind args %q", (*calls)[0].args)
	}
}

func TestSelectPaneRunsCommands(t *testing.T) {
	calls := withStubCommander(t, nil)
	if err := SelectPane("", "/dev/pts/3", "%4"); err != nil {
		t.Fatalf("SelectPane: %v", err)
	}
	var verbs []string
	for _, c := range *calls {
		if c.name != "tmux" {
			t.Fatalf("unexpected binary %q", c.name)
		}
		verbs = append(verbs, c.args[0])
	}
	if !reflect.DeepEqual(verbs, []string{"switch-client", "select-window", "select-pane"}) {
		t.Fatalf("unexpected command order %q", verbs)
	}
	if err := SelectPane("", "", " "); err == nil {
		t.Fatalf("expected error for empty target")
	}
}

func TestSelectPaneSkipsSwitchWithoutClient(t *testing.T) {
	calls := withStubCommander(t, nil)
	if err := SelectPane("/tmp/sock", "", "%4"); err != nil {
		t.Fatalf("SelectPane: %v", err)
	}
	if len(*calls) != 2 || (*calls)[0].args[2] != "select-window" {
		t.Fatalf("unexpected calls %#v", *calls)
	}
}

func TestCurrentClientID(t *testing.T) {
	t.Setenv("TMUX_PANE", "%3")
	client := &fakeClient{displayMessageFn: func(target, format string) (string, error) {
		if target != "%3" || format != "#{client_name}" {
			return "", errors.New("unexpected query")
		}
		return "/dev/pts/7\n", nil
	}}
	withStubTmux(t, func(string) (tmuxClient, error) { return client, nil })
	if got := CurrentClientID(""); got != "/dev/pts/7" {
		t.Fatalf("CurrentClientID = %q", got)
	}
}

func TestResolveSocketPath(t *testing.T) {
	if got, _ := ResolveSocketPath("/flag.sock"); got != "/flag.sock" {
		t.Fatalf("flag should win, got %q", got)
	}
	t.Setenv(SocketEnvVar, "/env.sock")
	if got, _ := ResolveSocketPath(""); got != "/env.sock" {
		t.Fatalf("env should win, got %q", got)
	}
	t.Setenv(SocketEnvVar, "")
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	if got, _ := ResolveSocketPath(""); got != "/tmp/tmux-1000/default" {
		t.Fatalf("TMUX should be parsed, got %q", got)
	}
	t.Setenv("TMUX", "")
	t.Setenv("TMUX_TMPDIR", "/var/tmp")
	got, err := ResolveSocketPath("")
	if err != nil {
		t.Fatalf("ResolveSocketPath: %v", err)
	}
	if !strings.HasPrefix(got, "/var/tmp/tmux-") || !strings.HasSuffix(got, "/default") {
		t.Fatalf("unexpected default socket %q", got)
	}
}
