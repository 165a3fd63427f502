package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/atomicstack/tmux-overlay-switcher/internal/app"
	"github.com/atomicstack/tmux-overlay-switcher/internal/input"
	"github.com/atomicstack/tmux-overlay-switcher/internal/layout"
	"github.com/atomicstack/tmux-overlay-switcher/internal/ui"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// SendKey is set when the binary runs as the forwarder invoked by the
	// tmux binding rather than as the switcher itself.
	SendKey    string
	ConfigFile string
	Flags      map[string]string
	Args       []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envSocketPath = "TMUX_OVERLAY_SWITCHER_SOCKET"
	envHookSocket = "TMUX_OVERLAY_SWITCHER_HOOK_SOCKET"
	envConfigFile = "TMUX_OVERLAY_SWITCHER_CONFIG"
	envGesture    = "TMUX_OVERLAY_SWITCHER_GESTURE"
	envWidth      = "TMUX_OVERLAY_SWITCHER_WIDTH"
	envHeight     = "TMUX_OVERLAY_SWITCHER_HEIGHT"
	envTrace      = "TMUX_OVERLAY_SWITCHER_TRACE"
	envLogFile    = "TMUX_OVERLAY_SWITCHER_LOG_FILE"
	envNoGlobal   = "TMUX_OVERLAY_SWITCHER_NO_GLOBAL"
)

// fileConfig is the TOML layer beneath environment variables and flags.
type fileConfig struct {
	Socket       string   `toml:"socket"`
	HookSocket   string   `toml:"hook_socket"`
	LogFile      string   `toml:"log_file"`
	Trace        bool     `toml:"trace"`
	Gesture      string   `toml:"gesture"`
	PreviousKeys []string `toml:"previous_keys"`
	NextKeys     []string `toml:"next_keys"`
	Exclude      []string `toml:"exclude"`
	Debounce     string   `toml:"debounce"`
	NoGlobal     bool     `toml:"no_global"`
	Open         bool     `toml:"open"`
	Layout       struct {
		Baseline string `toml:"baseline"`
		Selected string `toml:"selected"`
		Spacing  *int   `toml:"spacing"`
	} `toml:"layout"`
	Animation struct {
		Steps    *int   `toml:"steps"`
		Interval string `toml:"interval"`
	} `toml:"animation"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	configPath, explicit := configFileFromArgs(args)
	if !explicit {
		configPath, explicit = envOrDefault(env, envConfigFile, ""), env[envConfigFile] != ""
	}
	if !explicit {
		configPath = defaultConfigFile(env)
	}
	file, err := loadFile(configPath, explicit)
	if err != nil {
		return Config{}, err
	}

	defaults := layout.Default()
	baselineDefault, err := sizeOr(file.Layout.Baseline, defaults.Baseline)
	if err != nil {
		return Config{}, fmt.Errorf("config file %s: layout.baseline: %w", configPath, err)
	}
	selectedDefault, err := sizeOr(file.Layout.Selected, defaults.Selected)
	if err != nil {
		return Config{}, fmt.Errorf("config file %s: layout.selected: %w", configPath, err)
	}
	intervalDefault, err := durationOr(file.Animation.Interval, ui.DefaultAnimationInterval)
	if err != nil {
		return Config{}, fmt.Errorf("config file %s: animation.interval: %w", configPath, err)
	}
	debounceDefault, err := durationOr(file.Debounce, 0)
	if err != nil {
		return Config{}, fmt.Errorf("config file %s: debounce: %w", configPath, err)
	}
	spacingDefault := defaults.Spacing
	if file.Layout.Spacing != nil {
		spacingDefault = *file.Layout.Spacing
	}
	stepsDefault := ui.DefaultAnimationSteps
	if file.Animation.Steps != nil {
		stepsDefault = *file.Animation.Steps
	}

	fs := flag.NewFlagSet("tmux-overlay-switcher", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", configPath, "path to a TOML config file")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, file.Socket), "path to the tmux socket (overrides environment detection)")
	hookSocket := fs.String("hook-socket", envOrDefault(env, envHookSocket, file.HookSocket), "unix socket the global observer listens on")
	sendKey := fs.String("send-key", "", "forward a tmux key name to a running switcher and exit")
	gesture := fs.String("gesture", envOrDefault(env, envGesture, orString(file.Gesture, input.DefaultGesture)), "activation gesture: modifiers plus a key, e.g. alt+shift+o")
	prevKeys := fs.String("prev-keys", orList(file.PreviousKeys, input.DefaultPreviousKeys), "comma separated keys selecting the previous panel")
	nextKeys := fs.String("next-keys", orList(file.NextKeys, input.DefaultNextKeys), "comma separated keys selecting the next panel")
	exclude := fs.String("exclude", strings.Join(file.Exclude, ","), "comma separated commands to hide")
	baseline := fs.String("baseline", baselineDefault.String(), "baseline panel size as WxH")
	selected := fs.String("selected", selectedDefault.String(), "selected panel size as WxH")
	spacing := fs.Int("spacing", spacingDefault, "rows between panels")
	steps := fs.Int("animation-steps", stepsDefault, "frames per layout animation (0 disables animation)")
	interval := fs.Duration("animation-interval", intervalDefault, "delay between animation frames")
	debounce := fs.Duration("debounce", debounceDefault, "ignore repeated gestures within this interval")
	open := fs.Bool("open", file.Open, "open the overlay on start")
	noGlobal := fs.Bool("no-global", envOrBool(env, envNoGlobal, file.NoGlobal), "do not install the tmux forwarding binding")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, file.Trace), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.LogFile), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	baselineSize, err := layout.ParseSize(*baseline)
	if err != nil {
		return Config{}, fmt.Errorf("baseline: %w", err)
	}
	selectedSize, err := layout.ParseSize(*selected)
	if err != nil {
		return Config{}, fmt.Errorf("selected: %w", err)
	}

	cfg := Config{
		App: app.Config{
			SocketPath:   *socket,
			HookSocket:   *hookSocket,
			Gesture:      *gesture,
			PreviousKeys: splitList(*prevKeys),
			NextKeys:     splitList(*nextKeys),
			Layout: layout.Engine{
				Baseline: baselineSize,
				Selected: selectedSize,
				Spacing:  *spacing,
			},
			AnimationSteps:    *steps,
			AnimationInterval: *interval,
			Debounce:          *debounce,
			Exclude:           splitList(*exclude),
			OpenOnStart:       *open,
			NoGlobal:          *noGlobal,
			Width:             *width,
			Height:            *height,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		SendKey:    strings.TrimSpace(*sendKey),
		ConfigFile: configPath,
		Flags: map[string]string{
			"socket":     *socket,
			"hookSocket": *hookSocket,
			"gesture":    *gesture,
			"baseline":   *baseline,
			"selected":   *selected,
			"width":      strconv.Itoa(*width),
			"height":     strconv.Itoa(*height),
			"open":       strconv.FormatBool(*open),
			"noGlobal":   strconv.FormatBool(*noGlobal),
			"trace":      strconv.FormatBool(*trace),
			"logFile":    *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// configFileFromArgs finds -config before the full flag set exists, since
// the file supplies the other flags' defaults.
func configFileFromArgs(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if value, ok := strings.CutPrefix(name, "config="); ok {
			return value, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func defaultConfigFile(env map[string]string) string {
	dir := env["XDG_CONFIG_HOME"]
	if dir == "" {
		home := env["HOME"]
		if home == "" {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tmux-overlay-switcher", "config.toml")
}

// loadFile decodes the config file. A missing default file is not an error;
// a missing explicit one is.
func loadFile(path string, explicit bool) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func sizeOr(value string, fallback layout.Size) (layout.Size, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return layout.ParseSize(value)
}

func durationOr(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(strings.TrimSpace(value))
}

func orString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func orList(values, fallback []string) string {
	if len(values) == 0 {
		values = fallback
	}
	return strings.Join(values, ",")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks values the flag parser cannot.
func Validate(cfg Config) error {
	if cfg.SendKey != "" {
		if _, err := input.ParseTmuxKey(cfg.SendKey); err != nil {
			return fmt.Errorf("send-key: %w", err)
		}
		return nil
	}
	a := cfg.App
	if a.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", a.Width)
	}
	if a.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", a.Height)
	}
	if a.AnimationSteps < 0 {
		return fmt.Errorf("animation-steps must be >= 0 (got %d)", a.AnimationSteps)
	}
	if a.AnimationInterval < 0 {
		return fmt.Errorf("animation-interval must be >= 0 (got %s)", a.AnimationInterval)
	}
	if a.Debounce < 0 {
		return fmt.Errorf("debounce must be >= 0 (got %s)", a.Debounce)
	}
	gesture, err := input.ParseGesture(a.Gesture)
	if err != nil {
		return err
	}
	if err := gesture.Deliverable(); err != nil {
		return err
	}
	if _, err := input.NewManager(input.Options{PreviousKeys: a.PreviousKeys, NextKeys: a.NextKeys}, nil); err != nil {
		return err
	}
	return a.Layout.Validate()
}
