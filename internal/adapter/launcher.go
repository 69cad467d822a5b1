package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/pkg/browser"
)

// Launcher opens a picture URL in an external viewer or the system browser
type Launcher struct {
	command string   // configured viewer command, empty for auto-detect
	args    []string // additional arguments for the viewer
	logger  *slog.Logger

	// Swappable for tests
	lookPath func(file string) (string, error)
	start    func(cmd *exec.Cmd) error
	openURL  func(url string) error
}

// candidateViewers lists image viewers that accept a URL, per platform, in
// preference order. Platforms without an entry go straight to the browser.
var candidateViewers = map[string][]string{
	"linux": {"imv", "feh"},
}

// NewLauncher creates a Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		lookPath: exec.LookPath,
		start:    func(cmd *exec.Cmd) error { return cmd.Start() },
		openURL:  browser.OpenURL,
	}
}

// tryLaunchWithCommand starts command with args and url if it is in PATH
func (l *Launcher) tryLaunchWithCommand(command, url string, args []string) error {
	if _, err := l.lookPath(command); err != nil {
		return err
	}

	cmdArgs := append(append([]string{}, args...), url)
	return l.start(exec.Command(command, cmdArgs...)) // Start async, don't wait
}

// Launch opens url in the configured viewer, a detected viewer, or the browser
func (l *Launcher) Launch(url string) error {
	// Tier 1: User configured a specific viewer
	if l.command != "" {
		l.logger.Info("launching configured viewer", "command", l.command, "args", l.args, "url", url)
		if err := l.tryLaunchWithCommand(l.command, url, l.args); err != nil {
			return fmt.Errorf("failed to launch %s: %w", l.command, err)
		}
		return nil
	}

	// Tier 2: Try candidate viewers for this platform
	for _, viewer := range candidateViewers[runtime.GOOS] {
		err := l.tryLaunchWithCommand(viewer, url, nil)
		if err == nil {
			l.logger.Info("launched with detected viewer", "viewer", viewer)
			return nil
		}
		l.logger.Debug("viewer not available", "viewer", viewer, "error", err)
	}

	// Tier 3: Fall back to the system browser
	l.logger.Info("opening in browser", "os", runtime.GOOS, "url", url)
	if err := l.openURL(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
