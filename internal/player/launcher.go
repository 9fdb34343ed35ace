package player

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Launcher opens episode video URLs in an external player. Streaming chrome
// (seeking, subtitles, audio tracks) belongs to the player, not to us.
type Launcher struct {
	command string   // configured player command, empty for auto-detect
	args    []string // additional player arguments
	logger  *slog.Logger
}

// candidatePlayers is the detection order per platform.
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "mpv", "vlc"},
	"linux":   {"mpv", "vlc", "celluloid"},
	"windows": {"vlc", "mpv"},
}

// NewLauncher creates a launcher for the configured player command.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{command: command, args: args, logger: logger}
}

// Launch opens url in the configured player, a detected candidate, or the
// system default handler, in that order.
func (l *Launcher) Launch(url string) error {
	if l.command != "" {
		l.logger.Info("launching configured player", "command", l.command, "url", url)
		return l.start(l.command, url)
	}

	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"]
	}
	for _, candidate := range candidates {
		if _, err := exec.LookPath(candidate); err != nil {
			continue
		}
		l.logger.Info("launching detected player", "command", candidate, "url", url)
		return l.start(candidate, url)
	}

	l.logger.Info("no player found, using system default", "url", url)
	return l.launchDefault(url)
}

// start launches the player async and leaves it running after we exit.
func (l *Launcher) start(command, url string) error {
	args := append(append([]string{}, l.args...), url)
	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player %s: %w", command, err)
	}
	return nil
}

// launchDefault opens the URL with the OS default handler.
func (l *Launcher) launchDefault(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
