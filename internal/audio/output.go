package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"
)

// Output plays a buffer to completion.
type Output interface {
	Play(ctx context.Context, b Buffer) error
}

// ErrNoPlayer means no audio player command could be found.
var ErrNoPlayer = errors.New("no audio player found")

// CommandOutput writes a temporary WAV file and hands it to a command-line
// player.
type CommandOutput struct {
	// Command overrides player detection. The WAV path is appended as the
	// last argument.
	Command string
}

// Play blocks until the player exits.
func (o CommandOutput) Play(ctx context.Context, b Buffer) error {
	name, args, err := o.command()
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "palavra-*.wav")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if err := WriteWAV(f, b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}

	cmd := exec.CommandContext(ctx, name, args(f.Name())...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("running %s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Available reports whether a player command can be found.
func (o CommandOutput) Available() bool {
	_, _, err := o.command()
	return err == nil
}

// command resolves the player and a function building its arguments for a
// WAV path.
func (o CommandOutput) command() (string, func(path string) []string, error) {
	appendPath := func(fixed ...string) func(string) []string {
		return func(path string) []string { return append(slices.Clone(fixed), path) }
	}

	if fields := strings.Fields(o.Command); len(fields) > 0 {
		return fields[0], appendPath(fields[1:]...), nil
	}

	switch runtime.GOOS {
	case "darwin":
		return "afplay", appendPath(), nil
	case "windows":
		return "powershell", func(path string) []string {
			script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", strings.ReplaceAll(path, "'", "''"))
			return []string{"-NoProfile", "-Command", script}
		}, nil
	}

	candidates := [][]string{
		{"paplay"},
		{"aplay", "-q"},
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			return c[0], appendPath(c[1:]...), nil
		}
	}
	return "", nil, ErrNoPlayer
}
