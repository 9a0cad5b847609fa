// Package clipboard copies text to the system clipboard, falling back to an
// OSC 52 escape sequence when no clipboard tool is installed.
package clipboard

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// command returns the clipboard tool for the current platform, or nil.
func command() []string {
	switch runtime.GOOS {
	case "darwin":
		if _, err := lookPath("pbcopy"); err == nil {
			return []string{"pbcopy"}
		}
	case "windows":
		return []string{"cmd", "/c", "clip"}
	default:
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			if _, err := lookPath("wl-copy"); err == nil {
				return []string{"wl-copy"}
			}
		}
		if _, err := lookPath("xclip"); err == nil {
			return []string{"xclip", "-selection", "clipboard"}
		}
		if _, err := lookPath("xsel"); err == nil {
			return []string{"xsel", "--clipboard", "--input"}
		}
	}
	return nil
}

// Write copies text to the system clipboard. Without a clipboard tool the
// text is sent to the terminal as an OSC 52 sequence on stderr.
func Write(text string) error {
	args := command()
	if args == nil {
		return writeOSC52(os.Stderr, text)
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", args[0], err)
	}
	return nil
}

func writeOSC52(w io.Writer, text string) error {
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(w); err != nil {
		return fmt.Errorf("writing osc52 sequence: %w", err)
	}
	return nil
}

// Available reports whether a native clipboard tool was found.
func Available() bool {
	return command() != nil
}
