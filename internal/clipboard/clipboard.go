// Package clipboard reads the system clipboard into a temporary file and
// writes URLs back, using whichever clipboard tool is installed.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cli/safeexec"
)

var ErrEmpty = errors.New("clipboard has no supported image/text content, or no clipboard command is available")

var (
	imageCommands = [][]string{
		{"pngpaste", "-"},
		{"wl-paste", "--type", "image/png"},
		{"xclip", "-selection", "clipboard", "-t", "image/png", "-o"},
	}
	textCommands = [][]string{
		{"pbpaste"},
		{"wl-paste", "--no-newline"},
		{"xclip", "-selection", "clipboard", "-o"},
		{"xsel", "--clipboard", "--output"},
		{"powershell", "-NoProfile", "-Command", "Get-Clipboard -Raw"},
	}
	copyCommands = [][]string{
		{"pbcopy"},
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
		{"xsel", "--clipboard", "--input"},
	}
)

// Clipboard runs clipboard tools. The zero value uses the real system.
type Clipboard struct {
	lookPath func(string) (string, error)
	run      func(ctx context.Context, bin string, args []string, stdin []byte) ([]byte, error)
	now      func() time.Time
}

func New() *Clipboard {
	return &Clipboard{}
}

func (c *Clipboard) lookup(name string) (string, error) {
	if c.lookPath != nil {
		return c.lookPath(name)
	}
	return safeexec.LookPath(name)
}

func (c *Clipboard) exec(ctx context.Context, bin string, args []string, stdin []byte) ([]byte, error) {
	if c.run != nil {
		return c.run(ctx, bin, args, stdin)
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (c *Clipboard) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// first returns the output of the first installed command that succeeds
// with non-empty output.
func (c *Clipboard) first(ctx context.Context, commands [][]string) []byte {
	for _, command := range commands {
		bin, err := c.lookup(command[0])
		if err != nil {
			continue
		}
		out, err := c.exec(ctx, bin, command[1:], nil)
		if err == nil && len(out) > 0 {
			return out
		}
	}
	return nil
}

func (c *Clipboard) ReadImage(ctx context.Context) []byte {
	return c.first(ctx, imageCommands)
}

func (c *Clipboard) ReadText(ctx context.Context) (string, bool) {
	for _, command := range textCommands {
		out := c.first(ctx, [][]string{command})
		if out != nil && utf8.Valid(out) {
			return string(out), true
		}
	}
	return "", false
}

// ToTempFile writes the clipboard content, preferring an image, to a
// temporary file. The remote name defaults to clipboard-<timestamp> with a
// .png or .txt extension. The caller removes the file.
func (c *Clipboard) ToTempFile(ctx context.Context, remoteName string) (string, string, error) {
	stamp := c.clock().UTC().Format("20060102-150405")

	if image := c.ReadImage(ctx); image != nil {
		if remoteName == "" {
			remoteName = "clipboard-" + stamp + ".png"
		}
		path, err := writeTemp(".png", image)
		return path, remoteName, err
	}

	if text, ok := c.ReadText(ctx); ok {
		if remoteName == "" {
			remoteName = "clipboard-" + stamp + ".txt"
		}
		path, err := writeTemp(".txt", []byte(text))
		return path, remoteName, err
	}

	return "", "", ErrEmpty
}

// Copy puts text on the clipboard with the first available tool.
func (c *Clipboard) Copy(ctx context.Context, text string) error {
	for _, command := range copyCommands {
		bin, err := c.lookup(command[0])
		if err != nil {
			continue
		}
		if _, err := c.exec(ctx, bin, command[1:], []byte(text)); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no clipboard command available (tried %s)", names(copyCommands))
}

func writeTemp(suffix string, data []byte) (string, error) {
	f, err := os.CreateTemp("", "fileup-clipboard-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return f.Name(), nil
}

func names(commands [][]string) string {
	out := make([]string, 0, len(commands))
	for _, c := range commands {
		out = append(out, c[0])
	}
	return strings.Join(out, ", ")
}
