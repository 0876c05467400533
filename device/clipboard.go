package device

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard is returned when the platform has no usable clipboard.
var ErrNoClipboard = errors.New("no clipboard available")

// SystemClipboard writes to the platform clipboard (pbcopy, clip.exe,
// wl-copy, xclip or xsel, whichever the platform offers).
type SystemClipboard struct {
	write func(string) error
}

// DetectClipboard returns the platform clipboard, or ErrNoClipboard when
// none of its helpers is installed.
func DetectClipboard() (*SystemClipboard, error) {
	if clipboard.Unsupported {
		return nil, ErrNoClipboard
	}
	return &SystemClipboard{write: clipboard.WriteAll}, nil
}

// SetText replaces the clipboard contents. It returns early with ctx's error
// when ctx is done first; the write itself cannot be interrupted.
func (c *SystemClipboard) SetText(ctx context.Context, text string) error {
	done := make(chan error, 1)
	go func() { done <- c.write(text) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CommandClipboard writes text into the clipboard through an explicitly
// configured helper program.
type CommandClipboard struct {
	argv []string
}

// NewCommandClipboard creates a clipboard from a command line that reads
// the text from stdin.
func NewCommandClipboard(line string) (*CommandClipboard, error) {
	argv, err := ParseCommand(line)
	if err != nil {
		return nil, err
	}
	return &CommandClipboard{argv: argv}, nil
}

// SetText replaces the clipboard contents.
func (c *CommandClipboard) SetText(ctx context.Context, text string) error {
	return run(ctx, c.argv, text)
}

// Argv returns the helper command line.
func (c *CommandClipboard) Argv() []string {
	return append([]string(nil), c.argv...)
}
