// Package device implements the speech and clipboard ports of the
// controller by piping text into external programs.
package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LocalePlaceholder in a command line is replaced with the speech locale.
const LocalePlaceholder = "{locale}"

// ErrNoCommand is returned when no usable program was configured or found.
var ErrNoCommand = errors.New("no command available")

// ParseCommand splits a command line such as "xclip -selection clipboard"
// into program and arguments.
func ParseCommand(line string) ([]string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrNoCommand
	}
	return fields, nil
}

// run starts argv with text on stdin and waits for it to exit.
func run(ctx context.Context, argv []string, text string) error {
	if len(argv) == 0 {
		return ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}

// detect returns the first candidate whose program is on PATH.
func detect(candidates [][]string) ([]string, error) {
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, ErrNoCommand
}
