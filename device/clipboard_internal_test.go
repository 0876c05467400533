package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectClipboard(t *testing.T) {
	c, err := DetectClipboard()
	if clipboard.Unsupported {
		assert.ErrorIs(t, err, ErrNoClipboard)
		assert.Nil(t, c)
		return
	}
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestSystemClipboard_SetText(t *testing.T) {
	var got string
	c := &SystemClipboard{write: func(s string) error { got = s; return nil }}

	require.NoError(t, c.SetText(context.Background(), "bonjour"))
	assert.Equal(t, "bonjour", got)
}

func TestSystemClipboard_WriteError(t *testing.T) {
	c := &SystemClipboard{write: func(string) error { return errors.New("no display") }}

	assert.ErrorContains(t, c.SetText(context.Background(), "x"), "no display")
}

func TestSystemClipboard_ContextDone(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	c := &SystemClipboard{write: func(string) error { <-release; return nil }}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, c.SetText(ctx, "x"), context.DeadlineExceeded)
}
