package spinning

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinning(t *testing.T) {
	savedTheme, savedPeriod := Theme, Period
	defer func() { Theme, Period = savedTheme, savedPeriod }()
	Theme, Period = ThemeAscii, time.Millisecond

	var buf bytes.Buffer
	s := NewOn(context.Background(), &buf)
	time.Sleep(20 * time.Millisecond)
	s.Done()
	s.Done()
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\033[?25l  \b\b|"), "got %q", out)
	assert.True(t, strings.HasSuffix(out, "\b\b\033[?25h"), "got %q", out)
}

func TestSpinningCancelled(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	s := NewOn(ctx, &buf)
	cancel()
	s.Done()
	assert.Contains(t, buf.String(), "\033[?25h")
}
