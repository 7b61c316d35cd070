package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/janpfeifer/mazeGo/internal/match"
	. "github.com/janpfeifer/mazeGo/internal/state"
	"github.com/janpfeifer/mazeGo/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLayout = "" +
	"%%%%%%\n" +
	"%P.oG%\n" +
	"%%%%%%\n"

func TestRenderBoard(t *testing.T) {
	board := statetest.BuildBoard(testLayout)
	ui := New(false, false)
	want := "" +
		"%%%%%%%%%%%%\n" +
		"%% P . o G%%\n" +
		"%%%%%%%%%%%%\n"
	assert.Equal(t, want, ui.RenderBoard(board))

	// Colors don't change the displayed width.
	colored := New(true, false).RenderBoard(board)
	for _, line := range strings.Split(strings.TrimRight(colored, "\n"), "\n") {
		assert.Equal(t, 6*CharsPerColumn, displayWidth(line))
	}
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	ui := New(false, false).WithIO(strings.NewReader(""), &out)
	ui.Print(statetest.BuildBoard(testLayout))
	assert.Contains(t, out.String(), "Move #0 - Score 0 - Food left 1")
	assert.Contains(t, out.String(), "%% P . o G%%")

	out.Reset()
	ui.PrintResult(match.Result{Outcome: match.Lose, Score: -503, Moves: 2})
	assert.Contains(t, out.String(), "GAME OVER")
	assert.Contains(t, out.String(), "Score -503 in 2 moves")
}

func TestReadAction(t *testing.T) {
	board := statetest.BuildBoard(testLayout)
	var out bytes.Buffer
	ui := New(false, false).WithIO(strings.NewReader("jump\nnorth\ne\n"), &out)
	action, err := ui.ReadAction(board)
	require.NoError(t, err)
	assert.Equal(t, East, action)
	assert.Contains(t, out.String(), "Failed to parse")
	assert.Contains(t, out.String(), "North is blocked")

	ui = New(false, false).WithIO(strings.NewReader("x\ny\nz\n"), &out)
	_, err = ui.ReadAction(board)
	assert.ErrorIs(t, err, ErrTooManyParsingErrors)

	ui = New(false, false).WithIO(strings.NewReader(""), &out)
	_, err = ui.ReadAction(board)
	assert.Error(t, err)
}

func TestHumanPlayer(t *testing.T) {
	var out bytes.Buffer
	h := &HumanPlayer{UI: New(false, false).WithIO(strings.NewReader("a\nb\nc\nstop\n"), &out)}
	action, err := h.Play(statetest.BuildBoard(testLayout))
	require.NoError(t, err)
	assert.Equal(t, Stop, action)
	assert.Equal(t, "human", h.String())

	tree, _ := statetest.NewTree(statetest.Inner(statetest.Leaf(1)), 1)
	_, err = h.Play(tree)
	assert.Error(t, err)
}
