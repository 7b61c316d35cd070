package _default

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/mazeGo/internal/eval"
	"github.com/janpfeifer/mazeGo/internal/players"
	"github.com/janpfeifer/mazeGo/internal/players/ghosts"
	"github.com/janpfeifer/mazeGo/internal/searchers/adversarial"
	. "github.com/janpfeifer/mazeGo/internal/state"
	"github.com/janpfeifer/mazeGo/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistered(t *testing.T) {
	assert.Equal(t,
		[]string{"alphabeta", "directional", "expectimax", "minimax", "random", "reflex"},
		players.RegisteredModules())
}

func TestDefaultConfigs(t *testing.T) {
	p, err := players.New(ControlledAgent, "")
	require.NoError(t, err)
	sp, ok := p.(*players.SearcherPlayer)
	require.True(t, ok)
	s, ok := sp.Searcher.(*adversarial.Searcher)
	require.True(t, ok)
	assert.Equal(t, adversarial.Minimax, s.Kind())
	assert.Equal(t, 2, s.Depth())

	p, err = players.New(1, "")
	require.NoError(t, err)
	_, ok = p.(*ghosts.Random)
	assert.True(t, ok)
}

func TestConfigs(t *testing.T) {
	for _, config := range []string{
		"alphabeta,depth=3,eval=better",
		"expectimax,eval=betterEvaluationFunction,food_weight=3",
		"minimax,randomness=0.5,max_move_randomness=10",
		"reflex,seed=1",
	} {
		_, err := players.New(ControlledAgent, config)
		assert.NoErrorf(t, err, "config=%q", config)
	}
	_, err := players.New(2, "directional,prob=0.5,seed=3")
	assert.NoError(t, err)

	for _, config := range []string{
		"minimax,depth=0",
		"minimax,depth=-2",
		"minimax,foo",
		"minimax,reflex",
		"random",
	} {
		_, err = players.New(ControlledAgent, config)
		assert.ErrorIsf(t, err, players.ErrInvalidConfig, "config=%q", config)
	}
	_, err = players.New(ControlledAgent, "minimax,eval=worse")
	assert.ErrorIs(t, err, eval.ErrUnknownEvaluation)
	_, err = players.New(1, "expectimax")
	assert.ErrorIs(t, err, players.ErrInvalidConfig)
}

func TestPlayImmediateWin(t *testing.T) {
	board := statetest.BuildBoard(
		"%%%%%%%\n" +
			"%.P   %\n" +
			"%%%%%G%\n" +
			"%%%%% %\n" +
			"%%%%%%%\n")
	for _, config := range []string{"minimax", "alphabeta", "expectimax", "reflex", "minimax,randomness=0.01"} {
		p, err := players.New(ControlledAgent, config)
		require.NoError(t, err)
		action, err := p.Play(board)
		require.NoError(t, err)
		assert.Equalf(t, West, action, "config=%q", config)
	}
	assert.True(t, math32.IsInf(eval.NewReflex().Evaluate(must(board.Act(ControlledAgent, West))), 1))
}

func TestPlayTerminal(t *testing.T) {
	board := statetest.BuildBoard("%%%%\n%P.%\n%%%%\n")
	board, err := board.Act(ControlledAgent, East)
	require.NoError(t, err)
	require.True(t, board.IsWin())
	p, err := players.New(ControlledAgent, "alphabeta")
	require.NoError(t, err)
	_, err = p.Play(board)
	assert.ErrorIs(t, err, players.ErrNoLegalActions)
}

func must(b *Board, err error) *Board {
	if err != nil {
		panic(err)
	}
	return b
}
