package eval

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/mazeGo/internal/parameters"
	"github.com/janpfeifer/mazeGo/internal/state"
	"github.com/janpfeifer/mazeGo/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{
		"score":                    Score,
		"scoreEvaluationFunction":  Score,
		"better":                   Better,
		"BetterEvaluationFunction": Better,
	} {
		got, err := ParseKind(name)
		require.NoErrorf(t, err, "name=%q", name)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("best")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEvaluation))

	_, err = New(NumKinds, DefaultWeights)
	assert.True(t, errors.Is(err, ErrUnknownEvaluation))
}

func TestNewFromParams(t *testing.T) {
	params := parameters.NewFromConfigString("eval=better,food_weight=3,threat_weight=1.5,depth=2")
	e, err := NewFromParams(params)
	require.NoError(t, err)
	h, ok := e.(*Heuristic)
	require.True(t, ok)
	assert.Equal(t, float32(3), h.Weights.Food)
	assert.Equal(t, float32(1.5), h.Weights.Threat)
	assert.Equal(t, DefaultWeights.Scared, h.Weights.Scared)
	assert.Equal(t, parameters.Params{"depth": "2"}, params, "only evaluation keys are consumed")

	e, err = NewFromParams(parameters.NewFromConfigString(""))
	require.NoError(t, err)
	assert.Equal(t, ScoreEvaluator{}, e)

	_, err = NewFromParams(parameters.NewFromConfigString("eval=nope"))
	assert.True(t, errors.Is(err, ErrUnknownEvaluation))
}

func TestScoreEvaluator(t *testing.T) {
	b := statetest.BuildBoard(
		"%%%%%%\n" +
			"%P..G%\n" +
			"%%%%%%\n")
	next, err := b.Act(state.ControlledAgent, state.East)
	require.NoError(t, err)
	assert.Equal(t, next.Score(), ScoreEvaluator{}.Evaluate(next))
}

func TestHeuristic(t *testing.T) {
	h := &Heuristic{Weights: Weights{Food: 10, Threat: 20, Scared: 100, Capsule: 20, FoodLeft: 4}}

	// Food at distance 1, active ghost at distance 3, one capsule and 2 food left.
	b := statetest.BuildBoard(
		"%%%%%%%\n" +
			"%P.oG.%\n" +
			"%%%%%%%\n")
	want := float32(0) + 10.0/2 - 20.0/4 - 20*1 - 4*2
	assert.InDelta(t, want, h.Evaluate(b), 1e-5)

	// Being closer to an active ghost is worse.
	near := statetest.BuildBoard(
		"%%%%%%%\n" +
			"%P.G .%\n" +
			"%%%%%%%\n")
	far := statetest.BuildBoard(
		"%%%%%%%\n" +
			"%P. G.%\n" +
			"%%%%%%%\n")
	assert.Less(t, h.Evaluate(near), h.Evaluate(far))

	// Scared ghosts attract instead.
	scaredNear, err := statetest.BuildBoard(
		"%%%%%%%\n" +
			"%PoG .%\n" +
			"%%%%%%%\n").Act(state.ControlledAgent, state.East)
	require.NoError(t, err)
	require.True(t, scaredNear.Ghosts()[0].IsScared())
	scaredFar, err := statetest.BuildBoard(
		"%%%%%%%\n" +
			"%Po G.%\n" +
			"%%%%%%%\n").Act(state.ControlledAgent, state.East)
	require.NoError(t, err)
	assert.Greater(t, h.Evaluate(scaredNear), h.Evaluate(scaredFar))

	// Non-observable states are evaluated by their score.
	tree, _ := statetest.NewTree(statetest.Leaf(7), 2)
	assert.Equal(t, float32(7), h.Evaluate(tree))
}

func TestReflex(t *testing.T) {
	r := NewReflex()
	b := statetest.BuildBoard(
		"%%%%%%%\n" +
			"%P.  G%\n" +
			"%%%%%%%\n")
	// Food at distance 1, active ghost at distance 4.
	want := float32(0) + 20.0/2 - 5.0/5
	assert.InDelta(t, want, r.Evaluate(b), 1e-5)

	won, err := b.Act(state.ControlledAgent, state.East)
	require.NoError(t, err)
	assert.Equal(t, math32.Inf(1), r.Evaluate(won), "no food left is the best possible outcome")
}
