package adversarial

import (
	"math/rand/v2"
	"testing"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/mazeGo/internal/eval"
	"github.com/janpfeifer/mazeGo/internal/parameters"
	. "github.com/janpfeifer/mazeGo/internal/state"
	"github.com/janpfeifer/mazeGo/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

var scoreEval = eval.ScoreEvaluator{}

func allEngines() []*Searcher {
	return []*Searcher{NewMinimax(scoreEval), NewAlphaBeta(scoreEval), NewExpectimax(scoreEval)}
}

// textbookTree is the classic 2-agent example: the minimax value is 3, taking the first action.
func textbookTree() *statetest.Node {
	return statetest.Uniform(2, 3, []float32{3, 12, 8, 2, 4, 6, 14, 5, 2})
}

func TestMinimaxTextbook(t *testing.T) {
	root, counter := statetest.NewTree(textbookTree(), 2)
	s := NewMinimax(scoreEval).WithDepth(1)
	action, score, actionsScores, err := s.Search(root)
	require.NoError(t, err)
	assert.Equal(t, North, action)
	assert.Equal(t, float32(3), score)
	assert.Equal(t, []float32{3, 2, 2}, actionsScores)
	assert.Equal(t, 12, s.Stats().Nodes)
	assert.Equal(t, 12, counter.Successors)
	assert.Equal(t, 9, s.Stats().Evals)
	assert.Equal(t, 0, s.Stats().Prunes)
}

func TestAlphaBetaTextbook(t *testing.T) {
	root, counter := statetest.NewTree(textbookTree(), 2)
	s := NewAlphaBeta(scoreEval).WithDepth(1)
	action, score, actionsScores, err := s.Search(root)
	require.NoError(t, err)
	assert.Equal(t, North, action)
	assert.Equal(t, float32(3), score)
	assert.Nil(t, actionsScores, "alpha-beta doesn't return actions scores")

	// The second subtree is cut after its first leaf (2 < alpha=3), the third after its last.
	assert.Equal(t, 10, s.Stats().Nodes)
	assert.Equal(t, 10, counter.Successors)
	assert.Equal(t, 2, s.Stats().Prunes)
}

func TestExpectimaxMean(t *testing.T) {
	tree := statetest.Inner(
		statetest.Inner(statetest.Leaves(2, 0, 4, 6)...),
		statetest.Inner(statetest.Leaves(2.5, 2.5)...),
	)

	// Expectimax averages the opponent's options: 3.0 vs 2.5.
	root, _ := statetest.NewTree(tree, 2)
	action, score, actionsScores, err := NewExpectimax(scoreEval).WithDepth(1).Search(root)
	require.NoError(t, err)
	assert.Equal(t, North, action)
	assert.Equal(t, float32(3), score)
	assert.Equal(t, []float32{3, 2.5}, actionsScores)

	// Minimax assumes the worst instead: 0 vs 2.5.
	root, _ = statetest.NewTree(tree, 2)
	action, score, _, err = NewMinimax(scoreEval).WithDepth(1).Search(root)
	require.NoError(t, err)
	assert.Equal(t, South, action)
	assert.Equal(t, float32(2.5), score)
}

func TestExpectimaxTwoOpponents(t *testing.T) {
	// 3 agents: the controlled agent has a single action, and each opponent 2: the chance nodes are nested.
	tree := statetest.Inner(
		statetest.Inner(
			statetest.Inner(statetest.Leaves(1, 3)...),
			statetest.Inner(statetest.Leaves(5, 7)...),
		),
	)
	root, _ := statetest.NewTree(tree, 3)
	action, score, _, err := NewExpectimax(scoreEval).WithDepth(1).Search(root)
	require.NoError(t, err)
	assert.Equal(t, North, action)
	assert.Equal(t, float32(4), score)
}

func TestTieBreakFirstWins(t *testing.T) {
	tree := statetest.Inner(
		statetest.Inner(statetest.Leaves(4, 4)...),
		statetest.Inner(statetest.Leaves(4, 4)...),
	)
	for _, s := range allEngines() {
		for range 10 {
			root, _ := statetest.NewTree(tree, 2)
			action, score, _, err := s.WithDepth(1).Search(root)
			require.NoError(t, err)
			assert.Equalf(t, North, action, "engine %s", s)
			assert.Equal(t, float32(4), score)
		}
	}
}

func TestAlphaBetaEquivalence(t *testing.T) {
	const (
		numAgents = 3
		depth     = 2
		branching = 3
		numTrees  = 30
	)
	numLeaves := 1
	for range numAgents * depth {
		numLeaves *= branching
	}
	rng := rand.New(rand.NewPCG(42, 0)) // Ensure reproducibility
	var strictlyFewer int
	for treeIdx := range numTrees {
		values := make([]float32, numLeaves)
		for ii := range values {
			// Small range of integer values, so there are plenty of ties.
			values[ii] = float32(rng.IntN(20))
		}
		tree := statetest.Uniform(numAgents*depth, branching, values)

		minimax := NewMinimax(scoreEval).WithDepth(depth)
		root, mmCounter := statetest.NewTree(tree, numAgents)
		mmAction, mmScore, _, err := minimax.Search(root)
		require.NoError(t, err)

		alphaBeta := NewAlphaBeta(scoreEval).WithDepth(depth)
		root, abCounter := statetest.NewTree(tree, numAgents)
		abAction, abScore, _, err := alphaBeta.Search(root)
		require.NoError(t, err)

		require.Equalf(t, mmAction, abAction, "tree #%d: alpha-beta and minimax disagree", treeIdx)
		require.Equalf(t, mmScore, abScore, "tree #%d", treeIdx)
		require.LessOrEqualf(t, abCounter.Successors, mmCounter.Successors, "tree #%d", treeIdx)
		require.LessOrEqual(t, alphaBeta.Stats().Evals, minimax.Stats().Evals)
		if abCounter.Successors < mmCounter.Successors {
			strictlyFewer++
		}
	}
	assert.Greater(t, strictlyFewer, 0, "alpha-beta never pruned anything")
}

func TestAlphaBetaEquivalenceOnBoards(t *testing.T) {
	for _, layoutName := range []string{"minimaxClassic", "trappedClassic", "testClassic", "smallClassic"} {
		layout, err := LoadLayout(layoutName)
		require.NoError(t, err)
		board := NewBoard(layout, AllGhosts)
		for _, e := range []eval.Evaluator{scoreEval, &eval.Heuristic{Weights: eval.DefaultWeights}} {
			for depth := 1; depth <= 2; depth++ {
				minimax := NewMinimax(e).WithDepth(depth)
				mmAction, mmScore, _, err := minimax.Search(board)
				require.NoError(t, err)
				alphaBeta := NewAlphaBeta(e).WithDepth(depth)
				abAction, abScore, _, err := alphaBeta.Search(board)
				require.NoError(t, err)
				assert.Equalf(t, mmAction, abAction, "layout=%s, eval=%s, depth=%d", layoutName, e, depth)
				assert.Equal(t, mmScore, abScore)
				assert.LessOrEqual(t, alphaBeta.Stats().Nodes, minimax.Stats().Nodes)
			}
		}
	}
}

func TestTerminalShortCircuit(t *testing.T) {
	// Terminal root: evaluated directly regardless of depth.
	for _, s := range allEngines() {
		for _, terminal := range []*statetest.Node{
			{Value: 42, Win: true, Children: statetest.Leaves(1, 2)},
			{Value: -42, Lose: true, Children: statetest.Leaves(1, 2)},
		} {
			root, counter := statetest.NewTree(terminal, 2)
			action, score, _, err := s.WithDepth(3).Search(root)
			require.NoError(t, err)
			assert.Equal(t, NoAction, action)
			assert.Equal(t, terminal.Value, score)
			assert.Equal(t, 0, counter.Successors)
			assert.Equal(t, 1, s.Stats().Evals)
		}
	}

	// Terminal child: its children are never visited.
	tree := statetest.Inner(
		&statetest.Node{Value: 10, Win: true, Children: statetest.Leaves(-100)},
		statetest.Inner(statetest.Leaves(5)...),
	)
	for _, s := range allEngines() {
		root, counter := statetest.NewTree(tree, 2)
		action, score, _, err := s.WithDepth(1).Search(root)
		require.NoError(t, err)
		assert.Equalf(t, North, action, "engine %s", s)
		assert.Equal(t, float32(10), score)
		assert.Equal(t, 3, counter.Successors)
	}
}

func TestDepthZero(t *testing.T) {
	for _, s := range allEngines() {
		root, counter := statetest.NewTree(textbookTree(), 2)
		root.Node().Value = 17
		action, score, actionsScores, err := s.WithDepth(0).Search(root)
		require.NoError(t, err)
		assert.Equal(t, NoAction, action)
		assert.Equal(t, float32(17), score)
		assert.Nil(t, actionsScores)
		assert.Equal(t, 0, counter.Successors)
		assert.Equal(t, 1, s.Stats().Evals)
	}
}

func TestDepthMonotonic(t *testing.T) {
	layout, err := LoadLayout("smallClassic")
	require.NoError(t, err)
	board := NewBoard(layout, AllGhosts)
	for _, kind := range []Kind{Minimax, Expectimax} {
		previous := 0
		for depth := 1; depth <= 3; depth++ {
			s := newValid(kind, scoreEval).WithDepth(depth)
			_, _, _, err := s.Search(board)
			require.NoError(t, err)
			assert.Greaterf(t, s.Stats().Nodes, previous, "%s depth=%d", kind, depth)
			previous = s.Stats().Nodes
		}
	}
}

func TestSingleAgent(t *testing.T) {
	// With a single agent every ply is the controlled agent's: a greedy lookahead over all leaves.
	tree := statetest.Uniform(2, 2, []float32{1, 5, 3, 2})
	for _, s := range allEngines() {
		root, counter := statetest.NewTree(tree, 1)
		action, score, _, err := s.WithDepth(2).Search(root)
		require.NoError(t, err)
		assert.Equalf(t, North, action, "engine %s", s)
		assert.Equal(t, float32(5), score)
		assert.LessOrEqual(t, counter.Successors, 6)
	}

	// Same on a board without ghosts.
	board := statetest.BuildBoard(
		"%%%%%%\n" +
			"%. P %\n" +
			"%%%%%%\n")
	require.Equal(t, 1, board.NumAgents())
	for _, s := range allEngines() {
		action, _, _, err := s.WithDepth(2).Search(board)
		require.NoError(t, err)
		assert.Equalf(t, West, action, "engine %s", s)
	}
}

func TestImmediateWin(t *testing.T) {
	// West eats the last food.
	board := statetest.BuildBoard(
		"%%%%%%%\n" +
			"%.P   %\n" +
			"%%%%%G%\n" +
			"%%%%% %\n" +
			"%%%%%%%\n")
	winSentinel := eval.Func(func(s GameState) float32 {
		if s.IsWin() {
			return math32.Inf(1)
		}
		return s.Score()
	})
	for _, kind := range []Kind{Minimax, AlphaBeta, Expectimax} {
		s := newValid(kind, winSentinel).WithDepth(2)
		action, score, _, err := s.Search(board)
		require.NoError(t, err)
		assert.Equalf(t, West, action, "engine %s", s)
		assert.True(t, math32.IsInf(score, 1))
	}
}

// failingState has a single legal action, whose successor fails.
type failingState struct {
	*statetest.Tree
	err error
}

func (f failingState) LegalActions(agent AgentIndex) []Action {
	return []Action{North}
}

func (f failingState) Successor(agent AgentIndex, action Action) (GameState, error) {
	return nil, f.err
}

func TestOracleErrorsPropagate(t *testing.T) {
	errBoom := errors.New("boom")
	tree, _ := statetest.NewTree(textbookTree(), 2)
	for _, s := range allEngines() {
		_, _, _, err := s.Search(failingState{Tree: tree, err: errBoom})
		assert.Equal(t, errBoom, err, "errors must be returned unmodified")
	}
}

func TestNotImplemented(t *testing.T) {
	_, err := New(NumKinds, scoreEval)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotImplemented))

	_, err = ParseKind("mcts")
	assert.True(t, errors.Is(err, ErrNotImplemented))

	// Selecting an engine that doesn't exist must never produce an action.
	s := &Searcher{kind: NumKinds, depth: 1, evaluator: scoreEval}
	root, _ := statetest.NewTree(textbookTree(), 2)
	assert.Panics(t, func() { _, _, _, _ = s.Search(root) })
}

func TestNewFromParams(t *testing.T) {
	params := parameters.NewFromConfigString("depth=3,eval=better")
	s, err := NewFromParams(Expectimax, params)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Depth())
	assert.Equal(t, Expectimax, s.Kind())
	assert.Empty(t, params)

	s, err = NewFromParams(Minimax, parameters.NewFromConfigString(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultDepth, s.Depth())

	for _, config := range []string{"depth=0", "depth=-1", "depth=x"} {
		_, err = NewFromParams(AlphaBeta, parameters.NewFromConfigString(config))
		assert.Truef(t, errors.Is(err, parameters.ErrInvalid), "config %q", config)
	}
	_, err = NewFromParams(AlphaBeta, parameters.NewFromConfigString("eval=nope"))
	assert.True(t, errors.Is(err, eval.ErrUnknownEvaluation))

	for _, name := range KindNames() {
		kind, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, kind.String())
	}
}
