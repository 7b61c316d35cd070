// Package reflex implements a one-ply searcher: it scores the immediate successor of each legal action and picks
// the best one, breaking ties at random.
package reflex

import (
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/mazeGo/internal/eval"
	"github.com/janpfeifer/mazeGo/internal/parameters"
	"github.com/janpfeifer/mazeGo/internal/searchers"
	"github.com/janpfeifer/mazeGo/internal/state"
	"k8s.io/klog/v2"
)

// Searcher implements searchers.Searcher with a one-ply lookahead.
type Searcher struct {
	evaluator eval.Evaluator
	rng       *rand.Rand
	stats     searchers.Stats
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// New returns a reflex Searcher that scores successors with evaluator. Usually evaluator is an eval.Reflex.
func New(evaluator eval.Evaluator) *Searcher {
	return &Searcher{
		evaluator: evaluator,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// WithRand sets the source of randomness used to break ties. Useful for reproducibility.
func (s *Searcher) WithRand(rng *rand.Rand) *Searcher {
	s.rng = rng
	return s
}

// NewFromParams creates a reflex Searcher configured by params, consuming the keys:
//
//   - seed (int): seed for the random tie-breaking. Default is a random seed.
//   - food_weight, threat_weight, scared_weight (float): eval.Reflex weights, see eval.DefaultReflexWeights.
func NewFromParams(params parameters.Params) (*Searcher, error) {
	weights, err := eval.WeightsFromParams(params, eval.DefaultReflexWeights)
	if err != nil {
		return nil, err
	}
	s := New(&eval.Reflex{Weights: weights})
	seed, err := parameters.PopParamOr(params, "seed", -1)
	if err != nil {
		return nil, err
	}
	if seed >= 0 {
		s.WithRand(rand.New(rand.NewPCG(uint64(seed), 0)))
	}
	return s, nil
}

// String implements searchers.Searcher.
func (s *Searcher) String() string {
	return fmt.Sprintf("reflex,eval=%s", s.evaluator)
}

// Stats implements searchers.Searcher.
func (s *Searcher) Stats() searchers.Stats {
	return s.stats
}

// Search implements searchers.Searcher. It returns the score of every legal action.
func (s *Searcher) Search(st state.GameState) (action state.Action, score float32, actionsScores []float32, err error) {
	s.stats = searchers.Stats{}
	actions := st.LegalActions(state.ControlledAgent)
	actionsScores = make([]float32, len(actions))
	bestScore := math32.Inf(-1)
	var bestIndices []int
	for ii, candidate := range actions {
		successor, err := st.Successor(state.ControlledAgent, candidate)
		if err != nil {
			return state.NoAction, 0, nil, err
		}
		s.stats.Nodes++
		s.stats.Evals++
		actionsScores[ii] = s.evaluator.Evaluate(successor)
		switch {
		case actionsScores[ii] > bestScore:
			bestScore = actionsScores[ii]
			bestIndices = append(bestIndices[:0], ii)
		case actionsScores[ii] == bestScore:
			bestIndices = append(bestIndices, ii)
		}
	}
	if len(bestIndices) == 0 {
		return state.NoAction, bestScore, nil, nil
	}

	// Pick randomly among the best.
	chosen := bestIndices[s.rng.IntN(len(bestIndices))]
	if klog.V(2).Enabled() {
		klog.Infof("%s: action=%s, score=%.2f, ties=%d", s, actions[chosen], bestScore, len(bestIndices))
	}
	return actions[chosen], bestScore, actionsScores, nil
}
