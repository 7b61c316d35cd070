package searchers

import (
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/mazeGo/internal/state"
	"github.com/samber/lo"
	"k8s.io/klog/v2"
)

// NewRandomizedSearcher adds randomness to the action taken by an existing Searcher.
// Args:
//
//   - searcher: Baseline Searcher. It must return the actionsScores, otherwise no randomness is added.
//   - randomness (>=0): Amount of randomness to use: it is applied as a divisor to the scores
//     returned by the Searcher, except if there is a winning move.
//     The larger the value the more it leads to randomness (exploration), and lower values
//     lead to "pick the best scoring move" (exploitation), with zero meaning no randomness.
//   - maxMoveRandomness: starting at this move no more randomness is used. This allows
//     randomness to be used only earlier in the match. Zero means no limit. Only states that
//     are state.Observable have a move number.
//   - rng: source of randomness. If nil, a randomly seeded one is created.
func NewRandomizedSearcher(searcher Searcher, randomness float32, maxMoveRandomness int, rng *rand.Rand) Searcher {
	if randomness <= 0 {
		// Without randomness, simply return the original Searcher.
		return searcher
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &randomizedSearcher{searcher: searcher, randomness: randomness, maxMoveRandomness: maxMoveRandomness, rng: rng}
}

// randomizedSearcher is a meta Searcher, that introduces randomness to its choices.
type randomizedSearcher struct {
	searcher          Searcher
	randomness        float32
	maxMoveRandomness int
	rng               *rand.Rand
}

// Assert randomizedSearcher is a Searcher.
var _ Searcher = &randomizedSearcher{}

// Search implements the Searcher interface.
func (rs *randomizedSearcher) Search(s state.GameState) (chosenAction state.Action, score float32, actionsScores []float32, err error) {
	// Get scores from base searcher for current state.
	chosenAction, score, actionsScores, err = rs.searcher.Search(s)
	if err != nil {
		return
	}

	// If we reached the max move number for randomness, or if the searcher doesn't return scores for the
	// different actions, or if there is only one action possible, or if the best score is infinite (a sure win or loss),
	// we don't add any randomness.
	if obs, ok := s.(state.Observable); ok && rs.maxMoveRandomness > 0 && obs.MoveNumber() >= rs.maxMoveRandomness {
		return
	}
	if len(actionsScores) <= 1 || math32.IsInf(score, 0) {
		return
	}
	actions := s.LegalActions(state.ControlledAgent)
	if len(actionsScores) != len(actions) {
		exceptions.Panicf("randomizedSearcher: Searcher returned %d actionsScores, but state has %d actions!?", len(actionsScores), len(actions))
	}

	// Calculate probability for each action.
	logits := lo.Map(actionsScores, func(score float32, _ int) float32 { return score / rs.randomness })
	probabilities := softmax(logits)

	// Select from probabilities.
	chance := rs.rng.Float32()
	for actionIdx, value := range probabilities {
		if chance > value {
			chance -= value
			continue
		}

		// Found the new action:
		if klog.V(2).Enabled() {
			klog.Infof("randomizedSearcher selection: action=%s, score=%.2f", actions[actionIdx], actionsScores[actionIdx])
		}
		return actions[actionIdx], actionsScores[actionIdx], actionsScores, nil
	}
	// Rounding errors can leave a sliver of chance: take the last action.
	last := len(actions) - 1
	return actions[last], actionsScores[last], actionsScores, nil
}

// Stats implements the Searcher interface.
func (rs *randomizedSearcher) Stats() Stats {
	return rs.searcher.Stats()
}

// String implements the Searcher interface.
func (rs *randomizedSearcher) String() string {
	return fmt.Sprintf("%s,randomness=%g", rs.searcher, rs.randomness)
}

func softmax(values []float32) (probs []float32) {
	probs = make([]float32, len(values))
	var sum float32

	// Subtract maxValue from all values keep the probability the same, but makes for more numerically stable
	// values. Values at -Inf get probability 0.
	maxValue := lo.Max(values)
	for ii, value := range values {
		probs[ii] = math32.Exp(value - maxValue)
		sum += probs[ii]
	}
	for ii := range probs {
		probs[ii] /= sum
	}
	return
}
