// Package searchers defines the interface of the search algorithms that pick the action of the controlled agent,
// and the statistics they collect.
//
// Implementations are in the sub-packages: adversarial (minimax, alpha-beta pruning and expectimax) and reflex.
package searchers

import (
	"fmt"

	"github.com/janpfeifer/mazeGo/internal/state"
)

// Searcher is the interface that any of the search algorithms must adhere to be valid.
//
// Searchers are configured at construction and are not safe for concurrent use: they keep the Stats of the last
// search.
type Searcher interface {
	// Search returns the next action to take by the state.ControlledAgent, along with the expected score of taking
	// that action.
	//
	// Optionally, it can also return the score for each of the legal actions of the state.ControlledAgent, in the
	// order of GameState.LegalActions. Some algorithms (e.g.: alpha-beta pruning) don't provide good
	// approximations to those, so they return it nil.
	//
	// The state must not be terminal and must have at least one legal action for the controlled agent. Errors
	// returned by the state oracle are returned unchanged.
	Search(s state.GameState) (action state.Action, score float32, actionsScores []float32, err error)

	// Stats of the last search.
	Stats() Stats

	// String describes the searcher configuration.
	String() string
}

// Stats stores running stats collected during the search: for benchmarking, monitoring and debugging purposes.
type Stats struct {
	// Nodes counts successor states generated during the search.
	Nodes int

	// Evals counts the number of calls to the evaluation function.
	Evals int

	// Prunes counts the number of times the remaining sibling actions were cut off.
	Prunes int
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("nodes=%d, evals=%d, prunes=%d", s.Nodes, s.Evals, s.Prunes)
}
