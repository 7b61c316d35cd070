package players

import (
	"github.com/janpfeifer/mazeGo/internal/parameters"
	"github.com/janpfeifer/mazeGo/internal/searchers"
	"github.com/janpfeifer/mazeGo/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// SearcherPlayer plays for the state.ControlledAgent using a searchers.Searcher.
// It implements the Player interface, and its Play method is the one decision call per turn.
type SearcherPlayer struct {
	Searcher searchers.Searcher
}

// Assert that SearcherPlayer is a Player.
var _ Player = &SearcherPlayer{}

// NewSearcherPlayer creates a SearcherPlayer for agent, which must be the state.ControlledAgent.
// It consumes from params the keys that configure the randomness of the searcher:
//
//   - randomness (float): Adds a layer of randomness in the search: the first level choice is
//     distributed according to a softmax of the scores of each move, divided by this value.
//     So lower values (closer to 0) means less randomness, higher value means more randomness,
//     hence more exploration. Default is 0. Only searchers that return the scores of all actions
//     (minimax, expectimax and reflex) are affected.
//   - max_move_randomness (int): after this move number no more randomness is used. Default is 0, no limit.
func NewSearcherPlayer(agent state.AgentIndex, searcher searchers.Searcher, params parameters.Params) (*SearcherPlayer, error) {
	if agent != state.ControlledAgent {
		return nil, errors.Wrapf(ErrInvalidConfig, "%s can only play for the controlled agent #%d, not for agent #%d",
			searcher, state.ControlledAgent, agent)
	}
	randomness, err := parameters.PopParamOr(params, "randomness", float32(0))
	if err != nil {
		return nil, err
	}
	if randomness < 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "randomness must be >= 0, got %g", randomness)
	}
	maxMoveRandomness, err := parameters.PopParamOr(params, "max_move_randomness", 0)
	if err != nil {
		return nil, err
	}
	return &SearcherPlayer{
		Searcher: searchers.NewRandomizedSearcher(searcher, randomness, maxMoveRandomness, nil),
	}, nil
}

// Play implements the Player interface: it chooses an action given a state.
//
// Errors from the state (the oracle) are returned wrapped with the searcher description. If the controlled agent
// has no legal actions it returns ErrNoLegalActions.
func (p *SearcherPlayer) Play(s state.GameState) (state.Action, error) {
	action, score, _, err := p.Searcher.Search(s)
	if err != nil {
		return state.NoAction, errors.WithMessagef(err, "%s failed", p.Searcher)
	}
	if action == state.NoAction {
		return state.NoAction, errors.Wrapf(ErrNoLegalActions, "%s", p.Searcher)
	}
	if klog.V(2).Enabled() {
		moveNumber := -1
		if obs, ok := s.(state.Observable); ok {
			moveNumber = obs.MoveNumber()
		}
		klog.Infof("Move #%d: %s playing %s, score=%.3f (%s)", moveNumber, p.Searcher, action, score, p.Searcher.Stats())
	}
	return action, nil
}

// String implements the Player interface.
func (p *SearcherPlayer) String() string {
	return p.Searcher.String()
}
