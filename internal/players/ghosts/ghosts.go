// Package ghosts implements the players of the opposing agents (the ghosts) used by the match driver:
// Random moves uniformly at random, and Directional chases the controlled agent (or flees from it, when scared)
// most of the time.
package ghosts

import (
	"fmt"
	"math/rand/v2"

	"github.com/janpfeifer/mazeGo/internal/parameters"
	"github.com/janpfeifer/mazeGo/internal/players"
	"github.com/janpfeifer/mazeGo/internal/state"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// DefaultProb is the default probability of a Directional ghost following its preferred direction.
const DefaultProb = 0.8

// newRand returns a random number generator seeded with seed, or randomly seeded if seed < 0.
func newRand(seed int) *rand.Rand {
	if seed < 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

func checkAgent(agent state.AgentIndex) error {
	if agent == state.ControlledAgent {
		return errors.Wrapf(players.ErrInvalidConfig, "ghost players can't play for the controlled agent #%d", agent)
	}
	return nil
}

// Random ghost picks uniformly among its legal actions.
type Random struct {
	agent state.AgentIndex
	rng   *rand.Rand
}

// Assert Random is a players.Player.
var _ players.Player = (*Random)(nil)

// NewRandom creates a Random ghost player for agent. It consumes the key "seed" (int) from params: if not set
// a random seed is used.
func NewRandom(agent state.AgentIndex, params parameters.Params) (*Random, error) {
	if err := checkAgent(agent); err != nil {
		return nil, err
	}
	seed, err := parameters.PopParamOr(params, "seed", -1)
	if err != nil {
		return nil, err
	}
	return &Random{agent: agent, rng: newRand(seed)}, nil
}

// Play implements players.Player.
func (g *Random) Play(s state.GameState) (state.Action, error) {
	actions := s.LegalActions(g.agent)
	if len(actions) == 0 {
		return state.NoAction, errors.Wrapf(players.ErrNoLegalActions, "ghost #%d", g.agent)
	}
	return actions[g.rng.IntN(len(actions))], nil
}

// String implements players.Player.
func (g *Random) String() string {
	return fmt.Sprintf("random(#%d)", g.agent)
}

// Directional ghost prefers the actions that take it closer to the controlled agent, or farther away if it is
// scared. It takes one of its preferred actions with probability Prob, and otherwise any legal action,
// uniformly.
//
// It requires a state.Observable state. Otherwise, it plays like a Random ghost.
type Directional struct {
	agent state.AgentIndex
	Prob  float64
	rng   *rand.Rand
}

// Assert Directional is a players.Player.
var _ players.Player = (*Directional)(nil)

// NewDirectional creates a Directional ghost player for agent. It consumes from params the keys:
//
//   - seed (int): random seed. If not set a random seed is used.
//   - prob (float): probability of taking one of the preferred actions, in [0, 1]. Default is DefaultProb.
func NewDirectional(agent state.AgentIndex, params parameters.Params) (*Directional, error) {
	if err := checkAgent(agent); err != nil {
		return nil, err
	}
	seed, err := parameters.PopParamOr(params, "seed", -1)
	if err != nil {
		return nil, err
	}
	prob, err := parameters.PopParamOr(params, "prob", DefaultProb)
	if err != nil {
		return nil, err
	}
	if prob < 0 || prob > 1 {
		return nil, errors.Wrapf(players.ErrInvalidConfig, "directional ghost prob must be in [0, 1], got %g", prob)
	}
	return &Directional{agent: agent, Prob: prob, rng: newRand(seed)}, nil
}

// Distribution returns the probability of each of the legal actions of the ghost, in the order of
// GameState.LegalActions.
func (g *Directional) Distribution(s state.GameState) (actions []state.Action, probs []float64) {
	actions = s.LegalActions(g.agent)
	if len(actions) == 0 {
		return
	}
	uniform := 1 / float64(len(actions))
	obs, ok := s.(state.Observable)
	ghostIdx := int(g.agent) - 1
	if !ok || ghostIdx >= len(obs.Ghosts()) {
		probs = lo.Map(actions, func(_ state.Action, _ int) float64 { return uniform })
		return
	}
	ghost := obs.Ghosts()[ghostIdx]
	target := obs.ControlledPos()
	distances := lo.Map(actions, func(action state.Action, _ int) int {
		return ghost.Pos.Move(action).Distance(target)
	})
	bestDistance := lo.Min(distances)
	if ghost.IsScared() {
		bestDistance = lo.Max(distances)
	}
	numBest := lo.Count(distances, bestDistance)
	probs = lo.Map(distances, func(distance int, _ int) float64 {
		p := (1 - g.Prob) * uniform
		if distance == bestDistance {
			p += g.Prob / float64(numBest)
		}
		return p
	})
	return
}

// Play implements players.Player.
func (g *Directional) Play(s state.GameState) (state.Action, error) {
	actions, probs := g.Distribution(s)
	if len(actions) == 0 {
		return state.NoAction, errors.Wrapf(players.ErrNoLegalActions, "ghost #%d", g.agent)
	}
	chance := g.rng.Float64()
	for ii, p := range probs {
		if chance < p {
			return actions[ii], nil
		}
		chance -= p
	}
	// Rounding errors can leave a sliver of chance: take the last action.
	return actions[len(actions)-1], nil
}

// String implements players.Player.
func (g *Directional) String() string {
	return fmt.Sprintf("directional(#%d),prob=%g", g.agent, g.Prob)
}
