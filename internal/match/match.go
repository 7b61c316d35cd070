// Package match implements the driver loop of a match: it owns the authoritative state, asks each agent's player
// for an action in turn order, and advances the state until the match is over.
package match

import (
	"context"
	"fmt"

	"github.com/janpfeifer/mazeGo/internal/players"
	"github.com/janpfeifer/mazeGo/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultMaxMoves is the default number of moves of the controlled agent before a match is considered a draw.
const DefaultMaxMoves = 500

// Outcome of a match.
type Outcome int

const (
	Draw Outcome = iota
	Win
	Lose
)

var outcomeNames = []string{"Draw", "Win", "Lose"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Result of a match.
type Result struct {
	Outcome Outcome

	// Score of the final state.
	Score float32

	// Moves is the number of moves made by the controlled agent.
	Moves int

	// Final state of the match.
	Final state.GameState
}

// String implements fmt.Stringer.
func (r Result) String() string {
	return fmt.Sprintf("%s (score=%.0f, moves=%d)", r.Outcome, r.Score, r.Moves)
}

// OnMove is called after every move, with the agent that moved, the action taken and the resulting state.
type OnMove func(agent state.AgentIndex, action state.Action, s state.GameState)

// Run plays a match from the initial state, with players[agent] playing for each agent, until the state is
// terminal or the controlled agent made maxMoves moves (a Draw). If maxMoves <= 0 there is no limit.
//
// onMove, if not nil, is called after each move.
//
// It returns an error if the number of players doesn't match the number of agents, if a player fails or if the
// context is cancelled.
func Run(ctx context.Context, initial state.GameState, matchPlayers []players.Player, maxMoves int, onMove OnMove) (Result, error) {
	numAgents := initial.NumAgents()
	if len(matchPlayers) != numAgents {
		return Result{}, errors.Errorf("match has %d agents, but %d players were given", numAgents, len(matchPlayers))
	}
	s := initial
	var result Result
	for !state.IsTerminal(s) {
		if maxMoves > 0 && result.Moves >= maxMoves {
			break
		}
		for agent := range state.AgentIndex(numAgents) {
			if state.IsTerminal(s) {
				break
			}
			if err := ctx.Err(); err != nil {
				return result, errors.Wrapf(err, "match interrupted at move #%d", result.Moves)
			}
			player := matchPlayers[agent]
			action, err := player.Play(s)
			if err != nil {
				return result, errors.WithMessagef(err, "agent #%d (%s) at move #%d", agent, player, result.Moves)
			}
			s, err = s.Successor(agent, action)
			if err != nil {
				return result, errors.WithMessagef(err, "agent #%d (%s) at move #%d", agent, player, result.Moves)
			}
			if agent == state.ControlledAgent {
				result.Moves++
			}
			if klog.V(1).Enabled() {
				klog.Infof("Move #%d: agent #%d (%s) played %s, score=%.0f", result.Moves, agent, player, action, s.Score())
			}
			if onMove != nil {
				onMove(agent, action, s)
			}
		}
	}
	result.Final = s
	result.Score = s.Score()
	switch {
	case s.IsWin():
		result.Outcome = Win
	case s.IsLose():
		result.Outcome = Lose
	default:
		result.Outcome = Draw
	}
	return result, nil
}
