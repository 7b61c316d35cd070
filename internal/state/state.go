// Package state holds the maze chase game: the GameState oracle interface used by the searchers, and the Board
// that implements it.
package state

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Action is one of the moves an agent can take: a direction or Stop.
type Action uint8

const (
	North Action = iota
	South
	East
	West
	Stop

	// NumActions is the number of valid actions, not counting NoAction.
	NumActions

	// NoAction is returned when no action is available or applicable, e.g.: at the leaves of a search.
	NoAction Action = 0xFF
)

var (
	actionNames = [NumActions]string{"North", "South", "East", "West", "Stop"}

	// Actions enumerates all valid actions, in the order they are offered by Board.LegalActions.
	Actions = [NumActions]Action{North, South, East, West, Stop}

	// Directions enumerates the actions that move an agent.
	Directions = [4]Action{North, South, East, West}

	actionDeltas = [NumActions]Pos{{0, -1}, {0, 1}, {1, 0}, {-1, 0}, {0, 0}}
)

// String returns the action name.
func (a Action) String() string {
	if a < NumActions {
		return actionNames[a]
	}
	if a == NoAction {
		return "None"
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Delta returns the position displacement of the action.
func (a Action) Delta() Pos {
	return actionDeltas[a]
}

// Reverse returns the opposite direction. Stop is its own reverse.
func (a Action) Reverse() Action {
	switch a {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return a
}

// ParseAction converts an action name (case-insensitive), or its first letter, to an Action.
func ParseAction(name string) (Action, error) {
	name = strings.TrimSpace(name)
	for _, action := range Actions {
		full := action.String()
		if strings.EqualFold(name, full) || strings.EqualFold(name, full[:1]) {
			return action, nil
		}
	}
	return NoAction, errors.Errorf("unknown action %q, valid values are %q", name, actionNames)
}

// AgentIndex identifies an agent in the game: ControlledAgent is always 0, opponents (ghosts) are 1 to NumAgents-1,
// and they move in increasing order within a round.
type AgentIndex int

// ControlledAgent is the agent maximizing the score.
const ControlledAgent AgentIndex = 0

// ErrIllegalAction is returned by GameState.Successor when the action is not legal for the agent, or the
// state is terminal.
var ErrIllegalAction = errors.New("illegal action")

// GameState is the game oracle used by the searchers.
//
// Implementations are immutable: Successor always returns a new value.
type GameState interface {
	// NumAgents in the game, including the ControlledAgent.
	NumAgents() int

	// LegalActions for the given agent. Terminal states have no legal actions.
	LegalActions(agent AgentIndex) []Action

	// Successor returns the state after agent takes action.
	Successor(agent AgentIndex, action Action) (GameState, error)

	// IsWin returns whether the ControlledAgent won.
	IsWin() bool

	// IsLose returns whether the ControlledAgent lost.
	IsLose() bool

	// Score is the game score of the ControlledAgent.
	Score() float32
}

// GhostView is the observable state of a ghost.
type GhostView struct {
	Pos         Pos
	Start       Pos
	ScaredTimer int
	Direction   Action
}

// IsScared returns whether the ghost can currently be eaten.
func (g GhostView) IsScared() bool {
	return g.ScaredTimer > 0
}

// Observable is a GameState that exposes the positions of things in the maze. It is used by heuristics and
// by the ghost players.
type Observable interface {
	GameState

	// ControlledPos is the position of the ControlledAgent.
	ControlledPos() Pos

	// Food returns the positions of the remaining food.
	Food() []Pos

	// Capsules returns the positions of the remaining capsules.
	Capsules() []Pos

	// Ghosts returns the views of the ghosts, indexed by AgentIndex-1.
	Ghosts() []GhostView

	// MoveNumber counts the rounds played so far.
	MoveNumber() int
}

// IsTerminal returns whether the state is won or lost.
func IsTerminal(s GameState) bool {
	return s.IsWin() || s.IsLose()
}
