// Package adversarial implements bounded-depth multi-agent tree search: minimax, minimax with alpha-beta pruning
// and expectimax.
//
// The state.ControlledAgent maximizes, and every other agent either minimizes (minimax, alpha-beta) or is modeled
// as choosing uniformly at random among its legal actions (expectimax). One unit of depth is a full round, where
// every agent moves once in increasing AgentIndex order.
//
// All three engines share a single recursion, parameterized by the traversal Policy of each node.
//
// See: wikipedia.org/wiki/Minimax, wikipedia.org/wiki/Alpha-beta_pruning, wikipedia.org/wiki/Expectiminimax
package adversarial

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/mazeGo/internal/eval"
	"github.com/janpfeifer/mazeGo/internal/searchers"
	"github.com/janpfeifer/mazeGo/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Kind of adversarial search engine.
type Kind uint8

const (
	Minimax Kind = iota
	AlphaBeta
	Expectimax

	// NumKinds of implemented engines.
	NumKinds
)

var kindNames = [NumKinds]string{"minimax", "alphabeta", "expectimax"}

// String returns the engine name, also used as the module name in configurations.
func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindNames returns the names of all implemented engines.
func KindNames() []string {
	return kindNames[:]
}

// ErrNotImplemented is returned (or panicked) when an engine Kind that doesn't exist is selected.
var ErrNotImplemented = errors.New("search engine not implemented")

// Policy of a node in the search tree: how the values of the children are backed up.
type Policy uint8

const (
	// Maximize picks the child with the largest value, the first one in case of ties.
	Maximize Policy = iota

	// Minimize picks the child with the smallest value, the first one in case of ties.
	Minimize

	// Expect backs up the mean of the children values, and no action.
	Expect
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case Maximize:
		return "Maximize"
	case Minimize:
		return "Minimize"
	case Expect:
		return "Expect"
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// DefaultDepth of search, in rounds.
const DefaultDepth = 2

// Searcher implements the searchers.Searcher interface for all Kind of engines.
// It is used by players.SearcherPlayer to implement an AI player.
type Searcher struct {
	kind      Kind
	depth     int
	evaluator eval.Evaluator

	// Per search state.
	stats      searchers.Stats
	rootScores []float32
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// New returns a search engine of the given kind, using DefaultDepth. See Searcher.WithDepth.
//
// The evaluator is used at the leaves of the search: at terminal states or when the depth is exhausted.
func New(kind Kind, evaluator eval.Evaluator) (*Searcher, error) {
	if kind >= NumKinds {
		return nil, errors.Wrapf(ErrNotImplemented, "adversarial search %s", kind)
	}
	if evaluator == nil {
		return nil, errors.New("adversarial search requires an evaluation function")
	}
	return &Searcher{kind: kind, depth: DefaultDepth, evaluator: evaluator}, nil
}

// NewMinimax is a shortcut to New(Minimax, evaluator).
func NewMinimax(evaluator eval.Evaluator) *Searcher {
	return newValid(Minimax, evaluator)
}

// NewAlphaBeta is a shortcut to New(AlphaBeta, evaluator).
func NewAlphaBeta(evaluator eval.Evaluator) *Searcher {
	return newValid(AlphaBeta, evaluator)
}

// NewExpectimax is a shortcut to New(Expectimax, evaluator).
func NewExpectimax(evaluator eval.Evaluator) *Searcher {
	return newValid(Expectimax, evaluator)
}

func newValid(kind Kind, evaluator eval.Evaluator) *Searcher {
	s, err := New(kind, evaluator)
	if err != nil {
		panic(err)
	}
	return s
}

// WithDepth sets the depth of search: the unit here are rounds, where every agent moves once.
// So depth 2 with 3 agents explores 6 plies.
//
// A depth of 0 evaluates the state directly, without any recursion, and returns state.NoAction.
//
// The default is 2 (DefaultDepth).
func (s *Searcher) WithDepth(depth int) *Searcher {
	if depth < 0 {
		exceptions.Panicf("adversarial.Searcher.WithDepth(%d): depth must be >= 0", depth)
	}
	s.depth = depth
	return s
}

// Kind of the engine.
func (s *Searcher) Kind() Kind {
	return s.kind
}

// Depth of the search in rounds.
func (s *Searcher) Depth() int {
	return s.depth
}

// String implements searchers.Searcher.
func (s *Searcher) String() string {
	return fmt.Sprintf("%s,depth=%d,eval=%s", s.kind, s.depth, s.evaluator)
}

// Stats implements searchers.Searcher.
func (s *Searcher) Stats() searchers.Stats {
	return s.stats
}

// policy returns the traversal Policy for the agent.
func (s *Searcher) policy(agent state.AgentIndex) Policy {
	if agent == state.ControlledAgent {
		return Maximize
	}
	switch s.kind {
	case Minimax, AlphaBeta:
		return Minimize
	case Expectimax:
		return Expect
	}
	exceptions.Panicf("adversarial search %s: %v", s.kind, ErrNotImplemented)
	return Maximize
}

// Search implements searchers.Searcher.
//
// For Minimax and Expectimax it also returns the backed-up value of each legal action of the controlled agent.
// AlphaBeta returns nil actionsScores, since the value of pruned actions are only bounds.
func (s *Searcher) Search(st state.GameState) (action state.Action, score float32, actionsScores []float32, err error) {
	start := time.Now()
	s.stats = searchers.Stats{}
	s.rootScores = nil
	best, err := s.value(st, 0, state.ControlledAgent, math32.Inf(-1), math32.Inf(1))
	if err != nil {
		return state.NoAction, 0, nil, err
	}
	if s.kind != AlphaBeta && len(s.rootScores) > 0 {
		actionsScores = s.rootScores
	}
	s.rootScores = nil
	if klog.V(2).Enabled() {
		elapsed := time.Since(start)
		klog.Infof("%s: action=%s, score=%.2f, %s, nodes/s=%.1f", s, best.action, best.value, s.stats,
			float64(s.stats.Nodes)/elapsed.Seconds())
	}
	return best.action, best.value, actionsScores, nil
}

// valueAction is the backed-up value of a node and the action that achieves it. The action is state.NoAction
// at leaves and at Expect nodes.
type valueAction struct {
	value  float32
	action state.Action
}

// value returns the backed-up value of st, where agent is the one to move and depth the number of completed rounds.
//
// alpha is the best value the maximizer can already guarantee on the path from the root, and beta the best the
// minimizer can guarantee. They are only used for pruning by the AlphaBeta engine.
func (s *Searcher) value(st state.GameState, depth int, agent state.AgentIndex, alpha, beta float32) (valueAction, error) {
	if st.IsWin() || st.IsLose() || depth >= s.depth {
		s.stats.Evals++
		return valueAction{value: s.evaluator.Evaluate(st), action: state.NoAction}, nil
	}

	policy := s.policy(agent)
	prune := s.kind == AlphaBeta
	isRoot := depth == 0 && agent == state.ControlledAgent
	nextAgent, nextDepth := agent+1, depth
	if int(nextAgent) >= st.NumAgents() {
		// Last agent of the round: next round starts with the controlled agent.
		nextAgent, nextDepth = state.ControlledAgent, depth+1
	}

	best := valueAction{action: state.NoAction}
	switch policy {
	case Maximize:
		best.value = math32.Inf(-1)
	case Minimize:
		best.value = math32.Inf(1)
	}
	var sum float32
	var count int
	for _, action := range st.LegalActions(agent) {
		successor, err := st.Successor(agent, action)
		if err != nil {
			return valueAction{}, err
		}
		s.stats.Nodes++
		child, err := s.value(successor, nextDepth, nextAgent, alpha, beta)
		if err != nil {
			return valueAction{}, err
		}
		if isRoot {
			s.rootScores = append(s.rootScores, child.value)
		}

		switch policy {
		case Maximize:
			// Strictly greater: ties keep the first action.
			if child.value > best.value || best.action == state.NoAction {
				best = valueAction{value: child.value, action: action}
			}
			if prune {
				if best.value > beta {
					s.stats.Prunes++
					return best, nil
				}
				alpha = math32.Max(alpha, best.value)
			}

		case Minimize:
			if child.value < best.value || best.action == state.NoAction {
				best = valueAction{value: child.value, action: action}
			}
			if prune {
				if best.value < alpha {
					s.stats.Prunes++
					return best, nil
				}
				beta = math32.Min(beta, best.value)
			}

		case Expect:
			sum += child.value
			count++
		}
	}
	if policy == Expect && count > 0 {
		best.value = sum / float32(count)
	}
	return best, nil
}
