// Package statetest provides helper functions to create tests using game states: boards built from layout text, and
// synthetic game trees with known leaf values.
package statetest

import (
	"fmt"

	. "github.com/janpfeifer/mazeGo/internal/state"
	"github.com/pkg/errors"
)

// BuildBoard from a layout text, using all its ghosts. It panics if the layout is invalid.
func BuildBoard(layoutText string) *Board {
	return NewBoard(MustParseLayout("test", layoutText), AllGhosts)
}

// Node of a synthetic game tree. Each level of the tree is one ply: the agent to move is given by the level modulo
// the number of agents.
type Node struct {
	// Value is returned as the Score of the node. For a search it only matters at the leaves.
	Value float32

	// Win or Lose marks the node as terminal.
	Win, Lose bool

	// Children, one per action. Child ii corresponds to Actions[ii], if Actions is set, or to state.Action(ii)
	// otherwise.
	Children []*Node
	Actions  []Action
}

// Leaf creates a leaf node with the given value.
func Leaf(value float32) *Node {
	return &Node{Value: value}
}

// Leaves creates one leaf per value.
func Leaves(values ...float32) []*Node {
	nodes := make([]*Node, len(values))
	for ii, value := range values {
		nodes[ii] = Leaf(value)
	}
	return nodes
}

// Inner creates a node with the given children.
func Inner(children ...*Node) *Node {
	return &Node{Children: children}
}

// Uniform builds a complete tree with the given number of plies and branching factor, and whose leaves take the
// values in order. It panics if len(values) != branching^plies.
func Uniform(plies, branching int, values []float32) *Node {
	leaves := Leaves(values...)
	want := 1
	for range plies {
		want *= branching
	}
	if len(leaves) != want {
		panic(fmt.Sprintf("statetest.Uniform(plies=%d, branching=%d) requires %d values, got %d",
			plies, branching, want, len(values)))
	}
	level := leaves
	for range plies {
		parents := make([]*Node, 0, len(level)/branching)
		for ii := 0; ii < len(level); ii += branching {
			parents = append(parents, Inner(level[ii:ii+branching]...))
		}
		level = parents
	}
	return level[0]
}

func (n *Node) actions() []Action {
	if n.Win || n.Lose {
		return nil
	}
	if n.Actions != nil {
		return n.Actions
	}
	actions := make([]Action, len(n.Children))
	for ii := range n.Children {
		actions[ii] = Action(ii)
	}
	return actions
}

// Counter counts accesses to a Tree.
type Counter struct {
	// Successors counts the calls to GameState.Successor.
	Successors int
}

// Tree implements state.GameState over a synthetic tree of Node.
type Tree struct {
	node      *Node
	numAgents int
	ply       int
	counter   *Counter
}

// Assert Tree is a GameState.
var _ GameState = (*Tree)(nil)

// NewTree creates the root state of a synthetic game tree with numAgents, and the Counter that will be updated
// as the tree is traversed.
func NewTree(root *Node, numAgents int) (*Tree, *Counter) {
	counter := &Counter{}
	return &Tree{node: root, numAgents: numAgents, counter: counter}, counter
}

// NumAgents implements state.GameState.
func (t *Tree) NumAgents() int { return t.numAgents }

// IsWin implements state.GameState.
func (t *Tree) IsWin() bool { return t.node.Win }

// IsLose implements state.GameState.
func (t *Tree) IsLose() bool { return t.node.Lose }

// Score implements state.GameState.
func (t *Tree) Score() float32 { return t.node.Value }

// Node returns the tree node of the state.
func (t *Tree) Node() *Node { return t.node }

// AgentToMove returns the agent that is expected to move at this node, given the tree level.
func (t *Tree) AgentToMove() AgentIndex {
	return AgentIndex(t.ply % t.numAgents)
}

// LegalActions implements state.GameState. It returns no actions if agent is not the one expected to move.
func (t *Tree) LegalActions(agent AgentIndex) []Action {
	if agent != t.AgentToMove() {
		return nil
	}
	return t.node.actions()
}

// Successor implements state.GameState.
func (t *Tree) Successor(agent AgentIndex, action Action) (GameState, error) {
	if agent != t.AgentToMove() {
		return nil, errors.Wrapf(ErrIllegalAction, "agent %d playing at ply %d, expected agent %d",
			agent, t.ply, t.AgentToMove())
	}
	for ii, legal := range t.node.actions() {
		if legal == action {
			t.counter.Successors++
			return &Tree{node: t.node.Children[ii], numAgents: t.numAgents, ply: t.ply + 1, counter: t.counter}, nil
		}
	}
	return nil, errors.Wrapf(ErrIllegalAction, "action %s not available at ply %d", action, t.ply)
}
