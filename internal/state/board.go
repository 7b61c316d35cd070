package state

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Scoring and rules constants.
const (
	// TimePenalty is subtracted from the score at each move of the ControlledAgent.
	TimePenalty = 1

	// FoodScore is added for each food eaten.
	FoodScore = 10

	// WinScore is added when the last food is eaten.
	WinScore = 500

	// LoseScore is subtracted when an active ghost catches the ControlledAgent.
	LoseScore = 500

	// GhostEatenScore is added when the ControlledAgent eats a scared ghost.
	GhostEatenScore = 200

	// ScaredTime is the number of ghost moves a ghost stays scared after a capsule is eaten.
	ScaredTime = 40

	// AllGhosts can be given to NewBoard to use every ghost in the layout.
	AllGhosts = -1
)

type agentState struct {
	pos, start  Pos
	direction   Action
	scaredTimer int
}

// Board is the state of a maze chase match. It implements GameState and Observable.
//
// Boards are immutable: Successor returns a new Board, sharing whatever didn't change.
type Board struct {
	layout *Layout

	// food is indexed by Layout.index, and it is copied on write.
	food     []bool
	numFood  int
	capsules []Pos

	// agents[0] is the ControlledAgent, the others are the ghosts.
	agents []agentState

	score      float32
	win, lose  bool
	moveNumber int
}

var (
	// Assert Board is a GameState and an Observable.
	_ GameState  = (*Board)(nil)
	_ Observable = (*Board)(nil)
)

// NewBoard creates the initial board for the layout. maxGhosts limits the number of ghosts used (the first ones
// in the layout), or use AllGhosts.
func NewBoard(layout *Layout, maxGhosts int) *Board {
	b := &Board{
		layout:   layout,
		food:     make([]bool, layout.Width*layout.Height),
		capsules: slices.Clone(layout.capsules),
	}
	for _, pos := range layout.food {
		b.food[layout.index(pos)] = true
	}
	b.numFood = len(layout.food)
	numGhosts := layout.NumGhosts()
	if maxGhosts >= 0 && maxGhosts < numGhosts {
		numGhosts = maxGhosts
	}
	b.agents = make([]agentState, 1+numGhosts)
	b.agents[0] = agentState{pos: layout.controlledStart, start: layout.controlledStart, direction: Stop}
	for ii := range numGhosts {
		start := layout.ghostStarts[ii]
		b.agents[ii+1] = agentState{pos: start, start: start, direction: Stop}
	}
	return b
}

// Layout used by the board.
func (b *Board) Layout() *Layout {
	return b.layout
}

// NumAgents implements GameState.
func (b *Board) NumAgents() int {
	return len(b.agents)
}

// IsWin implements GameState.
func (b *Board) IsWin() bool {
	return b.win
}

// IsLose implements GameState.
func (b *Board) IsLose() bool {
	return b.lose
}

// Score implements GameState.
func (b *Board) Score() float32 {
	return b.score
}

// MoveNumber implements Observable.
func (b *Board) MoveNumber() int {
	return b.moveNumber
}

// ControlledPos implements Observable.
func (b *Board) ControlledPos() Pos {
	return b.agents[ControlledAgent].pos
}

// AgentPos returns the position of any agent.
func (b *Board) AgentPos(agent AgentIndex) Pos {
	return b.agents[agent].pos
}

// HasFood returns whether there is food at pos.
func (b *Board) HasFood(pos Pos) bool {
	return b.layout.Inside(pos) && b.food[b.layout.index(pos)]
}

// NumFood returns the number of food left.
func (b *Board) NumFood() int {
	return b.numFood
}

// Food implements Observable.
func (b *Board) Food() []Pos {
	poss := make([]Pos, 0, b.numFood)
	for idx, hasFood := range b.food {
		if hasFood {
			poss = append(poss, Pos{idx % b.layout.Width, idx / b.layout.Width})
		}
	}
	return poss
}

// Capsules implements Observable.
func (b *Board) Capsules() []Pos {
	return slices.Clone(b.capsules)
}

// Ghosts implements Observable.
func (b *Board) Ghosts() []GhostView {
	views := make([]GhostView, len(b.agents)-1)
	for ii, agent := range b.agents[1:] {
		views[ii] = GhostView{
			Pos:         agent.pos,
			Start:       agent.start,
			ScaredTimer: agent.scaredTimer,
			Direction:   agent.direction,
		}
	}
	return views
}

// LegalActions implements GameState.
//
// The ControlledAgent can move to any direction not blocked by a wall, or Stop. Ghosts can't Stop, and they
// can only reverse their direction if there is no other option.
func (b *Board) LegalActions(agent AgentIndex) []Action {
	if b.win || b.lose || agent < 0 || int(agent) >= len(b.agents) {
		return nil
	}
	pos := b.agents[agent].pos
	actions := make([]Action, 0, NumActions)
	for _, action := range Directions {
		if !b.layout.IsWall(pos.Move(action)) {
			actions = append(actions, action)
		}
	}
	if agent == ControlledAgent {
		return append(actions, Stop)
	}
	if len(actions) == 0 {
		// Walled in ghost.
		return append(actions, Stop)
	}
	if len(actions) > 1 {
		reverse := b.agents[agent].direction.Reverse()
		if idx := slices.Index(actions, reverse); idx >= 0 && reverse != Stop {
			actions = slices.Delete(actions, idx, idx+1)
		}
	}
	return actions
}

// Successor implements GameState.
func (b *Board) Successor(agent AgentIndex, action Action) (GameState, error) {
	return b.Act(agent, action)
}

// Act is like Successor, but returns the concrete *Board.
func (b *Board) Act(agent AgentIndex, action Action) (*Board, error) {
	if b.win || b.lose {
		return nil, errors.Wrapf(ErrIllegalAction, "agent %d can't play %s at move #%d, the match is over",
			agent, action, b.moveNumber)
	}
	if !slices.Contains(b.LegalActions(agent), action) {
		return nil, errors.Wrapf(ErrIllegalAction, "agent %d can't play %s at move #%d, legal actions are %v",
			agent, action, b.moveNumber, b.LegalActions(agent))
	}
	newB := &Board{}
	*newB = *b
	newB.agents = slices.Clone(b.agents)
	if agent == ControlledAgent {
		newB.moveControlled(action)
	} else {
		newB.moveGhost(agent, action)
	}
	newB.checkCollisions()
	return newB, nil
}

// moveControlled applies the ControlledAgent move: eating food and capsules.
func (b *Board) moveControlled(action Action) {
	b.moveNumber++
	b.score -= TimePenalty
	agent := &b.agents[ControlledAgent]
	agent.pos = agent.pos.Move(action)
	agent.direction = action
	pos := agent.pos

	if b.HasFood(pos) {
		b.food = slices.Clone(b.food)
		b.food[b.layout.index(pos)] = false
		b.numFood--
		b.score += FoodScore
		if b.numFood == 0 && !b.lose {
			b.score += WinScore
			b.win = true
		}
	}
	if idx := slices.Index(b.capsules, pos); idx >= 0 {
		b.capsules = slices.Delete(slices.Clone(b.capsules), idx, idx+1)
		for ii := 1; ii < len(b.agents); ii++ {
			b.agents[ii].scaredTimer = ScaredTime
		}
	}
}

func (b *Board) moveGhost(agentIdx AgentIndex, action Action) {
	agent := &b.agents[agentIdx]
	agent.pos = agent.pos.Move(action)
	agent.direction = action
	if agent.scaredTimer > 0 {
		agent.scaredTimer--
	}
}

// checkCollisions between the ControlledAgent and the ghosts: scared ghosts are eaten and sent back to their
// start position, active ghosts end the match.
func (b *Board) checkCollisions() {
	pos := b.agents[ControlledAgent].pos
	for ii := 1; ii < len(b.agents); ii++ {
		ghost := &b.agents[ii]
		if ghost.pos != pos {
			continue
		}
		if ghost.scaredTimer > 0 {
			b.score += GhostEatenScore
			ghost.pos = ghost.start
			ghost.direction = Stop
			ghost.scaredTimer = 0
			continue
		}
		if !b.win {
			b.score -= LoseScore
			b.lose = true
		}
	}
}

// String renders the board in the layout text format. Scared ghosts are rendered with a lowercase 'g'.
func (b *Board) String() string {
	var sb strings.Builder
	for y := range b.layout.Height {
		for x := range b.layout.Width {
			sb.WriteByte(b.CharAt(Pos{x, y}))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// CharAt returns the layout character representing what is at pos. Ghosts are drawn over everything else, and
// a scared ghost is represented by a lowercase 'g'.
func (b *Board) CharAt(pos Pos) byte {
	for ii := len(b.agents) - 1; ii >= 1; ii-- {
		if b.agents[ii].pos == pos {
			if b.agents[ii].scaredTimer > 0 {
				return ScaredGhostChar
			}
			return GhostChar
		}
	}
	switch {
	case b.agents[ControlledAgent].pos == pos:
		return ControlledChar
	case b.layout.IsWall(pos):
		return WallChar
	case b.HasFood(pos):
		return FoodChar
	case slices.Contains(b.capsules, pos):
		return CapsuleChar
	}
	return EmptyChar
}
