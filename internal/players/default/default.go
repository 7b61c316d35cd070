// Package _default registers the default players that can be included in any front-end for mazeGo.
//
// Currently, it includes the adversarial searchers ("minimax", "alphabeta" and "expectimax"), the one-ply
// "reflex" searcher, and the "random" and "directional" ghosts.
package _default

import (
	"github.com/janpfeifer/mazeGo/internal/parameters"
	"github.com/janpfeifer/mazeGo/internal/players"
	"github.com/janpfeifer/mazeGo/internal/players/ghosts"
	"github.com/janpfeifer/mazeGo/internal/searchers/adversarial"
	"github.com/janpfeifer/mazeGo/internal/searchers/reflex"
	"github.com/janpfeifer/mazeGo/internal/state"
)

func init() {
	for kind := range adversarial.NumKinds {
		players.RegisterModule(kind.String(), &Adversarial{Kind: kind})
	}
	players.RegisterModule("reflex", &Reflex{})
	players.RegisterModule("random", players.ModuleFunc(func(agent state.AgentIndex, params parameters.Params) (players.Player, error) {
		return asPlayer(ghosts.NewRandom(agent, params))
	}))
	players.RegisterModule("directional", players.ModuleFunc(func(agent state.AgentIndex, params parameters.Params) (players.Player, error) {
		return asPlayer(ghosts.NewDirectional(agent, params))
	}))
}

// asPlayer converts the result of a typed constructor, making sure a failure returns a nil interface.
func asPlayer[P players.Player](player P, err error) (players.Player, error) {
	if err != nil {
		return nil, err
	}
	return player, nil
}

// Adversarial module creates players for the controlled agent using an adversarial.Searcher.
type Adversarial struct {
	Kind adversarial.Kind
}

// Assert Adversarial implements Module.
var _ players.Module = (*Adversarial)(nil)

// NewPlayer implements players.Module.
func (m *Adversarial) NewPlayer(agent state.AgentIndex, params parameters.Params) (players.Player, error) {
	searcher, err := adversarial.NewFromParams(m.Kind, params)
	if err != nil {
		return nil, err
	}
	return asPlayer(players.NewSearcherPlayer(agent, searcher, params))
}

// Reflex module creates players for the controlled agent using a reflex.Searcher.
type Reflex struct{}

// Assert Reflex implements Module.
var _ players.Module = (*Reflex)(nil)

// NewPlayer implements players.Module.
func (m *Reflex) NewPlayer(agent state.AgentIndex, params parameters.Params) (players.Player, error) {
	searcher, err := reflex.NewFromParams(params)
	if err != nil {
		return nil, err
	}
	return asPlayer(players.NewSearcherPlayer(agent, searcher, params))
}
