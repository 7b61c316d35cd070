// Package players provides a factory of players from configuration strings, and the Player interface used by the
// match driver to get the action of each agent, one turn at a time.
//
// Player providers register themselves with RegisterModule, usually by importing
// "github.com/janpfeifer/mazeGo/internal/players/default".
package players

import (
	"slices"

	"github.com/janpfeifer/mazeGo/internal/parameters"
	"github.com/janpfeifer/mazeGo/internal/state"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var (
	// ErrInvalidConfig is the cause of errors returned for invalid player configurations. It is the same value as
	// parameters.ErrInvalid, so errors.Is works with either.
	ErrInvalidConfig = parameters.ErrInvalid

	// ErrNoLegalActions is returned by Player.Play if the agent has no legal action to take.
	ErrNoLegalActions = errors.New("no legal actions")
)

// Player is anything that is able to play the game for one agent.
type Player interface {
	// Play returns the action chosen for the player's agent in the given state.
	//
	// The state must not be terminal.
	Play(s state.GameState) (state.Action, error)

	// String describes the player configuration.
	String() string
}

// Module must implement NewPlayer, which creates a player for the given agent, configured by params.
// The module must consume (delete) from params every key it uses: leftover keys are reported as unknown.
type Module interface {
	NewPlayer(agent state.AgentIndex, params parameters.Params) (Player, error)
}

var (
	// Registered external modules.
	keywordToModules = make(map[string]Module)
)

// RegisterModule so it can be used by any of the front-ends to create players.
// The name is the keyword that selects the module in the configuration string.
func RegisterModule(name string, module Module) {
	keywordToModules[name] = module
}

// RegisteredModules returns the sorted names of the registered modules.
func RegisteredModules() []string {
	names := lo.Keys(keywordToModules)
	slices.Sort(names)
	return names
}

var (
	// DefaultPlayerConfig is used if no configuration was given for the controlled agent.
	DefaultPlayerConfig = "minimax,depth=2"

	// DefaultGhostConfig is used if no configuration was given for a ghost.
	DefaultGhostConfig = "random"
)

// New creates a new player for the agent given the configuration string.
//
// Args:
//
//   - agent: index of the agent the player will play for.
//   - config: a comma-separated list of parameters with optional values associated. Exactly one of them must be
//     the name of a registered module (e.g.: "minimax", "alphabeta", "expectimax", "reflex", "random",
//     "directional"), the others configure the module. E.g.: "expectimax,depth=3,eval=better".
//     If empty, DefaultPlayerConfig (for the state.ControlledAgent) or DefaultGhostConfig is used.
//
// More details on the config are dependent on the module used.
func New(agent state.AgentIndex, config string) (Player, error) {
	if config == "" {
		config = DefaultPlayerConfig
		if agent != state.ControlledAgent {
			config = DefaultGhostConfig
		}
	}
	if len(keywordToModules) == 0 {
		return nil, errors.New("no registered player modules. Perhaps you need to import _ \"github.com/janpfeifer/mazeGo/internal/players/default\" to your binary ?")
	}
	params := parameters.NewFromConfigString(config)
	moduleName, err := parameters.PopOneOf(params, RegisteredModules())
	if err != nil {
		return nil, errors.WithMessagef(err, "player configuration %q", config)
	}
	player, err := keywordToModules[moduleName].NewPlayer(agent, params)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create player %q for agent #%d", moduleName, agent)
	}

	// Check that all parameters were processed.
	if err = parameters.CheckAllConsumed(params); err != nil {
		return nil, errors.WithMessagef(err, "player configuration %q", config)
	}
	return player, nil
}

// NewAll creates one player per agent, configured by configs[agent]. Ghosts beyond len(configs) reuse the last ghost
// configuration given, or DefaultGhostConfig if none was given.
func NewAll(numAgents int, configs []string) ([]Player, error) {
	players := make([]Player, numAgents)
	for agent := range numAgents {
		var config string
		switch {
		case agent < len(configs):
			config = configs[agent]
		case len(configs) > 1:
			config = configs[len(configs)-1]
		}
		var err error
		players[agent], err = New(state.AgentIndex(agent), config)
		if err != nil {
			return nil, err
		}
	}
	return players, nil
}

// ModuleFunc adapts a function to the Module interface.
type ModuleFunc func(agent state.AgentIndex, params parameters.Params) (Player, error)

// NewPlayer implements Module.
func (fn ModuleFunc) NewPlayer(agent state.AgentIndex, params parameters.Params) (Player, error) {
	return fn(agent, params)
}
