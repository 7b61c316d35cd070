// Package tournament runs many matches of several configurations of the controlled agent on the same layout,
// in parallel, and summarizes the results.
package tournament

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/janpfeifer/mazeGo/internal/match"
	"github.com/janpfeifer/mazeGo/internal/players"
	"github.com/janpfeifer/mazeGo/internal/state"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// Config of a tournament. It can be read from a YAML file, see ParseConfig.
type Config struct {
	// Layout name, see state.LayoutNames.
	Layout string `yaml:"layout"`

	// MaxGhosts limits the number of ghosts used from the layout. 0 uses all of them.
	MaxGhosts int `yaml:"max_ghosts,omitempty"`

	// Ghosts is the players.New configuration of every ghost. Default is players.DefaultGhostConfig.
	Ghosts string `yaml:"ghosts,omitempty"`

	// Games per player configuration.
	Games int `yaml:"games"`

	// MaxMoves of the controlled agent before a match is a draw. Default is match.DefaultMaxMoves.
	MaxMoves int `yaml:"max_moves,omitempty"`

	// Players is the list of players.New configurations to compare.
	Players []string `yaml:"players"`
}

// ParseConfig parses a YAML tournament configuration. Unknown fields are an error. E.g.:
//
//	layout: smallClassic
//	ghosts: directional
//	games: 20
//	players:
//	  - minimax,depth=2,eval=better
//	  - expectimax,depth=2,eval=better
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse tournament configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML tournament configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tournament configuration from %q", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "file %q", path)
	}
	return cfg, nil
}

// Validate the configuration and set the defaults of the optional fields.
func (cfg *Config) Validate() error {
	if cfg.Layout == "" {
		return errors.Wrap(players.ErrInvalidConfig, "tournament layout not set")
	}
	if _, err := state.LoadLayout(cfg.Layout); err != nil {
		return err
	}
	if cfg.Games <= 0 {
		return errors.Wrapf(players.ErrInvalidConfig, "tournament games must be > 0, got %d", cfg.Games)
	}
	if len(cfg.Players) == 0 {
		return errors.Wrap(players.ErrInvalidConfig, "no players configured for the tournament")
	}
	if cfg.MaxGhosts < 0 {
		return errors.Wrapf(players.ErrInvalidConfig, "max_ghosts must be >= 0, got %d", cfg.MaxGhosts)
	}
	if cfg.MaxMoves == 0 {
		cfg.MaxMoves = match.DefaultMaxMoves
	}
	if cfg.Ghosts == "" {
		cfg.Ghosts = players.DefaultGhostConfig
	}
	return nil
}

// Summary of the matches of one player configuration.
type Summary struct {
	Player              string
	Wins, Losses, Draws int
	MeanScore           float32
	MeanMoves           float32
}

// Games played.
func (s Summary) Games() int {
	return s.Wins + s.Losses + s.Draws
}

// WinRate is the fraction of games won.
func (s Summary) WinRate() float32 {
	if s.Games() == 0 {
		return 0
	}
	return float32(s.Wins) / float32(s.Games())
}

// String implements fmt.Stringer.
func (s Summary) String() string {
	return fmt.Sprintf("%s: %d games, %.1f%% wins (%d wins / %d losses / %d draws), mean score %.1f, mean moves %.1f",
		s.Player, s.Games(), 100*s.WinRate(), s.Wins, s.Losses, s.Draws, s.MeanScore, s.MeanMoves)
}

// Summarize the results of the matches of a player.
func Summarize(player string, results []match.Result) Summary {
	s := Summary{
		Player: player,
		Wins:   lo.CountBy(results, func(r match.Result) bool { return r.Outcome == match.Win }),
		Losses: lo.CountBy(results, func(r match.Result) bool { return r.Outcome == match.Lose }),
		Draws:  lo.CountBy(results, func(r match.Result) bool { return r.Outcome == match.Draw }),
	}
	if len(results) > 0 {
		s.MeanScore = lo.SumBy(results, func(r match.Result) float32 { return r.Score }) / float32(len(results))
		s.MeanMoves = float32(lo.SumBy(results, func(r match.Result) int { return r.Moves })) / float32(len(results))
	}
	return s
}

// OnResult is called after each match of a tournament finishes. It may be called concurrently.
type OnResult func(playerIdx, game int, result match.Result)

// Run the tournament: cfg.Games matches for each of the cfg.Players, with at most parallelism matches played
// simultaneously. Each match creates its own players, since players are not safe for concurrent use.
//
// It returns one Summary per player configuration, in the same order as cfg.Players. The first error (from any
// match) interrupts the tournament.
func Run(ctx context.Context, cfg *Config, parallelism int, onResult OnResult) ([]Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := state.LoadLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}
	maxGhosts := state.AllGhosts
	if cfg.MaxGhosts > 0 {
		maxGhosts = cfg.MaxGhosts
	}
	initial := state.NewBoard(layout, maxGhosts)

	// Check configurations before starting.
	for _, config := range cfg.Players {
		if _, err := newPlayers(initial.NumAgents(), config, cfg.Ghosts); err != nil {
			return nil, err
		}
	}

	var mu sync.Mutex
	results := make([][]match.Result, len(cfg.Players))
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for playerIdx, config := range cfg.Players {
		for game := range cfg.Games {
			g.Go(func() error {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				matchPlayers, err := newPlayers(initial.NumAgents(), config, cfg.Ghosts)
				if err != nil {
					return err
				}
				result, err := match.Run(ctx, initial, matchPlayers, cfg.MaxMoves, nil)
				if err != nil {
					return errors.WithMessagef(err, "game %d of %q", game, config)
				}
				result.Final = nil // Free the final board.
				if klog.V(1).Enabled() {
					klog.Infof("Game %d of %q: %s", game, config, result)
				}
				mu.Lock()
				results[playerIdx] = append(results[playerIdx], result)
				mu.Unlock()
				if onResult != nil {
					onResult(playerIdx, game, result)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lo.Map(cfg.Players, func(config string, playerIdx int) Summary {
		return Summarize(config, results[playerIdx])
	}), nil
}

func newPlayers(numAgents int, config, ghosts string) ([]players.Player, error) {
	configs := make([]string, numAgents)
	configs[0] = config
	for ii := 1; ii < numAgents; ii++ {
		configs[ii] = ghosts
	}
	return players.NewAll(numAgents, configs)
}
