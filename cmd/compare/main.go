// compare runs a tournament of configurations of the controlled agent, playing many matches in parallel, and
// reports their win rates and mean scores.
//
// The tournament can be configured with flags or with a YAML file (--config), see tournament.ParseConfig.
package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/janpfeifer/mazeGo/internal/match"
	"github.com/janpfeifer/mazeGo/internal/players"
	_ "github.com/janpfeifer/mazeGo/internal/players/default"
	"github.com/janpfeifer/mazeGo/internal/profilers"
	"github.com/janpfeifer/mazeGo/internal/tournament"
	"github.com/janpfeifer/mazeGo/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagConfig  = flag.String("config", "", "YAML file with the tournament configuration. If set, the flags below are ignored.")
	flagPlayers = flag.String("players", "minimax;alphabeta;expectimax",
		"Semicolon-separated list of player configurations to compare.")
	flagLayout    = flag.String("layout", "smallClassic", "Layout of the maze.")
	flagGhosts    = flag.String("ghosts", players.DefaultGhostConfig, "Ghosts configuration.")
	flagMaxGhosts = flag.Int("max_ghosts", 0, "If > 0, limits the number of ghosts used from the layout.")
	flagNumGames  = flag.Int("num_games", 20, "Number of games to play per player configuration.")
	flagMaxMoves  = flag.Int(
		"max_moves", match.DefaultMaxMoves, "Max moves before game is assumed to be a draw.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many matches simultaneously.")
)

// Globals
var (
	// globalCtx used everywhere. It is cancelled when the program is about to exit either by
	// an interrupt (ctrl+C) or by reaching the end.
	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C
	var globalCancel func()
	globalCtx, globalCancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	// Profilers: HTTP profiler server and CPU profile.
	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	cfg := must.M1(configFromFlags())
	p := newProgress(cfg)
	start := time.Now()
	summaries, err := tournament.Run(globalCtx, cfg, getParallelism(), p.OnResult)
	fmt.Println()
	if globalCtx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", globalCtx.Err())
		return
	}
	if err != nil {
		klog.Exitf("Tournament failed: %+v", err)
	}
	fmt.Printf("Layout %s, ghosts %q, %d games per player, %s:\n", cfg.Layout, cfg.Ghosts, cfg.Games, time.Since(start))
	for _, s := range summaries {
		fmt.Printf("  %s\n", s)
	}
}

// configFromFlags loads the tournament configuration from --config, or builds it from the other flags.
func configFromFlags() (*tournament.Config, error) {
	if *flagConfig != "" {
		return tournament.LoadConfig(*flagConfig)
	}
	var configs []string
	for _, config := range strings.Split(*flagPlayers, ";") {
		if config = strings.TrimSpace(config); config != "" {
			configs = append(configs, config)
		}
	}
	cfg := &tournament.Config{
		Layout:    *flagLayout,
		MaxGhosts: *flagMaxGhosts,
		Ghosts:    *flagGhosts,
		Games:     *flagNumGames,
		MaxMoves:  *flagMaxMoves,
		Players:   configs,
	}
	return cfg, cfg.Validate()
}

// progress prints the number of games played so far.
type progress struct {
	mu            sync.Mutex
	played, total int
	wins          []int
}

func newProgress(cfg *tournament.Config) *progress {
	return &progress{total: cfg.Games * len(cfg.Players), wins: make([]int, len(cfg.Players))}
}

func (p *progress) OnResult(playerIdx, _ int, result match.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played++
	if result.Outcome == match.Win {
		p.wins[playerIdx]++
	}
	fmt.Printf("\rPlayed %d of %d - wins per player %v\033[0K", p.played, p.total, p.wins)
}

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}
