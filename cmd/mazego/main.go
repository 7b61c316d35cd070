// mazego plays a match in the terminal: a human (or, with --watch, an AI player) controls the agent collecting the
// food, while the ghosts chase it.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/janpfeifer/mazeGo/internal/match"
	"github.com/janpfeifer/mazeGo/internal/players"
	_ "github.com/janpfeifer/mazeGo/internal/players/default"
	"github.com/janpfeifer/mazeGo/internal/profilers"
	. "github.com/janpfeifer/mazeGo/internal/state"
	"github.com/janpfeifer/mazeGo/internal/ui/cli"
	"github.com/janpfeifer/mazeGo/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagLayout = flag.String("layout", "mediumClassic",
		fmt.Sprintf("Layout of the maze, one of %q", LayoutNames()))
	flagWatch    = flag.Bool("watch", false, "Watch mode: an AI player (--config) controls the agent.")
	flagAIConfig = flag.String("config", players.DefaultPlayerConfig,
		"AI configuration for the controlled agent in --watch mode, e.g. \"expectimax,depth=3,eval=better\"")
	flagGhosts    = flag.String("ghosts", "directional", "Ghosts configuration, e.g. \"random\" or \"directional,prob=0.9\"")
	flagMaxGhosts = flag.Int("max_ghosts", 0, "If > 0, limits the number of ghosts used from the layout.")
	flagMaxMoves  = flag.Int("max_moves", match.DefaultMaxMoves, "Max moves before the match is considered a draw.")
	flagQuiet     = flag.Bool("quiet", false, "Quiet mode for when watching AI play: only the last board position is printed.")
	flagColor     = flag.Bool("color", true, "Use colors when printing the board.")
	flagDelay     = flag.Duration("delay", 0, "Delay between moves in --watch mode.")

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagMaxMoves <= 0 {
		klog.Fatalf("Invalid --max_moves=%d", *flagMaxMoves)
	}

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	layout := must.M1(LoadLayout(*flagLayout))
	maxGhosts := AllGhosts
	if *flagMaxGhosts > 0 {
		maxGhosts = *flagMaxGhosts
	}
	board := NewBoard(layout, maxGhosts)
	ui := cli.New(*flagColor, *flagWatch && !*flagQuiet)
	matchPlayers := must.M1(createPlayers(board.NumAgents(), ui))

	result, err := match.Run(globalCtx, board, matchPlayers, *flagMaxMoves,
		func(agent AgentIndex, _ Action, s GameState) {
			// Print once per round.
			if !*flagWatch || *flagQuiet || agent != AgentIndex(s.NumAgents()-1) {
				return
			}
			ui.Print(s.(*Board))
			if *flagDelay > 0 {
				time.Sleep(*flagDelay)
			}
		})
	if err != nil {
		klog.Exitf("Failed to run match: %+v", err)
	}
	ui.Print(result.Final.(*Board))
	ui.PrintResult(result)
}

// createPlayers for every agent: the controlled agent is either a human (cli.HumanPlayer) or, with --watch, the AI
// configured by --config.
func createPlayers(numAgents int, ui *cli.UI) ([]players.Player, error) {
	configs := []string{*flagAIConfig}
	if numAgents > 1 {
		configs = append(configs, *flagGhosts)
	}
	matchPlayers, err := players.NewAll(numAgents, configs)
	if err != nil {
		return nil, err
	}
	if !*flagWatch {
		matchPlayers[ControlledAgent] = &cli.HumanPlayer{UI: ui}
		return matchPlayers, nil
	}
	matchPlayers[ControlledAgent] = &thinkingPlayer{Player: matchPlayers[ControlledAgent], quiet: *flagQuiet}
	fmt.Printf("Controlled agent: %s\nGhosts: %s\n", matchPlayers[ControlledAgent],
		strings.Join(playerNames(matchPlayers[1:]), ", "))
	return matchPlayers, nil
}

func playerNames(ps []players.Player) []string {
	names := make([]string, len(ps))
	for ii, p := range ps {
		names[ii] = p.String()
	}
	return names
}

// thinkingPlayer shows a spinning symbol while the AI is searching.
type thinkingPlayer struct {
	players.Player
	quiet bool
}

func (p *thinkingPlayer) Play(s GameState) (Action, error) {
	if p.quiet {
		return p.Player.Play(s)
	}
	spin := spinning.New(globalCtx)
	action, err := p.Player.Play(s)
	spin.Done()
	return action, err
}
