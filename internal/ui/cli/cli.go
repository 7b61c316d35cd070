// Package cli implements a command-line UI for the game: it prints the board, the result of matches, and reads
// the actions of a human player.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/mazeGo/internal/match"
	"github.com/janpfeifer/mazeGo/internal/players"
	. "github.com/janpfeifer/mazeGo/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// CharsPerColumn is the width used to print each board position, so the board looks roughly square.
const CharsPerColumn = 2

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len([]rune(ansiFilter.ReplaceAllString(s, "")))
}

// ErrTooManyParsingErrors is returned by UI.ReadAction if the user failed to enter a valid action 3 times.
var ErrTooManyParsingErrors = errors.New("failed to read action 3 times")

// UI prints to an output (os.Stdout by default), and reads the human actions from an input (os.Stdin by default).
type UI struct {
	color, clearScreen bool
	out                io.Writer
	reader             *bufio.Reader
}

var (
	wallStyle    = lipgloss.NewStyle().Background(lipgloss.Color("4"))
	foodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	capsuleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	agentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	ghostStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	scaredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// New creates a UI that prints to os.Stdout and reads from os.Stdin.
func New(color bool, clearScreen bool) *UI {
	return &UI{
		color:       color,
		clearScreen: clearScreen,
		out:         os.Stdout,
		reader:      bufio.NewReader(os.Stdin),
	}
}

// WithIO changes the input and output used by the UI.
func (ui *UI) WithIO(in io.Reader, out io.Writer) *UI {
	ui.reader = bufio.NewReader(in)
	ui.out = out
	return ui
}

// terminalWidth returns the width of the output, if it is a terminal, or 0.
func (ui *UI) terminalWidth() int {
	f, ok := ui.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func (ui *UI) printCentered(block string) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max((ui.terminalWidth()-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			_, _ = fmt.Fprintln(ui.out)
			continue
		}
		_, _ = fmt.Fprintf(ui.out, "%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// Print the board with a header with the move number and score.
func (ui *UI) Print(board *Board) {
	if ui.clearScreen {
		_, _ = fmt.Fprint(ui.out, "\033c")
	}
	header := fmt.Sprintf("Move #%d - Score %.0f - Food left %d", board.MoveNumber(), board.Score(), board.NumFood())
	if ui.color {
		header = lipgloss.NewStyle().Bold(true).Render(header)
	}
	_, _ = fmt.Fprintln(ui.out)
	ui.printCentered(header)
	_, _ = fmt.Fprintln(ui.out)
	ui.PrintBoard(board)
}

// PrintBoard prints only the board, centered in the terminal.
func (ui *UI) PrintBoard(board *Board) {
	ui.printCentered(ui.RenderBoard(board))
}

// RenderBoard returns the board as a multi-line string, each position using CharsPerColumn characters.
func (ui *UI) RenderBoard(board *Board) string {
	layout := board.Layout()
	var sb strings.Builder
	for y := range layout.Height {
		for x := range layout.Width {
			sb.WriteString(ui.renderCell(board.CharAt(Pos{x, y})))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (ui *UI) renderCell(c byte) string {
	var (
		symbol string
		style  lipgloss.Style
	)
	switch c {
	case WallChar:
		symbol, style = "  ", wallStyle
		if !ui.color {
			symbol = "%%"
		}
	case FoodChar:
		symbol, style = " .", foodStyle
	case CapsuleChar:
		symbol, style = " o", capsuleStyle
	case ControlledChar:
		symbol, style = " P", agentStyle
	case GhostChar:
		symbol, style = " G", ghostStyle
	case ScaredGhostChar:
		symbol, style = " g", scaredStyle
	default:
		return strings.Repeat(" ", CharsPerColumn)
	}
	if !ui.color {
		return symbol
	}
	return style.Render(symbol)
}

// PrintResult of a match.
func (ui *UI) PrintResult(result match.Result) {
	var msg string
	var background lipgloss.Color
	switch result.Outcome {
	case match.Win:
		msg, background = "*** YOU WIN! ***", lipgloss.Color("10")
	case match.Lose:
		msg, background = "*** GAME OVER ***", lipgloss.Color("9")
	default:
		msg, background = "*** DRAW: max moves reached ***", lipgloss.Color("13")
	}
	msg = fmt.Sprintf("%s\nScore %.0f in %d moves", msg, result.Score, result.Moves)
	_, _ = fmt.Fprintln(ui.out)
	if ui.color {
		msg = lipgloss.NewStyle().
			Background(background).
			Foreground(lipgloss.Color("0")).
			Padding(1, 2).
			Align(lipgloss.Center).
			Render(msg)
	}
	ui.printCentered(msg)
	_, _ = fmt.Fprintln(ui.out)
}

// ReadAction reads the action of the human playing the controlled agent: the name of the direction (or "stop"),
// or its first letter. It gives the user 3 attempts.
func (ui *UI) ReadAction(board *Board) (action Action, err error) {
	legal := board.LegalActions(ControlledAgent)
	for range 3 {
		_, _ = fmt.Fprintf(ui.out, "    Action %v > ", legal)
		var text string
		text, err = ui.reader.ReadString('\n')
		if err != nil && (err != io.EOF || text == "") {
			return NoAction, errors.Wrap(err, "failed to read action")
		}
		action, err = ParseAction(strings.TrimSpace(text))
		if err != nil {
			_, _ = fmt.Fprintf(ui.out, "    * Failed to parse your input %q, please try again.\n", strings.TrimSpace(text))
			continue
		}
		if !slices.Contains(legal, action) {
			_, _ = fmt.Fprintf(ui.out, "    * %s is blocked, please try again.\n", action)
			continue
		}
		return action, nil
	}
	return NoAction, ErrTooManyParsingErrors
}

// HumanPlayer implements players.Player by printing the board and reading the action from the UI.
type HumanPlayer struct {
	UI *UI
}

// Assert HumanPlayer is a players.Player.
var _ players.Player = (*HumanPlayer)(nil)

// Play implements players.Player. It requires the state to be a *Board.
func (h *HumanPlayer) Play(s GameState) (Action, error) {
	board, ok := s.(*Board)
	if !ok {
		return NoAction, errors.Errorf("human player requires a *state.Board, got %T", s)
	}
	for {
		h.UI.Print(board)
		_, _ = fmt.Fprintln(h.UI.out)
		action, err := h.UI.ReadAction(board)
		if errors.Is(err, ErrTooManyParsingErrors) {
			continue
		}
		return action, err
	}
}

// String implements players.Player.
func (h *HumanPlayer) String() string {
	return "human"
}
