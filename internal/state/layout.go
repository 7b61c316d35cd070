package state

import (
	"embed"
	"path"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Layout characters.
const (
	WallChar       = '%'
	FoodChar       = '.'
	CapsuleChar    = 'o'
	ControlledChar = 'P'
	GhostChar      = 'G'
	EmptyChar      = ' '

	// ScaredGhostChar is only used when rendering boards, see Board.CharAt.
	ScaredGhostChar = 'g'
)

// Layout is the static part of a maze: walls and the initial placement of food, capsules and agents.
// It is shared (read-only) by all boards created from it.
type Layout struct {
	Name          string
	Width, Height int

	walls           []bool
	food            []Pos
	capsules        []Pos
	controlledStart Pos
	ghostStarts     []Pos
}

// ParseLayout parses the text representation of a maze. Rows are lines of text, the first line being the top.
// See the *Char constants for the meaning of each character.
//
// There must be exactly one ControlledChar, and all rows must have the same width.
func ParseLayout(name, text string) (*Layout, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for ii, line := range lines {
		lines[ii] = strings.TrimRight(line, "\r")
	}
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, errors.Errorf("layout %q is empty", name)
	}
	l := &Layout{
		Name:   name,
		Width:  len(lines[0]),
		Height: len(lines),
	}
	l.walls = make([]bool, l.Width*l.Height)
	foundControlled := false
	for y, line := range lines {
		if len(line) != l.Width {
			return nil, errors.Errorf("layout %q: row %d has width %d, but the first row has width %d",
				name, y, len(line), l.Width)
		}
		for x, c := range []byte(line) {
			pos := Pos{x, y}
			switch c {
			case WallChar:
				l.walls[l.index(pos)] = true
			case FoodChar:
				l.food = append(l.food, pos)
			case CapsuleChar:
				l.capsules = append(l.capsules, pos)
			case ControlledChar:
				if foundControlled {
					return nil, errors.Errorf("layout %q: more than one %q found, second at %s",
						name, ControlledChar, pos)
				}
				foundControlled = true
				l.controlledStart = pos
			case GhostChar:
				l.ghostStarts = append(l.ghostStarts, pos)
			case EmptyChar:
				// Nothing to do.
			default:
				return nil, errors.Errorf("layout %q: invalid character %q at %s", name, c, pos)
			}
		}
	}
	if !foundControlled {
		return nil, errors.Errorf("layout %q has no controlled agent (%q)", name, ControlledChar)
	}
	return l, nil
}

// MustParseLayout is like ParseLayout, but panics on error. Used for tests and static layouts.
func MustParseLayout(name, text string) *Layout {
	l, err := ParseLayout(name, text)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Layout) index(pos Pos) int {
	return pos[1]*l.Width + pos[0]
}

// Inside returns whether pos is within the maze limits.
func (l *Layout) Inside(pos Pos) bool {
	return pos[0] >= 0 && pos[1] >= 0 && pos[0] < l.Width && pos[1] < l.Height
}

// IsWall returns whether there is a wall at pos. Positions outside the maze are considered walls.
func (l *Layout) IsWall(pos Pos) bool {
	if !l.Inside(pos) {
		return true
	}
	return l.walls[l.index(pos)]
}

// NumGhosts in the layout.
func (l *Layout) NumGhosts() int {
	return len(l.ghostStarts)
}

//go:embed layouts/*.lay
var layoutsFS embed.FS

const layoutExt = ".lay"

// LayoutNames returns the names of the standard layouts, sorted.
func LayoutNames() []string {
	entries, err := layoutsFS.ReadDir("layouts")
	if err != nil {
		panic(errors.Wrap(err, "failed to read embedded layouts"))
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), layoutExt))
	}
	slices.Sort(names)
	return names
}

// LoadLayout returns one of the standard layouts (see LayoutNames) by name.
func LoadLayout(name string) (*Layout, error) {
	data, err := layoutsFS.ReadFile(path.Join("layouts", name+layoutExt))
	if err != nil {
		return nil, errors.Errorf("unknown layout %q, valid layouts are %q", name, LayoutNames())
	}
	return ParseLayout(name, string(data))
}
