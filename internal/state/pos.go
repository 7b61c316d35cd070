package state

import (
	"fmt"
	"sort"
)

// Pos packages x, y position. Y grows downwards, as in the text layouts.
type Pos [2]int

// X coordinate of the position.
func (pos Pos) X() int {
	return pos[0]
}

// Y coordinate of the position.
func (pos Pos) Y() int {
	return pos[1]
}

// Add returns the sum of both positions.
func (pos Pos) Add(delta Pos) Pos {
	return Pos{pos[0] + delta[0], pos[1] + delta[1]}
}

// Move returns the position after taking the action.
func (pos Pos) Move(action Action) Pos {
	return pos.Add(action.Delta())
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Distance returns the manhattan distance of two positions.
func (pos Pos) Distance(pos2 Pos) int {
	return absInt(pos[0]-pos2[0]) + absInt(pos[1]-pos2[1])
}

// String returns a text representation of Pos.
func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos[0], pos[1])
}

// PosSort sorts according to y first and then x.
func PosSort(poss []Pos) {
	sort.Slice(poss, func(i, j int) bool {
		if poss[i][1] != poss[j][1] {
			return poss[i][1] < poss[j][1]
		}
		return poss[i][0] < poss[j][0]
	})
}
