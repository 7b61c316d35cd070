package eval

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/mazeGo/internal/parameters"
	"github.com/janpfeifer/mazeGo/internal/state"
	"github.com/samber/lo"
)

// Weights of the shaping terms added to the game score by Heuristic and Reflex. They are tuning knobs, not part
// of the searchers' correctness.
type Weights struct {
	// Food rewards proximity to the nearest food: Food/(1+distance).
	Food float32

	// Threat penalizes proximity to the nearest active ghost: Threat/(1+distance).
	Threat float32

	// Scared rewards proximity to the nearest scared ghost: Scared/(1+distance).
	Scared float32

	// Capsule penalizes each remaining capsule.
	Capsule float32

	// FoodLeft penalizes each remaining food.
	FoodLeft float32
}

var (
	// DefaultWeights used by the Heuristic.
	DefaultWeights = Weights{Food: 10, Threat: 20, Scared: 100, Capsule: 20, FoodLeft: 4}

	// DefaultReflexWeights used by Reflex.
	DefaultReflexWeights = Weights{Food: 20, Threat: 5, Scared: 5}
)

// WeightsFromParams returns defaults overridden by the params "food_weight", "threat_weight", "scared_weight",
// "capsule_weight" and "food_left_weight". The keys are consumed.
func WeightsFromParams(params parameters.Params, defaults Weights) (w Weights, err error) {
	w = defaults
	for _, field := range []struct {
		key   string
		value *float32
	}{
		{"food_weight", &w.Food},
		{"threat_weight", &w.Threat},
		{"scared_weight", &w.Scared},
		{"capsule_weight", &w.Capsule},
		{"food_left_weight", &w.FoodLeft},
	} {
		*field.value, err = parameters.PopParamOr(params, field.key, *field.value)
		if err != nil {
			return
		}
	}
	return
}

// distances holds the distances from the controlled agent to the things that matter for the heuristics.
// A missing thing has distance -1.
type distances struct {
	food, activeGhost, scaredGhost int
}

func nearest(from state.Pos, targets []state.Pos) int {
	if len(targets) == 0 {
		return -1
	}
	return lo.Min(lo.Map(targets, func(target state.Pos, _ int) int { return from.Distance(target) }))
}

func measure(obs state.Observable) distances {
	pos := obs.ControlledPos()
	ghosts := obs.Ghosts()
	scared := lo.FilterMap(ghosts, func(g state.GhostView, _ int) (state.Pos, bool) { return g.Pos, g.IsScared() })
	active := lo.FilterMap(ghosts, func(g state.GhostView, _ int) (state.Pos, bool) { return g.Pos, !g.IsScared() })
	return distances{
		food:        nearest(pos, obs.Food()),
		activeGhost: nearest(pos, active),
		scaredGhost: nearest(pos, scared),
	}
}

// inverse returns weight/(1+distance), or 0 if distance is missing (< 0).
func inverse(weight float32, distance int) float32 {
	if distance < 0 {
		return 0
	}
	return weight / float32(1+distance)
}

// Heuristic evaluation ("better"): game score plus rewards for being close to food and scared ghosts, and
// penalties for being close to active ghosts and for food and capsules left.
//
// States that are not state.Observable are evaluated by their score alone, and so are terminal states.
type Heuristic struct {
	Weights Weights
}

// Evaluate implements Evaluator.
func (h *Heuristic) Evaluate(s state.GameState) float32 {
	score := s.Score()
	obs, ok := s.(state.Observable)
	if !ok || state.IsTerminal(s) {
		return score
	}
	d := measure(obs)
	w := h.Weights
	score += inverse(w.Food, d.food)
	score -= inverse(w.Threat, d.activeGhost)
	score += inverse(w.Scared, d.scaredGhost)
	score -= w.Capsule * float32(len(obs.Capsules()))
	score -= w.FoodLeft * float32(len(obs.Food()))
	return score
}

// String implements Evaluator.
func (h *Heuristic) String() string {
	return fmt.Sprintf("%s%+v", Better, h.Weights)
}

// Reflex is the one-step evaluation used by the reflex searcher to score the successor of each action: the
// successor score, plus a reward for the distance to the nearest food, a penalty for the nearest active ghost and
// a reward for the nearest scared ghost. A successor with no food left is worth +Inf.
//
// Weights.Capsule and Weights.FoodLeft are not used.
type Reflex struct {
	Weights Weights
}

// NewReflex creates a Reflex evaluator with DefaultReflexWeights.
func NewReflex() *Reflex {
	return &Reflex{Weights: DefaultReflexWeights}
}

// Evaluate implements Evaluator.
func (r *Reflex) Evaluate(successor state.GameState) float32 {
	score := successor.Score()
	obs, ok := successor.(state.Observable)
	if !ok {
		return score
	}
	d := measure(obs)
	if d.food < 0 {
		return math32.Inf(1)
	}
	score += inverse(r.Weights.Food, d.food)
	score -= inverse(r.Weights.Threat, d.activeGhost)
	score += inverse(r.Weights.Scared, d.scaredGhost)
	return score
}

// String implements Evaluator.
func (r *Reflex) String() string {
	return fmt.Sprintf("reflex%+v", r.Weights)
}
