// Package eval defines the evaluation functions used by the searchers: they map a game state to a desirability
// score for the controlled agent, higher being better.
//
// Evaluation functions are an explicit enumerated set (Kind), selected by name at configuration time.
package eval

import (
	"strings"

	"github.com/janpfeifer/mazeGo/internal/parameters"
	"github.com/janpfeifer/mazeGo/internal/state"
	"github.com/pkg/errors"
)

// Evaluator maps a game state to a score for the state.ControlledAgent. Implementations must be pure: no side
// effects, and never calling back a searcher.
type Evaluator interface {
	Evaluate(s state.GameState) float32
	String() string
}

// Kind enumerates the supported evaluation functions.
type Kind int

const (
	// Score returns the game's own score.
	Score Kind = iota

	// Better is the Heuristic: score plus shaping for food, capsules and ghost distances.
	Better

	// NumKinds is the number of valid kinds.
	NumKinds
)

// ErrUnknownEvaluation is returned when an evaluation function name can't be resolved.
var ErrUnknownEvaluation = errors.New("unknown evaluation function")

var kindNames = [NumKinds][]string{
	Score:  {"score", "scoreEvaluationFunction"},
	Better: {"better", "betterEvaluationFunction"},
}

// String returns the short name of the Kind.
func (k Kind) String() string {
	if k >= 0 && k < NumKinds {
		return kindNames[k][0]
	}
	return "Unknown"
}

// ParseKind resolves an evaluation function name, case-insensitive. Both the short name ("score", "better") and
// the long names ("scoreEvaluationFunction", "betterEvaluationFunction") are accepted.
func ParseKind(name string) (Kind, error) {
	for kind, names := range kindNames {
		for _, candidate := range names {
			if strings.EqualFold(name, candidate) {
				return Kind(kind), nil
			}
		}
	}
	return Score, errors.Wrapf(ErrUnknownEvaluation, "%q is not one of \"score\" or \"better\"", name)
}

// New creates the Evaluator of the given kind. weights are only used by the Better kind.
func New(kind Kind, weights Weights) (Evaluator, error) {
	switch kind {
	case Score:
		return ScoreEvaluator{}, nil
	case Better:
		return &Heuristic{Weights: weights}, nil
	}
	return nil, errors.Wrapf(ErrUnknownEvaluation, "kind %d", int(kind))
}

// NewFromParams creates the Evaluator configured by params, consuming the keys it uses:
//
//   - eval (string): name of the evaluation function, "score" (default) or "better".
//   - food_weight, threat_weight, scared_weight, capsule_weight (float): Heuristic weights,
//     see DefaultWeights.
func NewFromParams(params parameters.Params) (Evaluator, error) {
	name, err := parameters.PopParamOr(params, "eval", Score.String())
	if err != nil {
		return nil, err
	}
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	weights, err := WeightsFromParams(params, DefaultWeights)
	if err != nil {
		return nil, err
	}
	return New(kind, weights)
}

// ScoreEvaluator returns the game score of the state.
type ScoreEvaluator struct{}

// Evaluate implements Evaluator.
func (ScoreEvaluator) Evaluate(s state.GameState) float32 {
	return s.Score()
}

// String implements Evaluator.
func (ScoreEvaluator) String() string {
	return Score.String()
}

// Func adapts a function to an Evaluator.
type Func func(s state.GameState) float32

// Evaluate implements Evaluator.
func (fn Func) Evaluate(s state.GameState) float32 {
	return fn(s)
}

// String implements Evaluator.
func (fn Func) String() string {
	return "func"
}
