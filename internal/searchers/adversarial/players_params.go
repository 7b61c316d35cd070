package adversarial

import (
	"github.com/janpfeifer/mazeGo/internal/eval"
	"github.com/janpfeifer/mazeGo/internal/parameters"
	"github.com/pkg/errors"
)

// NewFromParams creates an engine of the given kind configured by params. It consumes the keys:
//
//   - depth (int): search depth in rounds, must be > 0. Default is 2 (DefaultDepth).
//   - eval (string) and the evaluation weights: see eval.NewFromParams.
func NewFromParams(kind Kind, params parameters.Params) (*Searcher, error) {
	depth, err := parameters.PopParamOr(params, "depth", DefaultDepth)
	if err != nil {
		return nil, err
	}
	if depth <= 0 {
		return nil, errors.Wrapf(parameters.ErrInvalid, "%s: depth must be > 0, got depth=%d", kind, depth)
	}
	evaluator, err := eval.NewFromParams(params)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", kind)
	}
	s, err := New(kind, evaluator)
	if err != nil {
		return nil, err
	}
	return s.WithDepth(depth), nil
}

// ParseKind returns the Kind by its name.
func ParseKind(name string) (Kind, error) {
	for kind, kindName := range kindNames {
		if kindName == name {
			return Kind(kind), nil
		}
	}
	return NumKinds, errors.Wrapf(ErrNotImplemented, "adversarial search %q, valid values are %q", name, KindNames())
}
