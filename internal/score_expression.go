package internal

import (
	"fmt"
	"math"
	"sort"

	"github.com/maja42/goval"
)

// ScoreExpression combines standardized factors with a user supplied
// formula, e.g. "value + 2 * momentum - abs(low_vol)". every factor name
// is bound to that symbol's z-score.
type ScoreExpression struct {
	expression string
	factors    []string
}

func constructScoreFunctionMap() map[string]goval.ExpressionFunction {
	return map[string]goval.ExpressionFunction{
		"abs": func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return 0, fmt.Errorf("abs needs 1 arg, got %d", len(args))
			}
			v, err := toFloat(args[0])
			if err != nil {
				return 0, err
			}
			return math.Abs(v), nil
		},
		"max": func(args ...interface{}) (interface{}, error) {
			return reduceFloats("max", args, math.Max)
		},
		"min": func(args ...interface{}) (interface{}, error) {
			return reduceFloats("min", args, math.Min)
		},
	}
}

// NewScoreExpression validates the expression by evaluating it once with
// every factor at 0
func NewScoreExpression(expression string, factors []string) (*ScoreExpression, error) {
	if expression == "" {
		return nil, fmt.Errorf("score expression cannot be empty")
	}
	sorted := append([]string{}, factors...)
	sort.Strings(sorted)

	e := &ScoreExpression{
		expression: expression,
		factors:    sorted,
	}
	zeros := map[string]float64{}
	for _, f := range sorted {
		zeros[f] = 0
	}
	if _, err := e.Evaluate(zeros); err != nil {
		return nil, fmt.Errorf("invalid score expression %q: %w", expression, err)
	}
	return e, nil
}

func (e ScoreExpression) String() string {
	return e.expression
}

func (e ScoreExpression) Evaluate(zScoreByFactor map[string]float64) (float64, error) {
	variables := map[string]interface{}{}
	for _, f := range e.factors {
		z, ok := zScoreByFactor[f]
		if !ok {
			return 0, fmt.Errorf("missing z-score for factor %s", f)
		}
		variables[f] = z
	}

	eval := goval.NewEvaluator()
	result, err := eval.Evaluate(e.expression, variables, constructScoreFunctionMap())
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate score expression: %w", err)
	}

	r, err := toFloat(result)
	if err != nil {
		return 0, err
	} else if math.IsNaN(r) {
		return 0, fmt.Errorf("calculated NaN as expression result")
	} else if math.IsInf(r, 0) {
		return 0, fmt.Errorf("calculated infinity as expression result")
	}

	return r, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expression produced %T, expected a number", v)
	}
}

func reduceFloats(name string, args []interface{}, f func(a, b float64) float64) (interface{}, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s needs at least 1 arg", name)
	}
	out, err := toFloat(args[0])
	if err != nil {
		return 0, err
	}
	for _, a := range args[1:] {
		v, err := toFloat(a)
		if err != nil {
			return 0, err
		}
		out = f(out, v)
	}
	return out, nil
}
