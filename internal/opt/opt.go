package opt

import (
	"context"
	"time"

	"kqbf/internal/kqbf"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *kqbf.Instance) (Result, error)
}

// Result — лучшее найденное решение. Cost — обратная целевая функция
// (минимизируется), Value = -Cost.
type Result struct {
	Elements     []int
	Cost         float64
	Value        float64
	UsedCapacity float64
	Evaluations  int
	Iterations   int
	Duration     time.Duration
	Meta         map[string]any
}

// FromSolution копирует решение в результат.
func FromSolution(sol *kqbf.Solution, evals, iters int, meta map[string]any) Result {
	elems := make([]int, len(sol.Elements))
	copy(elems, sol.Elements)
	return Result{
		Elements:     elems,
		Cost:         sol.Cost,
		Value:        sol.Value(),
		UsedCapacity: sol.UsedCapacity,
		Evaluations:  evals,
		Iterations:   iters,
		Meta:         meta,
	}
}
