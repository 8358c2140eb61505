package kqbf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// diagInstance builds f(x) = sum of selected elements with unit weights.
func diagInstance(t *testing.T, n int, capacity float64) *Instance {
	t.Helper()
	a := mat.NewDense(n, n, nil)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		a.Set(i, i, 1)
		weights[i] = 1
	}
	inst, err := NewInstance(n, capacity, weights, a)
	require.NoError(t, err)
	return inst
}

func TestEvaluator_DiagonalInstance(t *testing.T) {
	inst := diagInstance(t, 3, 2)
	eval, err := NewEvaluator(inst)
	require.NoError(t, err)

	sol := NewSolution()
	sol.Add(0)
	sol.Add(2)
	assert.Equal(t, -2.0, eval.Evaluate(sol))
	assert.Equal(t, -2.0, sol.Cost)
	assert.Equal(t, 2.0, sol.UsedCapacity)
	assert.Equal(t, 2.0, sol.Value())

	assert.Equal(t, -1.0, eval.InsertionCost(1, sol))
	assert.Equal(t, 0.0, eval.InsertionCost(0, sol), "already selected")
	assert.Equal(t, 1.0, eval.RemovalCost(2, sol))
	assert.Equal(t, 0.0, eval.RemovalCost(1, sol), "not selected")
	assert.Equal(t, 0.0, eval.ExchangeCost(1, 0, sol))
	assert.Equal(t, 0.0, eval.ExchangeCost(1, 1, sol))

	assert.Equal(t, 3, eval.DomainSize())
	assert.Equal(t, 2.0, eval.Capacity())
	assert.Len(t, eval.Weights(), 3)
}

func TestEvaluator_DeltasMatchFullEvaluation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	inst := RandomInstance(12, 10, 5, 0.6, rng)
	eval, err := NewEvaluator(inst)
	require.NoError(t, err)

	for trial := 0; trial < 20; trial++ {
		sol := RandomSolution(eval, rng)
		base := eval.Evaluate(sol.Clone())

		for el := 0; el < inst.N; el++ {
			if sol.Contains(el) {
				next := sol.Clone()
				next.Remove(el)
				assert.InDelta(t, eval.Evaluate(next)-base, eval.RemovalCost(el, sol), 1e-9)
				continue
			}
			next := sol.Clone()
			next.Add(el)
			assert.InDelta(t, eval.Evaluate(next)-base, eval.InsertionCost(el, sol), 1e-9)

			for _, out := range sol.Elements {
				swapped := sol.Clone()
				swapped.Remove(out)
				swapped.Add(el)
				assert.InDelta(t, eval.Evaluate(swapped)-base, eval.ExchangeCost(el, out, sol), 1e-9)
			}
		}
	}
}

func TestEvaluator_CostValidates(t *testing.T) {
	eval, err := NewEvaluator(diagInstance(t, 3, 2))
	require.NoError(t, err)

	sol := &Solution{Elements: []int{0, 1, 2}}
	_, err = eval.Cost(sol)
	require.Error(t, err, "capacity exceeded")

	sol = &Solution{Elements: []int{0, 0}}
	_, err = eval.Cost(sol)
	require.Error(t, err, "duplicate")

	sol = &Solution{Elements: []int{5}}
	require.Panics(t, func() { eval.MustCost(sol) })

	c, err := eval.Cost(&Solution{Elements: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, -1.0, c)
}

func TestNewEvaluator_RejectsInvalidInstance(t *testing.T) {
	_, err := NewEvaluator(&Instance{N: 2, Weights: []float64{1}, A: mat.NewDense(2, 2, nil)})
	require.ErrorIs(t, err, ErrInvalidInstance)

	_, err = NewEvaluator(nil)
	require.ErrorIs(t, err, ErrInvalidInstance)
}
