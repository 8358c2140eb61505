package kqbf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolution_AddRemoveKeepsOrder(t *testing.T) {
	sol := NewSolution()
	for _, el := range []int{4, 1, 3, 2} {
		sol.Add(el)
	}
	require.True(t, sol.Remove(1))
	require.False(t, sol.Remove(9))
	assert.Equal(t, []int{4, 3, 2}, sol.Elements)
	assert.True(t, sol.Contains(3))
	assert.False(t, sol.Contains(1))
	assert.Equal(t, 3, sol.Len())
}

func TestSolution_CloneIsDeep(t *testing.T) {
	sol := &Solution{Elements: []int{0, 2}, Cost: -5, UsedCapacity: 3}
	cp := sol.Clone()
	cp.Add(1)
	cp.Cost = 0

	assert.Equal(t, []int{0, 2}, sol.Elements)
	assert.Equal(t, -5.0, sol.Cost)
	assert.Equal(t, 3.0, cp.UsedCapacity)
	assert.Contains(t, sol.String(), "elements=[0 2]")
}

func TestRandomSolution_IsFeasible(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	inst := RandomInstance(30, 20, 10, 0.3, rng)
	eval, err := NewEvaluator(inst)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		sol := RandomSolution(eval, rng)
		require.NoError(t, ValidateSolution(sol, inst))
		assert.LessOrEqual(t, sol.UsedCapacity, inst.Capacity)
	}
}

func TestSolution_ValueOfEmptyIsPositiveZero(t *testing.T) {
	v := NewSolution().Value()
	assert.Zero(t, v)
	assert.False(t, math.Signbit(v))

	sol := &Solution{Cost: -3}
	assert.Equal(t, 3.0, sol.Value())
}
