package kqbf

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var ErrInvalidInstance = errors.New("invalid kqbf instance")

// Instance is a knapsack-constrained quadratic binary function:
// maximize f(x) = Σi Σj A[i][j]·x[i]·x[j] subject to Σi Weights[i]·x[i] <= Capacity.
type Instance struct {
	N        int
	Capacity float64
	Weights  []float64
	// A must be N×N. Instance files only fill the upper triangle.
	A *mat.Dense
}

func NewInstance(n int, capacity float64, weights []float64, a *mat.Dense) (*Instance, error) {
	inst := &Instance{N: n, Capacity: capacity, Weights: weights, A: a}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return fmt.Errorf("%w: instance is nil", ErrInvalidInstance)
	}
	if inst.N <= 0 {
		return fmt.Errorf("%w: n must be > 0 (got %d)", ErrInvalidInstance, inst.N)
	}
	if len(inst.Weights) != inst.N {
		return fmt.Errorf("%w: weights length must be n=%d (got %d)", ErrInvalidInstance, inst.N, len(inst.Weights))
	}
	for i, w := range inst.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weights[%d] must be finite and >= 0 (got %v)", ErrInvalidInstance, i, w)
		}
	}
	if inst.Capacity < 0 || math.IsNaN(inst.Capacity) || math.IsInf(inst.Capacity, 0) {
		return fmt.Errorf("%w: capacity must be finite and >= 0 (got %v)", ErrInvalidInstance, inst.Capacity)
	}
	if inst.A == nil {
		return fmt.Errorf("%w: coefficient matrix is nil", ErrInvalidInstance)
	}
	if r, c := inst.A.Dims(); r != inst.N || c != inst.N {
		return fmt.Errorf("%w: coefficient matrix must be %dx%d (got %dx%d)", ErrInvalidInstance, inst.N, inst.N, r, c)
	}
	return nil
}

func (inst *Instance) Coef(i, j int) float64 {
	return inst.A.At(i, j)
}

// RandomInstance generates an upper-triangular instance with integer
// coefficients in [-maxCoef, maxCoef], integer weights in [1, maxWeight]
// and capacity = capacityRatio·Σweights.
func RandomInstance(n, maxCoef, maxWeight int, capacityRatio float64, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if n <= 0 || maxCoef < 0 || maxWeight < 1 || capacityRatio <= 0 {
		panic("invalid generator bounds")
	}

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a.Set(i, j, float64(rng.Intn(2*maxCoef+1)-maxCoef))
		}
	}

	weights := make([]float64, n)
	total := 0.0
	for i := range weights {
		weights[i] = float64(1 + rng.Intn(maxWeight))
		total += weights[i]
	}

	inst, err := NewInstance(n, math.Floor(capacityRatio*total), weights, a)
	if err != nil {
		panic(err)
	}
	return inst
}
