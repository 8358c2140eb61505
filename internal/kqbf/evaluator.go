package kqbf

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Evaluator computes the inverse QBF (-f(x)) of solutions and the delta
// costs of insertion, removal and exchange moves. It keeps a scratch
// assignment vector and is not safe for concurrent use.
type Evaluator struct {
	inst *Instance

	x   []float64
	vec *mat.VecDense

	a      []float64
	stride int
}

func NewEvaluator(inst *Instance) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	raw := inst.A.RawMatrix()
	x := make([]float64, inst.N)
	return &Evaluator{
		inst:   inst,
		x:      x,
		vec:    mat.NewVecDense(inst.N, x),
		a:      raw.Data,
		stride: raw.Stride,
	}, nil
}

func (e *Evaluator) Instance() *Instance { return e.inst }

func (e *Evaluator) DomainSize() int { return e.inst.N }

func (e *Evaluator) Weights() []float64 { return e.inst.Weights }

func (e *Evaluator) Capacity() float64 { return e.inst.Capacity }

func (e *Evaluator) at(i, j int) float64 { return e.a[i*e.stride+j] }

func (e *Evaluator) setVariables(sol *Solution) {
	for i := range e.x {
		e.x[i] = 0
	}
	for _, el := range sol.Elements {
		e.x[el] = 1
	}
}

// Evaluate recomputes sol.Cost and sol.UsedCapacity from scratch and
// returns the cost.
func (e *Evaluator) Evaluate(sol *Solution) float64 {
	e.setVariables(sol)
	sol.Cost = -mat.Inner(e.vec, e.inst.A, e.vec)

	used := 0.0
	for _, el := range sol.Elements {
		used += e.inst.Weights[el]
	}
	sol.UsedCapacity = used
	return sol.Cost
}

// Cost evaluates a solution after validating it against the instance.
func (e *Evaluator) Cost(sol *Solution) (float64, error) {
	if e == nil || e.inst == nil {
		return 0, fmt.Errorf("nil evaluator")
	}
	if err := ValidateSolution(sol, e.inst); err != nil {
		return 0, err
	}
	return e.Evaluate(sol), nil
}

func (e *Evaluator) MustCost(sol *Solution) float64 {
	c, err := e.Cost(sol)
	if err != nil {
		panic(err)
	}
	return c
}

// InsertionCost is the change of the inverse cost when el is added.
// Zero if el is already selected.
func (e *Evaluator) InsertionCost(el int, sol *Solution) float64 {
	e.setVariables(sol)
	return e.insertion(el)
}

// RemovalCost is the change of the inverse cost when el is dropped.
// Zero if el is not selected.
func (e *Evaluator) RemovalCost(el int, sol *Solution) float64 {
	e.setVariables(sol)
	return e.removal(el)
}

// ExchangeCost is the change of the inverse cost when in replaces out.
func (e *Evaluator) ExchangeCost(in, out int, sol *Solution) float64 {
	e.setVariables(sol)
	if in == out {
		return 0
	}
	if e.x[in] == 1 {
		return e.removal(out)
	}
	if e.x[out] == 0 {
		return e.insertion(in)
	}
	return -(e.contribution(in) - e.contribution(out) - (e.at(in, out) + e.at(out, in)))
}

func (e *Evaluator) insertion(el int) float64 {
	if e.x[el] == 1 {
		return 0
	}
	return -e.contribution(el)
}

func (e *Evaluator) removal(el int) float64 {
	if e.x[el] == 0 {
		return 0
	}
	return e.contribution(el)
}

// contribution is the part of f(x) that depends on x[i] when x[i]=1,
// given the current assignment of all other variables.
func (e *Evaluator) contribution(i int) float64 {
	sum := e.at(i, i)
	for j, xj := range e.x {
		if j == i || xj == 0 {
			continue
		}
		sum += e.at(i, j) + e.at(j, i)
	}
	return sum
}
