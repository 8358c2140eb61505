package kqbf

import (
	"fmt"
	"math/rand"
	"slices"
)

// Solution is an ordered set of selected element indices with the cost
// and used capacity of its last full evaluation. Cost is the inverse
// objective (-f(x)), so lower is better.
type Solution struct {
	Elements     []int
	Cost         float64
	UsedCapacity float64
}

// NewSolution returns an empty solution; the all-zero assignment costs 0.
func NewSolution() *Solution {
	return &Solution{Elements: make([]int, 0)}
}

func (s *Solution) Len() int { return len(s.Elements) }

func (s *Solution) Contains(e int) bool {
	return slices.Contains(s.Elements, e)
}

func (s *Solution) Add(e int) {
	s.Elements = append(s.Elements, e)
}

// Remove deletes e keeping the order of the remaining elements.
func (s *Solution) Remove(e int) bool {
	i := slices.Index(s.Elements, e)
	if i < 0 {
		return false
	}
	s.Elements = slices.Delete(s.Elements, i, i+1)
	return true
}

func (s *Solution) Clone() *Solution {
	return &Solution{
		Elements:     slices.Clone(s.Elements),
		Cost:         s.Cost,
		UsedCapacity: s.UsedCapacity,
	}
}

// Value is the maximized objective f(x). An empty solution yields +0, not -0.
func (s *Solution) Value() float64 { return 0 - s.Cost }

func (s *Solution) String() string {
	return fmt.Sprintf("Solution: cost=[%v], size=[%d], usedCapacity=[%v], elements=%v",
		s.Cost, len(s.Elements), s.UsedCapacity, s.Elements)
}

func ValidateSolution(sol *Solution, inst *Instance) error {
	if sol == nil {
		return fmt.Errorf("solution is nil")
	}
	seen := make([]bool, inst.N)
	used := 0.0
	for i, e := range sol.Elements {
		if e < 0 || e >= inst.N {
			return fmt.Errorf("elements[%d]=%d out of range [0,%d)", i, e, inst.N)
		}
		if seen[e] {
			return fmt.Errorf("duplicate element %d in solution", e)
		}
		seen[e] = true
		used += inst.Weights[e]
	}
	if used > inst.Capacity {
		return fmt.Errorf("used capacity %v exceeds capacity %v", used, inst.Capacity)
	}
	return nil
}

// RandomSolution visits the elements in random order and takes every one
// that still fits into the remaining capacity.
func RandomSolution(eval *Evaluator, rng *rand.Rand) *Solution {
	sol := NewSolution()
	free := eval.Capacity()
	for _, el := range rng.Perm(eval.DomainSize()) {
		if w := eval.Weights()[el]; w <= free {
			sol.Add(el)
			free -= w
		}
	}
	eval.Evaluate(sol)
	return sol
}
