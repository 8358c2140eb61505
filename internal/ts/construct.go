package ts

import "kqbf/internal/kqbf"

// buildCandidates записывает в dst все элементы вне решения,
// вес которых не превышает свободную ёмкость, в порядке возрастания.
// mark — вспомогательный буфер длины n.
func buildCandidates(dst []int, eval *kqbf.Evaluator, sol *kqbf.Solution, mark []bool) []int {
	for i := range mark {
		mark[i] = false
	}
	for _, el := range sol.Elements {
		mark[el] = true
	}

	free := eval.Capacity() - sol.UsedCapacity
	weights := eval.Weights()

	dst = dst[:0]
	for el := 0; el < eval.DomainSize(); el++ {
		if !mark[el] && weights[el] <= free {
			dst = append(dst, el)
		}
	}
	return dst
}

// Greedy — конструктивная эвристика.
// Начиная с пустого решения, добавляет кандидата с наименьшей дельтой
// (при равенстве первого по номеру), пока дельта строго отрицательна.
// Возвращает решение и число вычислений целевой функции.
func Greedy(eval *kqbf.Evaluator) (*kqbf.Solution, int) {
	sol := kqbf.NewSolution()
	evals := 0

	mark := make([]bool, eval.DomainSize())
	var cl []int
	for {
		cl = buildCandidates(cl, eval, sol, mark)

		bestEl, bestDelta := -1, 0.0
		for _, el := range cl {
			delta := eval.InsertionCost(el, sol)
			evals++
			if delta < bestDelta {
				bestEl, bestDelta = el, delta
			}
		}
		if bestEl < 0 {
			break
		}

		sol.Add(bestEl)
		eval.Evaluate(sol)
		evals++
	}
	return sol, evals
}
