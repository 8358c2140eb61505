package ga

import (
	"math/rand"

	"kqbf/internal/kqbf"
)

// initChromosome строит случайную допустимую хромосому:
// элементы просматриваются в случайном порядке и берутся, пока помещаются.
func initChromosome(bits []bool, weights []float64, capacity float64, rng *rand.Rand) {
	for i := range bits {
		bits[i] = false
	}
	free := capacity
	for _, el := range rng.Perm(len(bits)) {
		if weights[el] <= free {
			bits[el] = true
			free -= weights[el]
		}
	}
}

// tournamentSelect реализует турнирный отбор.
// возвращается индекс особи с наилучшим значением fitness (минимальное значение целевой функции).
func tournamentSelect(scores []float64, tournamentSize int, rng *rand.Rand) int {
	best := rng.Intn(len(scores))
	bestScore := scores[best]
	for i := 1; i < tournamentSize; i++ {
		cand := rng.Intn(len(scores))
		if scores[cand] < bestScore {
			best = cand
			bestScore = scores[cand]
		}
	}
	return best
}

// uniformCrossover реализует равномерный кроссовер:
// каждый ген потомки берут от случайного родителя.
func uniformCrossover(p1, p2, c1, c2 []bool, rng *rand.Rand) {
	for i := range p1 {
		if rng.Intn(2) == 0 {
			c1[i], c2[i] = p1[i], p2[i]
		} else {
			c1[i], c2[i] = p2[i], p1[i]
		}
	}
}

// mutateFlip инвертирует flips случайных генов.
func mutateFlip(bits []bool, flips int, rng *rand.Rand) {
	for k := 0; k < flips; k++ {
		i := rng.Intn(len(bits))
		bits[i] = !bits[i]
	}
}

// repair жадно восстанавливает допустимость: пока вместимость превышена,
// удаляется элемент с наименьшей потерей целевой функции на единицу веса
// (при равенстве первый по номеру). sol используется как буфер.
func repair(bits []bool, eval *kqbf.Evaluator, sol *kqbf.Solution) {
	decode(bits, sol)
	eval.Evaluate(sol)
	weights := eval.Weights()

	for sol.UsedCapacity > eval.Capacity() {
		worst, worstRatio := -1, 0.0
		for _, el := range sol.Elements {
			w := weights[el]
			if w <= 0 {
				continue
			}
			ratio := eval.RemovalCost(el, sol) / w
			if worst < 0 || ratio < worstRatio {
				worst, worstRatio = el, ratio
			}
		}
		if worst < 0 {
			break
		}
		sol.Remove(worst)
		bits[worst] = false
		eval.Evaluate(sol)
	}
}

// decode переводит хромосому в решение, переиспользуя sol.
func decode(bits []bool, sol *kqbf.Solution) {
	sol.Elements = sol.Elements[:0]
	for i, b := range bits {
		if b {
			sol.Add(i)
		}
	}
}
