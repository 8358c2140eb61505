package ts

import (
	"math"
	"math/rand"
	"slices"
)

// rebuildCandidates пересобирает список кандидатов на вставку.
func (s *search) rebuildCandidates() {
	s.cl = buildCandidates(s.cl, s.eval, s.sol, s.mark)
}

// restrictCandidates оставляет случайные k из [0, |CL|) кандидатов.
// Сокращение действует только на текущий ход.
func (s *search) restrictCandidates(rng *rand.Rand) {
	if len(s.cl) == 0 {
		return
	}
	k := rng.Intn(len(s.cl))
	shufflePermutation(s.cl, rng)
	s.cl = s.cl[:k]
}

// move выполняет один ход табу-поиска: лучшая допустимая вставка,
// удаление или обмен с учётом табу и критерия аспирации.
func (s *search) move(rng *rand.Rand) {
	s.rebuildCandidates()
	if s.cfg.Probabilistic {
		s.restrictCandidates(rng)
	}

	minDelta := math.Inf(1)
	bestIn, bestOut := none, none

	// Вставки
	for _, in := range s.cl {
		delta := s.eval.InsertionCost(in, s.sol)
		s.evals++
		if !s.tl.Contains(in) || s.aspires(delta) {
			if delta < minDelta {
				minDelta = delta
				bestIn, bestOut = some(in), none
			}
		}
	}
	// Удаления
	for _, out := range s.sol.Elements {
		delta := s.eval.RemovalCost(out, s.sol)
		s.evals++
		if !s.tl.Contains(out) || s.aspires(delta) {
			if delta < minDelta {
				minDelta = delta
				bestIn, bestOut = none, some(out)
			}
		}
	}
	// Обмены
	for _, in := range s.cl {
		for _, out := range s.sol.Elements {
			delta := s.eval.ExchangeCost(in, out, s.sol)
			s.evals++
			if (!s.tl.Contains(in) && !s.tl.Contains(out)) || s.aspires(delta) {
				if delta < minDelta {
					minDelta = delta
					bestIn, bestOut = some(in), some(out)
				}
			}
		}
	}

	// Применение хода. Каждый ход занимает две ячейки табу-памяти,
	// пустая сторона хода записывается пустой ячейкой.
	s.tl.EvictOldest()
	if bestOut.set {
		s.sol.Remove(bestOut.elem)
		s.cl = append(s.cl, bestOut.elem)
	}
	s.tl.Push(bestOut)

	s.tl.EvictOldest()
	if bestIn.set {
		s.sol.Add(bestIn.elem)
		if i := slices.Index(s.cl, bestIn.elem); i >= 0 {
			s.cl = slices.Delete(s.cl, i, i+1)
		}
	}
	s.tl.Push(bestIn)

	s.eval.Evaluate(s.sol)
	s.evals++
}

// aspires — критерий аспирации: ход даёт новое лучшее решение.
func (s *search) aspires(delta float64) bool {
	return s.sol.Cost+delta < s.best.Cost
}

// shufflePermutation выполняет случайную перестановку элементов.
func shufflePermutation(p []int, rng *rand.Rand) {
	for i := len(p) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}
