package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"k8s.io/klog/v2"

	"kqbf/internal/kqbf"
	"kqbf/internal/opt"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// move — соседнее решение: in добавляется, out удаляется (-1, если нет).
type move struct {
	in, out int
	delta   float64
}

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, inst *kqbf.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	// Оценка значения целевой функции
	eval, err := kqbf.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	n := inst.N

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerElement * n
	}

	// Инициализация текущего решения случайным допустимым
	curr := kqbf.RandomSolution(eval, s.Rng)
	selected := make([]bool, n)
	for _, el := range curr.Elements {
		selected[el] = true
	}

	best := curr.Clone()
	evals := 1
	T := s.Cfg.InitialTemp

	iter := 0
	for ; iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			res := opt.FromSolution(best, evals, iter, map[string]any{
				"stopped": "context",
				"T":       T,
			})
			res.Duration = time.Since(start)
			return res, err
		}

		var (
			mv move
			ok bool
		)
		switch s.Cfg.Neighborhood {
		case NeighborhoodSwap:
			// Окрестность на основе обмена элементов
			mv, ok = neighborSwap(eval, curr, selected, s.Rng)
			if !ok {
				mv, ok = neighborFlip(eval, curr, selected, s.Rng)
			}
		default:
			// Окрестность на основе вставки/удаления элемента
			mv, ok = neighborFlip(eval, curr, selected, s.Rng)
		}

		if ok {
			evals++

			accept := false
			if mv.delta <= 0 {
				// Улучшающее решение принимаем всегда
				accept = true
			} else {
				// Критерий Метрополиса:
				// допускает принятие ухудшающих решений
				p := math.Exp(-mv.delta / T)
				if s.Rng.Float64() < p {
					accept = true
				}
			}

			if accept {
				applyMove(eval, curr, selected, mv)

				// Обновление глобально лучшего решения
				if curr.Cost < best.Cost {
					best = curr.Clone()
				}
			}
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	// Пересчёт стоимости лучшего решения без накопленной погрешности
	eval.Evaluate(best)

	klog.FromContext(ctx).V(1).Info("Имитация отжига завершена", "value", best.Value(), "iterations", iter, "T", T)

	res := opt.FromSolution(best, evals, iter, map[string]any{
		"initial_temp": s.Cfg.InitialTemp,
		"final_temp":   s.Cfg.FinalTemp,
		"alpha":        s.Cfg.Alpha,
		"neighborhood": string(s.Cfg.Neighborhood),
	})
	res.Duration = time.Since(start)
	return res, nil
}

// neighborFlip выбирает случайный элемент: выбранный удаляется,
// невыбранный добавляется, если помещается.
func neighborFlip(eval *kqbf.Evaluator, sol *kqbf.Solution, selected []bool, rng *rand.Rand) (move, bool) {
	el := rng.Intn(len(selected))
	if selected[el] {
		return move{in: -1, out: el, delta: eval.RemovalCost(el, sol)}, true
	}
	if eval.Weights()[el] > eval.Capacity()-sol.UsedCapacity {
		return move{}, false
	}
	return move{in: el, out: -1, delta: eval.InsertionCost(el, sol)}, true
}

// neighborSwap заменяет случайный выбранный элемент случайным невыбранным
// при сохранении ограничения по ёмкости.
func neighborSwap(eval *kqbf.Evaluator, sol *kqbf.Solution, selected []bool, rng *rand.Rand) (move, bool) {
	n := len(selected)
	if sol.Len() == 0 || sol.Len() == n {
		return move{}, false
	}
	out := sol.Elements[rng.Intn(sol.Len())]
	in := rng.Intn(n)
	for selected[in] {
		in = rng.Intn(n)
	}
	w := eval.Weights()
	if sol.UsedCapacity-w[out]+w[in] > eval.Capacity() {
		return move{}, false
	}
	return move{in: in, out: out, delta: eval.ExchangeCost(in, out, sol)}, true
}

// applyMove применяет ход с инкрементальным пересчётом стоимости.
func applyMove(eval *kqbf.Evaluator, sol *kqbf.Solution, selected []bool, mv move) {
	w := eval.Weights()
	if mv.out >= 0 {
		sol.Remove(mv.out)
		selected[mv.out] = false
		sol.UsedCapacity -= w[mv.out]
	}
	if mv.in >= 0 {
		sol.Add(mv.in)
		selected[mv.in] = true
		sol.UsedCapacity += w[mv.in]
	}
	sol.Cost += mv.delta
}
