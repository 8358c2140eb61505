package ga

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"k8s.io/klog/v2"

	"kqbf/internal/kqbf"
	"kqbf/internal/opt"
)

// Solver — реализация генетического алгоритма для KQBF.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый GA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, inst *kqbf.Instance) (opt.Result, error) {
	start := time.Now()

	// Проверка корректности входных данных и конфигурации
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	// Оценщик значения целевой функции
	eval, err := kqbf.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	n := inst.N
	popSize := s.Cfg.Population
	weights := inst.Weights
	capacity := inst.Capacity

	// Вспомогательная анонимная функция для создания популяции хромосом
	makePop := func() [][]bool {
		backing := make([]bool, popSize*n)
		pop := make([][]bool, popSize)
		for i := 0; i < popSize; i++ {
			pop[i] = backing[i*n : (i+1)*n]
		}
		return pop
	}

	// Две популяции: текущая (A) и следующая (B)
	popA := makePop()
	popB := makePop()
	scoresA := make([]float64, popSize)
	scoresB := make([]float64, popSize)

	// Буфер для декодирования и оценки хромосом
	sol := kqbf.NewSolution()
	score := func(bits []bool) float64 {
		decode(bits, sol)
		return eval.Evaluate(sol)
	}

	// Инициализация начальной популяции
	for i := 0; i < popSize; i++ {
		initChromosome(popA[i], weights, capacity, s.Rng)
		scoresA[i] = score(popA[i])
	}
	evaluations := popSize

	// Поиск лучшего решения в начальной популяции
	bestBits := make([]bool, n)
	bestCost := scoresA[0]
	copy(bestBits, popA[0])
	for i := 1; i < popSize; i++ {
		if scoresA[i] < bestCost {
			bestCost = scoresA[i]
			copy(bestBits, popA[i])
		}
	}

	bestResult := func(gens int, meta map[string]any) opt.Result {
		best := kqbf.NewSolution()
		decode(bestBits, best)
		eval.Evaluate(best)
		res := opt.FromSolution(best, evaluations, gens, meta)
		res.Duration = time.Since(start)
		return res
	}

	// Временный буфер для второго потомка,
	// если в популяции остаётся нечётное число мест
	scratchChild := make([]bool, n)
	repairSol := kqbf.NewSolution()

	// Индексы для сортировки популяции по приспособленности
	idxs := make([]int, popSize)
	for i := range idxs {
		idxs[i] = i
	}

	for gen := 0; gen < s.Cfg.Generations; gen++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return bestResult(gen, map[string]any{"stopped": "context"}), err
		}

		// Сортировка индексов по возрастанию значения целевой функции
		sort.Slice(idxs, func(i, j int) bool {
			return scoresA[idxs[i]] < scoresA[idxs[j]]
		})

		write := 0

		// Элитизм (переносим лучших особей без изменений)
		for e := 0; e < s.Cfg.Elite; e++ {
			src := idxs[e]
			copy(popB[write], popA[src])
			scoresB[write] = scoresA[src]
			write++
		}

		// Генерация остальных особей нового поколения
		for write < popSize {
			// Турнирный отбор
			p1 := tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			p2 := tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			if popSize > 1 {
				for p2 == p1 {
					p2 = tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
				}
			}

			child1 := popB[write]
			hasSecond := write+1 < popSize
			child2 := scratchChild
			if hasSecond {
				child2 = popB[write+1]
			}

			// Кроссовер
			if s.Rng.Float64() < s.Cfg.CrossoverRate {
				uniformCrossover(popA[p1], popA[p2], child1, child2, s.Rng)
			} else {
				copy(child1, popA[p1])
				copy(child2, popA[p2])
			}

			// Мутация
			if s.Rng.Float64() < s.Cfg.MutationRate {
				mutateFlip(child1, s.Cfg.MutationFlips, s.Rng)
			}
			if hasSecond && s.Rng.Float64() < s.Cfg.MutationRate {
				mutateFlip(child2, s.Cfg.MutationFlips, s.Rng)
			}

			// Восстановление допустимости и оценка потомков
			repair(child1, eval, repairSol)
			c1 := score(child1)
			scoresB[write] = c1
			evaluations++
			if c1 < bestCost {
				bestCost = c1
				copy(bestBits, child1)
			}
			write++

			if hasSecond {
				repair(child2, eval, repairSol)
				c2 := score(child2)
				scoresB[write] = c2
				evaluations++
				if c2 < bestCost {
					bestCost = c2
					copy(bestBits, child2)
				}
				write++
			}
		}

		// Смена поколений
		popA, popB = popB, popA
		scoresA, scoresB = scoresB, scoresA
	}

	klog.FromContext(ctx).V(1).Info("Генетический алгоритм завершён", "value", -bestCost, "generations", s.Cfg.Generations)

	return bestResult(s.Cfg.Generations, map[string]any{
		"population":  s.Cfg.Population,
		"generations": s.Cfg.Generations,
		"elite":       s.Cfg.Elite,
	}), nil
}
