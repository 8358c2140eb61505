package ts

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"k8s.io/klog/v2"

	"kqbf/internal/kqbf"
	"kqbf/internal/opt"
)

// Solver - структура реализации табу-поиска для KQBF.
type Solver struct {
	Cfg Config
	Rng *rand.Rand

	// now подменяется в тестах
	now func() time.Time
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// search — состояние одного запуска.
type search struct {
	cfg  Config
	eval *kqbf.Evaluator

	sol  *kqbf.Solution // текущее решение
	best *kqbf.Solution // лучшее известное решение

	cl   []int // список кандидатов
	mark []bool
	tl   *tabuList
	freq []int // частоты элементов в лучшем решении

	period           int
	evals            int
	diversifications int
}

// newSearch строит начальное решение конструктивной эвристикой,
// лучшее решение пустое, с нулевой стоимостью.
func newSearch(eval *kqbf.Evaluator, cfg Config) *search {
	sol, evals := Greedy(eval)
	n := eval.DomainSize()
	return &search{
		cfg:    cfg,
		eval:   eval,
		sol:    sol,
		best:   kqbf.NewSolution(),
		mark:   make([]bool, n),
		tl:     newTabuList(2 * cfg.Tenure),
		freq:   make([]int, n),
		period: cfg.diversificationPeriod(),
		evals:  evals,
	}
}

// iterate выполняет итерацию i основного цикла.
func (s *search) iterate(i int, rng *rand.Rand) (improved, diversified bool) {
	s.move(rng)

	if s.sol.Cost < s.best.Cost {
		s.best = s.sol.Clone()
		improved = true
	}

	if s.period > 0 {
		s.accumulateFrequency()
		if i > 0 && i%s.period == 0 {
			s.diversify()
			diversified = true
		}
	}
	return improved, diversified
}

func (s *Solver) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Solve — основной цикл алгоритма
func (s *Solver) Solve(ctx context.Context, inst *kqbf.Instance) (opt.Result, error) {
	start := s.clock()

	// Валидация входных данных
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	// Оценка целевой функции
	eval, err := kqbf.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	logger := klog.FromContext(ctx).WithValues("solver", "TS")
	logger.V(1).Info("Запуск табу-поиска",
		"n", inst.N,
		"capacity", inst.Capacity,
		"tenure", s.Cfg.Tenure,
		"iterations", s.Cfg.Iterations,
		"probabilistic", s.Cfg.Probabilistic,
		"diversification", s.Cfg.Diversification)

	st := newSearch(eval, s.Cfg)
	deadline := time.Duration(s.Cfg.MaxTimeSeconds) * time.Second

	stopped := "iterations"
	iters := 0
	for i := 0; i < s.Cfg.Iterations; i++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			res := opt.FromSolution(st.best, st.evals, i, map[string]any{
				"stopped": "context",
			})
			res.Duration = s.clock().Sub(start)
			return res, err
		}

		improved, diversified := st.iterate(i, s.Rng)
		iters = i + 1

		if improved {
			logger.V(2).Info("Новое лучшее решение", "iter", i, "cost", st.best.Cost, "size", st.best.Len())
		}
		if diversified {
			logger.V(2).Info("Диверсификация", "iter", i, "tabu", st.tl.Len())
		}

		// Лимит времени проверяется только между итерациями
		if s.clock().Sub(start) > deadline {
			logger.Info("Превышен лимит времени, поиск прерван", "iter", i, "maxTimeSeconds", s.Cfg.MaxTimeSeconds)
			stopped = "time"
			break
		}
	}

	res := opt.FromSolution(st.best, st.evals, iters, map[string]any{
		"tenure":           s.Cfg.Tenure,
		"probabilistic":    s.Cfg.Probabilistic,
		"diversification":  s.Cfg.Diversification,
		"diversifications": st.diversifications,
		"stopped":          stopped,
	})
	res.Duration = s.clock().Sub(start)

	logger.V(1).Info("Табу-поиск завершён", "value", res.Value, "size", len(res.Elements), "iterations", iters, "stopped", stopped)
	return res, nil
}
