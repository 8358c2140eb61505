package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"kqbf/internal/bench"
	"kqbf/internal/ga"
	"kqbf/internal/opt"
	"kqbf/internal/sa"
	"kqbf/internal/ts"
)

// Фабрики

func newGAFactory(cfg ga.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ga.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newTSFactory(cfg ts.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ts.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func main() {
	klog.InitFlags(nil)

	// CLI флаги для настройки параметров алгоритмов и политики запуска
	var (
		out          = flag.String("out", "artifacts/results.csv", "путь к выходному CSV-файлу")
		sizes        = flag.String("sizes", "20,50,100", "размеры экземпляров n (через запятую)")
		algos        = flag.String("algos", "TS,SA,GA", "список алгоритмов: TS, SA, GA (через запятую)")
		runs         = flag.Int("runs", 30, "количество запусков каждого алгоритма (с разными сидами)")
		baseSeed     = flag.Int64("seed", 1000, "базовый сид для запусков алгоритмов")
		instanceSeed = flag.Int64("instance_seed", 777, "базовый сид для генерации экземпляров задачи (фиксирован для конфигурации)")
		perRunTO     = flag.Duration("per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")
		workers      = flag.Int("workers", 1, "количество одновременных запусков")

		// --- Генерация экземпляров ---
		maxCoef  = flag.Int("max_coef", 10, "коэффициенты матрицы в диапазоне [-max_coef, max_coef]")
		maxW     = flag.Int("max_weight", 20, "веса элементов в диапазоне [1, max_weight]")
		capRatio = flag.Float64("capacity_ratio", 0.5, "вместимость как доля суммы весов")

		// --- Табу-поиск ---
		tsTenure = flag.Int("ts_tenure", 20, "срок табу (длина списка = 2 × tenure)")
		tsIter   = flag.Int("ts_iter", 5000, "количество итераций")
		tsTime   = flag.Int("ts_max_time", 1800, "лимит времени одного запуска, секунды")
		tsProb   = flag.Bool("ts_probabilistic", false, "вероятностное сокращение списка кандидатов")
		tsDiv    = flag.Bool("ts_diversification", true, "диверсификация по частотам")

		// --- Алгоритм имитации отжига ---
		saIterPerElem = flag.Int("sa_iter_per_elem", 1000, "количество итераций на один элемент (используется, если sa_iter == 0)")
		saIter        = flag.Int("sa_iter", 0, "общее количество итераций (0 => sa_iter_per_elem × n)")
		saT0          = flag.Float64("sa_t0", 100.0, "начальная температура")
		saTmin        = flag.Float64("sa_tmin", 0.01, "конечная температура")
		saAlpha       = flag.Float64("sa_alpha", 0.999, "коэффициент охлаждения (alpha)")
		saNeigh       = flag.String("sa_neigh", "flip", "тип окрестности: flip | swap")

		// --- Генетический алгоритм ---
		gaPop   = flag.Int("ga_pop", 100, "размер популяции")
		gaGen   = flag.Int("ga_gen", 300, "количество поколений")
		gaElite = flag.Int("ga_elite", 2, "размер элиты (количество лучших особей)")
		gaTour  = flag.Int("ga_tour", 3, "размер турнирной выборки")
		gaCx    = flag.Float64("ga_cx", 0.90, "вероятность применения кроссовера")
		gaMut   = flag.Float64("ga_mut", 0.30, "вероятность мутации")
		gaFlips = flag.Int("ga_flips", 2, "количество инвертируемых генов при мутации")
	)
	flag.Parse()
	defer klog.Flush()

	batch := uuid.NewString()
	logger := klog.Background().WithValues("batch", batch)
	ctx := klog.NewContext(context.Background(), logger)

	cases, err := parseSizes(*sizes, *maxCoef, *maxW, *capRatio, *instanceSeed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт:", err)
		os.Exit(2)
	}

	tsCfg := ts.Config{
		Tenure:          *tsTenure,
		Iterations:      *tsIter,
		MaxTimeSeconds:  *tsTime,
		Probabilistic:   *tsProb,
		Diversification: *tsDiv,
	}
	if err := tsCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации табу-поиска:", err)
		os.Exit(2)
	}

	saCfg := sa.Config{
		Iterations:           *saIter,
		IterationsPerElement: *saIterPerElem,
		InitialTemp:          *saT0,
		FinalTemp:            *saTmin,
		Alpha:                *saAlpha,
		Neighborhood:         sa.Neighborhood(*saNeigh),
	}
	if err := saCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации алгоритма имитации отжига:", err)
		os.Exit(2)
	}

	gaCfg := ga.Config{
		Population:     *gaPop,
		Generations:    *gaGen,
		Elite:          *gaElite,
		TournamentSize: *gaTour,
		CrossoverRate:  *gaCx,
		MutationRate:   *gaMut,
		MutationFlips:  *gaFlips,
	}
	if err := gaCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации генетического алгоритма:", err)
		os.Exit(2)
	}

	available := map[string]bench.Algorithm{
		"TS": {Name: "TS", Factory: newTSFactory(tsCfg)},
		"SA": {Name: "SA", Factory: newSAFactory(saCfg)},
		"GA": {Name: "GA", Factory: newGAFactory(gaCfg)},
	}

	var selected []bench.Algorithm
	for _, a := range splitCSV(*algos) {
		al, ok := available[a]
		if !ok {
			fmt.Fprintf(os.Stderr, "Алгоритм не предоставлен в программе %q; доступные: %v\n", a, keys(available))
			os.Exit(2)
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          *runs,
		BaseSeed:      *baseSeed,
		PerRunTimeout: *perRunTO,
		Workers:       *workers,
		Batch:         batch,
	}

	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			logger.Info("Запуск алгоритма", "algo", a.Name, "n", c.N, "runs", runner.Runs, "workers", runner.Workers)

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				logger.Error(err, "Ошибка запуска", "algo", a.Name, "n", c.N)
				klog.FlushAndExit(klog.ExitFlushTimeout, 1)
			}
			records = append(records, rec)

			fmt.Printf("%s n=%d: значение целевой функции: лучшее=%.2f среднее=%.2f стандартное отклонение=%.2f | Время: среднее=%.2fms стандартное отклонение=%.2fms\n",
				a.Name, c.N,
				rec.ValueBest, rec.ValueMean, rec.ValueStd,
				rec.TimeMeanMs, rec.TimeStdMs,
			)
		}
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		logger.Error(err, "Ошибка при записи в CSV", "path", *out)
		klog.FlushAndExit(klog.ExitFlushTimeout, 1)
	}
	fmt.Println("Saved:", *out)
}

// helpers

func parseSizes(s string, maxCoef, maxWeight int, capRatio float64, baseInstanceSeed int64) ([]bench.Case, error) {
	if maxCoef < 0 || maxWeight < 1 || capRatio <= 0 {
		return nil, fmt.Errorf("некорректные параметры генерации: max_coef=%d max_weight=%d capacity_ratio=%f", maxCoef, maxWeight, capRatio)
	}

	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		n, err := atoiStrict(p)
		if err != nil {
			return nil, fmt.Errorf("размер %q: ошибка парсинга: %w", p, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("размер %q: n должно быть > 0", p)
		}

		cases = append(cases, bench.Case{
			N:             n,
			MaxCoef:       maxCoef,
			MaxWeight:     maxWeight,
			CapacityRatio: capRatio,
			InstanceSeed:  baseInstanceSeed + int64(i)*10_000 + int64(n),
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
