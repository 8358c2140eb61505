package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sourcegraph/conc/pool"
	"k8s.io/klog/v2"

	"kqbf/internal/kqbf"
	"kqbf/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

// Case — параметры генерации экземпляра задачи.
type Case struct {
	N             int
	MaxCoef       int
	MaxWeight     int
	CapacityRatio float64
	InstanceSeed  int64
}

func (c Case) Instance() *kqbf.Instance {
	return kqbf.RandomInstance(c.N, c.MaxCoef, c.MaxWeight, c.CapacityRatio, rand.New(rand.NewSource(c.InstanceSeed)))
}

type Record struct {
	Batch string
	Algo  string
	N     int
	Runs  int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	// Значения целевой функции (максимизация)
	ValueBest float64
	ValueMean float64
	ValueStd  float64
}

// row — строка CSV в порядке заголовка WriteCSV.
func (r Record) row() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		r.Batch,
		r.Algo,
		strconv.Itoa(r.N),
		strconv.Itoa(r.Runs),
		f(r.TimeBestMs), f(r.TimeMeanMs), f(r.TimeStdMs),
		f(r.ValueBest), f(r.ValueMean), f(r.ValueStd),
	}
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	// Workers — число одновременных запусков; <= 1 означает последовательно
	Workers int
	Batch   string
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	inst := c.Instance()
	logger := klog.FromContext(ctx).WithValues("algo", algo.Name, "n", c.N)

	costs := make([]float64, r.Runs)
	timesMs := make([]float64, r.Runs)

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	// Каждый запуск получает свой солвер и свой генератор;
	// общий только экземпляр задачи (только чтение).
	p := pool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(workers)
	for i := 0; i < r.Runs; i++ {
		p.Go(func(ctx context.Context) error {
			runSeed := r.BaseSeed + int64(i)
			op := algo.Factory(runSeed)

			runCtx := ctx
			cancel := func() {}
			if r.PerRunTimeout > 0 {
				runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
			}
			start := time.Now()
			res, err := op.Solve(runCtx, inst)
			dur := time.Since(start)
			cancel()

			if err != nil && runCtx.Err() != nil {
				return fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
			}
			if err != nil {
				return fmt.Errorf("run %d: solve error: %w", i, err)
			}
			if err := kqbf.ValidateSolution(&kqbf.Solution{Elements: res.Elements}, inst); err != nil {
				return fmt.Errorf("run %d: invalid solution: %w", i, err)
			}

			logger.V(2).Info("Запуск завершён", "run", i, "seed", runSeed, "value", res.Value, "ms", dur.Milliseconds())

			costs[i] = res.Cost
			timesMs[i] = float64(dur.Microseconds()) / 1000.0
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return Record{}, err
	}

	cStats := CalcStats(costs)
	tStats := CalcStats(timesMs)

	return Record{
		Batch: r.Batch,
		Algo:  algo.Name,
		N:     c.N,
		Runs:  r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		ValueBest: -cStats.Best,
		ValueMean: -cStats.Mean,
		ValueStd:  cStats.Std,
	}, nil
}

func WriteCSV(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"batch", "algo", "n", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"value_best", "value_mean", "value_std",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		if err := w.Write(r.row()); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
