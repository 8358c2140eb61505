package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"kqbf/internal/kqbf"
	"kqbf/internal/opt"
	"kqbf/internal/ts"
)

type options struct {
	instance string
	seed     int64
	cfg      ts.Config
}

// run загружает экземпляр, выполняет табу-поиск и печатает результат в w.
// Прерывание поиска через ctx не считается ошибкой: печатается лучшее
// найденное решение, Meta["stopped"] = "context".
func run(ctx context.Context, o options, w io.Writer) (opt.Result, error) {
	inst, err := kqbf.Load(o.instance)
	if err != nil {
		return opt.Result{}, fmt.Errorf("загрузка экземпляра %q: %w", o.instance, err)
	}

	solver, err := ts.New(o.cfg, rand.New(rand.NewSource(o.seed)))
	if err != nil {
		return opt.Result{}, err
	}

	res, err := solver.Solve(ctx, inst)
	if err != nil && res.Meta["stopped"] != "context" {
		return opt.Result{}, err
	}

	fmt.Fprintf(w, "maxVal = %v\n", res.Value)
	fmt.Fprintf(w, "elements = %v\n", res.Elements)
	fmt.Fprintf(w, "usedCapacity = %v / %v\n", res.UsedCapacity, inst.Capacity)
	fmt.Fprintf(w, "Time = %.3f seg\n", res.Duration.Seconds())
	return res, nil
}

func main() {
	klog.InitFlags(nil)

	def := ts.DefaultConfig()
	var (
		instance = flag.String("instance", "", "путь к экземпляру задачи (.json или текстовый формат)")
		seed     = flag.Int64("seed", 0, "сид генератора случайных чисел")
		tenure   = flag.Int("tenure", def.Tenure, "срок табу (длина списка = 2 × tenure)")
		iters    = flag.Int("iterations", def.Iterations, "количество итераций")
		maxTime  = flag.Int("max_time", def.MaxTimeSeconds, "лимит времени, секунды")
		prob     = flag.Bool("probabilistic", def.Probabilistic, "вероятностное сокращение списка кандидатов")
		div      = flag.Bool("diversification", def.Diversification, "диверсификация по частотам")
	)
	flag.Parse()
	defer klog.Flush()

	if *instance == "" {
		fmt.Fprintln(os.Stderr, "не задан путь к экземпляру: -instance")
		os.Exit(2)
	}

	logger := klog.Background().WithValues("run", uuid.NewString())
	ctx, stop := signal.NotifyContext(klog.NewContext(context.Background(), logger), os.Interrupt)
	defer stop()

	o := options{
		instance: *instance,
		seed:     *seed,
		cfg: ts.Config{
			Tenure:          *tenure,
			Iterations:      *iters,
			MaxTimeSeconds:  *maxTime,
			Probabilistic:   *prob,
			Diversification: *div,
		},
	}

	res, err := run(ctx, o, os.Stdout)
	if err != nil {
		klog.ErrorS(err, "Табу-поиск завершился с ошибкой", "instance", *instance)
		klog.FlushAndExit(klog.ExitFlushTimeout, 1)
	}
	logger.Info("Готово", "instance", *instance, "value", res.Value, "iterations", res.Iterations, "stopped", res.Meta["stopped"])
}
