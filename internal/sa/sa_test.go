package sa

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kqbf/internal/kqbf"
)

func testConfig(neigh Neighborhood) Config {
	return Config{
		Iterations:   3000,
		InitialTemp:  10,
		FinalTemp:    0.01,
		Alpha:        0.998,
		Neighborhood: neigh,
	}
}

func TestSolve_FeasibleAndConsistent(t *testing.T) {
	inst := kqbf.RandomInstance(40, 10, 8, 0.4, rand.New(rand.NewSource(21)))
	eval, err := kqbf.NewEvaluator(inst)
	require.NoError(t, err)

	for _, neigh := range []Neighborhood{NeighborhoodFlip, NeighborhoodSwap} {
		t.Run(string(neigh), func(t *testing.T) {
			solver, err := New(testConfig(neigh), rand.New(rand.NewSource(1)))
			require.NoError(t, err)

			res, err := solver.Solve(context.Background(), inst)
			require.NoError(t, err)

			sol := &kqbf.Solution{Elements: res.Elements}
			require.NoError(t, kqbf.ValidateSolution(sol, inst))
			assert.InDelta(t, eval.Evaluate(sol), res.Cost, 1e-9)
			assert.InDelta(t, sol.UsedCapacity, res.UsedCapacity, 1e-9)
			assert.Equal(t, -res.Cost, res.Value)
		})
	}
}

func TestSolve_StopsAtFinalTemperature(t *testing.T) {
	cfg := Config{Iterations: 1_000_000, InitialTemp: 1, FinalTemp: 0.5, Alpha: 0.5, Neighborhood: NeighborhoodFlip}
	solver, err := New(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	res, err := solver.Solve(context.Background(), kqbf.RandomInstance(5, 3, 3, 0.5, rand.New(rand.NewSource(2))))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations)
}

func TestSolve_Cancelled(t *testing.T) {
	solver, err := New(testConfig(NeighborhoodFlip), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := solver.Solve(ctx, kqbf.RandomInstance(5, 3, 3, 0.5, rand.New(rand.NewSource(2))))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "context", res.Meta["stopped"])
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := []func(c *Config){
		func(c *Config) { c.Iterations, c.IterationsPerElement = 0, 0 },
		func(c *Config) { c.InitialTemp = 0 },
		func(c *Config) { c.FinalTemp = 0 },
		func(c *Config) { c.FinalTemp = c.InitialTemp },
		func(c *Config) { c.Alpha = 1 },
		func(c *Config) { c.Neighborhood = "insert" },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), "case %d", i)
	}

	_, err := New(DefaultConfig(), nil)
	require.Error(t, err)
}
