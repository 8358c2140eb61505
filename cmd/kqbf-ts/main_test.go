package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kqbf/internal/ts"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_TextInstance(t *testing.T) {
	// всё помещается, все коэффициенты положительны
	path := writeFile(t, "inst.txt", "3\n10\n1 1 1\n1 0 0\n1 0\n1\n")

	var out bytes.Buffer
	res, err := run(context.Background(), options{instance: path, cfg: ts.DefaultConfig()}, &out)
	require.NoError(t, err)

	assert.Equal(t, 3.0, res.Value)
	assert.ElementsMatch(t, []int{0, 1, 2}, res.Elements)
	assert.Contains(t, out.String(), "maxVal = 3")
	assert.Contains(t, out.String(), "Time = ")
}

func TestRun_JSONInstance(t *testing.T) {
	path := writeFile(t, "inst.json", `{"n":2,"capacity":1,"weights":[1,1],"matrix":[[1,0],[0,2]]}`)

	var out bytes.Buffer
	res, err := run(context.Background(), options{instance: path, cfg: ts.DefaultConfig()}, &out)
	require.NoError(t, err)

	assert.Equal(t, 2.0, res.Value)
	assert.Equal(t, []int{1}, res.Elements)
}

func TestRun_Errors(t *testing.T) {
	_, err := run(context.Background(), options{instance: filepath.Join(t.TempDir(), "missing.txt"), cfg: ts.DefaultConfig()}, &bytes.Buffer{})
	require.Error(t, err)

	path := writeFile(t, "inst.txt", "1\n1\n1\n1\n")
	_, err = run(context.Background(), options{instance: path, cfg: ts.Config{}}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRun_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// ошибка загрузки не скрывается прерыванием
	_, err := run(ctx, options{instance: filepath.Join(t.TempDir(), "missing.txt"), cfg: ts.DefaultConfig()}, &bytes.Buffer{})
	require.Error(t, err)

	path := writeFile(t, "inst.txt", "3\n10\n1 1 1\n1 0 0\n1 0\n1\n")
	var out bytes.Buffer
	res, err := run(ctx, options{instance: path, cfg: ts.DefaultConfig()}, &out)
	require.NoError(t, err)
	assert.Equal(t, "context", res.Meta["stopped"])
	assert.Equal(t, 0, res.Iterations)
	assert.Contains(t, out.String(), "maxVal = 0")
}
