package kqbf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gonum.org/v1/gonum/mat"
)

// Load reads an instance file. Files with a .json extension are parsed
// with ParseJSON, everything else with ParseText.
func Load(path string) (*Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance %q: %w", path, err)
	}
	var inst *Instance
	if strings.EqualFold(filepath.Ext(path), ".json") {
		inst, err = ParseJSON(data)
	} else {
		inst, err = ParseText(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parse instance %q: %w", path, err)
	}
	return inst, nil
}

// ParseText reads the whitespace separated instance format:
//
//	n
//	capacity
//	w[0] ... w[n-1]
//	a[0][0] a[0][1] ... a[0][n-1]
//	a[1][1] ... a[1][n-1]
//	...
//	a[n-1][n-1]
//
// Only the upper triangle of the coefficient matrix is stored.
func ParseText(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	next := func(what string) (float64, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("%w: unexpected end of input reading %s", ErrInvalidInstance, what)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidInstance, what, err)
		}
		return v, nil
	}

	nf, err := next("n")
	if err != nil {
		return nil, err
	}
	if nf <= 0 || nf > math.MaxInt32 || nf != math.Trunc(nf) {
		return nil, fmt.Errorf("%w: n must be a positive integer <= %d (got %v)", ErrInvalidInstance, math.MaxInt32, nf)
	}
	n := int(nf)

	capacity, err := next("capacity")
	if err != nil {
		return nil, err
	}

	// Grow with the input so memory is bounded by what was read, not by n.
	var weights []float64
	for i := 0; i < n; i++ {
		w, err := next(fmt.Sprintf("weight %d", i))
		if err != nil {
			return nil, err
		}
		weights = append(weights, w)
	}

	var upper []float64
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v, err := next(fmt.Sprintf("a[%d][%d]", i, j))
			if err != nil {
				return nil, err
			}
			upper = append(upper, v)
		}
	}

	a := mat.NewDense(n, n, nil)
	k := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a.Set(i, j, upper[k])
			k++
		}
	}

	return NewInstance(n, capacity, weights, a)
}

// ParseJSON reads {"n":..,"capacity":..,"weights":[..],"matrix":[[..],..]}
// with a full n×n matrix.
func ParseJSON(data []byte) (*Instance, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidInstance)
	}
	return fromJSON(gjson.ParseBytes(data))
}

// ParseJSONResult builds an instance from an already parsed json object.
func ParseJSONResult(doc gjson.Result) (*Instance, error) {
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: instance must be a json object", ErrInvalidInstance)
	}
	return fromJSON(doc)
}

func fromJSON(doc gjson.Result) (*Instance, error) {
	nr := doc.Get("n")
	if !nr.Exists() {
		return nil, fmt.Errorf("%w: missing field n", ErrInvalidInstance)
	}
	n := int(nr.Int())
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be > 0 (got %s)", ErrInvalidInstance, nr.Raw)
	}

	cr := doc.Get("capacity")
	if !cr.Exists() {
		return nil, fmt.Errorf("%w: missing field capacity", ErrInvalidInstance)
	}

	wr := doc.Get("weights").Array()
	if len(wr) != n {
		return nil, fmt.Errorf("%w: weights length must be n=%d (got %d)", ErrInvalidInstance, n, len(wr))
	}
	weights := make([]float64, n)
	for i, w := range wr {
		weights[i] = w.Float()
	}

	rows := doc.Get("matrix").Array()
	if len(rows) != n {
		return nil, fmt.Errorf("%w: matrix must have n=%d rows (got %d)", ErrInvalidInstance, n, len(rows))
	}
	a := mat.NewDense(n, n, nil)
	for i, row := range rows {
		cols := row.Array()
		if len(cols) != n {
			return nil, fmt.Errorf("%w: matrix row %d must have n=%d values (got %d)", ErrInvalidInstance, i, n, len(cols))
		}
		for j, v := range cols {
			a.Set(i, j, v.Float())
		}
	}

	return NewInstance(n, cr.Float(), weights, a)
}
