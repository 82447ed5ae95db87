// Package optim searches gain grids for the lowest scoring combination.
package optim

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyGrid = errors.New("optim: empty grid")

// Evaluate scores one parameter combination; lower is better. It must be
// safe to call from several goroutines.
type Evaluate func(ctx context.Context, params map[string]float64) (float64, error)

// Trial is one evaluated combination.
type Trial struct {
	Params map[string]float64
	Score  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64, workers int) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, errors.Wrapf(ErrEmptyGrid, "%d names for %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, errors.Wrapf(ErrEmptyGrid, "no values for %s", params[i])
		}
	}
	if workers < 1 {
		workers = 1
	}
	return &GridSearch{paramNames: params, ranges: ranges, workers: workers}, nil
}

// Size is the number of combinations in the grid.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every combination and returns the best one together with
// all trials sorted by score. Failed trials score +Inf; Search only fails
// when every trial did, or when ctx is cancelled.
func (g *GridSearch) Search(ctx context.Context, eval Evaluate) (Trial, []Trial, error) {
	var combos []map[string]float64
	g.enumerate(0, map[string]float64{}, &combos)

	trials := make([]Trial, len(combos))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(g.workers)

	var mu sync.Mutex
	var errs error
	for i, params := range combos {
		i, params := i, params
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, err := eval(ctx, params)
			if err != nil || math.IsNaN(score) {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
				score = math.Inf(1)
			}
			trials[i] = Trial{Params: params, Score: score, Err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Trial{}, nil, err
	}

	sort.SliceStable(trials, func(i, j int) bool { return trials[i].Score < trials[j].Score })
	if math.IsInf(trials[0].Score, 1) {
		if errs == nil {
			errs = errors.New("optim: no finite score")
		}
		return Trial{}, trials, errs
	}
	return trials[0], trials, nil
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.enumerate(depth+1, newParams, out)
	}
}
