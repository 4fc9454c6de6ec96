// Package sweep runs simulation grids over parameter ranges. Each grid
// point is an independent pure simulation, so points execute in
// parallel with no coordination.
package sweep

import (
	"context"
	"math"
	"sync"

	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/stats"
)

// Point is one grid cell: the parameter pair, the extracted metric and
// any simulation error.
type Point struct {
	Beta   float64
	Gamma  float64
	Metric stats.Value
	Err    error
}

// Grid sweeps a base request over beta and gamma ranges, extracting one
// named metric per run.
type Grid struct {
	Base   experiment.Request
	Betas  []float64
	Gammas []float64
	Metric string
}

// Range builds n evenly spaced values over [lo, hi] inclusive.
func Range(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Run evaluates every (beta, gamma) combination. Results come back in
// row-major order (betas outer, gammas inner) regardless of scheduling.
func (g *Grid) Run(ctx context.Context) []Point {
	gammas := g.Gammas
	if len(gammas) == 0 {
		gammas = []float64{g.Base.Gamma}
	}

	points := make([]Point, len(g.Betas)*len(gammas))
	for i, beta := range g.Betas {
		for j, gamma := range gammas {
			points[i*len(gammas)+j] = Point{Beta: beta, Gamma: gamma}
		}
	}

	parallelFor(len(points), 4, func(start, end int) {
		for idx := start; idx < end; idx++ {
			p := &points[idx]

			req := g.Base
			req.Beta = p.Beta
			req.Gamma = p.Gamma

			resp, err := experiment.Simulate(ctx, req)
			if err != nil {
				p.Err = err
				continue
			}
			p.Metric = resp.Stats.Get(g.Metric)
		}
	})

	return points
}

// Best returns the point with the largest (or smallest) defined metric.
// The second return is false when no point produced a defined value.
func Best(points []Point, maximize bool) (Point, bool) {
	best := math.Inf(-1)
	if !maximize {
		best = math.Inf(1)
	}
	var found Point
	ok := false

	for _, p := range points {
		if p.Err != nil || !p.Metric.Defined {
			continue
		}
		v := p.Metric.Num
		if (maximize && v > best) || (!maximize && v < best) {
			best = v
			found = p
			ok = true
		}
	}
	return found, ok
}

// parallelFor splits [0, n) across a bounded set of goroutines.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := 4
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
