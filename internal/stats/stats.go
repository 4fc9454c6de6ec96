// Package stats derives epidemiological summary metrics from completed
// trajectories.
//
// Every metric is recomputed on demand from the trajectory and the
// originating model; nothing is cached here. Threshold-crossing times
// use the earliest raw sample on the discrete grid, never interpolated,
// so their accuracy is bounded by dt.
package stats

import (
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/models"
)

// Value is a metric scalar or a sentinel. Defined=false means the
// metric has no value for this run: a threshold never reached, R0
// undefined for gamma=0, herd immunity not applicable for R0<=1.
type Value struct {
	Num     float64
	Defined bool
}

func Defined(v float64) Value { return Value{Num: v, Defined: true} }

// Undefined is the shared sentinel value.
var Undefined = Value{}

func (v Value) String() string {
	if !v.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.6g", v.Num)
}

// Record maps metric names to values for one trajectory. Order holds
// the names in presentation order.
type Record struct {
	Kind    models.Kind
	Order   []string
	Metrics map[string]Value
}

func newRecord(kind models.Kind) *Record {
	return &Record{Kind: kind, Metrics: make(map[string]Value)}
}

func (r *Record) set(name string, v Value) {
	if _, seen := r.Metrics[name]; !seen {
		r.Order = append(r.Order, name)
	}
	r.Metrics[name] = v
}

// Get returns the named metric, with Defined=false for unknown names.
func (r *Record) Get(name string) Value {
	return r.Metrics[name]
}

// Thresholds used by the per-variant analyses.
const (
	// equilibriumBand is the relative distance from I* that counts as
	// "settled" for SIS.
	equilibriumBand = 0.05
	// epidemicFloor is the infected fraction below which an SIR
	// epidemic is considered over.
	epidemicFloor = 0.001
)

// Analyze computes the model-specific metric record for a trajectory.
func Analyze(m *models.Compartmental, res *epi.Result) (*Record, error) {
	if res == nil || len(res.States) == 0 {
		return nil, fmt.Errorf("stats: empty trajectory")
	}

	switch m.Variant {
	case models.SI:
		return analyzeSI(m, res), nil
	case models.SIS:
		return analyzeSIS(m, res), nil
	case models.SIR:
		return analyzeSIR(m, res), nil
	}
	return nil, fmt.Errorf("stats: unknown model %s", m.Variant)
}

func analyzeSI(m *models.Compartmental, res *epi.Result) *Record {
	rec := newRecord(models.SI)

	infected := res.Series(1)
	final := res.Final()

	rec.set("final_susceptible", Defined(final[0]))
	rec.set("final_infected", Defined(final[1]))

	rec.set("time_to_half", firstTimeAbove(res.Times, infected, 0.5))
	rec.set("time_to_90pct", firstTimeAbove(res.Times, infected, 0.9))
	rec.set("time_to_99pct", firstTimeAbove(res.Times, infected, 0.99))

	rate, at := maxGrowthRate(res.Times, infected)
	rec.set("max_growth_rate", rate)
	rec.set("max_growth_time", at)

	return rec
}

func analyzeSIS(m *models.Compartmental, res *epi.Result) *Record {
	rec := newRecord(models.SIS)

	infected := res.Series(1)
	final := res.Final()

	r0, r0OK := m.R0()
	rec.set("r0", sentinelUnless(r0, r0OK))

	eq, eqOK := m.EndemicEquilibrium()
	rec.set("endemic_equilibrium", sentinelUnless(eq, eqOK))
	rec.set("susceptible_equilibrium", sentinelUnless(1-eq, eqOK))

	rec.set("final_susceptible", Defined(final[0]))
	rec.set("final_infected", Defined(final[1]))

	peak, _ := peak(infected)
	rec.set("peak_infected", Defined(peak))

	if eqOK && eq > 0 {
		overshoot := 0.0
		if peak > eq {
			overshoot = 1
		}
		rec.set("overshoot", Defined(overshoot))
	} else {
		rec.set("overshoot", Undefined)
	}

	// Time to settle within 5% of I*, only meaningful above the
	// epidemic threshold R0 > 1 (otherwise I* = 0 exactly).
	if eqOK && r0 > 1 {
		rec.set("time_to_equilibrium", firstTimeWithin(res.Times, infected, eq, equilibriumBand*eq))
	} else {
		rec.set("time_to_equilibrium", Undefined)
	}

	return rec
}

func analyzeSIR(m *models.Compartmental, res *epi.Result) *Record {
	rec := newRecord(models.SIR)

	infected := res.Series(1)
	final := res.Final()

	r0, r0OK := m.R0()
	rec.set("r0", sentinelUnless(r0, r0OK))

	peakVal, peakIdx := peak(infected)
	rec.set("peak_infected", Defined(peakVal))
	rec.set("peak_time", Defined(res.Times[peakIdx]))

	rec.set("final_susceptible", Defined(final[0]))
	rec.set("final_recovered", Defined(final[2]))

	rec.set("epidemic_duration", Defined(spanAbove(res.Times, infected, epidemicFloor)))

	hit, hitOK := m.HerdImmunityThreshold()
	rec.set("herd_immunity_threshold", sentinelUnless(hit, hitOK))

	return rec
}

func sentinelUnless(v float64, ok bool) Value {
	if !ok {
		return Undefined
	}
	return Defined(v)
}

// firstTimeAbove returns the time of the earliest sample with
// series >= threshold, or the sentinel if never reached.
func firstTimeAbove(times, series []float64, threshold float64) Value {
	for i, v := range series {
		if v >= threshold {
			return Defined(times[i])
		}
	}
	return Undefined
}

// firstTimeWithin returns the time of the earliest sample with
// |series - target| <= band.
func firstTimeWithin(times, series []float64, target, band float64) Value {
	for i, v := range series {
		if math.Abs(v-target) <= band {
			return Defined(times[i])
		}
	}
	return Undefined
}

// peak returns the maximum sample and its index (earliest on ties).
func peak(series []float64) (float64, int) {
	best, at := series[0], 0
	for i, v := range series {
		if v > best {
			best, at = v, i
		}
	}
	return best, at
}

// spanAbove returns the time span between the first and last samples
// with series >= floor, 0 if the floor is never crossed.
func spanAbove(times, series []float64, floor float64) float64 {
	first, last := -1, -1
	for i, v := range series {
		if v >= floor {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return 0
	}
	return times[last] - times[first]
}

// maxGrowthRate returns the largest discrete growth rate between
// consecutive samples and the time of the interval start.
func maxGrowthRate(times, series []float64) (Value, Value) {
	if len(series) < 2 {
		return Undefined, Undefined
	}
	best := math.Inf(-1)
	at := 0
	for i := 0; i+1 < len(series); i++ {
		dt := times[i+1] - times[i]
		if dt <= 0 {
			continue
		}
		rate := (series[i+1] - series[i]) / dt
		if rate > best {
			best = rate
			at = i
		}
	}
	if math.IsInf(best, -1) {
		return Undefined, Undefined
	}
	return Defined(best), Defined(times[at])
}
