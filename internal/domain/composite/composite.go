// Package composite combines blended sub-scores into family composites
// using fixed, versioned weight tables. Changing any table is a
// versioned, documented change: bump WeightsVersion in the same commit.
package composite

import "math"

// WeightsVersion identifies the current weight tables. Snapshots are
// comparable only within one version.
const WeightsVersion = "v1"

// weightSumTolerance bounds floating error when checking that a table
// sums to 1.0.
const weightSumTolerance = 1e-9

// Weights maps component metric names to their share of the composite.
type Weights map[string]float64

// Valid reports whether the weights sum to 1.0 within tolerance.
func (w Weights) Valid() bool {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return math.Abs(sum-1.0) < weightSumTolerance
}

// clone returns a copy of w.
func (w Weights) clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Redistribute renormalizes profile over the present components:
// weights of absent components are redistributed proportionally across
// the rest, never zeroed silently. The result always sums to 1.0 when
// at least one present component carries weight.
func Redistribute(profile Weights, present []string) Weights {
	have := make(map[string]struct{}, len(present))
	for _, p := range present {
		have[p] = struct{}{}
	}
	var sum float64
	kept := Weights{}
	for k, v := range profile {
		if _, ok := have[k]; ok {
			kept[k] = v
			sum += v
		}
	}
	if sum == 0 {
		// Nothing with weight is present; split evenly over present.
		if len(present) == 0 {
			return Weights{}
		}
		out := Weights{}
		for _, p := range present {
			out[p] = 1.0 / float64(len(present))
		}
		return out
	}
	for k := range kept {
		kept[k] /= sum
	}
	return kept
}

// Aggregate reduces component scores into one composite using w.
// Components missing from scores are redistributed first, so a partial
// component set still produces a properly weighted composite.
func Aggregate(scores map[string]float64, w Weights) float64 {
	present := make([]string, 0, len(scores))
	for k := range scores {
		if _, ok := w[k]; ok {
			present = append(present, k)
		}
	}
	eff := Redistribute(w, present)
	var sum float64
	for k, v := range scores {
		sum += v * eff[k]
	}
	return sum
}
