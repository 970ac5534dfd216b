// Package evaluate measures a filter's empirical false-positive rate against
// a workload of known members and never-added probes.
package evaluate

import (
	"fmt"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/rr-bloom/internal/bloom/common/log"
	"github.com/haukened/rr-bloom/internal/bloom/domain"
	"github.com/haukened/rr-bloom/internal/bloom/filter"
)

// Prober is anything that answers membership for byte keys.
type Prober interface {
	Check(key []byte) bool
}

// Report is the outcome of one evaluation run.
type Report struct {
	Name           string
	Params         domain.FilterParams
	Known          int     // members added before probing
	Probes         int     // never-added keys queried
	FalseNegatives int     // members reported absent; must be zero
	FalsePositives int     // probes reported present
	Rate           float64 // FalsePositives / Probes
	Expected       float64 // (1 - e^(-kn/m))^k
}

// Fields flattens r for structured logging.
func (r Report) Fields() map[string]any {
	return map[string]any{
		"name":            r.Name,
		"bits":            r.Params.BitLength,
		"hashes":          r.Params.HashCount,
		"known":           r.Known,
		"probes":          r.Probes,
		"false_negatives": r.FalseNegatives,
		"false_positives": r.FalsePositives,
		"fp_rate":         r.Rate,
		"fp_expected":     r.Expected,
	}
}

// Err reports a false negative, which would mean the filter is broken.
func (r Report) Err() error {
	if r.FalseNegatives > 0 {
		return fmt.Errorf("%s: %d false negatives out of %d members", r.Name, r.FalseNegatives, r.Known)
	}
	return nil
}

// Run probes p, which must already hold every key in known, with every key in
// known and unseen. unseen must not overlap known.
func Run(name string, p Prober, params domain.FilterParams, known, unseen [][]byte) Report {
	r := Report{
		Name:     name,
		Params:   params,
		Known:    len(known),
		Probes:   len(unseen),
		Expected: filter.EstimateFalsePositiveRate(params.BitLength, params.HashCount, uint64(len(known))),
	}
	for _, k := range known {
		if !p.Check(k) {
			r.FalseNegatives++
		}
	}
	for _, k := range unseen {
		if p.Check(k) {
			r.FalsePositives++
		}
	}
	if r.Probes > 0 {
		r.Rate = float64(r.FalsePositives) / float64(r.Probes)
	}
	return r
}

// Filter builds a filter with params, adds known, and evaluates it.
func Filter(params domain.FilterParams, known, unseen [][]byte, opts ...filter.Option) (Report, error) {
	f, err := filter.NewWithParams(params, opts...)
	if err != nil {
		return Report{}, err
	}
	for _, k := range known {
		f.Add(k)
	}
	return Run("rr-bloom", f, params, known, unseen), nil
}

// Baseline runs the same workload through bits-and-blooms with identical m
// and k, as a reference point for the double-hashing scheme.
func Baseline(params domain.FilterParams, known, unseen [][]byte) (Report, error) {
	if err := params.Validate(); err != nil {
		return Report{}, err
	}
	bf := bitsbloom.New(uint(params.BitLength), uint(params.HashCount))
	for _, k := range known {
		bf.Add(k)
	}
	return Run("bits-and-blooms", proberFunc(bf.Test), params, known, unseen), nil
}

type proberFunc func([]byte) bool

func (f proberFunc) Check(key []byte) bool { return f(key) }

// Compare evaluates both implementations and logs the reports side by side.
func Compare(logger log.Logger, params domain.FilterParams, known, unseen [][]byte, opts ...filter.Option) ([]Report, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	logger = logger.Named("evaluate")

	ours, err := Filter(params, known, unseen, opts...)
	if err != nil {
		return nil, err
	}
	base, err := Baseline(params, known, unseen)
	if err != nil {
		return nil, err
	}
	reports := []Report{ours, base}
	for _, r := range reports {
		if err := r.Err(); err != nil {
			logger.Error(r.Fields(), "evaluation_false_negatives")
			return reports, err
		}
		logger.Info(r.Fields(), "evaluation_report")
	}
	return reports, nil
}
