/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metrics

import (
	"sort"
	"strings"
	"sync"
)

// Recorder keeps metrics in memory. It is meant for tests.
type Recorder struct {
	mu     sync.Mutex
	counts map[string]float64
	values map[string][]float64
}

func NewRecorder() *Recorder {
	return &Recorder{counts: map[string]float64{}, values: map[string][]float64{}}
}

func (r *Recorder) Count(name string, value float64, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[series(name, tags)] += value
	return nil
}

func (r *Recorder) Gauge(name string, value float64, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[series(name, tags)] = []float64{value}
	return nil
}

func (r *Recorder) Histogram(name string, value float64, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := series(name, tags)
	r.values[key] = append(r.values[key], value)
	return nil
}

// Counted returns the running total for name with exactly the given tags,
// in any order.
func (r *Recorder) Counted(name string, tags ...string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[series(name, tags)]
}

// Observed returns the gauge or histogram samples for name and tags.
func (r *Recorder) Observed(name string, tags ...string) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.values[series(name, tags)]...)
}

func series(name string, tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	return name + "|" + strings.Join(sorted, ",")
}
