// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics provides Prometheus metrics for rsync output analysis.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gitlab.com/tozd/go/errors"
)

// Analysis outcomes used as the "outcome" label.
const (
	OutcomeOK                = "ok"
	OutcomeEmptyInput        = "empty_input"
	OutcomeMissingStatistics = "missing_statistics"
)

const namespace = "rsyncverify"

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of rsync output analyses by outcome",
		},
		[]string{"outcome"},
	)

	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analyzing one rsync output",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	linesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_processed_total",
			Help:      "Total number of output lines routed by the classifier",
		},
	)

	itemizedChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "itemized_changes_total",
			Help:      "Total number of decoded itemized changes by change type",
		},
		[]string{"type"},
	)

	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of analysis cache hits",
		},
	)

	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of analysis cache misses",
		},
	)

	cacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Number of results currently held by the analysis cache",
		},
	)
)

// RecordAnalysis records one finished analysis.
func RecordAnalysis(outcome string, lines int, duration time.Duration) {
	analysesTotal.WithLabelValues(outcome).Inc()
	analysisDuration.Observe(duration.Seconds())
	linesProcessed.Add(float64(lines))
}

// RecordChanges counts n decoded changes of the given type.
func RecordChanges(changeType string, n int) {
	itemizedChanges.WithLabelValues(changeType).Add(float64(n))
}

// RecordCacheHit records a cache hit.
func RecordCacheHit() {
	cacheHits.Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss() {
	cacheMisses.Inc()
}

// SetCacheEntries sets the current cache size.
func SetCacheEntries(n int) {
	cacheEntries.Set(float64(n))
}

// Snapshot gathers every rsyncverify counter and gauge from the default
// registry, keyed by metric name plus label values ("name{value}").
func Snapshot() (map[string]float64, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, errors.Errorf("gathering metrics: %w", err)
	}

	out := make(map[string]float64)
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			if labels := m.GetLabel(); len(labels) > 0 {
				values := make([]string, 0, len(labels))
				for _, l := range labels {
					values = append(values, l.GetValue())
				}
				key += "{" + strings.Join(values, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[key+"_count"] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}
