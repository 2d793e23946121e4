// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lexcompile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels of the compiled-definitions counter.
const (
	resultOK     = "ok"
	resultCached = "cached"
	resultError  = "error"
)

// Metrics are the Prometheus metrics a [Compiler] records.
type Metrics struct {
	compiled *prometheus.CounterVec
	states   prometheus.Counter
	duration prometheus.Histogram
}

// NewMetrics creates the compiler metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		compiled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexcompile",
			Name:      "specs_compiled_total",
			Help:      "Lexer definitions compiled, by result.",
		}, []string{"result"}),
		states: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lexcompile",
			Name:      "dfa_states_total",
			Help:      "States in all lexer tables built.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexcompile",
			Name:      "compile_seconds",
			Help:      "Time taken to compile one lexer definition.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
}

// observe records one compilation. It may be called on a nil *Metrics.
func (m *Metrics) observe(result string, states int, took time.Duration) {
	if m == nil {
		return
	}
	m.compiled.WithLabelValues(result).Inc()
	m.states.Add(float64(states))
	m.duration.Observe(took.Seconds())
}
