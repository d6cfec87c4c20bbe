// Copyright 2026 Blink Labs Software
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

package recovery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type filterMetrics struct {
	fragmentsProcessed prometheus.Counter
	fragmentsAccepted  prometheus.Counter
	fragmentsRejected  *prometheus.CounterVec
}

func (m *filterMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.fragmentsProcessed = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "voteaudit_filter_fragments_processed_total",
			Help: "total logged fragments replayed by the vote filter",
		},
	)
	m.fragmentsAccepted = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "voteaudit_filter_fragments_accepted_total",
			Help: "total fragments accepted by the vote filter",
		},
	)
	m.fragmentsRejected = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voteaudit_filter_fragments_rejected_total",
			Help: "total fragments rejected by the vote filter, by reason",
		},
		[]string{"reason"},
	)
}
