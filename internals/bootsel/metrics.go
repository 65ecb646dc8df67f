// Copyright (c) 2024 Canonical Ltd
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License version 3 as
// published by the Free Software Foundation.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package bootsel

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what happened in boot menu sessions. A nil *Metrics
// counts nothing.
type Metrics struct {
	sessions      *prometheus.CounterVec
	countdowns    *prometheus.CounterVec
	boots         *prometheus.CounterVec
	corruptRefs   prometheus.Counter
	defaultWrites prometheus.Counter
}

// NewMetrics creates the boot menu counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bootsel",
			Name:      "sessions_total",
			Help:      "Boot menu sessions by how they started.",
		}, []string{"outcome"}),
		countdowns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bootsel",
			Name:      "countdowns_total",
			Help:      "Auto-boot countdowns by how they ended.",
		}, []string{"result"}),
		boots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bootsel",
			Name:      "boots_total",
			Help:      "Partitions handed to the rebooter by partition reference scheme.",
		}, []string{"scheme"}),
		corruptRefs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bootsel",
			Name:      "corrupt_references_total",
			Help:      "Confirmed entries whose partition reference could not be decoded.",
		}),
		defaultWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bootsel",
			Name:      "default_partition_writes_total",
			Help:      "Writes of a new default boot partition.",
		}),
	}
	reg.MustRegister(m.sessions, m.countdowns, m.boots, m.corruptRefs, m.defaultWrites)
	return m
}

func (m *Metrics) session(o Outcome) {
	if m != nil {
		m.sessions.WithLabelValues(o.String()).Inc()
	}
}

func (m *Metrics) countdown(s CountdownState) {
	if m != nil {
		m.countdowns.WithLabelValues(s.String()).Inc()
	}
}

func (m *Metrics) boot(scheme string) {
	if m != nil {
		m.boots.WithLabelValues(scheme).Inc()
	}
}

func (m *Metrics) corrupt() {
	if m != nil {
		m.corruptRefs.Inc()
	}
}

func (m *Metrics) defaultSaved() {
	if m != nil {
		m.defaultWrites.Inc()
	}
}
