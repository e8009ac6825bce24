// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics holds the Prometheus series a completed check updates
// and the registry cmd/operator serves at /metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// Registry collects every yuptime_* series alongside the Go/process
// collectors New registers.
type Registry struct {
	reg *prometheus.Registry

	state             *prometheus.GaugeVec
	latencyMs         *prometheus.GaugeVec
	checksTotal       *prometheus.CounterVec
	stateChangesTotal *prometheus.CounterVec
	activeIncidents   *prometheus.GaugeVec
	checkDurationSecs *prometheus.HistogramVec
}

// New constructs a Registry with every series registered under the
// "yuptime" namespace.
func New() *Registry {
	labels := []string{"monitor", "namespace", "type", "url"}

	r := &Registry{
		reg: prometheus.NewRegistry(),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "yuptime_monitor_state",
			Help: "Monitor check state: 0=down, 0.5=degraded, 1=up.",
		}, labels),
		latencyMs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "yuptime_monitor_latency_ms",
			Help: "Latency of the most recent check, in milliseconds.",
		}, labels),
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yuptime_monitor_checks_total",
			Help: "Total number of check executions.",
		}, labels),
		stateChangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yuptime_monitor_state_changes_total",
			Help: "Total number of up/down state transitions.",
		}, labels),
		activeIncidents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "yuptime_active_incidents",
			Help: "Number of Monitors currently in the down state.",
		}, []string{"namespace"}),
		checkDurationSecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "yuptime_monitor_check_duration_seconds",
			Help:    "Distribution of check execution durations.",
			Buckets: prometheus.DefBuckets,
		}, labels),
	}

	r.reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		r.state, r.latencyMs, r.checksTotal, r.stateChangesTotal, r.activeIncidents, r.checkDurationSecs,
	)
	return r
}

// Gatherer exposes the underlying prometheus.Gatherer for promhttp.Handler.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// monitorLabels builds the common label set from a Monitor's identity and
// target URL (only HTTP-family Monitors carry one; others report "").
func monitorLabels(namespace, name string, typ monitoringv1.MonitorType, url string) prometheus.Labels {
	return prometheus.Labels{"monitor": name, "namespace": namespace, "type": string(typ), "url": url}
}

// ObserveCheck records one completed check execution: state, latency,
// duration, the checks-total counter, and (when prevState differs) the
// state-changes-total counter.
func (r *Registry) ObserveCheck(namespace, name string, typ monitoringv1.MonitorType, url string, state monitoringv1.CheckState, latencyMs int64, prevState *monitoringv1.CheckState) {
	lbl := monitorLabels(namespace, name, typ, url)

	var stateValue float64
	if state == monitoringv1.CheckStateUp {
		stateValue = 1
	}
	r.state.With(lbl).Set(stateValue)
	r.latencyMs.With(lbl).Set(float64(latencyMs))
	r.checksTotal.With(lbl).Inc()
	r.checkDurationSecs.With(lbl).Observe(float64(latencyMs) / 1000)

	if prevState != nil && *prevState != state {
		r.stateChangesTotal.With(lbl).Inc()
	}
}

// ObserveState implements scheduler.StateObserver, letting cmd/operator
// register the Registry directly with the completion watcher so every
// observed state transition updates the series without the scheduler
// package importing prometheus.
func (r *Registry) ObserveState(_ context.Context, mon *monitoringv1.Monitor, prevState, newState monitoringv1.CheckState) {
	url := ""
	if mon.Spec.Target.HTTP != nil {
		url = mon.Spec.Target.HTTP.URL
	}
	latencyMs := int64(0)
	if mon.Status.LastResult != nil {
		latencyMs = mon.Status.LastResult.LatencyMs
	}
	prev := prevState
	r.ObserveCheck(mon.Namespace, mon.Name, mon.Spec.Type, url, newState, latencyMs, &prev)
}

// SetActiveIncidents sets the current count of down Monitors for namespace.
func (r *Registry) SetActiveIncidents(namespace string, count int) {
	r.activeIncidents.With(prometheus.Labels{"namespace": namespace}).Set(float64(count))
}

// DeleteMonitor drops every series for a deleted Monitor. The counters
// reset because their series disappears entirely, not because they're
// zeroed in place.
func (r *Registry) DeleteMonitor(namespace, name string, typ monitoringv1.MonitorType, url string) {
	lbl := monitorLabels(namespace, name, typ, url)
	r.state.Delete(lbl)
	r.latencyMs.Delete(lbl)
	r.checksTotal.Delete(lbl)
	r.stateChangesTotal.Delete(lbl)
	r.checkDurationSecs.Delete(lbl)
}
