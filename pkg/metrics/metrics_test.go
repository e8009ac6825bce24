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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func TestObserveCheck_SetsStateAndLatency(t *testing.T) {
	r := New()

	r.ObserveCheck("default", "api", monitoringv1.MonitorTypeHTTP, "https://example.com", monitoringv1.CheckStateUp, 42, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.state.WithLabelValues("api", "default", "http", "https://example.com")))
	assert.Equal(t, float64(42), testutil.ToFloat64(r.latencyMs.WithLabelValues("api", "default", "http", "https://example.com")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.checksTotal.WithLabelValues("api", "default", "http", "https://example.com")))
}

func TestObserveCheck_IncrementsStateChangesOnlyOnTransition(t *testing.T) {
	r := New()
	lbl := []string{"api", "default", "http", "https://example.com"}

	up := monitoringv1.CheckStateUp
	r.ObserveCheck("default", "api", monitoringv1.MonitorTypeHTTP, "https://example.com", monitoringv1.CheckStateDown, 10, &up)
	assert.Equal(t, float64(1), testutil.ToFloat64(r.stateChangesTotal.WithLabelValues(lbl...)))

	down := monitoringv1.CheckStateDown
	r.ObserveCheck("default", "api", monitoringv1.MonitorTypeHTTP, "https://example.com", monitoringv1.CheckStateDown, 10, &down)
	assert.Equal(t, float64(1), testutil.ToFloat64(r.stateChangesTotal.WithLabelValues(lbl...)), "no transition should leave the counter unchanged")
}

func TestObserveState_DerivesURLFromHTTPTargetOnly(t *testing.T) {
	r := New()
	mon := &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type:   monitoringv1.MonitorTypeTCP,
			Target: monitoringv1.Target{TCP: &monitoringv1.TCPTarget{Host: "db.internal", Port: 5432}},
		},
	}
	mon.Name = "db"
	mon.Namespace = "default"

	r.ObserveState(nil, mon, monitoringv1.CheckStateUp, monitoringv1.CheckStateDown)

	assert.Equal(t, float64(0), testutil.ToFloat64(r.state.WithLabelValues("db", "default", "tcp", "")))
}

func TestDeleteMonitor_RemovesSeries(t *testing.T) {
	r := New()
	r.ObserveCheck("default", "api", monitoringv1.MonitorTypeHTTP, "https://example.com", monitoringv1.CheckStateUp, 5, nil)

	r.DeleteMonitor("default", "api", monitoringv1.MonitorTypeHTTP, "https://example.com")

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)
	for _, f := range families {
		for _, m := range f.Metric {
			for _, l := range m.Label {
				if l.GetName() == "monitor" {
					assert.NotEqual(t, "api", l.GetValue(), "deleted monitor's series must not be gathered")
				}
			}
		}
	}
}

func TestSetActiveIncidents(t *testing.T) {
	r := New()

	r.SetActiveIncidents("default", 3)

	assert.Equal(t, float64(3), testutil.ToFloat64(r.activeIncidents.WithLabelValues("default")))
}
