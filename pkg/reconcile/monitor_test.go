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

package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

type recordingNotifier struct {
	upserted []*monitoringv1.Monitor
	deleted  []types.NamespacedName
}

func (r *recordingNotifier) OnMonitorUpserted(mon *monitoringv1.Monitor) {
	r.upserted = append(r.upserted, mon)
}
func (r *recordingNotifier) OnMonitorDeleted(key types.NamespacedName) {
	r.deleted = append(r.deleted, key)
}

func validHTTPMonitor() *monitoringv1.Monitor {
	return &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Enabled: true,
			Type:    monitoringv1.MonitorTypeHTTP,
			Schedule: monitoringv1.Schedule{
				IntervalSeconds: 60,
				TimeoutSeconds:  5,
			},
			Target: monitoringv1.Target{HTTP: &monitoringv1.HTTPTarget{URL: "https://example.com/health"}},
		},
	}
}

func TestMonitorHandler_Validate_AcceptsMatchingTypeAndTarget(t *testing.T) {
	h := NewMonitorHandler(fake.NewClientBuilder().Build(), nil)
	assert.NoError(t, h.Validate(validHTTPMonitor()))
}

func TestMonitorHandler_Validate_RejectsMismatchedDiscriminator(t *testing.T) {
	h := NewMonitorHandler(fake.NewClientBuilder().Build(), nil)
	mon := validHTTPMonitor()
	mon.Spec.Type = monitoringv1.MonitorTypeTCP // target.tcp is nil

	err := h.Validate(mon)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "target.tcp")
}

func TestMonitorHandler_Validate_RejectsKeywordWithoutKeywordCriteria(t *testing.T) {
	h := NewMonitorHandler(fake.NewClientBuilder().Build(), nil)
	mon := validHTTPMonitor()
	mon.Spec.Type = monitoringv1.MonitorTypeKeyword

	err := h.Validate(mon)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyword")
}

func TestMonitorHandler_Validate_RejectsIntervalBelowMinimum(t *testing.T) {
	h := NewMonitorHandler(fake.NewClientBuilder().Build(), nil)
	mon := validHTTPMonitor()
	mon.Spec.Schedule.IntervalSeconds = monitoringv1.MinIntervalSeconds - 1

	assert.Error(t, h.Validate(mon))
}

func TestMonitorHandler_Validate_RejectsTimeoutNotLessThanInterval(t *testing.T) {
	h := NewMonitorHandler(fake.NewClientBuilder().Build(), nil)
	mon := validHTTPMonitor()
	mon.Spec.Schedule.TimeoutSeconds = mon.Spec.Schedule.IntervalSeconds

	assert.Error(t, h.Validate(mon))
}

func TestMonitorHandler_Validate_RejectsDockerType(t *testing.T) {
	h := NewMonitorHandler(fake.NewClientBuilder().Build(), nil)
	mon := validHTTPMonitor()
	mon.Spec.Type = monitoringv1.MonitorTypeDocker
	mon.Spec.Target = monitoringv1.Target{}

	assert.Error(t, h.Validate(mon), "docker has no execution semantics in this operator; see DESIGN.md")
}

func TestMonitorHandler_Reconcile_EnabledNotifiesUpsert(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewMonitorHandler(fake.NewClientBuilder().Build(), notifier)
	mon := validHTTPMonitor()
	mon.Name = "api"

	_, err := h.Reconcile(context.Background(), mon)

	require.NoError(t, err)
	require.Len(t, notifier.upserted, 1)
	assert.Equal(t, "api", notifier.upserted[0].Name)
	assert.Empty(t, notifier.deleted)
}

func TestMonitorHandler_Reconcile_DisabledNotifiesDelete(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewMonitorHandler(fake.NewClientBuilder().Build(), notifier)
	mon := validHTTPMonitor()
	mon.Name = "api"
	mon.Spec.Enabled = false

	_, err := h.Reconcile(context.Background(), mon)

	require.NoError(t, err)
	assert.Empty(t, notifier.upserted)
	require.Len(t, notifier.deleted, 1)
	assert.Equal(t, "api", notifier.deleted[0].Name)
}

func TestMonitorHandler_OnDeleted_NotifiesDelete(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewMonitorHandler(fake.NewClientBuilder().Build(), notifier)

	h.OnDeleted(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Name: "gone"}})

	require.Len(t, notifier.deleted, 1)
	assert.Equal(t, "gone", notifier.deleted[0].Name)
}
