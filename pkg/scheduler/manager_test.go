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

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func managerTestScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, monitoringv1.AddToScheme(scheme))
	require.NoError(t, batchv1.AddToScheme(scheme))
	return scheme
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	c := fake.NewClientBuilder().WithScheme(managerTestScheme(t)).Build()
	mgr := NewManager(c, log.NewNopLogger(), BuildJobOptions{Namespace: "yuptime-system", ExecutorImage: "img"})
	mgr.now = func() time.Time { return time.Unix(1700000000, 0) }
	return mgr
}

func listJobs(t *testing.T, mgr *Manager) *batchv1.JobList {
	t.Helper()
	var jobs batchv1.JobList
	require.NoError(t, mgr.client.List(context.Background(), &jobs))
	return &jobs
}

func upsertMonitor(name string, intervalSeconds int32) *monitoringv1.Monitor {
	return &monitoringv1.Monitor{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec: monitoringv1.MonitorSpec{
			Enabled: true,
			Type:    monitoringv1.MonitorTypeHTTP,
			Schedule: monitoringv1.Schedule{
				IntervalSeconds: intervalSeconds,
				TimeoutSeconds:  5,
				JitterPercent:   0,
			},
			Target: monitoringv1.Target{HTTP: &monitoringv1.HTTPTarget{URL: "https://example.com"}},
		},
	}
}

func TestManager_OnMonitorUpserted_LaunchesAfterJitterDelay(t *testing.T) {
	mgr := newTestManager(t)
	mon := upsertMonitor("api-health", 60)

	mgr.OnMonitorUpserted(mon)

	key := monitorKey(mon.Namespace, mon.Name)
	assert.True(t, mgr.IsActiveOrPending(key), "a pending timer should be armed immediately after upsert")

	jobs := listJobs(t, mgr)
	assert.Empty(t, jobs.Items, "job should not be created before the jitter delay elapses")
}

func TestManager_OnMonitorUpserted_SkipsWhenAlreadyPending(t *testing.T) {
	mgr := newTestManager(t)
	mon := upsertMonitor("api-health", 60)

	mgr.OnMonitorUpserted(mon)
	key := monitorKey(mon.Namespace, mon.Name)

	mgr.mu.Lock()
	firstTimer := mgr.timers[key]
	mgr.mu.Unlock()

	mgr.OnMonitorUpserted(mon)

	mgr.mu.Lock()
	secondTimer := mgr.timers[key]
	mgr.mu.Unlock()

	assert.Same(t, firstTimer, secondTimer, "a second upsert while a timer is pending must not replace it")
}

func TestManager_ForceLaunch_CreatesJobImmediately(t *testing.T) {
	mgr := newTestManager(t)
	mon := upsertMonitor("api-health", 60)

	mgr.ForceLaunch(mon)

	jobs := listJobs(t, mgr)
	require.Len(t, jobs.Items, 1)
	assert.Equal(t, "api-health", jobs.Items[0].Labels[LabelMonitor])

	key := monitorKey(mon.Namespace, mon.Name)
	assert.True(t, mgr.IsActiveOrPending(key))
}

func TestManager_ConcurrencyBound_QueuesBeyondCap(t *testing.T) {
	mgr := newTestManager(t)
	mgr.OnSettingsUpdated(monitoringv1.OperatorSettingsSpec{MaxConcurrentChecks: 1})

	first := upsertMonitor("mon-a", 60)
	second := upsertMonitor("mon-b", 60)

	mgr.ForceLaunch(first)
	mgr.ForceLaunch(second)

	jobs := listJobs(t, mgr)
	assert.Len(t, jobs.Items, 1, "only one job should be created while at the concurrency cap")

	mgr.mu.Lock()
	queued := append([]string{}, mgr.queue...)
	mgr.mu.Unlock()
	assert.Equal(t, []string{monitorKey(second.Namespace, second.Name)}, queued)
}

func TestManager_OnJobCompleted_AdmitsQueuedMonitor(t *testing.T) {
	mgr := newTestManager(t)
	mgr.OnSettingsUpdated(monitoringv1.OperatorSettingsSpec{MaxConcurrentChecks: 1})

	first := upsertMonitor("mon-a", 60)
	second := upsertMonitor("mon-b", 60)
	mgr.ForceLaunch(first)
	mgr.ForceLaunch(second)

	mgr.OnJobCompleted(monitorKey(first.Namespace, first.Name), mgr.now())

	jobs := listJobs(t, mgr)
	assert.Len(t, jobs.Items, 2, "completing the active job should admit the queued monitor")

	mgr.mu.Lock()
	assert.Empty(t, mgr.queue)
	mgr.mu.Unlock()
}

func TestManager_OnJobCompleted_SchedulesFromFinishTime(t *testing.T) {
	mgr := newTestManager(t)
	mon := upsertMonitor("api-health", 60)
	mgr.ForceLaunch(mon)

	key := monitorKey(mon.Namespace, mon.Name)
	finishedAt := mgr.now().Add(45 * time.Second)
	mgr.OnJobCompleted(key, finishedAt)

	mgr.mu.Lock()
	_, hasTimer := mgr.timers[key]
	mgr.mu.Unlock()
	assert.True(t, hasTimer, "a fresh timer should be armed off the completion time, not the original schedule")
}

func TestManager_OnMonitorDeleted_CancelsTimerAndDeletesJobs(t *testing.T) {
	mgr := newTestManager(t)
	mon := upsertMonitor("api-health", 60)
	mgr.ForceLaunch(mon)

	mgr.OnMonitorDeleted(types.NamespacedName{Name: mon.Name})

	key := monitorKey(mon.Namespace, mon.Name)
	assert.False(t, mgr.IsActiveOrPending(key))

	jobs := listJobs(t, mgr)
	assert.Empty(t, jobs.Items, "worker jobs for a deleted monitor should be removed")
}
