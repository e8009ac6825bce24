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
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	batchv1 "k8s.io/api/batch/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// Manager implements reconcile.ScheduleNotifier and reconcile.SettingsNotifier,
// driving the event-driven scheduling loop. It holds no persistent state
// beyond the process's lifetime: on restart every
// enabled Monitor is re-upserted by the controller-runtime cache's initial
// List, and the stall detector recovers any execution whose completion
// event was missed while the process was down.
type Manager struct {
	client client.Client
	logger log.Logger
	opts   BuildJobOptions

	mu                   sync.Mutex
	leader               bool
	maxConcurrent        int32
	defaultJitterPercent int32
	monitors             map[string]*monitoringv1.Monitor
	timers               map[string]*time.Timer
	activeByMonitor      map[string]bool
	activeCount          int32
	queue                []string

	now func() time.Time
}

// NewManager constructs a Manager with the process-wide defaults (10
// concurrent checks, 5% jitter) until an OperatorSettings object overrides
// them via OnSettingsUpdated.
func NewManager(c client.Client, logger log.Logger, opts BuildJobOptions) *Manager {
	return &Manager{
		client:               c,
		logger:               logger,
		opts:                 opts,
		leader:               true,
		maxConcurrent:        monitoringv1.DefaultMaxConcurrentChecks,
		defaultJitterPercent: monitoringv1.DefaultJitterPercent,
		monitors:             make(map[string]*monitoringv1.Monitor),
		timers:               make(map[string]*time.Timer),
		activeByMonitor:      make(map[string]bool),
		now:                  time.Now,
	}
}

// SetLeader gates worker-Job launches on scheduler leadership. A Manager is
// constructed as leader so single-replica deployments and tests need no
// lease; cmd/operator demotes it until the lease is won. Timers and upsert
// bookkeeping keep running while demoted, so on promotion the next timer
// fire (or the stall detector) resumes launching without replaying events.
func (m *Manager) SetLeader(owned bool) {
	m.mu.Lock()
	m.leader = owned
	m.mu.Unlock()
}

// OnSettingsUpdated applies a live OperatorSettings change. Monitors already
// queued or scheduled are unaffected; the new cap/jitter default applies to
// the next launch decision.
func (m *Manager) OnSettingsUpdated(spec monitoringv1.OperatorSettingsSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if spec.MaxConcurrentChecks > 0 {
		m.maxConcurrent = spec.MaxConcurrentChecks
	}
	if spec.DefaultJitterPercent > 0 {
		m.defaultJitterPercent = spec.DefaultJitterPercent
	}
}

// OnMonitorUpserted is called by MonitorHandler.Reconcile for every enabled
// Monitor add/update. A Monitor with an active worker Job or a pending
// schedule timer is left alone; otherwise a timer is armed to launch it
// once its jitter offset elapses.
func (m *Manager) OnMonitorUpserted(mon *monitoringv1.Monitor) {
	key := monitorKey(mon.Namespace, mon.Name)

	m.mu.Lock()
	m.monitors[key] = mon.DeepCopy()
	_, hasTimer := m.timers[key]
	active := m.activeByMonitor[key]
	m.mu.Unlock()

	if hasTimer || active {
		return
	}

	jitterPercent := mon.Spec.Schedule.JitterPercent
	if jitterPercent <= 0 {
		m.mu.Lock()
		jitterPercent = m.defaultJitterPercent
		m.mu.Unlock()
	}
	offset := JitterOffsetMillis(key, mon.Spec.Schedule.IntervalSeconds, jitterPercent)
	m.scheduleAfter(key, time.Duration(offset)*time.Millisecond)
}

// OnMonitorDeleted cancels any pending timer and deletes every worker Job
// still running for the Monitor.
func (m *Manager) OnMonitorDeleted(key types.NamespacedName) {
	k := monitorKey(key.Namespace, key.Name)

	m.mu.Lock()
	if t, ok := m.timers[k]; ok {
		t.Stop()
		delete(m.timers, k)
	}
	delete(m.monitors, k)
	delete(m.activeByMonitor, k)
	m.removeFromQueueLocked(k)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.client.DeleteAllOf(ctx, &batchv1.Job{},
		client.InNamespace(m.opts.Namespace),
		client.MatchingLabels{LabelComponent: LabelComponentValue, LabelMonitor: monitorLabelValue(key.Namespace, key.Name)},
		client.PropagationPolicy("Background"),
	); err != nil {
		level.Error(m.logger).Log("msg", "delete worker jobs for removed monitor", "monitor", k, "err", err)
	}
}

// OnJobCompleted is invoked by the completion watcher once a worker Job
// reaches a terminal state. It frees the monitor's active slot, admits the
// next queued launch if any, and schedules the Monitor's next execution at
// finishedAt + intervalSeconds — the completion time, never the scheduled
// time, so a slow check doesn't cause drift.
func (m *Manager) OnJobCompleted(key string, finishedAt time.Time) {
	m.mu.Lock()
	delete(m.activeByMonitor, key)
	if m.activeCount > 0 {
		m.activeCount--
	}
	mon, known := m.monitors[key]
	next := m.popQueueLocked()
	m.mu.Unlock()

	if next != "" {
		m.tryLaunch(next)
	}
	if !known {
		return
	}
	m.scheduleAfter(key, finishedAt.Add(time.Duration(mon.Spec.Schedule.IntervalSeconds)*time.Second).Sub(m.now()))
}

// IsActiveOrPending reports whether key has a running worker Job or a
// pending schedule timer, the condition the stall detector must rule out
// before forcing a launch.
func (m *Manager) IsActiveOrPending(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, hasTimer := m.timers[key]
	return hasTimer || m.activeByMonitor[key]
}

// ForceLaunch is called by the stall detector to launch a Monitor
// immediately, bypassing the jitter offset, when its last result is too
// old and no execution is in flight.
func (m *Manager) ForceLaunch(mon *monitoringv1.Monitor) {
	key := monitorKey(mon.Namespace, mon.Name)
	m.mu.Lock()
	m.monitors[key] = mon.DeepCopy()
	m.mu.Unlock()
	m.tryLaunch(key)
}

// scheduleAfter arms the single pending timer for key. A second call while
// a timer is already set is a no-op; there is at most one pending timer
// per Monitor.
func (m *Manager) scheduleAfter(key string, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	m.mu.Lock()
	if _, exists := m.timers[key]; exists {
		m.mu.Unlock()
		return
	}
	t := time.AfterFunc(delay, func() {
		m.mu.Lock()
		delete(m.timers, key)
		m.mu.Unlock()
		m.tryLaunch(key)
	})
	m.timers[key] = t
	m.mu.Unlock()
}

// tryLaunch admits key to execution if a concurrency slot is free, or
// enqueues it FIFO otherwise.
func (m *Manager) tryLaunch(key string) {
	m.mu.Lock()
	mon, ok := m.monitors[key]
	if !ok || !mon.Spec.Enabled || !m.leader {
		m.mu.Unlock()
		return
	}
	if m.activeCount >= m.maxConcurrent {
		m.queue = append(m.queue, key)
		m.mu.Unlock()
		return
	}
	m.activeCount++
	m.activeByMonitor[key] = true
	m.mu.Unlock()

	m.launch(mon)
}

// launch creates the worker Job for mon. A creation failure releases the
// slot so the concurrency accounting stays accurate.
func (m *Manager) launch(mon *monitoringv1.Monitor) {
	key := monitorKey(mon.Namespace, mon.Name)
	jitterPercent := mon.Spec.Schedule.JitterPercent
	if jitterPercent <= 0 {
		m.mu.Lock()
		jitterPercent = m.defaultJitterPercent
		m.mu.Unlock()
	}

	job := BuildJob(mon, BuildJobOptions{
		Namespace:          m.opts.Namespace,
		ExecutorImage:      m.opts.ExecutorImage,
		LaunchedAtUnixNano: m.now().UnixNano(),
		JitterOffsetMillis: JitterOffsetMillis(key, mon.Spec.Schedule.IntervalSeconds, jitterPercent),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.client.Create(ctx, job); err != nil {
		level.Error(m.logger).Log("msg", "create worker job", "monitor", key, "err", errors.Wrap(err, "create"))
		m.mu.Lock()
		delete(m.activeByMonitor, key)
		if m.activeCount > 0 {
			m.activeCount--
		}
		m.mu.Unlock()
		return
	}
	level.Debug(m.logger).Log("msg", "launched worker job", "monitor", key, "job", job.Name)
}

func (m *Manager) popQueueLocked() string {
	if len(m.queue) == 0 {
		return ""
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	return next
}

func (m *Manager) removeFromQueueLocked(key string) {
	filtered := m.queue[:0]
	for _, k := range m.queue {
		if k != key {
			filtered = append(filtered, k)
		}
	}
	m.queue = filtered
}
