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
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// ReasonHeartbeat and ReasonStateChanged are the Event reasons pkg/statusapi
// filters on to reconstruct recent heartbeats/incidents from the apiserver's
// Event log, the closest thing to a history store this operator keeps (no
// durable state is held in-process).
const (
	ReasonHeartbeat    = "Heartbeat"
	ReasonStateChanged = "StateChanged"
)

// StateObserver receives every observed Monitor state, so pkg/alert and
// pkg/metrics can react without CompletionWatcher importing either: an
// interface owned by the consumer, not a runtime lookup.
type StateObserver interface {
	ObserveState(ctx context.Context, mon *monitoringv1.Monitor, prevState, newState monitoringv1.CheckState)
}

// ringSet is a fixed-capacity circular buffer of recently-seen UIDs,
// bounding the completion watcher's de-dup memory. Sized to 4x the
// concurrency cap: a completed Job only needs to stay "seen" long enough
// to absorb the informer's occasional duplicate reconcile, not forever.
type ringSet struct {
	mu       sync.Mutex
	capacity int
	index    int
	order    []types.UID
	seen     map[types.UID]struct{}
}

func newRingSet(capacity int) *ringSet {
	if capacity < 1 {
		capacity = 1
	}
	return &ringSet{
		capacity: capacity,
		order:    make([]types.UID, 0, capacity),
		seen:     make(map[types.UID]struct{}, capacity),
	}
}

// addIfNew records uid and returns true if it wasn't already present. Once
// the ring is full, the oldest entry is evicted to make room.
func (r *ringSet) addIfNew(uid types.UID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[uid]; ok {
		return false
	}

	if len(r.order) < r.capacity {
		r.order = append(r.order, uid)
	} else {
		evict := r.order[r.index]
		delete(r.seen, evict)
		r.order[r.index] = uid
		r.index = (r.index + 1) % r.capacity
	}
	r.seen[uid] = struct{}{}
	return true
}

// CompletionWatcher reconciles worker Jobs, freeing the Manager's
// concurrency slot and scheduling the Monitor's next run once a Job reaches
// a terminal state. It does not itself patch MonitorStatus — the
// checker-executor binary does that directly against the Monitor's status
// subresource before exiting — so a Job that never
// got to run (e.g. node died) still leaves the stall detector as the
// recovery path.
type CompletionWatcher struct {
	Client    client.Client
	Logger    log.Logger
	Manager   *Manager
	Observers []StateObserver
	Recorder  record.EventRecorder
	seen      *ringSet

	mu        sync.Mutex
	lastState map[string]monitoringv1.CheckState
}

// NewCompletionWatcher constructs a CompletionWatcher whose de-dup ring is
// sized to 4x concurrencyCap. observers are notified, in order, of every
// Monitor state this watcher observes after a Job completes; pass none for
// a watcher that only drives scheduling. recorder may be nil, in which case
// no Heartbeat/StateChanged Events are emitted and pkg/statusapi's
// heartbeat/incident endpoints return nothing for this process.
func NewCompletionWatcher(c client.Client, logger log.Logger, mgr *Manager, recorder record.EventRecorder, concurrencyCap int32, observers ...StateObserver) *CompletionWatcher {
	return &CompletionWatcher{
		Client:    c,
		Logger:    logger,
		Manager:   mgr,
		Observers: observers,
		Recorder:  recorder,
		seen:      newRingSet(int(concurrencyCap) * 4),
		lastState: make(map[string]monitoringv1.CheckState),
	}
}

// Reconcile implements sigs.k8s.io/controller-runtime/pkg/reconcile.Reconciler.
func (w *CompletionWatcher) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	var job batchv1.Job
	if err := w.Client.Get(ctx, req.NamespacedName, &job); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, errors.Wrap(err, "get job")
	}

	if job.Status.Succeeded == 0 && job.Status.Failed == 0 {
		return ctrl.Result{}, nil
	}
	if !w.seen.addIfNew(job.UID) {
		return ctrl.Result{}, nil
	}

	monitorRef, ok := job.Annotations[AnnotationMonitor]
	if !ok {
		level.Warn(w.Logger).Log("msg", "completed worker job missing monitor annotation", "job", job.Name)
		return ctrl.Result{}, nil
	}

	finishedAt := time.Now()
	if job.Status.CompletionTime != nil {
		finishedAt = job.Status.CompletionTime.Time
	}

	level.Debug(w.Logger).Log("msg", "worker job completed", "job", job.Name, "monitor", monitorRef, "succeeded", job.Status.Succeeded > 0)
	w.Manager.OnJobCompleted(monitorRef, finishedAt)
	w.notifyObservers(ctx, monitorRef)
	return ctrl.Result{}, nil
}

// notifyObservers fetches the Monitor's current status (already patched by
// the checker-executor binary before it exited) and fans it out to every
// registered StateObserver alongside the last state this watcher saw for
// the same Monitor (or newState itself, on the first observation, so a
// state-change observer sees a no-op transition rather than a false
// positive). The per-Monitor "last seen" map is this watcher's only
// persistent memory of state, acceptable to lose on restart since a
// restart also means no observer has a stale "previous" belief to correct.
func (w *CompletionWatcher) notifyObservers(ctx context.Context, monitorRef string) {
	if len(w.Observers) == 0 && w.Recorder == nil {
		return
	}

	var mon monitoringv1.Monitor
	if err := w.Client.Get(ctx, client.ObjectKey{Name: monitorName(monitorRef)}, &mon); err != nil {
		level.Warn(w.Logger).Log("msg", "lookup monitor for state observers", "monitor", monitorRef, "err", err)
		return
	}
	if mon.Status.LastResult == nil {
		return
	}
	newState := mon.Status.LastResult.State

	w.mu.Lock()
	prevState, known := w.lastState[monitorRef]
	if !known {
		prevState = newState
	}
	w.lastState[monitorRef] = newState
	w.mu.Unlock()

	if w.Recorder != nil {
		result := mon.Status.LastResult
		w.Recorder.Eventf(&mon, corev1.EventTypeNormal, ReasonHeartbeat,
			"state=%s latencyMs=%d reason=%s", result.State, result.LatencyMs, result.Reason)
		if known && prevState != newState {
			eventType := corev1.EventTypeNormal
			if newState == monitoringv1.CheckStateDown {
				eventType = corev1.EventTypeWarning
			}
			w.Recorder.Eventf(&mon, eventType, ReasonStateChanged,
				"%s -> %s: %s", prevState, newState, result.Message)
		}
	}

	for _, o := range w.Observers {
		o.ObserveState(ctx, &mon, prevState, newState)
	}
}

// monitorName strips a monitorKey's optional "namespace/" prefix, since
// Monitor is cluster-scoped and client.ObjectKey needs a bare name.
func monitorName(ref string) string {
	for i := len(ref) - 1; i >= 0; i-- {
		if ref[i] == '/' {
			return ref[i+1:]
		}
	}
	return ref
}

// SetupWithManager registers the completion watcher against every Job
// carrying the checker component label.
func (w *CompletionWatcher) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&batchv1.Job{}, builder.WithPredicates(predicate.NewPredicateFuncs(func(obj client.Object) bool {
			return obj.GetLabels()[LabelComponent] == LabelComponentValue
		}))).
		Named("checker-job-completion").
		Complete(w)
}
