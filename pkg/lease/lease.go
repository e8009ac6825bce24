// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lease implements the cluster-wide scheduler-leadership lease: one
// operator replica holds it and schedules; followers keep their watches warm
// but do not schedule. The owned/unowned state machine and change-hook API
// sit on top of a coordination.k8s.io/v1 Lease via client-go's
// leaderelection package.
package lease

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	coordinationv1 "k8s.io/api/coordination/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/leaderelection"
	"k8s.io/client-go/tools/leaderelection/resourcelock"
)

// Options configures the lease's timing.
type Options struct {
	// LeaseDuration is how long a held lease remains valid without renewal.
	LeaseDuration time.Duration
	// RenewDeadline is how long the holder tries to renew before giving up.
	RenewDeadline time.Duration
	// RetryPeriod is how often non-leaders attempt to acquire.
	RetryPeriod time.Duration
}

func (o *Options) defaultAndValidate() {
	if o.LeaseDuration == 0 {
		o.LeaseDuration = 30 * time.Second
	}
	if o.RenewDeadline == 0 {
		o.RenewDeadline = 15 * time.Second
	}
	if o.RetryPeriod == 0 {
		o.RetryPeriod = 2 * time.Second
	}
}

// Lease wraps a coordinationv1.Lease-backed leader election so the
// scheduler task (pkg/scheduler) can query and be notified of ownership.
type Lease struct {
	logger  log.Logger
	elector *leaderelection.LeaderElector

	mtx         sync.Mutex
	owned       bool
	changeHooks []func(owned bool)
}

// New constructs a Lease around the named coordination.k8s.io/v1 Lease
// object in namespace, identified as identity (typically the pod name).
func New(logger log.Logger, client kubernetes.Interface, namespace, name, identity string, opts *Options) (*Lease, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if opts == nil {
		opts = &Options{}
	}
	opts.defaultAndValidate()

	l := &Lease{logger: logger}

	lock := &resourcelock.LeaseLock{
		LeaseMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Client:    client.CoordinationV1(),
		LockConfig: resourcelock.ResourceLockConfig{
			Identity: identity,
		},
	}

	elector, err := leaderelection.NewLeaderElector(leaderelection.LeaderElectionConfig{
		Lock:          lock,
		LeaseDuration: opts.LeaseDuration,
		RenewDeadline: opts.RenewDeadline,
		RetryPeriod:   opts.RetryPeriod,
		Callbacks: leaderelection.LeaderCallbacks{
			OnStartedLeading: func(context.Context) { l.setOwned(true) },
			OnStoppedLeading: func() { l.setOwned(false) },
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "construct leader elector")
	}
	l.elector = elector
	return l, nil
}

// Owned reports whether this replica currently holds scheduler leadership.
func (l *Lease) Owned() bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.owned
}

// Register adds a function called whenever ownership changes. Hooks must
// not block.
func (l *Lease) Register(h func(owned bool)) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.changeHooks = append(l.changeHooks, h)
}

func (l *Lease) setOwned(owned bool) {
	l.mtx.Lock()
	changed := l.owned != owned
	l.owned = owned
	hooks := append([]func(bool){}, l.changeHooks...)
	l.mtx.Unlock()

	if !changed {
		return
	}
	if owned {
		level.Info(l.logger).Log("msg", "gained scheduler lease")
	} else {
		level.Info(l.logger).Log("msg", "lost scheduler lease")
	}
	for _, h := range hooks {
		h(owned)
	}
}

// Run blocks running the leader-election loop until ctx is canceled,
// continually retrying acquisition after losing or failing to gain the
// lease (leaderelection.RunOrDie's non-fatal equivalent).
func (l *Lease) Run(ctx context.Context) {
	for {
		l.elector.Run(ctx)
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// LeaseGVR identifies the coordination.k8s.io/v1 Lease kind, for callers
// wiring RBAC or informer watches that need it explicitly.
var LeaseGVR = coordinationv1.SchemeGroupVersion.WithResource("leases")
