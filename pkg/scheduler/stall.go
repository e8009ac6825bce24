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
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// StallInterval is how often the stall detector sweeps all Monitors.
const StallInterval = 30 * time.Second

// StallDetector is the sole recovery path for missed completion events
// (e.g. a watch connection breaking during Job termination). It runs
// independently of the event-driven scheduling loop.
type StallDetector struct {
	Client   client.Client
	Logger   log.Logger
	Manager  *Manager
	Interval time.Duration
}

// NewStallDetector constructs a StallDetector with the default 30s sweep
// interval.
func NewStallDetector(c client.Client, logger log.Logger, mgr *Manager) *StallDetector {
	return &StallDetector{Client: c, Logger: logger, Manager: mgr, Interval: StallInterval}
}

// Run sweeps every Interval until ctx is cancelled, implementing the
// oklog/run actor signature cmd/operator wires it with.
func (d *StallDetector) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.sweep(ctx); err != nil {
				level.Error(d.Logger).Log("msg", "stall sweep failed", "err", err)
			}
		}
	}
}

// sweep runs one stall-detector pass: any enabled Monitor whose lastResult
// is missing or older than 2x its interval, with no active Job and no
// pending timer, is launched immediately.
func (d *StallDetector) sweep(ctx context.Context) error {
	var monitors monitoringv1.MonitorList
	if err := d.Client.List(ctx, &monitors); err != nil {
		return errors.Wrap(err, "list monitors")
	}

	now := time.Now()
	for i := range monitors.Items {
		mon := &monitors.Items[i]
		if !mon.Spec.Enabled {
			continue
		}

		key := monitorKey(mon.Namespace, mon.Name)
		if d.Manager.IsActiveOrPending(key) {
			continue
		}

		stalled := mon.Status.LastResult == nil
		if !stalled {
			threshold := 2 * time.Duration(mon.Spec.Schedule.IntervalSeconds) * time.Second
			stalled = now.Sub(mon.Status.LastResult.CheckedAt.Time) > threshold
		}
		if !stalled {
			continue
		}

		level.Info(d.Logger).Log("msg", "launching stalled monitor", "monitor", key)
		d.Manager.ForceLaunch(mon)
	}
	return nil
}
