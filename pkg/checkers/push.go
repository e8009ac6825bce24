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

package checkers

import (
	"context"
	"time"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// DefaultPushGracePeriodSeconds is used when PushTarget.GracePeriodSeconds is zero.
const DefaultPushGracePeriodSeconds = 300

// CheckPush implements the push MonitorType: a check-by-absence
// evaluation of the Monitor's own last-pushed status
// rather than any network probe. The scheduler launches this on the same
// interval±jitter cadence as every other Monitor; the "check" just reads
// back status.lastResult and compares its age to the grace period, which
// is how a push Monitor transitions from up to down once the external
// caller stops pushing.
func CheckPush(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.Push
		grace := int32(DefaultPushGracePeriodSeconds)
		if t != nil && t.GracePeriodSeconds > 0 {
			grace = t.GracePeriodSeconds
		}

		last := mon.Status.LastResult
		if last == nil {
			return down(started, "NO_PUSH_RECEIVED", "no push has ever been received")
		}

		age := time.Since(last.CheckedAt.Time)
		if age > time.Duration(grace)*time.Second {
			return down(started, "PUSH_TIMEOUT", "no push received within grace period")
		}

		// Within the grace period: the Monitor's state mirrors whatever the
		// last push reported, not a freshly-measured latency.
		return Result{
			State:     last.State,
			Reason:    last.Reason,
			Message:   last.Message,
			LatencyMs: last.LatencyMs,
		}
	}
}
