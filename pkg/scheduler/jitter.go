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

// Package scheduler implements the job manager: an
// event-driven loop that launches one worker pod per enabled Monitor at
// approximately interval±jitter cadence, a stall detector that recovers
// from missed completion events, and the completion watcher that frees the
// slot of a terminal worker Job and schedules the Monitor's next run (the
// worker itself patches MonitorStatus).
package scheduler

import (
	"fmt"
	"hash/fnv"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// JitterOffsetMillis computes the deterministic per-Monitor launch offset:
// hash(monitorKey) normalized to [0, 1),
// multiplied by jitterPercent/100 * intervalSeconds * 1000, floored to an
// integer millisecond. The same Monitor always gets the same offset across
// operator restarts.
func JitterOffsetMillis(namespaceName string, intervalSeconds, jitterPercent int32) int64 {
	if jitterPercent <= 0 {
		jitterPercent = monitoringv1.DefaultJitterPercent
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(namespaceName))
	fraction := float64(h.Sum64()) / float64(^uint64(0))
	maxOffsetMillis := float64(jitterPercent) / 100 * float64(intervalSeconds) * 1000
	return int64(fraction * maxOffsetMillis)
}

// monitorKey is the string a Monitor's jitter hash and scheduling-lock map
// are keyed by, in "namespace/name" form, or the bare name when namespace is
// empty (as it is for the cluster-scoped Monitor).
func monitorKey(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return fmt.Sprintf("%s/%s", namespace, name)
}
