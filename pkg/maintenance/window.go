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

package maintenance

import (
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// InMaintenanceWindow reports whether at falls within any MaintenanceWindow
// whose selector matches monitorLabels. A malformed schedule is logged and
// skipped rather than failing the whole evaluation, since admission already
// validates schedules at reconcile time (pkg/reconcile.MaintenanceWindowHandler)
// and a parse failure here means stale cached state, not a live mistake.
func InMaintenanceWindow(logger log.Logger, windows []monitoringv1.MaintenanceWindow, monitorLabels map[string]string, at time.Time) bool {
	for _, w := range windows {
		if !Matches(w.Spec.Selector, monitorLabels) {
			continue
		}
		r, err := ParseRRule(w.Spec.Schedule)
		if err != nil {
			level.Warn(logger).Log("msg", "skipping maintenancewindow with invalid schedule", "name", w.Name, "err", err)
			continue
		}
		occ, ok := OccurrenceBefore(r, at)
		if !ok {
			continue
		}
		end := occ.Add(time.Duration(w.Spec.DurationMinutes) * time.Minute)
		if at.Before(end) {
			return true
		}
	}
	return false
}
