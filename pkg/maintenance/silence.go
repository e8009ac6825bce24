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

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// IsSilenced reports whether at falls within any Silence whose selector
// matches monitorLabels.
func IsSilenced(silences []monitoringv1.Silence, monitorLabels map[string]string, at time.Time) bool {
	for _, s := range silences {
		if !Matches(s.Spec.Selector, monitorLabels) {
			continue
		}
		if !at.Before(s.Spec.StartsAt.Time) && at.Before(s.Spec.EndsAt.Time) {
			return true
		}
	}
	return false
}
