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
	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// Matches reports whether a Monitor (identified by its cluster-scoped name
// and labels) is covered by sel. An empty Selector matches everything.
// Monitor itself is cluster-scoped, so a non-empty MatchNamespaces on a
// Selector targeting Monitors never matches.
func Matches(sel monitoringv1.Selector, monitorLabels map[string]string) bool {
	if len(sel.MatchNamespaces) > 0 {
		return false
	}
	for k, v := range sel.MatchLabels {
		if monitorLabels[k] != v {
			return false
		}
	}
	return true
}
