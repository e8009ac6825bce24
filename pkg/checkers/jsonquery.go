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
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

var bracketIndexRE = regexp.MustCompile(`\[(\d+)\]`)

// CheckJSONQuery implements the jsonQuery MonitorType: the HTTP check, then
// a gjson path lookup with exists/equals assertions. `path` is dot notation
// with bracket indices ("items[0].state"); bracket indices are rewritten to
// gjson's ".N" form before the lookup.
func CheckJSONQuery(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		outcome := doHTTPCheck(ctx, tr, started, mon)
		if outcome.result.State != monitoringv1.CheckStateUp {
			return outcome.result
		}

		t := mon.Spec.Target.HTTP
		if t.JSONQuery == nil || t.JSONQuery.Path == "" {
			return invalidConfig(started, "target.http.jsonQuery.path is required for type=jsonQuery")
		}
		q := t.JSONQuery

		if !gjson.ValidBytes(outcome.body) {
			return down(started, "JSON_ERROR", "response body is not valid JSON")
		}
		path := strings.TrimPrefix(bracketIndexRE.ReplaceAllString(q.Path, ".$1"), ".")
		result := gjson.GetBytes(outcome.body, path)

		exists := q.Exists == nil || *q.Exists
		if result.Exists() != exists {
			if exists {
				return down(started, "JSON_PATH_NOT_FOUND", fmt.Sprintf("path %q not found", q.Path))
			}
			return down(started, "JSON_VALUE_MISMATCH", fmt.Sprintf("path %q unexpectedly present", q.Path))
		}
		if q.Equals != "" && result.String() != q.Equals {
			return down(started, "JSON_VALUE_MISMATCH", fmt.Sprintf("path %q = %q, want %q", q.Path, result.String(), q.Equals))
		}

		res := up(started, outcome.result.Reason, "")
		return applySuccessCriteria(res, mon.Spec.SuccessCriteria)
	}
}
