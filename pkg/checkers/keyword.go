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

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// CheckKeyword implements the keyword MonitorType: the HTTP check, then
// contains/notContains/regex assertions against the response body.
func CheckKeyword(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		outcome := doHTTPCheck(ctx, tr, started, mon)
		if outcome.result.State != monitoringv1.CheckStateUp {
			return outcome.result
		}

		t := mon.Spec.Target.HTTP
		if t.Keyword == nil {
			return invalidConfig(started, "target.http.keyword is required for type=keyword")
		}
		body := string(outcome.body)

		if reason, msg, ok := evaluateKeyword(body, *t.Keyword); !ok {
			return down(started, reason, msg)
		}
		res := up(started, outcome.result.Reason, "")
		return applySuccessCriteria(res, mon.Spec.SuccessCriteria)
	}
}

// evaluateKeyword applies the contains/notContains/regex criteria in order,
// returning the first failing assertion's reason and message.
func evaluateKeyword(body string, c monitoringv1.KeywordCriteria) (reason, message string, ok bool) {
	for _, want := range c.Contains {
		if !strings.Contains(body, want) {
			return "KEYWORD_MISSING", fmt.Sprintf("expected body to contain %q", want), false
		}
	}
	for _, unwanted := range c.NotContains {
		if strings.Contains(body, unwanted) {
			return "KEYWORD_PRESENT", fmt.Sprintf("expected body not to contain %q", unwanted), false
		}
	}
	for _, pattern := range c.Regex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return "INVALID_REGEX", err.Error(), false
		}
		if !re.MatchString(body) {
			return "REGEX_NO_MATCH", fmt.Sprintf("body did not match %q", pattern), false
		}
	}
	return "", "", true
}
