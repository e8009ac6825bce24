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

// Package checkers implements the protocol check engine: one function per
// MonitorType, each returning a uniform Result regardless of the wire
// protocol underneath.
package checkers

import (
	"context"
	"time"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// Result is the outcome of a single check execution, independent of which
// protocol produced it.
type Result struct {
	State     monitoringv1.CheckState
	Reason    string
	Message   string
	LatencyMs int64
}

// Reason values shared across more than one checker family. Per-protocol
// reasons (HTTP_OK, TCP_OK, DNS_NXDOMAIN, ...) live alongside their checker;
// the enum is prefixed and closed per protocol family rather than global.
const (
	ReasonTimeout       = "TIMEOUT"
	ReasonInvalidConfig = "INVALID_CONFIG"
)

// up builds a success Result with the given reason, timing latencyMs from started.
func up(started time.Time, reason, message string) Result {
	return Result{
		State:     monitoringv1.CheckStateUp,
		Reason:    reason,
		Message:   message,
		LatencyMs: time.Since(started).Milliseconds(),
	}
}

// down builds a failure Result, timing latencyMs from started.
func down(started time.Time, reason, message string) Result {
	return Result{
		State:     monitoringv1.CheckStateDown,
		Reason:    reason,
		Message:   message,
		LatencyMs: time.Since(started).Milliseconds(),
	}
}

// Checker is the uniform signature every protocol implementation satisfies.
type Checker func(ctx context.Context, mon *monitoringv1.Monitor) Result

// applySuccessCriteria narrows an otherwise-up Result using
// MonitorSpec.SuccessCriteria's latency ceiling. Status-code acceptance is
// applied inline by the HTTP checker, which is the only protocol with a
// status-code concept.
func applySuccessCriteria(res Result, sc *monitoringv1.SuccessCriteria) Result {
	if sc == nil || res.State != monitoringv1.CheckStateUp {
		return res
	}
	if sc.LatencyMsUnder != nil && res.LatencyMs >= *sc.LatencyMsUnder {
		res.State = monitoringv1.CheckStateDown
		res.Reason = "LATENCY_EXCEEDED"
		res.Message = "response exceeded configured latency threshold"
	}
	return res
}

// invalidConfig builds the uniform down-result for a Monitor whose Target
// variant is missing or structurally incomplete for its declared Type.
func invalidConfig(started time.Time, message string) Result {
	return down(started, ReasonInvalidConfig, message)
}
