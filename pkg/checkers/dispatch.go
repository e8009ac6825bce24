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

// Registry dispatches a Monitor to its checker by spec.Type. Built once
// around a Transports instance (production or mock) and reused across
// every check execution a worker process performs.
type Registry struct {
	byType map[monitoringv1.MonitorType]Checker
}

// NewRegistry builds the dispatch table used by the checker-executor binary
// and by tests driving the whole engine against mock transports.
func NewRegistry(tr *Transports) *Registry {
	return &Registry{byType: map[monitoringv1.MonitorType]Checker{
		monitoringv1.MonitorTypeHTTP:       CheckHTTP(tr),
		monitoringv1.MonitorTypeKeyword:    CheckKeyword(tr),
		monitoringv1.MonitorTypeJSONQuery:  CheckJSONQuery(tr),
		monitoringv1.MonitorTypeTCP:        CheckTCP(tr),
		monitoringv1.MonitorTypeDNS:        CheckDNS(tr),
		monitoringv1.MonitorTypePing:       CheckPing(tr),
		monitoringv1.MonitorTypeWebSocket:  CheckWebSocket(tr),
		monitoringv1.MonitorTypePush:       CheckPush(tr),
		monitoringv1.MonitorTypeSteam:      CheckSteam(tr),
		monitoringv1.MonitorTypeGRPC:       CheckGRPC(tr),
		monitoringv1.MonitorTypeMySQL:      CheckMySQL(tr),
		monitoringv1.MonitorTypePostgreSQL: CheckPostgreSQL(tr),
		monitoringv1.MonitorTypeRedis:      CheckRedis(tr),
		monitoringv1.MonitorTypeK8s:        CheckK8s(tr),
	}}
}

// Run executes the checker registered for mon.Spec.Type, enforcing the
// configured timeout as a hard upper bound and never letting a panic
// escape the worker process.
func (r *Registry) Run(ctx context.Context, mon *monitoringv1.Monitor) (result Result) {
	started := time.Now()

	checker, ok := r.byType[mon.Spec.Type]
	if !ok {
		return invalidConfig(started, "no checker registered for type "+string(mon.Spec.Type))
	}

	timeout := time.Duration(mon.Spec.Schedule.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			result = down(started, "EXECUTION_ERROR", "checker panicked")
		}
	}()

	return checker(ctx, mon)
}
