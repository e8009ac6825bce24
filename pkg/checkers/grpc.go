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
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// CheckGRPC implements the grpc MonitorType: call the standard
// Health.Check RPC and map its status.
func CheckGRPC(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.GRPC
		if t == nil || t.Host == "" || t.Port == 0 {
			return invalidConfig(started, "target.grpc.host and target.grpc.port are required")
		}

		target := fmt.Sprintf("%s:%d", t.Host, t.Port)
		conn, err := tr.DialGRPCHealth(ctx, target, t.TLS)
		if err != nil {
			return down(started, "GRPC_UNAVAILABLE", err.Error())
		}
		defer conn.Close()

		resp, err := conn.Client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: t.Service})
		if err != nil {
			switch status.Code(err) {
			case codes.Unavailable:
				return down(started, "GRPC_UNAVAILABLE", err.Error())
			case codes.DeadlineExceeded:
				return down(started, ReasonTimeout, err.Error())
			default:
				return down(started, "GRPC_UNKNOWN", err.Error())
			}
		}

		switch resp.Status {
		case grpc_health_v1.HealthCheckResponse_SERVING:
			return up(started, "GRPC_SERVING", "")
		case grpc_health_v1.HealthCheckResponse_NOT_SERVING:
			return down(started, "GRPC_NOT_SERVING", "")
		case grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN:
			return down(started, "GRPC_SERVICE_UNKNOWN", "")
		default:
			return down(started, "GRPC_UNKNOWN", resp.Status.String())
		}
	}
}
