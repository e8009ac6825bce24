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
	"os"
	"time"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// CheckRedis implements the redis MonitorType: connect and issue PING.
func CheckRedis(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.Redis
		if t == nil || t.Host == "" {
			return invalidConfig(started, "target.redis.host is required")
		}

		var password string
		if t.PasswordRef != nil {
			password = os.Getenv("YUPTIME_CRED_REDIS_PASSWORD")
		}

		conn := tr.DialRedis(fmt.Sprintf("%s:%d", t.Host, t.Port), password, t.TLS)
		defer conn.Close()

		reply, err := conn.Ping(ctx)
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return down(started, ReasonTimeout, err.Error())
			}
			return down(started, classifySQLError(err), err.Error())
		}
		if reply != "PONG" {
			return down(started, "REDIS_UNEXPECTED_RESPONSE", fmt.Sprintf("got %q", reply))
		}
		return up(started, "REDIS_OK", "")
	}
}
