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
	"bytes"
	"context"
	"fmt"
	"time"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// CheckTCP implements the tcp MonitorType: connect, optionally write
// `send`, optionally read until `expect` is seen or the timeout fires.
func CheckTCP(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.TCP
		if t == nil || t.Host == "" || t.Port == 0 {
			return invalidConfig(started, "target.tcp.host and target.tcp.port are required")
		}

		addr := fmt.Sprintf("%s:%d", t.Host, t.Port)
		conn, err := tr.Dial(ctx, "tcp", addr)
		if err != nil {
			return down(started, classifyDialError(ctx, err), err.Error())
		}
		defer conn.Close()

		if deadline, ok := ctx.Deadline(); ok {
			conn.SetDeadline(deadline)
		}

		if t.Send != "" {
			if _, err := conn.Write([]byte(t.Send)); err != nil {
				return down(started, "SEND_ERROR", err.Error())
			}
		}

		if t.Expect == "" {
			return up(started, "TCP_OK", "")
		}

		buf := make([]byte, 0, 4096)
		chunk := make([]byte, 4096)
		for {
			n, err := conn.Read(chunk)
			buf = append(buf, chunk[:n]...)
			if bytes.Contains(buf, []byte(t.Expect)) {
				return up(started, "TCP_OK", "")
			}
			if err != nil {
				if ctx.Err() != nil {
					return down(started, ReasonTimeout, "timed out waiting for expected response")
				}
				return down(started, "CONNECTION_ERROR", err.Error())
			}
		}
	}
}
