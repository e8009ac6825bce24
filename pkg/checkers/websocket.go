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
	"regexp"
	"strings"
	"time"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// CheckWebSocket implements the websocket MonitorType.
func CheckWebSocket(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.WebSocket
		if t == nil || t.URL == "" {
			return invalidConfig(started, "target.websocket.url is required")
		}
		if !strings.HasPrefix(t.URL, "ws://") && !strings.HasPrefix(t.URL, "wss://") {
			return invalidConfig(started, "target.websocket.url must use ws:// or wss://")
		}

		timeout := time.Duration(mon.Spec.Schedule.TimeoutSeconds) * time.Second
		conn, err := tr.DialWebSocket(ctx, t.URL, timeout)
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return down(started, ReasonTimeout, err.Error())
			}
			return down(started, "WEBSOCKET_ERROR", err.Error())
		}
		defer conn.Close()

		if t.Send != "" {
			if err := conn.WriteMessage(1, []byte(t.Send)); err != nil {
				return down(started, "WEBSOCKET_ERROR", err.Error())
			}
		}
		if t.Expect == "" {
			return up(started, "WEBSOCKET_OK", "")
		}

		if deadline, ok := ctx.Deadline(); ok {
			conn.SetReadDeadline(deadline)
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return down(started, ReasonTimeout, err.Error())
			}
			return down(started, "WEBSOCKET_ERROR", err.Error())
		}

		matched := strings.Contains(string(msg), t.Expect)
		if !matched {
			if re, rerr := regexp.Compile(t.Expect); rerr == nil {
				matched = re.Match(msg)
			}
		}
		if !matched {
			return down(started, "WEBSOCKET_ERROR", "first inbound message did not contain or match expect")
		}
		return up(started, "WEBSOCKET_OK", "")
	}
}
