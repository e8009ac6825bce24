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
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

var pingRTTPattern = regexp.MustCompile(`time[=<]\s*([\d.]+)\s*ms`)

// runPlatformPing is the default RunPing transport: the Linux iputils
// `ping` binary, invoked with -c <count> -W <timeoutSeconds>. Worker pods
// run on Linux nodes, so the platform flag conventions collapse to this
// one binding.
func runPlatformPing(ctx context.Context, host string, count int, timeout time.Duration) (string, error) {
	timeoutSecs := int(timeout.Seconds())
	if timeoutSecs < 1 {
		timeoutSecs = 1
	}
	cmd := exec.CommandContext(ctx, "ping",
		"-c", strconv.Itoa(count),
		"-W", strconv.Itoa(timeoutSecs),
		host,
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// CheckPing implements the ping MonitorType: delegate to the platform
// ping executor and parse its stdout.
func CheckPing(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.Ping
		if t == nil || t.Host == "" {
			return invalidConfig(started, "target.ping.host is required")
		}
		count := t.PacketCount
		if count <= 0 {
			count = 1
		}

		timeout := time.Duration(mon.Spec.Schedule.TimeoutSeconds) * time.Second
		output, err := tr.RunPing(ctx, t.Host, int(count), timeout)
		lower := strings.ToLower(output)

		if ctx.Err() == context.DeadlineExceeded {
			return down(started, ReasonTimeout, "ping executor killed at deadline")
		}
		if strings.Contains(lower, "unknown host") || strings.Contains(lower, "name or service not known") {
			return down(started, "DNS_NXDOMAIN", output)
		}
		if strings.Contains(lower, "no route") || strings.Contains(lower, "unreachable") {
			if strings.Contains(lower, "100% packet loss") || strings.Contains(lower, "unreachable") {
				return down(started, "PING_UNREACHABLE", output)
			}
			return down(started, "UNREACHABLE", output)
		}
		if strings.Contains(lower, "100% packet loss") {
			return down(started, "PING_UNREACHABLE", output)
		}
		if err != nil {
			return down(started, ReasonTimeout, output)
		}

		match := pingRTTPattern.FindStringSubmatch(output)
		if match == nil {
			return down(started, "PING_UNREACHABLE", "no round-trip time found in ping output")
		}
		rtt, perr := strconv.ParseFloat(match[1], 64)
		if perr != nil {
			return down(started, "PING_UNREACHABLE", "could not parse round-trip time")
		}
		res := up(started, "PING_OK", "")
		res.LatencyMs = int64(rtt)
		return applySuccessCriteria(res, mon.Spec.SuccessCriteria)
	}
}
