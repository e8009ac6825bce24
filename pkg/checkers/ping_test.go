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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func pingMonitor(host string, timeoutSeconds int32) *monitoringv1.Monitor {
	return &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type:     monitoringv1.MonitorTypePing,
			Schedule: monitoringv1.Schedule{TimeoutSeconds: timeoutSeconds},
			Target:   monitoringv1.Target{Ping: &monitoringv1.PingTarget{Host: host}},
		},
	}
}

func pingTransports(output string, err error) *Transports {
	return &Transports{RunPing: func(ctx context.Context, host string, count int, timeout time.Duration) (string, error) {
		return output, err
	}}
}

func TestCheckPing_ParsesRoundTripTime(t *testing.T) {
	tr := pingTransports("64 bytes from 1.1.1.1: icmp_seq=1 ttl=56 time=12.3 ms", nil)
	res := CheckPing(tr)(context.Background(), pingMonitor("1.1.1.1", 5))

	assert.Equal(t, monitoringv1.CheckStateUp, res.State)
	assert.Equal(t, "PING_OK", res.Reason)
	assert.EqualValues(t, 12, res.LatencyMs)
}

func TestCheckPing_UnreachableOn100PercentLoss(t *testing.T) {
	tr := pingTransports("3 packets transmitted, 0 received, 100% packet loss, time 2045ms", errors.New("exit status 1"))
	res := CheckPing(tr)(context.Background(), pingMonitor("10.0.0.1", 5))

	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "PING_UNREACHABLE", res.Reason)
}

func TestCheckPing_UnknownHostIsNXDOMAIN(t *testing.T) {
	tr := pingTransports("ping: unknown host no-such-host.invalid", errors.New("exit status 2"))
	res := CheckPing(tr)(context.Background(), pingMonitor("no-such-host.invalid", 5))

	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "DNS_NXDOMAIN", res.Reason)
}

func TestCheckPing_DeadlineExceededIsTimeout(t *testing.T) {
	tr := pingTransports("", context.DeadlineExceeded)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	res := CheckPing(tr)(ctx, pingMonitor("1.1.1.1", 1))

	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, ReasonTimeout, res.Reason)
}

func TestCheckPing_InvalidConfigMissingHost(t *testing.T) {
	mon := &monitoringv1.Monitor{Spec: monitoringv1.MonitorSpec{Type: monitoringv1.MonitorTypePing}}
	res := CheckPing(pingTransports("", nil))(context.Background(), mon)

	assert.Equal(t, ReasonInvalidConfig, res.Reason)
}
