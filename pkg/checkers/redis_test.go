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
	"testing"

	"github.com/stretchr/testify/assert"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

type fakeRedisConn struct {
	reply string
	err   error
}

func (c fakeRedisConn) Ping(ctx context.Context) (string, error) { return c.reply, c.err }
func (c fakeRedisConn) Close() error                             { return nil }

func redisMonitor() *monitoringv1.Monitor {
	return &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type:     monitoringv1.MonitorTypeRedis,
			Schedule: monitoringv1.Schedule{TimeoutSeconds: 5},
			Target:   monitoringv1.Target{Redis: &monitoringv1.RedisTarget{Host: "cache.internal", Port: 6379}},
		},
	}
}

func TestCheckRedis_OK(t *testing.T) {
	tr := &Transports{DialRedis: func(addr, password string, tls *monitoringv1.TLSConfig) RedisConn {
		return fakeRedisConn{reply: "PONG"}
	}}
	res := CheckRedis(tr)(context.Background(), redisMonitor())
	assert.Equal(t, monitoringv1.CheckStateUp, res.State)
	assert.Equal(t, "REDIS_OK", res.Reason)
}

func TestCheckRedis_AuthFailed(t *testing.T) {
	tr := &Transports{DialRedis: func(addr, password string, tls *monitoringv1.TLSConfig) RedisConn {
		return fakeRedisConn{err: fmt.Errorf("NOAUTH Authentication required")}
	}}
	res := CheckRedis(tr)(context.Background(), redisMonitor())
	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "AUTH_FAILED", res.Reason)
}

func TestCheckRedis_UnexpectedResponse(t *testing.T) {
	tr := &Transports{DialRedis: func(addr, password string, tls *monitoringv1.TLSConfig) RedisConn {
		return fakeRedisConn{reply: "WRONG"}
	}}
	res := CheckRedis(tr)(context.Background(), redisMonitor())
	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "REDIS_UNEXPECTED_RESPONSE", res.Reason)
}
