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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func pushMonitor(grace int32, last *monitoringv1.CheckResultStatus) *monitoringv1.Monitor {
	return &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type:   monitoringv1.MonitorTypePush,
			Target: monitoringv1.Target{Push: &monitoringv1.PushTarget{GracePeriodSeconds: grace}},
		},
		Status: monitoringv1.MonitorStatus{LastResult: last},
	}
}

func TestCheckPush_NeverReceived(t *testing.T) {
	res := CheckPush(nil)(context.Background(), pushMonitor(60, nil))
	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "NO_PUSH_RECEIVED", res.Reason)
}

func TestCheckPush_WithinGrace(t *testing.T) {
	last := &monitoringv1.CheckResultStatus{
		State: monitoringv1.CheckStateUp, Reason: "PUSH_OK",
		CheckedAt: metav1.NewTime(time.Now().Add(-10 * time.Second)),
	}
	res := CheckPush(nil)(context.Background(), pushMonitor(60, last))
	assert.Equal(t, monitoringv1.CheckStateUp, res.State)
	assert.Equal(t, "PUSH_OK", res.Reason)
}

func TestCheckPush_GraceExpired(t *testing.T) {
	last := &monitoringv1.CheckResultStatus{
		State: monitoringv1.CheckStateUp, Reason: "PUSH_OK",
		CheckedAt: metav1.NewTime(time.Now().Add(-120 * time.Second)),
	}
	res := CheckPush(nil)(context.Background(), pushMonitor(60, last))
	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "PUSH_TIMEOUT", res.Reason)
}
