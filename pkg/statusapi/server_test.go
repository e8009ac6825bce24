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

package statusapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func statusAPITestScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, monitoringv1.AddToScheme(scheme))
	return scheme
}

func ptrString(s string) *string { return &s }

func TestHandleStatus_AggregatesGroupsAndMarksOverallDown(t *testing.T) {
	up := &monitoringv1.Monitor{
		ObjectMeta: metav1.ObjectMeta{Name: "api"},
		Status:     monitoringv1.MonitorStatus{LastResult: &monitoringv1.CheckResultStatus{State: monitoringv1.CheckStateUp}},
	}
	down := &monitoringv1.Monitor{
		ObjectMeta: metav1.ObjectMeta{Name: "db"},
		Status:     monitoringv1.MonitorStatus{LastResult: &monitoringv1.CheckResultStatus{State: monitoringv1.CheckStateDown}},
	}
	page := &monitoringv1.StatusPage{
		ObjectMeta: metav1.ObjectMeta{Name: "public"},
		Spec: monitoringv1.StatusPageSpec{
			Slug: "public",
			Groups: []monitoringv1.StatusPageGroup{{
				Name: "core",
				Monitors: []monitoringv1.NamespacedMonitor{
					{Name: "api"}, {Name: "db"},
				},
			}},
		},
	}
	c := fake.NewClientBuilder().WithScheme(statusAPITestScheme(t)).WithObjects(up, down, page).Build()
	s := New(c, log.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status/public", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp statusPageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "down", resp.Overall)
	require.Len(t, resp.Groups, 1)
	assert.Len(t, resp.Groups[0].Monitors, 2)
}

func TestHandleStatus_UnknownSlugReturns404(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(statusAPITestScheme(t)).Build()
	s := New(c, log.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status/missing", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBadge_ReflectsMonitorState(t *testing.T) {
	down := &monitoringv1.Monitor{
		ObjectMeta: metav1.ObjectMeta{Name: "db"},
		Status:     monitoringv1.MonitorStatus{LastResult: &monitoringv1.CheckResultStatus{State: monitoringv1.CheckStateDown}},
	}
	c := fake.NewClientBuilder().WithScheme(statusAPITestScheme(t)).WithObjects(down).Build()
	s := New(c, log.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/badge/public/default/db", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "down")
}

func TestHandleBadge_UnknownMonitorIsUnknownNotError(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(statusAPITestScheme(t)).Build()
	s := New(c, log.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/badge/public/default/ghost", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown")
}

func TestHandleUptime_ResolvesHorizonFromDaysParam(t *testing.T) {
	mon := &monitoringv1.Monitor{
		ObjectMeta: metav1.ObjectMeta{Name: "api"},
		Status: monitoringv1.MonitorStatus{
			Uptime: &monitoringv1.UptimeStatus{
				TwentyFourHour: ptrString("99.9"),
				SevenDay:       ptrString("99.5"),
				ThirtyDay:      ptrString("99.0"),
			},
		},
	}
	c := fake.NewClientBuilder().WithScheme(statusAPITestScheme(t)).WithObjects(mon).Build()
	s := New(c, log.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/uptime/api?days=7", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "99.5", body["percentage"])
}

func TestHandleUptime_MissingMonitorReturns404(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(statusAPITestScheme(t)).Build()
	s := New(c, log.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/uptime/ghost", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleIncidents_RequiresMonitorID(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(statusAPITestScheme(t)).Build()
	s := New(c, log.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMonitorStats_ReportsLastResult(t *testing.T) {
	mon := &monitoringv1.Monitor{
		ObjectMeta: metav1.ObjectMeta{Name: "api"},
		Status: monitoringv1.MonitorStatus{
			LastResult: &monitoringv1.CheckResultStatus{State: monitoringv1.CheckStateUp, LatencyMs: 123},
		},
	}
	c := fake.NewClientBuilder().WithScheme(statusAPITestScheme(t)).WithObjects(mon).Build()
	s := New(c, log.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/monitors/api/stats", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats monitorStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, monitoringv1.CheckStateUp, stats.State)
	assert.EqualValues(t, 123, stats.LastLatencyMs)
}
