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

// Package statusapi implements the read-only external HTTP surface:
// status-page rollups, badges, uptime, incidents, and heartbeats.
// No durable operator state exists outside the CRD status subresource and
// the cluster's own Event log, so every handler here reads live from the
// controller-runtime cache or, for history, from corev1 Events the
// scheduler's completion watcher records against each Monitor
// (pkg/scheduler.ReasonHeartbeat / ReasonStateChanged).
package statusapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/julienschmidt/httprouter"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
	"github.com/yuptime/yuptime-operator/pkg/scheduler"
)

// Server serves the read-only /api/v1 routes.
type Server struct {
	client client.Client
	logger log.Logger
	router *httprouter.Router
}

// New constructs a Server and registers every route.
func New(c client.Client, logger log.Logger) *Server {
	s := &Server{client: c, logger: logger, router: httprouter.New()}
	s.router.GET("/api/v1/status/:slug", s.handleStatus)
	s.router.GET("/api/v1/badge/:slug/:namespace/:name", s.handleBadge)
	s.router.GET("/api/v1/uptime/:monitor", s.handleUptime)
	s.router.GET("/api/v1/incidents", s.handleIncidents)
	s.router.GET("/api/v1/heartbeats/:monitorId", s.handleHeartbeats)
	s.router.GET("/api/v1/monitors/:monitorId/stats", s.handleMonitorStats)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		level.Error(s.logger).Log("msg", "encode status api response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// monitorGroupStatus is one row of a status-page rollup.
type monitorGroupStatus struct {
	Namespace string                     `json:"namespace"`
	Name      string                     `json:"name"`
	State     monitoringv1.CheckState    `json:"state"`
	Uptime    *monitoringv1.UptimeStatus `json:"uptime,omitempty"`
	CheckedAt *time.Time                `json:"checkedAt,omitempty"`
}

type statusPageResponse struct {
	Slug    string `json:"slug"`
	Overall string `json:"overall"`
	Groups  []struct {
		Name     string                `json:"name"`
		Monitors []monitorGroupStatus `json:"monitors"`
	} `json:"groups"`
}

// handleStatus implements GET /api/v1/status/:slug.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slug := ps.ByName("slug")

	var pages monitoringv1.StatusPageList
	if err := s.client.List(r.Context(), &pages); err != nil {
		s.writeError(w, http.StatusInternalServerError, "list status pages")
		return
	}

	var page *monitoringv1.StatusPage
	for i := range pages.Items {
		if pages.Items[i].Spec.Slug == slug {
			page = &pages.Items[i]
			break
		}
	}
	if page == nil {
		s.writeError(w, http.StatusNotFound, "no status page with that slug")
		return
	}

	resp := statusPageResponse{Slug: slug, Overall: "up"}
	for _, group := range page.Spec.Groups {
		out := struct {
			Name     string                `json:"name"`
			Monitors []monitorGroupStatus `json:"monitors"`
		}{Name: group.Name}

		for _, ref := range group.Monitors {
			var mon monitoringv1.Monitor
			if err := s.client.Get(r.Context(), client.ObjectKey{Name: ref.Name}, &mon); err != nil {
				continue
			}
			row := monitorGroupStatus{Namespace: ref.Namespace, Name: ref.Name, State: monitoringv1.CheckStateUp, Uptime: mon.Status.Uptime}
			if mon.Status.LastResult != nil {
				row.State = mon.Status.LastResult.State
				t := mon.Status.LastResult.CheckedAt.Time
				row.CheckedAt = &t
				if row.State == monitoringv1.CheckStateDown {
					resp.Overall = "down"
				}
			}
			out.Monitors = append(out.Monitors, row)
		}
		resp.Groups = append(resp.Groups, out)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

const (
	badgeUpSVG      = `<svg xmlns="http://www.w3.org/2000/svg" width="90" height="20"><rect width="90" height="20" fill="#4c1"/><text x="45" y="14" font-family="sans-serif" font-size="11" fill="#fff" text-anchor="middle">up</text></svg>`
	badgeDownSVG    = `<svg xmlns="http://www.w3.org/2000/svg" width="90" height="20"><rect width="90" height="20" fill="#e05d44"/><text x="45" y="14" font-family="sans-serif" font-size="11" fill="#fff" text-anchor="middle">down</text></svg>`
	badgeUnknownSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="90" height="20"><rect width="90" height="20" fill="#9f9f9f"/><text x="45" y="14" font-family="sans-serif" font-size="11" fill="#fff" text-anchor="middle">unknown</text></svg>`
)

// handleBadge implements GET /api/v1/badge/:slug/:namespace/:name. The slug
// is accepted but not validated against a StatusPage: a badge is a public
// embed, and limiting it to monitors already listed on a page would make it
// useless for monitors a user wants badged without a full page.
func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")

	var mon monitoringv1.Monitor
	svg := badgeUnknownSVG
	if err := s.client.Get(r.Context(), client.ObjectKey{Name: name}, &mon); err == nil && mon.Status.LastResult != nil {
		if mon.Status.LastResult.State == monitoringv1.CheckStateUp {
			svg = badgeUpSVG
		} else {
			svg = badgeDownSVG
		}
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg))
}

// handleUptime implements GET /api/v1/uptime/:monitor?days=N, resolving N to
// the smallest status.uptime horizon that covers it: 24h for N <= 1 (or
// unset), 7d for N <= 7, 30d otherwise. The 1h horizon is not served here.
func (s *Server) handleUptime(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("monitor")
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 1
	}

	var mon monitoringv1.Monitor
	if err := s.client.Get(r.Context(), client.ObjectKey{Name: name}, &mon); err != nil {
		if apierrors.IsNotFound(err) {
			s.writeError(w, http.StatusNotFound, "monitor not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "get monitor")
		return
	}
	if mon.Status.Uptime == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"monitor": name, "days": days, "percentage": nil})
		return
	}

	var pct *string
	switch {
	case days <= 1:
		pct = mon.Status.Uptime.TwentyFourHour
	case days <= 7:
		pct = mon.Status.Uptime.SevenDay
	default:
		pct = mon.Status.Uptime.ThirtyDay
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"monitor": name, "days": days, "percentage": pct})
}

type eventRow struct {
	Type      string    `json:"type"`
	Reason    string    `json:"reason"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// listMonitorEvents lists Events whose involvedObject names monitorName,
// newest first, filtered to reason (scheduler.ReasonHeartbeat or
// scheduler.ReasonStateChanged), capped at limit.
func (s *Server) listMonitorEvents(r *http.Request, monitorName, reason string, limit int) ([]eventRow, error) {
	var events corev1.EventList
	if err := s.client.List(r.Context(), &events); err != nil {
		return nil, err
	}

	var rows []eventRow
	for _, e := range events.Items {
		if e.InvolvedObject.Name != monitorName {
			continue
		}
		if reason != "" && e.Reason != reason {
			continue
		}
		ts := e.LastTimestamp.Time
		if ts.IsZero() {
			ts = e.EventTime.Time
		}
		rows = append(rows, eventRow{Type: e.Type, Reason: e.Reason, Message: e.Message, Timestamp: ts})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp.After(rows[j].Timestamp) })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// handleIncidents implements GET /api/v1/incidents?monitorId=&limit=.
func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	monitorID := r.URL.Query().Get("monitorId")
	if monitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitorId is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := s.listMonitorEvents(r, monitorID, scheduler.ReasonStateChanged, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "list incidents")
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

// handleHeartbeats implements GET /api/v1/heartbeats/:monitorId?limit=.
func (s *Server) handleHeartbeats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	monitorID := ps.ByName("monitorId")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.listMonitorEvents(r, monitorID, scheduler.ReasonHeartbeat, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "list heartbeats")
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

type monitorStats struct {
	Monitor        string                     `json:"monitor"`
	State          monitoringv1.CheckState    `json:"state"`
	LastLatencyMs  int64                      `json:"lastLatencyMs"`
	Uptime         *monitoringv1.UptimeStatus `json:"uptime,omitempty"`
	HeartbeatCount int                        `json:"recentHeartbeatCount"`
}

// handleMonitorStats implements GET /api/v1/monitors/:monitorId/stats.
func (s *Server) handleMonitorStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("monitorId")

	var mon monitoringv1.Monitor
	if err := s.client.Get(r.Context(), client.ObjectKey{Name: name}, &mon); err != nil {
		if apierrors.IsNotFound(err) {
			s.writeError(w, http.StatusNotFound, "monitor not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "get monitor")
		return
	}

	stats := monitorStats{Monitor: name, Uptime: mon.Status.Uptime}
	if mon.Status.LastResult != nil {
		stats.State = mon.Status.LastResult.State
		stats.LastLatencyMs = mon.Status.LastResult.LatencyMs
	}
	if rows, err := s.listMonitorEvents(r, name, scheduler.ReasonHeartbeat, 0); err == nil {
		stats.HeartbeatCount = len(rows)
	}
	s.writeJSON(w, http.StatusOK, stats)
}
