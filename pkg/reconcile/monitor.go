// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reconcile

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// ScheduleNotifier decouples the reconcile pipeline from pkg/scheduler: the
// scheduler registers itself here so the Monitor handler can push spec
// changes and deletions into the scheduling loop without an import cycle
// (scheduler already imports reconcile's apis; reconcile must not import
// scheduler).
type ScheduleNotifier interface {
	OnMonitorUpserted(mon *monitoringv1.Monitor)
	OnMonitorDeleted(key types.NamespacedName)
}

// noopNotifier is used when no scheduler is wired, e.g. in unit tests of the
// handler pipeline alone.
type noopNotifier struct{}

func (noopNotifier) OnMonitorUpserted(*monitoringv1.Monitor) {}
func (noopNotifier) OnMonitorDeleted(types.NamespacedName)   {}

// MonitorHandler implements Handler for the Monitor kind. Reconcile itself
// does no network I/O: Validate checks the Schedule bounds and that the
// Target variant matches Type, then Reconcile hands the object to the
// scheduler via Notifier. The actual probing happens in worker pods launched by
// pkg/scheduler, whose completion watcher patches MonitorStatus directly.
type MonitorHandler struct {
	Client   client.Client
	Notifier ScheduleNotifier
}

// NewMonitorHandler constructs a MonitorHandler, defaulting Notifier to a
// no-op when nil.
func NewMonitorHandler(c client.Client, notifier ScheduleNotifier) *MonitorHandler {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &MonitorHandler{Client: c, Notifier: notifier}
}

func (h *MonitorHandler) NewObject() Object { return &monitoringv1.Monitor{} }

func (h *MonitorHandler) Validate(o Object) error {
	mon := o.(*monitoringv1.Monitor)
	spec := mon.Spec

	if spec.Schedule.IntervalSeconds < monitoringv1.MinIntervalSeconds {
		return fmt.Errorf("schedule.intervalSeconds must be >= %d", monitoringv1.MinIntervalSeconds)
	}
	if spec.Schedule.TimeoutSeconds <= 0 {
		return fmt.Errorf("schedule.timeoutSeconds must be positive")
	}
	if spec.Schedule.TimeoutSeconds >= spec.Schedule.IntervalSeconds {
		return fmt.Errorf("schedule.timeoutSeconds must be less than intervalSeconds")
	}

	// The type discriminator and the populated target variant must agree;
	// the switch below is both the discriminator check and the per-type
	// required-field check.
	t := spec.Target
	switch spec.Type {
	case monitoringv1.MonitorTypeHTTP, monitoringv1.MonitorTypeKeyword, monitoringv1.MonitorTypeJSONQuery:
		if t.HTTP == nil {
			return fmt.Errorf("type %q requires target.http", spec.Type)
		}
		if spec.Type == monitoringv1.MonitorTypeKeyword && t.HTTP.Keyword == nil {
			return fmt.Errorf("type keyword requires target.http.keyword")
		}
		if spec.Type == monitoringv1.MonitorTypeJSONQuery && t.HTTP.JSONQuery == nil {
			return fmt.Errorf("type jsonQuery requires target.http.jsonQuery")
		}
	case monitoringv1.MonitorTypeTCP:
		if t.TCP == nil {
			return fmt.Errorf("type tcp requires target.tcp")
		}
	case monitoringv1.MonitorTypeDNS:
		if t.DNS == nil {
			return fmt.Errorf("type dns requires target.dns")
		}
	case monitoringv1.MonitorTypePing:
		if t.Ping == nil {
			return fmt.Errorf("type ping requires target.ping")
		}
	case monitoringv1.MonitorTypeWebSocket:
		if t.WebSocket == nil {
			return fmt.Errorf("type websocket requires target.websocket")
		}
	case monitoringv1.MonitorTypePush:
		if t.Push == nil {
			return fmt.Errorf("type push requires target.push")
		}
	case monitoringv1.MonitorTypeSteam:
		if t.Steam == nil {
			return fmt.Errorf("type steam requires target.steam")
		}
	case monitoringv1.MonitorTypeGRPC:
		if t.GRPC == nil {
			return fmt.Errorf("type grpc requires target.grpc")
		}
	case monitoringv1.MonitorTypeMySQL:
		if t.MySQL == nil {
			return fmt.Errorf("type mysql requires target.mysql")
		}
	case monitoringv1.MonitorTypePostgreSQL:
		if t.PostgreSQL == nil {
			return fmt.Errorf("type postgresql requires target.postgresql")
		}
	case monitoringv1.MonitorTypeRedis:
		if t.Redis == nil {
			return fmt.Errorf("type redis requires target.redis")
		}
	case monitoringv1.MonitorTypeK8s:
		if t.K8s == nil {
			return fmt.Errorf("type k8s requires target.k8s")
		}
	case monitoringv1.MonitorTypeDocker:
		return fmt.Errorf("type docker is not implemented by this operator")
	default:
		return fmt.Errorf("unknown monitor type %q", spec.Type)
	}
	return nil
}

// Reconcile hands the validated Monitor to the scheduler. Push-type
// Monitors are scheduled like any other: their worker pod does no network
// I/O, just re-evaluates status.lastResult's age against the grace period
// and re-patches status, which is how a push Monitor ever transitions from
// up to down once its external pusher goes quiet.
func (h *MonitorHandler) Reconcile(ctx context.Context, o Object) (ctrl.Result, error) {
	mon := o.(*monitoringv1.Monitor)
	if !mon.Spec.Enabled {
		h.Notifier.OnMonitorDeleted(types.NamespacedName{Name: mon.Name})
		return ctrl.Result{}, nil
	}
	h.Notifier.OnMonitorUpserted(mon)
	return ctrl.Result{}, nil
}

func (h *MonitorHandler) OnDeleted(_ context.Context, req ctrl.Request) {
	h.Notifier.OnMonitorDeleted(req.NamespacedName)
}

func (h *MonitorHandler) SetReady(o Object, now metav1.Time, ok bool, reason, message string) {
	mon := o.(*monitoringv1.Monitor)
	mon.Status.ObservedGeneration = mon.Generation
	mon.Status.Conditions = monitoringv1.SetCondition(mon.Status.Conditions, now, monitoringv1.ReadyCondition(now, ok, reason, message))
}

func (h *MonitorHandler) PatchStatus(ctx context.Context, c client.Client, o Object) error {
	mon := o.(*monitoringv1.Monitor)
	if err := c.Status().Update(ctx, mon); err != nil {
		return errors.Wrap(err, "update monitor status")
	}
	return nil
}
