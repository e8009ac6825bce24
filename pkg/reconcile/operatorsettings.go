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
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// SettingsNotifier receives live updates whenever the singleton
// OperatorSettings object is reconciled, letting the scheduler pick up a new
// concurrency cap without a restart.
type SettingsNotifier interface {
	OnSettingsUpdated(spec monitoringv1.OperatorSettingsSpec)
}

type noopSettingsNotifier struct{}

func (noopSettingsNotifier) OnSettingsUpdated(monitoringv1.OperatorSettingsSpec) {}

// OperatorSettingsHandler implements Handler for the OperatorSettings
// singleton (the global concurrency cap and default jitter).
type OperatorSettingsHandler struct {
	Client   client.Client
	Notifier SettingsNotifier
}

func NewOperatorSettingsHandler(c client.Client, notifier SettingsNotifier) *OperatorSettingsHandler {
	if notifier == nil {
		notifier = noopSettingsNotifier{}
	}
	return &OperatorSettingsHandler{Client: c, Notifier: notifier}
}

func (h *OperatorSettingsHandler) NewObject() Object { return &monitoringv1.OperatorSettings{} }

func (h *OperatorSettingsHandler) Validate(o Object) error {
	s := o.(*monitoringv1.OperatorSettings)
	if s.Spec.MaxConcurrentChecks < 0 {
		return fmt.Errorf("maxConcurrentChecks must not be negative")
	}
	if s.Spec.MinIntervalSeconds < 0 {
		return fmt.Errorf("minIntervalSeconds must not be negative")
	}
	return nil
}

func (h *OperatorSettingsHandler) Reconcile(_ context.Context, o Object) (ctrl.Result, error) {
	s := o.(*monitoringv1.OperatorSettings)
	h.Notifier.OnSettingsUpdated(s.Spec)
	return ctrl.Result{}, nil
}

func (h *OperatorSettingsHandler) SetReady(o Object, now metav1.Time, ok bool, reason, message string) {
	s := o.(*monitoringv1.OperatorSettings)
	s.Status.ObservedGeneration = s.Generation
	s.Status.Conditions = monitoringv1.SetCondition(s.Status.Conditions, now, monitoringv1.ReadyCondition(now, ok, reason, message))
}

func (h *OperatorSettingsHandler) PatchStatus(ctx context.Context, c client.Client, o Object) error {
	s := o.(*monitoringv1.OperatorSettings)
	if err := c.Status().Update(ctx, s); err != nil {
		return errors.Wrap(err, "update operatorsettings status")
	}
	return nil
}
