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
	"github.com/yuptime/yuptime-operator/pkg/maintenance"
)

// MaintenanceWindowHandler implements Handler for MaintenanceWindow. Its
// Validate parses the RRULE and its Reconcile does nothing: the actual active-window
// evaluation happens on demand in pkg/maintenance, read by the alert
// dispatcher at alert-send time rather than cached on the object.
type MaintenanceWindowHandler struct {
	Client client.Client
}

func NewMaintenanceWindowHandler(c client.Client) *MaintenanceWindowHandler {
	return &MaintenanceWindowHandler{Client: c}
}

func (h *MaintenanceWindowHandler) NewObject() Object { return &monitoringv1.MaintenanceWindow{} }

func (h *MaintenanceWindowHandler) Validate(o Object) error {
	mw := o.(*monitoringv1.MaintenanceWindow)
	if mw.Spec.DurationMinutes <= 0 {
		return fmt.Errorf("durationMinutes must be positive")
	}
	if _, err := maintenance.ParseRRule(mw.Spec.Schedule); err != nil {
		return errors.Wrap(err, "invalid schedule")
	}
	return nil
}

func (h *MaintenanceWindowHandler) Reconcile(_ context.Context, _ Object) (ctrl.Result, error) {
	return ctrl.Result{}, nil
}

func (h *MaintenanceWindowHandler) SetReady(o Object, now metav1.Time, ok bool, reason, message string) {
	mw := o.(*monitoringv1.MaintenanceWindow)
	mw.Status.ObservedGeneration = mw.Generation
	mw.Status.Conditions = monitoringv1.SetCondition(mw.Status.Conditions, now, monitoringv1.ReadyCondition(now, ok, reason, message))
}

func (h *MaintenanceWindowHandler) PatchStatus(ctx context.Context, c client.Client, o Object) error {
	mw := o.(*monitoringv1.MaintenanceWindow)
	if err := c.Status().Update(ctx, mw); err != nil {
		return errors.Wrap(err, "update maintenancewindow status")
	}
	return nil
}
