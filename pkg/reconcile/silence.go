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

// SilenceHandler implements Handler for Silence, a one-shot time-bounded
// alert suppression. Like MaintenanceWindow, the active check happens on
// demand in pkg/maintenance rather than here.
type SilenceHandler struct {
	Client client.Client
}

func NewSilenceHandler(c client.Client) *SilenceHandler {
	return &SilenceHandler{Client: c}
}

func (h *SilenceHandler) NewObject() Object { return &monitoringv1.Silence{} }

func (h *SilenceHandler) Validate(o Object) error {
	s := o.(*monitoringv1.Silence)
	if !s.Spec.EndsAt.Time.After(s.Spec.StartsAt.Time) {
		return fmt.Errorf("endsAt must be after startsAt")
	}
	return nil
}

func (h *SilenceHandler) Reconcile(_ context.Context, _ Object) (ctrl.Result, error) {
	return ctrl.Result{}, nil
}

func (h *SilenceHandler) SetReady(o Object, now metav1.Time, ok bool, reason, message string) {
	s := o.(*monitoringv1.Silence)
	s.Status.ObservedGeneration = s.Generation
	s.Status.Conditions = monitoringv1.SetCondition(s.Status.Conditions, now, monitoringv1.ReadyCondition(now, ok, reason, message))
}

func (h *SilenceHandler) PatchStatus(ctx context.Context, c client.Client, o Object) error {
	s := o.(*monitoringv1.Silence)
	if err := c.Status().Update(ctx, s); err != nil {
		return errors.Wrap(err, "update silence status")
	}
	return nil
}
