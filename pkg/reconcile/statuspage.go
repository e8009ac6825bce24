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

// StatusPageHandler implements Handler for StatusPage. It confirms every
// referenced Monitor exists; pkg/statusapi reads StatusPage objects
// directly at request time to assemble the public rollup, so Reconcile's
// only job is to surface broken references early.
type StatusPageHandler struct {
	Client client.Client
}

func NewStatusPageHandler(c client.Client) *StatusPageHandler {
	return &StatusPageHandler{Client: c}
}

func (h *StatusPageHandler) NewObject() Object { return &monitoringv1.StatusPage{} }

func (h *StatusPageHandler) Validate(o Object) error {
	sp := o.(*monitoringv1.StatusPage)
	if sp.Spec.Slug == "" {
		return fmt.Errorf("slug is required")
	}
	if len(sp.Spec.Groups) == 0 {
		return fmt.Errorf("at least one group is required")
	}
	return nil
}

func (h *StatusPageHandler) Reconcile(ctx context.Context, o Object) (ctrl.Result, error) {
	sp := o.(*monitoringv1.StatusPage)
	for _, g := range sp.Spec.Groups {
		for _, m := range g.Monitors {
			var mon monitoringv1.Monitor
			if err := h.Client.Get(ctx, client.ObjectKey{Name: m.Name}, &mon); err != nil {
				return ctrl.Result{}, errors.Wrapf(err, "group %q references missing monitor %q", g.Name, m.Name)
			}
		}
	}
	return ctrl.Result{}, nil
}

func (h *StatusPageHandler) SetReady(o Object, now metav1.Time, ok bool, reason, message string) {
	sp := o.(*monitoringv1.StatusPage)
	sp.Status.ObservedGeneration = sp.Generation
	sp.Status.Conditions = monitoringv1.SetCondition(sp.Status.Conditions, now, monitoringv1.ReadyCondition(now, ok, reason, message))
}

func (h *StatusPageHandler) PatchStatus(ctx context.Context, c client.Client, o Object) error {
	sp := o.(*monitoringv1.StatusPage)
	if err := c.Status().Update(ctx, sp); err != nil {
		return errors.Wrap(err, "update statuspage status")
	}
	return nil
}
