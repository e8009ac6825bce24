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
	"net/url"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// NotificationProviderHandler implements Handler for NotificationProvider.
type NotificationProviderHandler struct {
	Client client.Client
}

func NewNotificationProviderHandler(c client.Client) *NotificationProviderHandler {
	return &NotificationProviderHandler{Client: c}
}

func (h *NotificationProviderHandler) NewObject() Object { return &monitoringv1.NotificationProvider{} }

func (h *NotificationProviderHandler) Validate(o Object) error {
	np := o.(*monitoringv1.NotificationProvider)
	u, err := url.Parse(np.Spec.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url must be an absolute URL")
	}
	return nil
}

func (h *NotificationProviderHandler) Reconcile(_ context.Context, _ Object) (ctrl.Result, error) {
	return ctrl.Result{}, nil
}

func (h *NotificationProviderHandler) SetReady(o Object, now metav1.Time, ok bool, reason, message string) {
	np := o.(*monitoringv1.NotificationProvider)
	np.Status.ObservedGeneration = np.Generation
	np.Status.Conditions = monitoringv1.SetCondition(np.Status.Conditions, now, monitoringv1.ReadyCondition(now, ok, reason, message))
}

func (h *NotificationProviderHandler) PatchStatus(ctx context.Context, c client.Client, o Object) error {
	np := o.(*monitoringv1.NotificationProvider)
	if err := c.Status().Update(ctx, np); err != nil {
		return errors.Wrap(err, "update notificationprovider status")
	}
	return nil
}

// NotificationPolicyHandler implements Handler for NotificationPolicy. It
// confirms the referenced NotificationProvider exists so policy mistakes
// surface as ReconcileFailed rather than a silent no-op in the dispatcher.
type NotificationPolicyHandler struct {
	Client client.Client
}

func NewNotificationPolicyHandler(c client.Client) *NotificationPolicyHandler {
	return &NotificationPolicyHandler{Client: c}
}

func (h *NotificationPolicyHandler) NewObject() Object { return &monitoringv1.NotificationPolicy{} }

func (h *NotificationPolicyHandler) Validate(o Object) error {
	np := o.(*monitoringv1.NotificationPolicy)
	if np.Spec.ProviderName == "" {
		return fmt.Errorf("providerName is required")
	}
	return nil
}

func (h *NotificationPolicyHandler) Reconcile(ctx context.Context, o Object) (ctrl.Result, error) {
	np := o.(*monitoringv1.NotificationPolicy)
	var provider monitoringv1.NotificationProvider
	if err := h.Client.Get(ctx, client.ObjectKey{Name: np.Spec.ProviderName}, &provider); err != nil {
		return ctrl.Result{}, errors.Wrapf(err, "lookup notificationprovider %q", np.Spec.ProviderName)
	}
	return ctrl.Result{}, nil
}

func (h *NotificationPolicyHandler) SetReady(o Object, now metav1.Time, ok bool, reason, message string) {
	np := o.(*monitoringv1.NotificationPolicy)
	np.Status.ObservedGeneration = np.Generation
	np.Status.Conditions = monitoringv1.SetCondition(np.Status.Conditions, now, monitoringv1.ReadyCondition(now, ok, reason, message))
}

func (h *NotificationPolicyHandler) PatchStatus(ctx context.Context, c client.Client, o Object) error {
	np := o.(*monitoringv1.NotificationPolicy)
	if err := c.Status().Update(ctx, np); err != nil {
		return errors.Wrap(err, "update notificationpolicy status")
	}
	return nil
}
