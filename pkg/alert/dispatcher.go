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

// Package alert implements the alert dispatcher: on a Monitor state
// change, find matching NotificationPolicies, skip any currently
// suppressed by a MaintenanceWindow or Silence, rate-limit, and POST the
// alert payload to the policy's NotificationProvider.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
	"github.com/yuptime/yuptime-operator/pkg/maintenance"
)

// Payload is the JSON body POSTed to a NotificationProvider's URL.
type Payload struct {
	Labels      map[string]string `json:"labels"`
	Status      string            `json:"status"`
	Annotations map[string]string `json:"annotations"`
	StartsAt    time.Time         `json:"startsAt"`
}

// delivery records a past send for the rate-limit window, keyed by
// policy+monitor so one policy's limit doesn't starve alerts for an
// unrelated Monitor.
type delivery struct {
	id string
	at time.Time
}

// Dispatcher fans a state change out to every matching NotificationPolicy.
// It holds no durable delivery state: the rate-limit window lives only in
// the process's memory, reset on restart.
type Dispatcher struct {
	client     client.Client
	logger     log.Logger
	httpClient *http.Client
	// namespace is where NotificationProvider.Spec.AuthTokenRef secrets are
	// resolved from — the operator's own namespace, matching the
	// credential-secret namespace convention pkg/secrets documents for
	// worker-pod CredentialRefs.
	namespace string

	mu   sync.Mutex
	last map[string]delivery
}

// New constructs a Dispatcher using go-cleanhttp's hardened default client
// for outbound POSTs, matching the production binding pkg/checkers uses for
// its own HTTP-family checkers.
func New(c client.Client, logger log.Logger, namespace string) *Dispatcher {
	return &Dispatcher{
		client:     c,
		logger:     logger,
		httpClient: cleanhttp.DefaultClient(),
		namespace:  namespace,
		last:       make(map[string]delivery),
	}
}

// ObserveState implements scheduler.StateObserver, letting cmd/operator
// register the Dispatcher directly with the completion watcher. Delivery
// errors are logged inside Dispatch and not propagated, since a failed
// alert POST must not affect scheduling or status bookkeeping.
func (d *Dispatcher) ObserveState(ctx context.Context, mon *monitoringv1.Monitor, prevState, newState monitoringv1.CheckState) {
	reason, message := "", ""
	if mon.Status.LastResult != nil {
		reason = mon.Status.LastResult.Reason
		message = mon.Status.LastResult.Message
	}
	if err := d.Dispatch(ctx, mon, prevState, newState, reason, message); err != nil {
		level.Error(d.logger).Log("msg", "dispatch alert failed", "monitor", mon.Name, "err", err)
	}
}

// Dispatch evaluates a Monitor's state change and posts to every policy
// that applies, is not currently suppressed, and is not rate-limited.
func (d *Dispatcher) Dispatch(ctx context.Context, mon *monitoringv1.Monitor, prevState, newState monitoringv1.CheckState, reason, message string) error {
	if prevState == newState {
		return nil
	}

	var policies monitoringv1.NotificationPolicyList
	if err := d.client.List(ctx, &policies); err != nil {
		return errors.Wrap(err, "list notificationpolicies")
	}

	var windows monitoringv1.MaintenanceWindowList
	if err := d.client.List(ctx, &windows); err != nil {
		return errors.Wrap(err, "list maintenancewindows")
	}
	var silences monitoringv1.SilenceList
	if err := d.client.List(ctx, &silences); err != nil {
		return errors.Wrap(err, "list silences")
	}

	now := time.Now()
	suppressed := maintenance.InMaintenanceWindow(d.logger, windows.Items, mon.Labels, now) ||
		maintenance.IsSilenced(silences.Items, mon.Labels, now)

	status := "firing"
	if newState == monitoringv1.CheckStateUp {
		status = "resolved"
	}

	var firstErr error
	for _, policy := range policies.Items {
		if !maintenance.Matches(policy.Spec.Selector, mon.Labels) {
			continue
		}
		if suppressed {
			level.Debug(d.logger).Log("msg", "skipping suppressed alert", "monitor", mon.Name, "policy", policy.Name)
			continue
		}
		if d.rateLimited(policy.Name, mon.Name, time.Duration(policy.Spec.RateLimitWindowSecs)*time.Second, now) {
			level.Debug(d.logger).Log("msg", "skipping rate-limited alert", "monitor", mon.Name, "policy", policy.Name)
			continue
		}

		var provider monitoringv1.NotificationProvider
		if err := d.client.Get(ctx, client.ObjectKey{Name: policy.Spec.ProviderName}, &provider); err != nil {
			level.Error(d.logger).Log("msg", "lookup notificationprovider failed", "policy", policy.Name, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		labels := map[string]string{"monitor": mon.Name, "namespace": mon.Namespace}
		for k, v := range mon.Labels {
			labels[k] = v
		}
		payload := Payload{
			Labels:      labels,
			Status:      status,
			Annotations: map[string]string{"reason": reason, "message": message},
			StartsAt:    now,
		}

		if err := d.post(ctx, &provider, payload); err != nil {
			level.Error(d.logger).Log("msg", "alert delivery failed", "policy", policy.Name, "provider", provider.Name, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		level.Info(d.logger).Log("msg", "alert delivered", "monitor", mon.Name, "policy", policy.Name, "status", status)
	}
	return firstErr
}

// rateLimited reports whether a delivery for (policyName, monitorName)
// already happened within window. A delivery that is not limited is recorded
// as the most recent send, including with a zero window (unlimited); a
// limited attempt is not recorded, so the window runs from the last send.
func (d *Dispatcher) rateLimited(policyName, monitorName string, window time.Duration, now time.Time) bool {
	key := policyName + "/" + monitorName

	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.last[key]; ok && window > 0 && now.Sub(prev.at) < window {
		return true
	}
	d.last[key] = delivery{id: uuid.NewString(), at: now}
	return false
}

// post POSTs payload to provider.Spec.URL. When the provider carries an
// AuthTokenRef, the referenced Secret is resolved directly by the operator
// and sent as a bearer token; unlike checker credentials there is no worker
// pod to project it into.
func (d *Dispatcher) post(ctx context.Context, provider *monitoringv1.NotificationProvider, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal alert payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.Spec.URL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build alert request")
	}
	req.Header.Set("Content-Type", "application/json")

	if provider.Spec.AuthTokenRef != nil {
		token, err := d.resolveAuthToken(ctx, provider.Spec.AuthTokenRef)
		if err != nil {
			return errors.Wrap(err, "resolve provider auth token")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "post alert")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert router returned status %d", resp.StatusCode)
	}
	return nil
}

// resolveAuthToken reads ref's Secret key from the operator's namespace.
func (d *Dispatcher) resolveAuthToken(ctx context.Context, ref *monitoringv1.CredentialRef) (string, error) {
	var secret corev1.Secret
	if err := d.client.Get(ctx, client.ObjectKey{Namespace: d.namespace, Name: ref.SecretName}, &secret); err != nil {
		return "", errors.Wrapf(err, "get secret %s/%s", d.namespace, ref.SecretName)
	}
	val, ok := secret.Data[ref.Key]
	if !ok {
		return "", errors.Errorf("secret %s/%s has no key %q", d.namespace, ref.SecretName, ref.Key)
	}
	return string(val), nil
}
