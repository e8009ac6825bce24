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

// Package discovery implements the Service/Ingress discovery controller:
// annotated workloads are synthesized into Monitor objects tied back to
// their source resource through a source annotation. Monitor is
// cluster-scoped and a namespaced Service/Ingress cannot own a
// cluster-scoped dependent, so deletion is handled by these reconcilers
// explicitly instead of by owner-reference garbage collection. Wired
// through controller-runtime exactly as pkg/reconcile.SetupAll wires the
// CRD kinds, reusing pkg/scheduler/jobbuilder.go's name-sanitization
// convention for derived Monitor names.
package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

const (
	// AnnotationEnabled opts a Service or Ingress into discovery.
	AnnotationEnabled = "monitoring.yuptime.io/enabled"
	// AnnotationCheckType selects the derived Monitor's type.
	AnnotationCheckType = "monitoring.yuptime.io/check-type"
	// AnnotationHealthPath is the HTTP(S) path to probe.
	AnnotationHealthPath = "monitoring.yuptime.io/health-path"
	// AnnotationIntervalSeconds overrides the derived Monitor's interval.
	AnnotationIntervalSeconds = "monitoring.yuptime.io/interval-seconds"
	// AnnotationTimeoutSeconds overrides the derived Monitor's timeout.
	AnnotationTimeoutSeconds = "monitoring.yuptime.io/timeout-seconds"
	// AnnotationVerifyTLS toggles TLS certificate verification for grpc
	// checks ("false" skips it). Derived http/https checks do not read it.
	AnnotationVerifyTLS = "monitoring.yuptime.io/verify-tls"
	// AnnotationPort overrides the port a tcp/grpc Monitor targets.
	AnnotationPort = "monitoring.yuptime.io/port"
	// AnnotationSource records the "<Kind>/<namespace>/<name>" of the
	// Service or Ingress a discovered Monitor was derived from, so the
	// reconcilers can find and delete derived Monitors when the source
	// goes away.
	AnnotationSource = "monitoring.yuptime.io/source"

	// LabelManagedBy marks every Monitor this controller creates; deletion
	// cascades from the source resource only when the label still matches.
	LabelManagedBy      = "managed-by"
	LabelManagedByValue = "discovery"

	defaultIntervalSeconds = 60
	defaultTimeoutSeconds  = 10
)

// Options configures discovery-controller behavior.
type Options struct {
	// WriteCRDs gates whether discovered Monitors are actually created; when
	// false the controller only logs what it would create.
	WriteCRDs bool
}

var invalidNameCharRE = regexp.MustCompile(`[^a-z0-9-]+`)

// sanitize lowercases s, replaces runs of invalid characters with a single
// '-', strips leading/trailing dashes, and truncates to 63 characters —
// the same DNS-label discipline pkg/scheduler/jobbuilder.go applies to
// worker Job names.
func sanitize(s string) string {
	s = invalidNameCharRE.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if len(s) > 63 {
		s = strings.Trim(s[:63], "-")
	}
	return s
}

// ServiceReconciler derives a Monitor from any Service carrying
// AnnotationEnabled=true.
type ServiceReconciler struct {
	Client  client.Client
	Logger  log.Logger
	Options Options
}

func (r *ServiceReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	var svc corev1.Service
	if err := r.Client.Get(ctx, req.NamespacedName, &svc); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, r.deleteDerived(ctx, derivedServiceMonitorName(req.Namespace, req.Name))
		}
		return ctrl.Result{}, errors.Wrap(err, "get service")
	}

	if svc.Annotations[AnnotationEnabled] != "true" {
		return ctrl.Result{}, r.deleteDerived(ctx, derivedServiceMonitorName(svc.Namespace, svc.Name))
	}

	mon := r.buildFromAnnotations(&svc, svc.Annotations, derivedServiceMonitorName(svc.Namespace, svc.Name), svc.Name+"."+svc.Namespace+".svc.cluster.local")
	return ctrl.Result{}, r.apply(ctx, mon)
}

// derivedServiceMonitorName builds the "auto-svc-<sanitized>" name and
// re-sanitizes after prefixing, so the 63-character DNS-label cap bounds
// the whole name, not just the namespace+name portion.
func derivedServiceMonitorName(namespace, name string) string {
	return sanitize("auto-svc-" + sanitize(namespace+"-"+name))
}

func (r *ServiceReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&corev1.Service{}).
		Named("discovery-service").
		Complete(r)
}

// IngressReconciler derives one Monitor per rule host from any Ingress
// carrying AnnotationEnabled=true. Hosts listed under spec.tls imply https.
type IngressReconciler struct {
	Client  client.Client
	Logger  log.Logger
	Options Options
}

func (r *IngressReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	source := sourceKey("Ingress", req.Namespace, req.Name)

	var ing networkingv1.Ingress
	if err := r.Client.Get(ctx, req.NamespacedName, &ing); err != nil {
		if apierrors.IsNotFound(err) {
			// Host-keyed names can't be recomputed without the object; the
			// source annotation is the only way back to the derived set.
			return ctrl.Result{}, deleteDerivedForSource(ctx, r.Client, r.Logger, source, nil)
		}
		return ctrl.Result{}, errors.Wrap(err, "get ingress")
	}

	if ing.Annotations[AnnotationEnabled] != "true" {
		return ctrl.Result{}, deleteDerivedForSource(ctx, r.Client, r.Logger, source, nil)
	}

	tlsHosts := map[string]bool{}
	for _, t := range ing.Spec.TLS {
		for _, h := range t.Hosts {
			tlsHosts[h] = true
		}
	}

	current := map[string]bool{}
	for _, rule := range ing.Spec.Rules {
		if rule.Host == "" {
			continue
		}
		path := "/"
		if rule.HTTP != nil && len(rule.HTTP.Paths) > 0 {
			path = rule.HTTP.Paths[0].Path
		}

		scheme := "http"
		if tlsHosts[rule.Host] {
			scheme = "https"
		}
		annotations := map[string]string{}
		for k, v := range ing.Annotations {
			annotations[k] = v
		}
		if _, ok := annotations[AnnotationCheckType]; !ok {
			annotations[AnnotationCheckType] = scheme
		}
		if _, ok := annotations[AnnotationHealthPath]; !ok {
			annotations[AnnotationHealthPath] = path
		}

		name := fmt.Sprintf("auto-ing-%s-%s", sanitize(ing.Name), sanitize(rule.Host))
		name = sanitize(name)
		current[name] = true
		mon := r.buildFromAnnotations(source, annotations, name, scheme+"://"+rule.Host+path)
		if err := r.apply(ctx, mon); err != nil {
			return ctrl.Result{}, err
		}
	}
	// Hosts removed from the Ingress leave stale derived Monitors behind;
	// sweep everything from this source that isn't in the current rule set.
	return ctrl.Result{}, deleteDerivedForSource(ctx, r.Client, r.Logger, source, current)
}

func (r *IngressReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&networkingv1.Ingress{}).
		Named("discovery-ingress").
		Complete(r)
}

// buildFromAnnotations is shared logic between the two reconcilers: turn a
// source object's discovery annotations into a Monitor spec. url is the
// fully-formed target URL (a cluster-DNS Service address, or the Ingress
// rule's host+path).
func buildFromAnnotations(source string, annotations map[string]string, name, url string) *monitoringv1.Monitor {
	interval := int32(defaultIntervalSeconds)
	if v, err := strconv.Atoi(annotations[AnnotationIntervalSeconds]); err == nil && v > 0 {
		interval = int32(v)
	}
	timeout := int32(defaultTimeoutSeconds)
	if v, err := strconv.Atoi(annotations[AnnotationTimeoutSeconds]); err == nil && v > 0 {
		timeout = int32(v)
	}

	checkType := annotations[AnnotationCheckType]
	monType := monitoringv1.MonitorTypeHTTP
	target := monitoringv1.Target{}
	switch checkType {
	case "tcp":
		monType = monitoringv1.MonitorTypeTCP
		host, port := splitHostPort(url, annotations[AnnotationPort])
		target.TCP = &monitoringv1.TCPTarget{Host: host, Port: port}
	case "grpc":
		monType = monitoringv1.MonitorTypeGRPC
		host, port := splitHostPort(url, annotations[AnnotationPort])
		tls := &monitoringv1.TLSConfig{Enabled: true, InsecureSkipVerify: annotations[AnnotationVerifyTLS] == "false"}
		target.GRPC = &monitoringv1.GRPCTarget{Host: host, Port: port, TLS: tls}
	default: // "http" or "https"
		monType = monitoringv1.MonitorTypeHTTP
		target.HTTP = &monitoringv1.HTTPTarget{URL: url, Method: "GET"}
	}

	return &monitoringv1.Monitor{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Labels:      map[string]string{LabelManagedBy: LabelManagedByValue},
			Annotations: map[string]string{AnnotationSource: source},
		},
		Spec: monitoringv1.MonitorSpec{
			Enabled: true,
			Type:    monType,
			Schedule: monitoringv1.Schedule{
				IntervalSeconds: interval,
				TimeoutSeconds:  timeout,
			},
			Target: target,
		},
	}
}

func extractHost(url string) string {
	s := url
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/:"); i >= 0 {
		s = s[:i]
	}
	return s
}

func splitHostPort(url, portAnnotation string) (string, int32) {
	host := extractHost(url)
	port := int32(80)
	if v, err := strconv.Atoi(portAnnotation); err == nil && v > 0 {
		port = int32(v)
	}
	return host, port
}

// sourceKey renders the "<Kind>/<namespace>/<name>" value stored in
// AnnotationSource.
func sourceKey(kind, namespace, name string) string {
	return kind + "/" + namespace + "/" + name
}

func (r *ServiceReconciler) buildFromAnnotations(svc *corev1.Service, annotations map[string]string, name, url string) *monitoringv1.Monitor {
	return buildFromAnnotations(sourceKey("Service", svc.Namespace, svc.Name), annotations, name, defaultURL(annotations, url))
}

func (r *IngressReconciler) buildFromAnnotations(source string, annotations map[string]string, name, url string) *monitoringv1.Monitor {
	return buildFromAnnotations(source, annotations, name, url)
}

// defaultURL composes a Service's cluster-DNS address with its configured
// scheme and health path.
func defaultURL(annotations map[string]string, clusterDNS string) string {
	scheme := annotations[AnnotationCheckType]
	if scheme != "https" {
		scheme = "http"
	}
	path := annotations[AnnotationHealthPath]
	if path == "" {
		path = "/healthz"
	}
	port := annotations[AnnotationPort]
	if port == "" {
		port = "80"
	}
	return fmt.Sprintf("%s://%s:%s%s", scheme, clusterDNS, port, path)
}

// apply writes or dry-run-logs the derived Monitor: when Options.WriteCRDs
// is false, the would-be spec is logged at Info instead of created, so
// operators can diff dry-run output against what would be written.
func (r *ServiceReconciler) apply(ctx context.Context, mon *monitoringv1.Monitor) error {
	return apply(ctx, r.Client, r.Logger, r.Options, mon)
}

func (r *ServiceReconciler) deleteDerived(ctx context.Context, name string) error {
	return deleteDerived(ctx, r.Client, r.Logger, name)
}

func (r *IngressReconciler) apply(ctx context.Context, mon *monitoringv1.Monitor) error {
	return apply(ctx, r.Client, r.Logger, r.Options, mon)
}

func apply(ctx context.Context, c client.Client, logger log.Logger, opts Options, mon *monitoringv1.Monitor) error {
	if !opts.WriteCRDs {
		level.Info(logger).Log("msg", "dry-run: would create monitor", "name", mon.Name, "spec", fmt.Sprintf("%+v", mon.Spec))
		return nil
	}

	var existing monitoringv1.Monitor
	err := c.Get(ctx, client.ObjectKey{Name: mon.Name}, &existing)
	switch {
	case apierrors.IsNotFound(err):
		if err := c.Create(ctx, mon); err != nil {
			return errors.Wrapf(err, "create discovered monitor %q", mon.Name)
		}
		return nil
	case err != nil:
		return errors.Wrapf(err, "get discovered monitor %q", mon.Name)
	}

	if existing.Labels[LabelManagedBy] != LabelManagedByValue {
		// A user-owned Monitor occupies this name; don't clobber it.
		return nil
	}
	existing.Spec = mon.Spec
	if err := c.Update(ctx, &existing); err != nil {
		return errors.Wrapf(err, "update discovered monitor %q", mon.Name)
	}
	return nil
}

// deleteDerivedForSource deletes every managed-by=discovery Monitor whose
// source annotation matches source, except names listed in keep. Used by
// the Ingress reconciler, whose host-keyed Monitor names can't be derived
// from the request alone.
func deleteDerivedForSource(ctx context.Context, c client.Client, logger log.Logger, source string, keep map[string]bool) error {
	var monitors monitoringv1.MonitorList
	if err := c.List(ctx, &monitors, client.MatchingLabels{LabelManagedBy: LabelManagedByValue}); err != nil {
		return errors.Wrap(err, "list discovered monitors")
	}
	for i := range monitors.Items {
		mon := &monitors.Items[i]
		if mon.Annotations[AnnotationSource] != source || keep[mon.Name] {
			continue
		}
		if err := c.Delete(ctx, mon); err != nil && !apierrors.IsNotFound(err) {
			return errors.Wrapf(err, "delete discovered monitor %q", mon.Name)
		}
		level.Info(logger).Log("msg", "deleted discovered monitor for removed source", "monitor", mon.Name, "source", source)
	}
	return nil
}

// deleteDerived removes a discovered Monitor only if it's still
// managed-by=discovery; hand-adopted Monitors survive source deletion.
func deleteDerived(ctx context.Context, c client.Client, logger log.Logger, name string) error {
	var mon monitoringv1.Monitor
	if err := c.Get(ctx, client.ObjectKey{Name: name}, &mon); err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return errors.Wrapf(err, "get discovered monitor %q", name)
	}
	if mon.Labels[LabelManagedBy] != LabelManagedByValue {
		return nil
	}
	if err := c.Delete(ctx, &mon); err != nil && !apierrors.IsNotFound(err) {
		return errors.Wrapf(err, "delete discovered monitor %q", name)
	}
	level.Info(logger).Log("msg", "deleted discovered monitor for removed source", "monitor", name)
	return nil
}
