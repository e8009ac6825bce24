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

package discovery

import (
	"context"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func reqFor(obj client.Object) ctrl.Request {
	return ctrl.Request{NamespacedName: client.ObjectKeyFromObject(obj)}
}

func reqForNames(namespace, name string) ctrl.Request {
	return ctrl.Request{NamespacedName: types.NamespacedName{Namespace: namespace, Name: name}}
}

func apierrorsIsNotFound(err error) bool {
	return apierrors.IsNotFound(err)
}

func discoveryTestScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))
	require.NoError(t, networkingv1.AddToScheme(scheme))
	require.NoError(t, monitoringv1.AddToScheme(scheme))
	return scheme
}

func TestSanitize_LowercasesCollapsesAndTruncates(t *testing.T) {
	assert.Equal(t, "my-service", sanitize("My_Service"))
	assert.Equal(t, "a-b", sanitize("a___b"))
	assert.Equal(t, "trimmed", sanitize("--trimmed--"))
	assert.LessOrEqual(t, len(sanitize(strings.Repeat("x", 200))), 63)
}

func TestDerivedServiceMonitorName_NeverExceeds63CharsAfterPrefixing(t *testing.T) {
	name := derivedServiceMonitorName(strings.Repeat("n", 60), strings.Repeat("s", 60))

	assert.LessOrEqual(t, len(name), 63)
	assert.True(t, strings.HasPrefix(name, "auto-svc-"))
}

func enabledService(ns, name string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Namespace:   ns,
			Name:        name,
			Annotations: map[string]string{AnnotationEnabled: "true"},
		},
	}
}

func TestServiceReconciler_CreatesManagedMonitor(t *testing.T) {
	svc := enabledService("default", "api")
	c := fake.NewClientBuilder().WithScheme(discoveryTestScheme(t)).WithObjects(svc).Build()
	r := &ServiceReconciler{Client: c, Logger: log.NewNopLogger(), Options: Options{WriteCRDs: true}}

	_, err := r.Reconcile(context.Background(), reqFor(svc))
	require.NoError(t, err)

	var mon monitoringv1.Monitor
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Name: derivedServiceMonitorName("default", "api")}, &mon))
	assert.Equal(t, LabelManagedByValue, mon.Labels[LabelManagedBy])
	assert.Equal(t, monitoringv1.MonitorTypeHTTP, mon.Spec.Type)
	require.NotNil(t, mon.Spec.Target.HTTP)
	assert.Contains(t, mon.Spec.Target.HTTP.URL, "api.default.svc.cluster.local")
}

func TestServiceReconciler_DryRunDoesNotCreate(t *testing.T) {
	svc := enabledService("default", "api")
	c := fake.NewClientBuilder().WithScheme(discoveryTestScheme(t)).WithObjects(svc).Build()
	r := &ServiceReconciler{Client: c, Logger: log.NewNopLogger(), Options: Options{WriteCRDs: false}}

	_, err := r.Reconcile(context.Background(), reqFor(svc))
	require.NoError(t, err)

	var mon monitoringv1.Monitor
	err = c.Get(context.Background(), client.ObjectKey{Name: derivedServiceMonitorName("default", "api")}, &mon)
	assert.True(t, apierrorsIsNotFound(err))
}

func TestServiceReconciler_SourceDeletionRemovesOnlyManagedMonitor(t *testing.T) {
	name := derivedServiceMonitorName("default", "api")
	managed := &monitoringv1.Monitor{
		ObjectMeta: metav1.ObjectMeta{Name: name, Labels: map[string]string{LabelManagedBy: LabelManagedByValue}},
	}
	c := fake.NewClientBuilder().WithScheme(discoveryTestScheme(t)).WithObjects(managed).Build()
	r := &ServiceReconciler{Client: c, Logger: log.NewNopLogger(), Options: Options{WriteCRDs: true}}

	// The Service is gone (never added to the fake client); the reconciler
	// must delete the derived Monitor because its managed-by label matches.
	_, err := r.Reconcile(context.Background(), reqForNames("default", "api"))
	require.NoError(t, err)

	var mon monitoringv1.Monitor
	err = c.Get(context.Background(), client.ObjectKey{Name: name}, &mon)
	assert.True(t, apierrorsIsNotFound(err))
}

func TestServiceReconciler_SourceDeletionLeavesUserOwnedMonitorNameAlone(t *testing.T) {
	name := derivedServiceMonitorName("default", "api")
	userOwned := &monitoringv1.Monitor{ObjectMeta: metav1.ObjectMeta{Name: name}}
	c := fake.NewClientBuilder().WithScheme(discoveryTestScheme(t)).WithObjects(userOwned).Build()
	r := &ServiceReconciler{Client: c, Logger: log.NewNopLogger(), Options: Options{WriteCRDs: true}}

	_, err := r.Reconcile(context.Background(), reqForNames("default", "api"))
	require.NoError(t, err)

	var mon monitoringv1.Monitor
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Name: name}, &mon), "a Monitor without the managed-by label must survive source deletion")
}

func enabledIngress(ns, name string, hosts ...string) *networkingv1.Ingress {
	rules := make([]networkingv1.IngressRule, 0, len(hosts))
	for _, h := range hosts {
		rules = append(rules, networkingv1.IngressRule{Host: h})
	}
	return &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Namespace:   ns,
			Name:        name,
			Annotations: map[string]string{AnnotationEnabled: "true"},
		},
		Spec: networkingv1.IngressSpec{Rules: rules},
	}
}

func TestIngressReconciler_CreatesOneMonitorPerHost(t *testing.T) {
	ing := enabledIngress("default", "web", "a.example.com", "b.example.com")
	ing.Spec.TLS = []networkingv1.IngressTLS{{Hosts: []string{"b.example.com"}}}
	c := fake.NewClientBuilder().WithScheme(discoveryTestScheme(t)).WithObjects(ing).Build()
	r := &IngressReconciler{Client: c, Logger: log.NewNopLogger(), Options: Options{WriteCRDs: true}}

	_, err := r.Reconcile(context.Background(), reqFor(ing))
	require.NoError(t, err)

	var monitors monitoringv1.MonitorList
	require.NoError(t, c.List(context.Background(), &monitors))
	require.Len(t, monitors.Items, 2)

	byName := map[string]monitoringv1.Monitor{}
	for _, m := range monitors.Items {
		byName[m.Name] = m
	}
	plain, ok := byName["auto-ing-web-a-example-com"]
	require.True(t, ok)
	require.NotNil(t, plain.Spec.Target.HTTP)
	assert.Equal(t, "http://a.example.com/", plain.Spec.Target.HTTP.URL)
	assert.Equal(t, "Ingress/default/web", plain.Annotations[AnnotationSource])

	tls, ok := byName["auto-ing-web-b-example-com"]
	require.True(t, ok)
	require.NotNil(t, tls.Spec.Target.HTTP)
	assert.Equal(t, "https://b.example.com/", tls.Spec.Target.HTTP.URL)
}

func TestIngressReconciler_RemovedHostSweepsStaleMonitor(t *testing.T) {
	ing := enabledIngress("default", "web", "a.example.com", "b.example.com")
	c := fake.NewClientBuilder().WithScheme(discoveryTestScheme(t)).WithObjects(ing).Build()
	r := &IngressReconciler{Client: c, Logger: log.NewNopLogger(), Options: Options{WriteCRDs: true}}

	_, err := r.Reconcile(context.Background(), reqFor(ing))
	require.NoError(t, err)

	ing.Spec.Rules = ing.Spec.Rules[:1]
	require.NoError(t, c.Update(context.Background(), ing))
	_, err = r.Reconcile(context.Background(), reqFor(ing))
	require.NoError(t, err)

	var monitors monitoringv1.MonitorList
	require.NoError(t, c.List(context.Background(), &monitors))
	require.Len(t, monitors.Items, 1)
	assert.Equal(t, "auto-ing-web-a-example-com", monitors.Items[0].Name)
}

func TestIngressReconciler_SourceDeletionRemovesDerivedMonitors(t *testing.T) {
	ing := enabledIngress("default", "web", "a.example.com")
	c := fake.NewClientBuilder().WithScheme(discoveryTestScheme(t)).WithObjects(ing).Build()
	r := &IngressReconciler{Client: c, Logger: log.NewNopLogger(), Options: Options{WriteCRDs: true}}

	_, err := r.Reconcile(context.Background(), reqFor(ing))
	require.NoError(t, err)

	require.NoError(t, c.Delete(context.Background(), ing))
	_, err = r.Reconcile(context.Background(), reqForNames("default", "web"))
	require.NoError(t, err)

	var monitors monitoringv1.MonitorList
	require.NoError(t, c.List(context.Background(), &monitors))
	assert.Empty(t, monitors.Items)
}
