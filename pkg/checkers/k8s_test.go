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

package checkers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func k8sCheckerTestScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, appsv1.AddToScheme(scheme))
	require.NoError(t, corev1.AddToScheme(scheme))
	return scheme
}

func k8sMonitor(kind monitoringv1.K8sResourceKind, namespace, name string, minReady int32) *monitoringv1.Monitor {
	return &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type: monitoringv1.MonitorTypeK8s,
			Target: monitoringv1.Target{K8s: &monitoringv1.K8sTarget{
				Kind: kind, Namespace: namespace, Name: name, MinReadyReplicas: minReady,
			}},
		},
	}
}

func TestCheckK8s_DeploymentReadyReplicasMeetsThreshold(t *testing.T) {
	dep := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "api"},
		Status:     appsv1.DeploymentStatus{ReadyReplicas: 3},
	}
	c := fake.NewClientBuilder().WithScheme(k8sCheckerTestScheme(t)).WithObjects(dep).Build()
	tr := &Transports{K8sClient: c}

	res := CheckK8s(tr)(context.Background(), k8sMonitor(monitoringv1.K8sKindDeployment, "default", "api", 2))

	assert.Equal(t, monitoringv1.CheckStateUp, res.State)
	assert.Equal(t, "K8S_READY", res.Reason)
}

func TestCheckK8s_DeploymentBelowMinReadyIsDown(t *testing.T) {
	dep := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "api"},
		Status:     appsv1.DeploymentStatus{ReadyReplicas: 1},
	}
	c := fake.NewClientBuilder().WithScheme(k8sCheckerTestScheme(t)).WithObjects(dep).Build()
	tr := &Transports{K8sClient: c}

	res := CheckK8s(tr)(context.Background(), k8sMonitor(monitoringv1.K8sKindDeployment, "default", "api", 2))

	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "K8S_NOT_READY", res.Reason)
}

func TestCheckK8s_MissingResourceIsNotFound(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(k8sCheckerTestScheme(t)).Build()
	tr := &Transports{K8sClient: c}

	res := CheckK8s(tr)(context.Background(), k8sMonitor(monitoringv1.K8sKindDeployment, "default", "ghost", 1))

	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "K8S_NOT_FOUND", res.Reason)
}

func TestCheckK8s_PodRunningWithReadyContainersIsUp(t *testing.T) {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "worker"},
		Status: corev1.PodStatus{
			Phase:             corev1.PodRunning,
			ContainerStatuses: []corev1.ContainerStatus{{Name: "main", Ready: true}},
		},
	}
	c := fake.NewClientBuilder().WithScheme(k8sCheckerTestScheme(t)).WithObjects(pod).Build()
	tr := &Transports{K8sClient: c}

	res := CheckK8s(tr)(context.Background(), k8sMonitor(monitoringv1.K8sKindPod, "default", "worker", 1))

	assert.Equal(t, monitoringv1.CheckStateUp, res.State)
	assert.Equal(t, "K8S_READY", res.Reason)
}

func TestCheckK8s_PodWithUnreadyContainerIsDown(t *testing.T) {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "worker"},
		Status: corev1.PodStatus{
			Phase:             corev1.PodRunning,
			ContainerStatuses: []corev1.ContainerStatus{{Name: "main", Ready: false}},
		},
	}
	c := fake.NewClientBuilder().WithScheme(k8sCheckerTestScheme(t)).WithObjects(pod).Build()
	tr := &Transports{K8sClient: c}

	res := CheckK8s(tr)(context.Background(), k8sMonitor(monitoringv1.K8sKindPod, "default", "worker", 1))

	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "K8S_NOT_READY", res.Reason)
}

func TestCheckK8s_EndpointCountsAddresses(t *testing.T) {
	ep := &corev1.Endpoints{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "svc"},
		Subsets: []corev1.EndpointSubset{{
			Addresses: []corev1.EndpointAddress{{IP: "10.0.0.1"}, {IP: "10.0.0.2"}},
		}},
	}
	c := fake.NewClientBuilder().WithScheme(k8sCheckerTestScheme(t)).WithObjects(ep).Build()
	tr := &Transports{K8sClient: c}

	res := CheckK8s(tr)(context.Background(), k8sMonitor(monitoringv1.K8sKindEndpoint, "default", "svc", 1))

	assert.Equal(t, monitoringv1.CheckStateUp, res.State)
}

func TestCheckK8s_InvalidConfigMissingName(t *testing.T) {
	mon := &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type:   monitoringv1.MonitorTypeK8s,
			Target: monitoringv1.Target{K8s: &monitoringv1.K8sTarget{Kind: monitoringv1.K8sKindPod, Namespace: "default"}},
		},
	}
	res := CheckK8s(&Transports{})(context.Background(), mon)

	assert.Equal(t, ReasonInvalidConfig, res.Reason)
}
