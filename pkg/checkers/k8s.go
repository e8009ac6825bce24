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
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// CheckK8s implements the k8s MonitorType: read a named
// Deployment/StatefulSet/Endpoint/Pod and evaluate its readiness.
func CheckK8s(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.K8s
		if t == nil || t.Name == "" || t.Namespace == "" {
			return invalidConfig(started, "target.k8s.namespace and target.k8s.name are required")
		}
		minReady := t.MinReadyReplicas
		if minReady <= 0 {
			minReady = 1
		}
		key := types.NamespacedName{Namespace: t.Namespace, Name: t.Name}

		switch t.Kind {
		case monitoringv1.K8sKindDeployment:
			var d appsv1.Deployment
			if err := tr.K8sClient.Get(ctx, key, &d); err != nil {
				return k8sGetError(started, err)
			}
			return k8sReplicaResult(started, d.Status.ReadyReplicas, minReady)
		case monitoringv1.K8sKindStatefulSet:
			var s appsv1.StatefulSet
			if err := tr.K8sClient.Get(ctx, key, &s); err != nil {
				return k8sGetError(started, err)
			}
			return k8sReplicaResult(started, s.Status.ReadyReplicas, minReady)
		case monitoringv1.K8sKindEndpoint:
			var e corev1.Endpoints
			if err := tr.K8sClient.Get(ctx, key, &e); err != nil {
				return k8sGetError(started, err)
			}
			var ready int32
			for _, subset := range e.Subsets {
				ready += int32(len(subset.Addresses))
			}
			return k8sReplicaResult(started, ready, 1)
		case monitoringv1.K8sKindPod:
			var p corev1.Pod
			if err := tr.K8sClient.Get(ctx, key, &p); err != nil {
				return k8sGetError(started, err)
			}
			if p.Status.Phase != corev1.PodRunning {
				return down(started, "K8S_NOT_READY", fmt.Sprintf("pod phase is %s", p.Status.Phase))
			}
			for _, cs := range p.Status.ContainerStatuses {
				if !cs.Ready {
					return down(started, "K8S_NOT_READY", fmt.Sprintf("container %s not ready", cs.Name))
				}
			}
			return up(started, "K8S_READY", "")
		default:
			return invalidConfig(started, fmt.Sprintf("unsupported k8s kind %q", t.Kind))
		}
	}
}

func k8sGetError(started time.Time, err error) Result {
	if apierrors.IsNotFound(err) {
		return down(started, "K8S_NOT_FOUND", err.Error())
	}
	return down(started, "CONNECTION_ERROR", err.Error())
}

func k8sReplicaResult(started time.Time, readyReplicas, minReady int32) Result {
	if readyReplicas >= minReady {
		return up(started, "K8S_READY", fmt.Sprintf("%d ready replicas", readyReplicas))
	}
	return down(started, "K8S_NOT_READY", fmt.Sprintf("%d ready replicas, want >= %d", readyReplicas, minReady))
}
