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

package scheduler

import (
	"fmt"
	"regexp"
	"strings"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
	"github.com/yuptime/yuptime-operator/pkg/secrets"
)

const (
	// LabelComponent marks every worker Job this scheduler creates, so the
	// completion watcher and stall detector can list them with a single
	// label selector.
	LabelComponent      = "component"
	LabelComponentValue = "checker"
	// LabelMonitor carries the sanitized Monitor name a worker Job belongs to.
	LabelMonitor = "monitor"

	// AnnotationMonitor carries the unsanitized "namespace/name" Monitor
	// reference, for display and for the completion watcher's lookup.
	AnnotationMonitor = "monitor"
	// AnnotationJitterOffset records the millisecond offset this launch was
	// scheduled with, for observability.
	AnnotationJitterOffset = "jitter-offset"

	// activeDeadlineSeconds is the hard wall-clock ceiling on a single check
	// execution.
	activeDeadlineSeconds = int64(5 * 60)
	// ttlSecondsAfterFinished removes a completed worker Job an hour after
	// it finishes.
	ttlSecondsAfterFinished = int32(60 * 60)
	// workerUID is the fixed non-root UID every worker container runs as.
	workerUID = int64(1000)
)

var invalidNameCharRE = regexp.MustCompile(`[^a-z0-9-]`)

// sanitizeName lowercases s and replaces any character outside [a-z0-9-]
// with '-', matching the DNS label rules Kubernetes object names and label
// values require.
func sanitizeName(s string) string {
	s = invalidNameCharRE.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// monitorLabelValue is the sanitized "namespace-name" form used for the
// LabelMonitor value (label values can't contain '/').
func monitorLabelValue(namespace, name string) string {
	if namespace == "" {
		return sanitizeName(name)
	}
	return sanitizeName(namespace + "-" + name)
}

// jobName derives a Job name of at most 63 characters from the Monitor's
// identity and launch time.
func jobName(namespace, name string, launchedAtUnixNano int64) string {
	base := fmt.Sprintf("check-%s-%d", monitorLabelValue(namespace, name), launchedAtUnixNano)
	if len(base) <= 63 {
		return base
	}
	return base[:63]
}

// BuildJobOptions carries the operator-wide configuration the job builder
// needs beyond what's on the Monitor itself.
type BuildJobOptions struct {
	// Namespace is where worker Jobs are created (the operator's own
	// namespace; Monitor itself is cluster-scoped).
	Namespace string
	// ExecutorImage is the checker-executor container image.
	ExecutorImage string
	// LaunchedAtUnixNano timestamps the Job name; passed in rather than
	// read from time.Now() so callers can keep job naming deterministic in
	// tests.
	LaunchedAtUnixNano int64
	// JitterOffsetMillis is recorded as an annotation for observability.
	JitterOffsetMillis int64
}

// BuildJob constructs the worker Job manifest for one check execution of
// mon: run-to-completion, no retries, hard deadline, non-root security
// posture, secret-ref env vars via pkg/secrets.
func BuildJob(mon *monitoringv1.Monitor, opts BuildJobOptions) *batchv1.Job {
	monRef := fmt.Sprintf("%s/%s", mon.Namespace, mon.Name)
	if mon.Namespace == "" {
		monRef = mon.Name
	}

	labels := map[string]string{
		LabelComponent: LabelComponentValue,
		LabelMonitor:   monitorLabelValue(mon.Namespace, mon.Name),
	}
	annotations := map[string]string{
		AnnotationMonitor:      monRef,
		AnnotationJitterOffset: fmt.Sprintf("%d", opts.JitterOffsetMillis),
	}

	backoffLimit := int32(0)
	deadline := activeDeadlineSeconds
	ttl := ttlSecondsAfterFinished
	workerUID := workerUID
	runAsNonRoot := true
	readOnlyRootFS := true
	allowPrivilegeEscalation := false

	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:        jobName(mon.Namespace, mon.Name, opts.LaunchedAtUnixNano),
			Namespace:   opts.Namespace,
			Labels:      labels,
			Annotations: annotations,
			OwnerReferences: []metav1.OwnerReference{
				*metav1.NewControllerRef(mon, monitoringv1.SchemeGroupVersion.WithKind("Monitor")),
			},
		},
		Spec: batchv1.JobSpec{
			BackoffLimit:            &backoffLimit,
			ActiveDeadlineSeconds:   &deadline,
			TTLSecondsAfterFinished: &ttl,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels, Annotations: annotations},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					SecurityContext: &corev1.PodSecurityContext{
						RunAsNonRoot: &runAsNonRoot,
						RunAsUser:    &workerUID,
					},
					Containers: []corev1.Container{
						{
							Name:    "checker",
							Image:   opts.ExecutorImage,
							Command: []string{"/checker-executor"},
							Args:    []string{"--monitor", monRef},
							Env:     secrets.ForMonitor(mon),
							SecurityContext: &corev1.SecurityContext{
								ReadOnlyRootFilesystem:   &readOnlyRootFS,
								AllowPrivilegeEscalation: &allowPrivilegeEscalation,
								Capabilities:             &corev1.Capabilities{Drop: []corev1.Capability{"ALL"}},
							},
						},
					},
				},
			},
		},
	}
}
