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

package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SetCondition merges cond into conds: it only bumps LastTransitionTime
// when the status actually changes, and always refreshes the other fields.
// Returns the updated slice.
func SetCondition(conds []Condition, now metav1.Time, cond Condition) []Condition {
	cond.LastTransitionTime = now
	for i, existing := range conds {
		if existing.Type != cond.Type {
			continue
		}
		if existing.Status == cond.Status {
			cond.LastTransitionTime = existing.LastTransitionTime
		}
		conds[i] = cond
		return conds
	}
	return append(conds, cond)
}

// ReadyCondition builds the standard Ready condition used by every kind's
// handler pipeline.
func ReadyCondition(now metav1.Time, ok bool, reason, message string) Condition {
	status := corev1.ConditionTrue
	if !ok {
		status = corev1.ConditionFalse
	}
	return Condition{
		Type:               ConditionReady,
		Status:             status,
		Reason:             reason,
		Message:            message,
		LastTransitionTime: now,
	}
}

// FindCondition returns the condition of the given type, if present.
func FindCondition(conds []Condition, condType string) (Condition, bool) {
	for _, c := range conds {
		if c.Type == condType {
			return c, true
		}
	}
	return Condition{}, false
}

// IsReady reports whether the Ready condition is True.
func IsReady(conds []Condition) bool {
	c, ok := FindCondition(conds, ConditionReady)
	return ok && c.Status == corev1.ConditionTrue
}
