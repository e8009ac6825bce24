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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Selector picks Monitors by namespace and/or label match, shared by
// MaintenanceWindow and Silence.
type Selector struct {
	// +optional
	MatchNamespaces []string `json:"matchNamespaces,omitempty"`
	// +optional
	MatchLabels map[string]string `json:"matchLabels,omitempty"`
}

// MaintenanceWindow is a recurring time span during which alerts for
// selected Monitors are suppressed.
//
// +genclient
// +genclient:nonNamespaced
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:subresource:status
type MaintenanceWindow struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MaintenanceWindowSpec   `json:"spec,omitempty"`
	Status MaintenanceWindowStatus `json:"status,omitempty"`
}

// MaintenanceWindowList is a list of MaintenanceWindows.
//
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
type MaintenanceWindowList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []MaintenanceWindow `json:"items"`
}

// MaintenanceWindowSpec is the desired state of a MaintenanceWindow.
type MaintenanceWindowSpec struct {
	// Schedule is an iCalendar RRULE string, optionally prefixed with a
	// "DTSTART:" line.
	Schedule        string   `json:"schedule"`
	DurationMinutes int32    `json:"durationMinutes"`
	Selector        Selector `json:"selector,omitempty"`
}

// MaintenanceWindowStatus is the observed state of a MaintenanceWindow.
type MaintenanceWindowStatus struct {
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// +optional
	Conditions []Condition `json:"conditions,omitempty"`
}

// Silence is a one-shot suppression window.
//
// +genclient
// +genclient:nonNamespaced
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:subresource:status
type Silence struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   SilenceSpec   `json:"spec,omitempty"`
	Status SilenceStatus `json:"status,omitempty"`
}

// SilenceList is a list of Silences.
//
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
type SilenceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Silence `json:"items"`
}

// SilenceSpec is the desired state of a Silence.
type SilenceSpec struct {
	StartsAt metav1.Time `json:"startsAt"`
	EndsAt   metav1.Time `json:"endsAt"`
	Selector Selector    `json:"selector,omitempty"`
}

// SilenceStatus is the observed state of a Silence.
type SilenceStatus struct {
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// +optional
	Conditions []Condition `json:"conditions,omitempty"`
}
