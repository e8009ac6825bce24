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

// NotificationProvider holds credentials and the target URL of an external
// alert router.
//
// +genclient
// +genclient:nonNamespaced
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:subresource:status
type NotificationProvider struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   NotificationProviderSpec   `json:"spec,omitempty"`
	Status NotificationProviderStatus `json:"status,omitempty"`
}

// NotificationProviderList is a list of NotificationProviders.
//
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
type NotificationProviderList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []NotificationProvider `json:"items"`
}

// NotificationProviderSpec is the desired state of a NotificationProvider.
type NotificationProviderSpec struct {
	// URL is the external alert router endpoint to POST alert payloads to.
	URL string `json:"url"`
	// +optional
	AuthTokenRef *CredentialRef `json:"authTokenRef,omitempty"`
}

// NotificationProviderStatus is the observed state of a NotificationProvider.
type NotificationProviderStatus struct {
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// +optional
	Conditions []Condition `json:"conditions,omitempty"`
}

// NotificationPolicy pairs a Monitor selector with a NotificationProvider and
// a rate-limit window.
//
// +genclient
// +genclient:nonNamespaced
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:subresource:status
type NotificationPolicy struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   NotificationPolicySpec   `json:"spec,omitempty"`
	Status NotificationPolicyStatus `json:"status,omitempty"`
}

// NotificationPolicyList is a list of NotificationPolicies.
//
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
type NotificationPolicyList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []NotificationPolicy `json:"items"`
}

// NotificationPolicySpec is the desired state of a NotificationPolicy.
type NotificationPolicySpec struct {
	Selector            Selector `json:"selector,omitempty"`
	ProviderName        string   `json:"providerName"`
	RateLimitWindowSecs int32    `json:"rateLimitWindowSecs,omitempty"`
}

// NotificationPolicyStatus is the observed state of a NotificationPolicy.
type NotificationPolicyStatus struct {
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// +optional
	Conditions []Condition `json:"conditions,omitempty"`
}

// StatusPage is a publication surface rolling up a set of Monitors.
//
// +genclient
// +genclient:nonNamespaced
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:subresource:status
type StatusPage struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   StatusPageSpec   `json:"spec,omitempty"`
	Status StatusPageStatus `json:"status,omitempty"`
}

// StatusPageList is a list of StatusPages.
//
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
type StatusPageList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []StatusPage `json:"items"`
}

// StatusPageSpec is the desired state of a StatusPage.
type StatusPageSpec struct {
	Slug   string             `json:"slug"`
	Groups []StatusPageGroup  `json:"groups,omitempty"`
}

// StatusPageGroup references a set of Monitors by namespaced name.
type StatusPageGroup struct {
	Name     string              `json:"name"`
	Monitors []NamespacedMonitor `json:"monitors,omitempty"`
}

// NamespacedMonitor references a Monitor by namespace and name.
type NamespacedMonitor struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// StatusPageStatus is the observed state of a StatusPage.
type StatusPageStatus struct {
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// +optional
	Conditions []Condition `json:"conditions,omitempty"`
}

// OperatorSettings is a cluster-scoped singleton carrying global operational
// knobs read by the scheduler (concurrency cap, default jitter, minimum
// interval).
//
// +genclient
// +genclient:nonNamespaced
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:subresource:status
type OperatorSettings struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OperatorSettingsSpec   `json:"spec,omitempty"`
	Status OperatorSettingsStatus `json:"status,omitempty"`
}

// OperatorSettingsList is a list of OperatorSettings.
//
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
type OperatorSettingsList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []OperatorSettings `json:"items"`
}

// OperatorSettingsSpec is the desired state of OperatorSettings.
type OperatorSettingsSpec struct {
	// MaxConcurrentChecks bounds process-wide active worker pods. Defaults to
	// DefaultMaxConcurrentChecks when zero.
	// +optional
	MaxConcurrentChecks int32 `json:"maxConcurrentChecks,omitempty"`
	// DefaultJitterPercent is used for Monitors that don't set their own.
	// +optional
	DefaultJitterPercent int32 `json:"defaultJitterPercent,omitempty"`
	// MinIntervalSeconds is validated as non-negative and not otherwise read:
	// Monitor validation enforces the MinIntervalSeconds constant, not this
	// field.
	// +optional
	MinIntervalSeconds int32 `json:"minIntervalSeconds,omitempty"`
}

// DefaultMaxConcurrentChecks is used when OperatorSettingsSpec.MaxConcurrentChecks is zero.
const DefaultMaxConcurrentChecks = 10

// OperatorSettingsStatus is the observed state of OperatorSettings.
type OperatorSettingsStatus struct {
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// +optional
	Conditions []Condition `json:"conditions,omitempty"`
}
