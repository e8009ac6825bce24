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

// Package v1 holds the monitoring.yuptime.io/v1 custom resource types.
package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// MonitorType enumerates the supported check protocols.
type MonitorType string

const (
	MonitorTypeHTTP       MonitorType = "http"
	MonitorTypeKeyword    MonitorType = "keyword"
	MonitorTypeJSONQuery  MonitorType = "jsonQuery"
	MonitorTypeTCP        MonitorType = "tcp"
	MonitorTypeDNS        MonitorType = "dns"
	MonitorTypePing       MonitorType = "ping"
	MonitorTypeWebSocket  MonitorType = "websocket"
	MonitorTypePush       MonitorType = "push"
	MonitorTypeSteam      MonitorType = "steam"
	MonitorTypeGRPC       MonitorType = "grpc"
	MonitorTypeMySQL      MonitorType = "mysql"
	MonitorTypePostgreSQL MonitorType = "postgresql"
	MonitorTypeRedis      MonitorType = "redis"
	MonitorTypeK8s        MonitorType = "k8s"
	MonitorTypeDocker     MonitorType = "docker"
)

// Monitor is a cluster-scoped declaration of one thing to probe.
//
// +genclient
// +genclient:nonNamespaced
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:subresource:status
type Monitor struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MonitorSpec   `json:"spec,omitempty"`
	Status MonitorStatus `json:"status,omitempty"`
}

// MonitorList is a list of Monitors.
//
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
type MonitorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Monitor `json:"items"`
}

// MonitorSpec is the desired state of a Monitor.
type MonitorSpec struct {
	// Enabled controls whether the scheduler creates worker-pod executions for
	// this Monitor. Disabling a Monitor cancels any pending or running execution.
	Enabled bool `json:"enabled"`
	// Type selects which checker implementation runs and which Target variant
	// must be populated.
	Type MonitorType `json:"type"`
	// Schedule controls execution cadence.
	Schedule Schedule `json:"schedule"`
	// Target carries the protocol-specific configuration. Exactly the field
	// named by Type is expected to be populated; the reconciler marks the
	// Monitor Invalid otherwise.
	Target Target `json:"target"`
	// SuccessCriteria optionally narrows what counts as "up" beyond the
	// checker's own protocol-level success (e.g. HTTP 2xx).
	SuccessCriteria *SuccessCriteria `json:"successCriteria,omitempty"`
}

// Schedule controls how often and for how long a Monitor's check runs.
type Schedule struct {
	// IntervalSeconds is the nominal period between check executions. Must be
	// at least MinIntervalSeconds.
	IntervalSeconds int32 `json:"intervalSeconds"`
	// TimeoutSeconds bounds a single check execution.
	TimeoutSeconds int32 `json:"timeoutSeconds"`
	// JitterPercent spreads executions to avoid thundering herds. Defaults to
	// DefaultJitterPercent when zero.
	// +optional
	JitterPercent int32 `json:"jitterPercent,omitempty"`
}

// MinIntervalSeconds is the minimum interval a Monitor's schedule may declare.
const MinIntervalSeconds = 10

// DefaultJitterPercent is applied when Schedule.JitterPercent is unset.
const DefaultJitterPercent = 5

// Target is a tagged union of per-protocol configuration, keyed by
// MonitorSpec.Type. Only the variant matching Type should be set.
type Target struct {
	HTTP       *HTTPTarget       `json:"http,omitempty"`
	TCP        *TCPTarget        `json:"tcp,omitempty"`
	DNS        *DNSTarget        `json:"dns,omitempty"`
	Ping       *PingTarget       `json:"ping,omitempty"`
	WebSocket  *WebSocketTarget  `json:"websocket,omitempty"`
	Push       *PushTarget       `json:"push,omitempty"`
	Steam      *SteamTarget      `json:"steam,omitempty"`
	GRPC       *GRPCTarget       `json:"grpc,omitempty"`
	MySQL      *SQLTarget        `json:"mysql,omitempty"`
	PostgreSQL *SQLTarget        `json:"postgresql,omitempty"`
	Redis      *RedisTarget      `json:"redis,omitempty"`
	K8s        *K8sTarget        `json:"k8s,omitempty"`
}

// CredentialRef points at a Secret key that a worker pod should receive as
// an env var (one entry per required role).
type CredentialRef struct {
	// SecretName is the name of the Secret, in the Monitor's logical
	// credential namespace (the operator's own namespace).
	SecretName string `json:"secretName"`
	// Key is the key within the Secret's data map.
	Key string `json:"key"`
}

// HTTPHeader is a literal or secret-sourced HTTP request header.
type HTTPHeader struct {
	Name string `json:"name"`
	// +optional
	Value string `json:"value,omitempty"`
	// +optional
	ValueFrom *CredentialRef `json:"valueFrom,omitempty"`
}

// HTTPTarget configures an HTTP or keyword/jsonQuery check.
type HTTPTarget struct {
	URL    string       `json:"url"`
	Method string       `json:"method,omitempty"`
	// +optional
	Headers []HTTPHeader `json:"headers,omitempty"`
	// +optional
	Body string `json:"body,omitempty"`
	// BodyType is "json" or "text"; "json" sets Content-Type: application/json.
	// +optional
	BodyType string `json:"bodyType,omitempty"`
	// FollowRedirects defaults to true.
	// +optional
	FollowRedirects *bool `json:"followRedirects,omitempty"`
	// ExpectedContentType is matched as a substring of the response Content-Type.
	// +optional
	ExpectedContentType string `json:"expectedContentType,omitempty"`

	// Keyword carries the contains/notContains/regex criteria for type=keyword.
	// +optional
	Keyword *KeywordCriteria `json:"keyword,omitempty"`
	// JSONQuery carries the path/exists/equals criteria for type=jsonQuery.
	// +optional
	JSONQuery *JSONQueryCriteria `json:"jsonQuery,omitempty"`
}

// KeywordCriteria configures the keyword checker's body assertions.
type KeywordCriteria struct {
	Contains    []string `json:"contains,omitempty"`
	NotContains []string `json:"notContains,omitempty"`
	Regex       []string `json:"regex,omitempty"`
}

// JSONQueryCriteria configures the jsonQuery checker.
type JSONQueryCriteria struct {
	// Path is dot notation with bracket indices, e.g. "items[0].state".
	Path string `json:"path"`
	// +optional
	Exists *bool `json:"exists,omitempty"`
	// Equals is compared to the resolved value with strict equality when set.
	// +optional
	Equals string `json:"equals,omitempty"`
}

// TCPTarget configures a TCP check.
type TCPTarget struct {
	Host string `json:"host"`
	Port int32  `json:"port"`
	// +optional
	Send string `json:"send,omitempty"`
	// +optional
	Expect string `json:"expect,omitempty"`
}

// DNSRecordType enumerates the record types the DNS checker supports.
type DNSRecordType string

const (
	DNSRecordA     DNSRecordType = "A"
	DNSRecordAAAA  DNSRecordType = "AAAA"
	DNSRecordCNAME DNSRecordType = "CNAME"
	DNSRecordMX    DNSRecordType = "MX"
	DNSRecordTXT   DNSRecordType = "TXT"
	DNSRecordSRV   DNSRecordType = "SRV"
)

// DNSTarget configures a DNS check.
type DNSTarget struct {
	Name       string        `json:"name"`
	RecordType DNSRecordType `json:"recordType"`
	// +optional
	Expected *DNSExpected `json:"expected,omitempty"`
}

// DNSExpected holds the acceptable record values for a DNS check.
type DNSExpected struct {
	Values []string `json:"values,omitempty"`
}

// PingTarget configures an ICMP ping check.
type PingTarget struct {
	Host string `json:"host"`
	// PacketCount defaults to 1.
	// +optional
	PacketCount int32 `json:"packetCount,omitempty"`
}

// WebSocketTarget configures a WebSocket check.
type WebSocketTarget struct {
	URL string `json:"url"`
	// +optional
	Send string `json:"send,omitempty"`
	// +optional
	Expect string `json:"expect,omitempty"`
}

// PushTarget configures a check-by-absence Monitor.
type PushTarget struct {
	// GracePeriodSeconds defaults to 300.
	// +optional
	GracePeriodSeconds int32 `json:"gracePeriodSeconds,omitempty"`
}

// SteamTarget configures a Source Engine A2S_INFO query.
type SteamTarget struct {
	Host string `json:"host"`
	Port int32  `json:"port"`
	// +optional
	MinPlayers *int32 `json:"minPlayers,omitempty"`
	// +optional
	MaxPlayers *int32 `json:"maxPlayers,omitempty"`
	// +optional
	ExpectedMap string `json:"expectedMap,omitempty"`
}

// GRPCTarget configures a gRPC health check.
type GRPCTarget struct {
	Host string `json:"host"`
	Port int32  `json:"port"`
	// Service is the gRPC health service name; empty means server-wide health.
	// +optional
	Service string `json:"service,omitempty"`
	// +optional
	TLS *TLSConfig `json:"tls,omitempty"`
}

// TLSConfig configures transport security for a checker.
type TLSConfig struct {
	Enabled bool `json:"enabled"`
	// +optional
	InsecureSkipVerify bool `json:"insecureSkipVerify,omitempty"`
}

// SQLTarget configures a MySQL or PostgreSQL health check.
type SQLTarget struct {
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	Database string `json:"database"`
	// Credentials references the username/password secret keys.
	Username CredentialRef `json:"username"`
	Password CredentialRef `json:"password"`
	// HealthQuery defaults to "SELECT 1".
	// +optional
	HealthQuery string `json:"healthQuery,omitempty"`
	// +optional
	TLS *TLSConfig `json:"tls,omitempty"`
	// SSLMode is PostgreSQL-specific (e.g. "disable", "require", "verify-full").
	// +optional
	SSLMode string `json:"sslMode,omitempty"`
}

// RedisTarget configures a Redis PING check.
type RedisTarget struct {
	Host string `json:"host"`
	Port int32  `json:"port"`
	// Password is only read from env if PasswordRef is set.
	// +optional
	PasswordRef *CredentialRef `json:"passwordRef,omitempty"`
	// +optional
	TLS *TLSConfig `json:"tls,omitempty"`
}

// K8sResourceKind enumerates the resource kinds the k8s checker can probe.
type K8sResourceKind string

const (
	K8sKindDeployment  K8sResourceKind = "Deployment"
	K8sKindStatefulSet K8sResourceKind = "StatefulSet"
	K8sKindEndpoint    K8sResourceKind = "Endpoint"
	K8sKindPod         K8sResourceKind = "Pod"
)

// K8sTarget configures a Kubernetes resource health check.
type K8sTarget struct {
	Kind      K8sResourceKind `json:"kind"`
	Namespace string          `json:"namespace"`
	Name      string          `json:"name"`
	// MinReadyReplicas defaults to 1.
	// +optional
	MinReadyReplicas int32 `json:"minReadyReplicas,omitempty"`
}

// SuccessCriteria narrows what counts as "up" beyond protocol-level success.
type SuccessCriteria struct {
	// +optional
	AcceptedStatusCodes []int32 `json:"acceptedStatusCodes,omitempty"`
	// +optional
	LatencyMsUnder *int64 `json:"latencyMsUnder,omitempty"`
}

// CheckState is the outcome of one check execution.
type CheckState string

const (
	CheckStateUp   CheckState = "up"
	CheckStateDown CheckState = "down"
)

// CheckResultStatus is the status-subresource projection of a CheckResult.
type CheckResultStatus struct {
	State     CheckState  `json:"state"`
	Reason    string      `json:"reason"`
	Message   string      `json:"message,omitempty"`
	LatencyMs int64       `json:"latencyMs"`
	CheckedAt metav1.Time `json:"checkedAt"`
}

// UptimeStatus holds computed uptime percentages at standard horizons.
type UptimeStatus struct {
	// +optional
	OneHour *string `json:"oneHour,omitempty"`
	// +optional
	TwentyFourHour *string `json:"twentyFourHour,omitempty"`
	// +optional
	SevenDay *string `json:"sevenDay,omitempty"`
	// +optional
	ThirtyDay *string `json:"thirtyDay,omitempty"`
}

// MonitorStatus is the observed state of a Monitor.
type MonitorStatus struct {
	// ObservedGeneration is the spec generation this status reflects.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// +optional
	LastResult *CheckResultStatus `json:"lastResult,omitempty"`
	// +optional
	Uptime *UptimeStatus `json:"uptime,omitempty"`
	// +optional
	Conditions []Condition `json:"conditions,omitempty"`
}

// Condition is the standard type/status/reason/message/lastTransitionTime
// status element shared by every kind in this API group.
type Condition struct {
	Type               string                 `json:"type"`
	Status             corev1.ConditionStatus `json:"status"`
	Reason             string                 `json:"reason,omitempty"`
	Message            string                 `json:"message,omitempty"`
	LastTransitionTime metav1.Time            `json:"lastTransitionTime,omitempty"`
}

// Standard condition type used across every kind's handler pipeline.
const ConditionReady = "Ready"

// Standard condition reasons.
const (
	ReasonValidationFailed = "ValidationFailed"
	ReasonReconcileFailed  = "ReconcileFailed"
	ReasonReconciled       = "Reconciled"
)
