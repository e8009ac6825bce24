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

// This file was hand-written in place of running controller-gen's
// deepcopy-gen, but follows the same field-by-field shape its output takes.

package v1

import (
	runtime "k8s.io/apimachinery/pkg/runtime"
)

func (in *Condition) DeepCopyInto(out *Condition) {
	*out = *in
	in.LastTransitionTime.DeepCopyInto(&out.LastTransitionTime)
}

func (in *Condition) DeepCopy() *Condition {
	if in == nil {
		return nil
	}
	out := new(Condition)
	in.DeepCopyInto(out)
	return out
}

func deepCopyConditions(in []Condition) []Condition {
	if in == nil {
		return nil
	}
	out := make([]Condition, len(in))
	for i := range in {
		in[i].DeepCopyInto(&out[i])
	}
	return out
}

func (in *CredentialRef) DeepCopyInto(out *CredentialRef) {
	*out = *in
}

func (in *CredentialRef) DeepCopy() *CredentialRef {
	if in == nil {
		return nil
	}
	out := new(CredentialRef)
	in.DeepCopyInto(out)
	return out
}

func (in *HTTPHeader) DeepCopyInto(out *HTTPHeader) {
	*out = *in
	if in.ValueFrom != nil {
		out.ValueFrom = new(CredentialRef)
		*out.ValueFrom = *in.ValueFrom
	}
}

func (in *HTTPHeader) DeepCopy() *HTTPHeader {
	if in == nil {
		return nil
	}
	out := new(HTTPHeader)
	in.DeepCopyInto(out)
	return out
}

func (in *KeywordCriteria) DeepCopyInto(out *KeywordCriteria) {
	*out = *in
	if in.Contains != nil {
		out.Contains = append([]string(nil), in.Contains...)
	}
	if in.NotContains != nil {
		out.NotContains = append([]string(nil), in.NotContains...)
	}
	if in.Regex != nil {
		out.Regex = append([]string(nil), in.Regex...)
	}
}

func (in *KeywordCriteria) DeepCopy() *KeywordCriteria {
	if in == nil {
		return nil
	}
	out := new(KeywordCriteria)
	in.DeepCopyInto(out)
	return out
}

func (in *JSONQueryCriteria) DeepCopyInto(out *JSONQueryCriteria) {
	*out = *in
	if in.Exists != nil {
		out.Exists = new(bool)
		*out.Exists = *in.Exists
	}
}

func (in *JSONQueryCriteria) DeepCopy() *JSONQueryCriteria {
	if in == nil {
		return nil
	}
	out := new(JSONQueryCriteria)
	in.DeepCopyInto(out)
	return out
}

func (in *HTTPTarget) DeepCopyInto(out *HTTPTarget) {
	*out = *in
	if in.Headers != nil {
		out.Headers = make([]HTTPHeader, len(in.Headers))
		for i := range in.Headers {
			in.Headers[i].DeepCopyInto(&out.Headers[i])
		}
	}
	if in.FollowRedirects != nil {
		out.FollowRedirects = new(bool)
		*out.FollowRedirects = *in.FollowRedirects
	}
	if in.Keyword != nil {
		out.Keyword = new(KeywordCriteria)
		in.Keyword.DeepCopyInto(out.Keyword)
	}
	if in.JSONQuery != nil {
		out.JSONQuery = new(JSONQueryCriteria)
		in.JSONQuery.DeepCopyInto(out.JSONQuery)
	}
}

func (in *HTTPTarget) DeepCopy() *HTTPTarget {
	if in == nil {
		return nil
	}
	out := new(HTTPTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *TCPTarget) DeepCopyInto(out *TCPTarget) {
	*out = *in
}

func (in *TCPTarget) DeepCopy() *TCPTarget {
	if in == nil {
		return nil
	}
	out := new(TCPTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *DNSExpected) DeepCopyInto(out *DNSExpected) {
	*out = *in
	if in.Values != nil {
		out.Values = append([]string(nil), in.Values...)
	}
}

func (in *DNSExpected) DeepCopy() *DNSExpected {
	if in == nil {
		return nil
	}
	out := new(DNSExpected)
	in.DeepCopyInto(out)
	return out
}

func (in *DNSTarget) DeepCopyInto(out *DNSTarget) {
	*out = *in
	if in.Expected != nil {
		out.Expected = new(DNSExpected)
		in.Expected.DeepCopyInto(out.Expected)
	}
}

func (in *DNSTarget) DeepCopy() *DNSTarget {
	if in == nil {
		return nil
	}
	out := new(DNSTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *PingTarget) DeepCopyInto(out *PingTarget) {
	*out = *in
}

func (in *PingTarget) DeepCopy() *PingTarget {
	if in == nil {
		return nil
	}
	out := new(PingTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *WebSocketTarget) DeepCopyInto(out *WebSocketTarget) {
	*out = *in
}

func (in *WebSocketTarget) DeepCopy() *WebSocketTarget {
	if in == nil {
		return nil
	}
	out := new(WebSocketTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *PushTarget) DeepCopyInto(out *PushTarget) {
	*out = *in
}

func (in *PushTarget) DeepCopy() *PushTarget {
	if in == nil {
		return nil
	}
	out := new(PushTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *SteamTarget) DeepCopyInto(out *SteamTarget) {
	*out = *in
	if in.MinPlayers != nil {
		out.MinPlayers = new(int32)
		*out.MinPlayers = *in.MinPlayers
	}
	if in.MaxPlayers != nil {
		out.MaxPlayers = new(int32)
		*out.MaxPlayers = *in.MaxPlayers
	}
}

func (in *SteamTarget) DeepCopy() *SteamTarget {
	if in == nil {
		return nil
	}
	out := new(SteamTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *TLSConfig) DeepCopyInto(out *TLSConfig) {
	*out = *in
}

func (in *TLSConfig) DeepCopy() *TLSConfig {
	if in == nil {
		return nil
	}
	out := new(TLSConfig)
	in.DeepCopyInto(out)
	return out
}

func (in *GRPCTarget) DeepCopyInto(out *GRPCTarget) {
	*out = *in
	if in.TLS != nil {
		out.TLS = new(TLSConfig)
		*out.TLS = *in.TLS
	}
}

func (in *GRPCTarget) DeepCopy() *GRPCTarget {
	if in == nil {
		return nil
	}
	out := new(GRPCTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *SQLTarget) DeepCopyInto(out *SQLTarget) {
	*out = *in
	out.Username = in.Username
	out.Password = in.Password
	if in.TLS != nil {
		out.TLS = new(TLSConfig)
		*out.TLS = *in.TLS
	}
}

func (in *SQLTarget) DeepCopy() *SQLTarget {
	if in == nil {
		return nil
	}
	out := new(SQLTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *RedisTarget) DeepCopyInto(out *RedisTarget) {
	*out = *in
	if in.PasswordRef != nil {
		out.PasswordRef = new(CredentialRef)
		*out.PasswordRef = *in.PasswordRef
	}
	if in.TLS != nil {
		out.TLS = new(TLSConfig)
		*out.TLS = *in.TLS
	}
}

func (in *RedisTarget) DeepCopy() *RedisTarget {
	if in == nil {
		return nil
	}
	out := new(RedisTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *K8sTarget) DeepCopyInto(out *K8sTarget) {
	*out = *in
}

func (in *K8sTarget) DeepCopy() *K8sTarget {
	if in == nil {
		return nil
	}
	out := new(K8sTarget)
	in.DeepCopyInto(out)
	return out
}

func (in *Target) DeepCopyInto(out *Target) {
	*out = *in
	if in.HTTP != nil {
		out.HTTP = new(HTTPTarget)
		in.HTTP.DeepCopyInto(out.HTTP)
	}
	if in.TCP != nil {
		out.TCP = new(TCPTarget)
		in.TCP.DeepCopyInto(out.TCP)
	}
	if in.DNS != nil {
		out.DNS = new(DNSTarget)
		in.DNS.DeepCopyInto(out.DNS)
	}
	if in.Ping != nil {
		out.Ping = new(PingTarget)
		in.Ping.DeepCopyInto(out.Ping)
	}
	if in.WebSocket != nil {
		out.WebSocket = new(WebSocketTarget)
		in.WebSocket.DeepCopyInto(out.WebSocket)
	}
	if in.Push != nil {
		out.Push = new(PushTarget)
		in.Push.DeepCopyInto(out.Push)
	}
	if in.Steam != nil {
		out.Steam = new(SteamTarget)
		in.Steam.DeepCopyInto(out.Steam)
	}
	if in.GRPC != nil {
		out.GRPC = new(GRPCTarget)
		in.GRPC.DeepCopyInto(out.GRPC)
	}
	if in.MySQL != nil {
		out.MySQL = new(SQLTarget)
		in.MySQL.DeepCopyInto(out.MySQL)
	}
	if in.PostgreSQL != nil {
		out.PostgreSQL = new(SQLTarget)
		in.PostgreSQL.DeepCopyInto(out.PostgreSQL)
	}
	if in.Redis != nil {
		out.Redis = new(RedisTarget)
		in.Redis.DeepCopyInto(out.Redis)
	}
	if in.K8s != nil {
		out.K8s = new(K8sTarget)
		in.K8s.DeepCopyInto(out.K8s)
	}
}

func (in *Target) DeepCopy() *Target {
	if in == nil {
		return nil
	}
	out := new(Target)
	in.DeepCopyInto(out)
	return out
}

func (in *Schedule) DeepCopyInto(out *Schedule) {
	*out = *in
}

func (in *Schedule) DeepCopy() *Schedule {
	if in == nil {
		return nil
	}
	out := new(Schedule)
	in.DeepCopyInto(out)
	return out
}

func (in *SuccessCriteria) DeepCopyInto(out *SuccessCriteria) {
	*out = *in
	if in.AcceptedStatusCodes != nil {
		out.AcceptedStatusCodes = append([]int32(nil), in.AcceptedStatusCodes...)
	}
	if in.LatencyMsUnder != nil {
		out.LatencyMsUnder = new(int64)
		*out.LatencyMsUnder = *in.LatencyMsUnder
	}
}

func (in *SuccessCriteria) DeepCopy() *SuccessCriteria {
	if in == nil {
		return nil
	}
	out := new(SuccessCriteria)
	in.DeepCopyInto(out)
	return out
}

func (in *MonitorSpec) DeepCopyInto(out *MonitorSpec) {
	*out = *in
	in.Schedule.DeepCopyInto(&out.Schedule)
	in.Target.DeepCopyInto(&out.Target)
	if in.SuccessCriteria != nil {
		out.SuccessCriteria = new(SuccessCriteria)
		in.SuccessCriteria.DeepCopyInto(out.SuccessCriteria)
	}
}

func (in *MonitorSpec) DeepCopy() *MonitorSpec {
	if in == nil {
		return nil
	}
	out := new(MonitorSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *CheckResultStatus) DeepCopyInto(out *CheckResultStatus) {
	*out = *in
	in.CheckedAt.DeepCopyInto(&out.CheckedAt)
}

func (in *CheckResultStatus) DeepCopy() *CheckResultStatus {
	if in == nil {
		return nil
	}
	out := new(CheckResultStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *UptimeStatus) DeepCopyInto(out *UptimeStatus) {
	*out = *in
	if in.OneHour != nil {
		out.OneHour = new(string)
		*out.OneHour = *in.OneHour
	}
	if in.TwentyFourHour != nil {
		out.TwentyFourHour = new(string)
		*out.TwentyFourHour = *in.TwentyFourHour
	}
	if in.SevenDay != nil {
		out.SevenDay = new(string)
		*out.SevenDay = *in.SevenDay
	}
	if in.ThirtyDay != nil {
		out.ThirtyDay = new(string)
		*out.ThirtyDay = *in.ThirtyDay
	}
}

func (in *UptimeStatus) DeepCopy() *UptimeStatus {
	if in == nil {
		return nil
	}
	out := new(UptimeStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *MonitorStatus) DeepCopyInto(out *MonitorStatus) {
	*out = *in
	if in.LastResult != nil {
		out.LastResult = new(CheckResultStatus)
		in.LastResult.DeepCopyInto(out.LastResult)
	}
	if in.Uptime != nil {
		out.Uptime = new(UptimeStatus)
		in.Uptime.DeepCopyInto(out.Uptime)
	}
	out.Conditions = deepCopyConditions(in.Conditions)
}

func (in *MonitorStatus) DeepCopy() *MonitorStatus {
	if in == nil {
		return nil
	}
	out := new(MonitorStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *Monitor) DeepCopyInto(out *Monitor) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *Monitor) DeepCopy() *Monitor {
	if in == nil {
		return nil
	}
	out := new(Monitor)
	in.DeepCopyInto(out)
	return out
}

func (in *Monitor) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *MonitorList) DeepCopyInto(out *MonitorList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]Monitor, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *MonitorList) DeepCopy() *MonitorList {
	if in == nil {
		return nil
	}
	out := new(MonitorList)
	in.DeepCopyInto(out)
	return out
}

func (in *MonitorList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// Selector, MaintenanceWindow, Silence

func (in *Selector) DeepCopyInto(out *Selector) {
	*out = *in
	if in.MatchNamespaces != nil {
		out.MatchNamespaces = append([]string(nil), in.MatchNamespaces...)
	}
	if in.MatchLabels != nil {
		out.MatchLabels = make(map[string]string, len(in.MatchLabels))
		for k, v := range in.MatchLabels {
			out.MatchLabels[k] = v
		}
	}
}

func (in *Selector) DeepCopy() *Selector {
	if in == nil {
		return nil
	}
	out := new(Selector)
	in.DeepCopyInto(out)
	return out
}

func (in *MaintenanceWindowSpec) DeepCopyInto(out *MaintenanceWindowSpec) {
	*out = *in
	in.Selector.DeepCopyInto(&out.Selector)
}

func (in *MaintenanceWindowSpec) DeepCopy() *MaintenanceWindowSpec {
	if in == nil {
		return nil
	}
	out := new(MaintenanceWindowSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *MaintenanceWindowStatus) DeepCopyInto(out *MaintenanceWindowStatus) {
	*out = *in
	out.Conditions = deepCopyConditions(in.Conditions)
}

func (in *MaintenanceWindowStatus) DeepCopy() *MaintenanceWindowStatus {
	if in == nil {
		return nil
	}
	out := new(MaintenanceWindowStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *MaintenanceWindow) DeepCopyInto(out *MaintenanceWindow) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *MaintenanceWindow) DeepCopy() *MaintenanceWindow {
	if in == nil {
		return nil
	}
	out := new(MaintenanceWindow)
	in.DeepCopyInto(out)
	return out
}

func (in *MaintenanceWindow) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *MaintenanceWindowList) DeepCopyInto(out *MaintenanceWindowList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]MaintenanceWindow, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *MaintenanceWindowList) DeepCopy() *MaintenanceWindowList {
	if in == nil {
		return nil
	}
	out := new(MaintenanceWindowList)
	in.DeepCopyInto(out)
	return out
}

func (in *MaintenanceWindowList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *SilenceSpec) DeepCopyInto(out *SilenceSpec) {
	*out = *in
	in.StartsAt.DeepCopyInto(&out.StartsAt)
	in.EndsAt.DeepCopyInto(&out.EndsAt)
	in.Selector.DeepCopyInto(&out.Selector)
}

func (in *SilenceSpec) DeepCopy() *SilenceSpec {
	if in == nil {
		return nil
	}
	out := new(SilenceSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *SilenceStatus) DeepCopyInto(out *SilenceStatus) {
	*out = *in
	out.Conditions = deepCopyConditions(in.Conditions)
}

func (in *SilenceStatus) DeepCopy() *SilenceStatus {
	if in == nil {
		return nil
	}
	out := new(SilenceStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *Silence) DeepCopyInto(out *Silence) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *Silence) DeepCopy() *Silence {
	if in == nil {
		return nil
	}
	out := new(Silence)
	in.DeepCopyInto(out)
	return out
}

func (in *Silence) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *SilenceList) DeepCopyInto(out *SilenceList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]Silence, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *SilenceList) DeepCopy() *SilenceList {
	if in == nil {
		return nil
	}
	out := new(SilenceList)
	in.DeepCopyInto(out)
	return out
}

func (in *SilenceList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// NotificationProvider, NotificationPolicy, StatusPage, OperatorSettings

func (in *NotificationProviderSpec) DeepCopyInto(out *NotificationProviderSpec) {
	*out = *in
	if in.AuthTokenRef != nil {
		out.AuthTokenRef = new(CredentialRef)
		*out.AuthTokenRef = *in.AuthTokenRef
	}
}

func (in *NotificationProviderSpec) DeepCopy() *NotificationProviderSpec {
	if in == nil {
		return nil
	}
	out := new(NotificationProviderSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *NotificationProviderStatus) DeepCopyInto(out *NotificationProviderStatus) {
	*out = *in
	out.Conditions = deepCopyConditions(in.Conditions)
}

func (in *NotificationProviderStatus) DeepCopy() *NotificationProviderStatus {
	if in == nil {
		return nil
	}
	out := new(NotificationProviderStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *NotificationProvider) DeepCopyInto(out *NotificationProvider) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *NotificationProvider) DeepCopy() *NotificationProvider {
	if in == nil {
		return nil
	}
	out := new(NotificationProvider)
	in.DeepCopyInto(out)
	return out
}

func (in *NotificationProvider) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *NotificationProviderList) DeepCopyInto(out *NotificationProviderList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]NotificationProvider, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *NotificationProviderList) DeepCopy() *NotificationProviderList {
	if in == nil {
		return nil
	}
	out := new(NotificationProviderList)
	in.DeepCopyInto(out)
	return out
}

func (in *NotificationProviderList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *NotificationPolicySpec) DeepCopyInto(out *NotificationPolicySpec) {
	*out = *in
	in.Selector.DeepCopyInto(&out.Selector)
}

func (in *NotificationPolicySpec) DeepCopy() *NotificationPolicySpec {
	if in == nil {
		return nil
	}
	out := new(NotificationPolicySpec)
	in.DeepCopyInto(out)
	return out
}

func (in *NotificationPolicyStatus) DeepCopyInto(out *NotificationPolicyStatus) {
	*out = *in
	out.Conditions = deepCopyConditions(in.Conditions)
}

func (in *NotificationPolicyStatus) DeepCopy() *NotificationPolicyStatus {
	if in == nil {
		return nil
	}
	out := new(NotificationPolicyStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *NotificationPolicy) DeepCopyInto(out *NotificationPolicy) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *NotificationPolicy) DeepCopy() *NotificationPolicy {
	if in == nil {
		return nil
	}
	out := new(NotificationPolicy)
	in.DeepCopyInto(out)
	return out
}

func (in *NotificationPolicy) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *NotificationPolicyList) DeepCopyInto(out *NotificationPolicyList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]NotificationPolicy, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *NotificationPolicyList) DeepCopy() *NotificationPolicyList {
	if in == nil {
		return nil
	}
	out := new(NotificationPolicyList)
	in.DeepCopyInto(out)
	return out
}

func (in *NotificationPolicyList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *NamespacedMonitor) DeepCopyInto(out *NamespacedMonitor) {
	*out = *in
}

func (in *NamespacedMonitor) DeepCopy() *NamespacedMonitor {
	if in == nil {
		return nil
	}
	out := new(NamespacedMonitor)
	in.DeepCopyInto(out)
	return out
}

func (in *StatusPageGroup) DeepCopyInto(out *StatusPageGroup) {
	*out = *in
	if in.Monitors != nil {
		out.Monitors = make([]NamespacedMonitor, len(in.Monitors))
		copy(out.Monitors, in.Monitors)
	}
}

func (in *StatusPageGroup) DeepCopy() *StatusPageGroup {
	if in == nil {
		return nil
	}
	out := new(StatusPageGroup)
	in.DeepCopyInto(out)
	return out
}

func (in *StatusPageSpec) DeepCopyInto(out *StatusPageSpec) {
	*out = *in
	if in.Groups != nil {
		out.Groups = make([]StatusPageGroup, len(in.Groups))
		for i := range in.Groups {
			in.Groups[i].DeepCopyInto(&out.Groups[i])
		}
	}
}

func (in *StatusPageSpec) DeepCopy() *StatusPageSpec {
	if in == nil {
		return nil
	}
	out := new(StatusPageSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *StatusPageStatus) DeepCopyInto(out *StatusPageStatus) {
	*out = *in
	out.Conditions = deepCopyConditions(in.Conditions)
}

func (in *StatusPageStatus) DeepCopy() *StatusPageStatus {
	if in == nil {
		return nil
	}
	out := new(StatusPageStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *StatusPage) DeepCopyInto(out *StatusPage) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *StatusPage) DeepCopy() *StatusPage {
	if in == nil {
		return nil
	}
	out := new(StatusPage)
	in.DeepCopyInto(out)
	return out
}

func (in *StatusPage) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *StatusPageList) DeepCopyInto(out *StatusPageList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]StatusPage, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *StatusPageList) DeepCopy() *StatusPageList {
	if in == nil {
		return nil
	}
	out := new(StatusPageList)
	in.DeepCopyInto(out)
	return out
}

func (in *StatusPageList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *OperatorSettingsSpec) DeepCopyInto(out *OperatorSettingsSpec) {
	*out = *in
}

func (in *OperatorSettingsSpec) DeepCopy() *OperatorSettingsSpec {
	if in == nil {
		return nil
	}
	out := new(OperatorSettingsSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *OperatorSettingsStatus) DeepCopyInto(out *OperatorSettingsStatus) {
	*out = *in
	out.Conditions = deepCopyConditions(in.Conditions)
}

func (in *OperatorSettingsStatus) DeepCopy() *OperatorSettingsStatus {
	if in == nil {
		return nil
	}
	out := new(OperatorSettingsStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *OperatorSettings) DeepCopyInto(out *OperatorSettings) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *OperatorSettings) DeepCopy() *OperatorSettings {
	if in == nil {
		return nil
	}
	out := new(OperatorSettings)
	in.DeepCopyInto(out)
	return out
}

func (in *OperatorSettings) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *OperatorSettingsList) DeepCopyInto(out *OperatorSettingsList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]OperatorSettings, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *OperatorSettingsList) DeepCopy() *OperatorSettingsList {
	if in == nil {
		return nil
	}
	out := new(OperatorSettingsList)
	in.DeepCopyInto(out)
	return out
}

func (in *OperatorSettingsList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
