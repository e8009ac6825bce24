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

// Package secrets turns a Monitor's CredentialRef fields into worker-pod
// environment variable projections. The operator never reads secret
// payloads itself: it only builds corev1.EnvVar entries with SecretKeyRef
// sources, so kubelet resolves the values when the worker pod starts.
package secrets

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// EnvVarName builds the YUPTIME_CRED_<FAMILY>_<ROLE> variable name.
func EnvVarName(family, role string) string {
	return fmt.Sprintf("YUPTIME_CRED_%s_%s", strings.ToUpper(family), strings.ToUpper(role))
}

// EnvVar builds a single credential-sourced environment variable entry for
// a worker pod's container spec.
func EnvVar(family, role string, ref monitoringv1.CredentialRef) corev1.EnvVar {
	return corev1.EnvVar{
		Name: EnvVarName(family, role),
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: ref.SecretName},
				Key:                  ref.Key,
			},
		},
	}
}

// HeaderEnvVar builds the environment variable for an HTTP header sourced
// from a secret; family is always "HTTP" and role is derived from the
// header name so the worker can look it up via HeaderEnvVarName.
func HeaderEnvVar(headerName string, ref monitoringv1.CredentialRef) corev1.EnvVar {
	return EnvVar("HTTP", headerRole(headerName), ref)
}

// HeaderEnvVarName returns the variable name a worker should read to
// resolve a secret-sourced HTTP header's value.
func HeaderEnvVarName(headerName string) string {
	return EnvVarName("HTTP", headerRole(headerName))
}

func headerRole(headerName string) string {
	role := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, headerName)
	return strings.Trim(role, "_")
}

// ForMonitor projects every CredentialRef reachable from mon's Target into
// the corev1.EnvVar entries its worker pod's container needs (e.g.
// YUPTIME_CRED_MYSQL_USERNAME). Monitor types with no credential-bearing
// target return nil.
func ForMonitor(mon *monitoringv1.Monitor) []corev1.EnvVar {
	var envs []corev1.EnvVar
	t := mon.Spec.Target

	if t.HTTP != nil {
		for _, h := range t.HTTP.Headers {
			if h.ValueFrom != nil {
				envs = append(envs, HeaderEnvVar(h.Name, *h.ValueFrom))
			}
		}
	}
	if t.MySQL != nil {
		envs = append(envs,
			EnvVar("MYSQL", "USERNAME", t.MySQL.Username),
			EnvVar("MYSQL", "PASSWORD", t.MySQL.Password),
		)
	}
	if t.PostgreSQL != nil {
		envs = append(envs,
			EnvVar("POSTGRESQL", "USERNAME", t.PostgreSQL.Username),
			EnvVar("POSTGRESQL", "PASSWORD", t.PostgreSQL.Password),
		)
	}
	if t.Redis != nil && t.Redis.PasswordRef != nil {
		envs = append(envs, EnvVar("REDIS", "PASSWORD", *t.Redis.PasswordRef))
	}
	return envs
}
