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

package secrets

import (
	"testing"

	"github.com/stretchr/testify/require"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func TestForMonitor_MySQL(t *testing.T) {
	mon := &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type: monitoringv1.MonitorTypeMySQL,
			Target: monitoringv1.Target{
				MySQL: &monitoringv1.SQLTarget{
					Username: monitoringv1.CredentialRef{SecretName: "db-creds", Key: "user"},
					Password: monitoringv1.CredentialRef{SecretName: "db-creds", Key: "pass"},
				},
			},
		},
	}

	envs := ForMonitor(mon)
	require.Len(t, envs, 2)
	require.Equal(t, "YUPTIME_CRED_MYSQL_USERNAME", envs[0].Name)
	require.Equal(t, "db-creds", envs[0].ValueFrom.SecretKeyRef.Name)
	require.Equal(t, "user", envs[0].ValueFrom.SecretKeyRef.Key)
	require.Equal(t, "YUPTIME_CRED_MYSQL_PASSWORD", envs[1].Name)
}

func TestForMonitor_HTTPHeaderSecret(t *testing.T) {
	mon := &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type: monitoringv1.MonitorTypeHTTP,
			Target: monitoringv1.Target{
				HTTP: &monitoringv1.HTTPTarget{
					URL: "http://example/health",
					Headers: []monitoringv1.HTTPHeader{
						{Name: "Authorization", ValueFrom: &monitoringv1.CredentialRef{SecretName: "tok", Key: "bearer"}},
						{Name: "X-Static", Value: "literal"},
					},
				},
			},
		},
	}

	envs := ForMonitor(mon)
	require.Len(t, envs, 1)
	require.Equal(t, HeaderEnvVarName("Authorization"), envs[0].Name)
}

func TestForMonitor_NoCredentials(t *testing.T) {
	mon := &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type:   monitoringv1.MonitorTypeTCP,
			Target: monitoringv1.Target{TCP: &monitoringv1.TCPTarget{Host: "h", Port: 1}},
		},
	}
	require.Nil(t, ForMonitor(mon))
}
