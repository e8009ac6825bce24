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

package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func TestMatches_EmptySelectorMatchesEverything(t *testing.T) {
	assert.True(t, Matches(monitoringv1.Selector{}, map[string]string{"anything": "goes"}))
	assert.True(t, Matches(monitoringv1.Selector{}, nil))
}

func TestMatches_MatchLabelsRequiresAllPairs(t *testing.T) {
	sel := monitoringv1.Selector{MatchLabels: map[string]string{"env": "prod", "team": "sre"}}

	assert.True(t, Matches(sel, map[string]string{"env": "prod", "team": "sre", "extra": "ok"}))
	assert.False(t, Matches(sel, map[string]string{"env": "prod"}))
	assert.False(t, Matches(sel, map[string]string{"env": "staging", "team": "sre"}))
}

func TestMatches_NonEmptyMatchNamespacesNeverMatchesClusterScopedMonitors(t *testing.T) {
	sel := monitoringv1.Selector{MatchNamespaces: []string{"default"}}

	assert.False(t, Matches(sel, map[string]string{"env": "prod"}))
}
