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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJitterOffsetMillis_Deterministic(t *testing.T) {
	a := JitterOffsetMillis("default/my-monitor", 60, 5)
	b := JitterOffsetMillis("default/my-monitor", 60, 5)
	assert.Equal(t, a, b)
}

func TestJitterOffsetMillis_Bounded(t *testing.T) {
	offset := JitterOffsetMillis("default/my-monitor", 60, 5)
	maxOffset := int64(5) * 60 * 1000 / 100
	assert.GreaterOrEqual(t, offset, int64(0))
	assert.Less(t, offset, maxOffset)
}

func TestJitterOffsetMillis_DiffersAcrossMonitors(t *testing.T) {
	a := JitterOffsetMillis("default/monitor-a", 60, 5)
	b := JitterOffsetMillis("default/monitor-b", 60, 5)
	assert.NotEqual(t, a, b)
}

func TestJitterOffsetMillis_DefaultsWhenZero(t *testing.T) {
	withDefault := JitterOffsetMillis("default/my-monitor", 60, 0)
	explicit := JitterOffsetMillis("default/my-monitor", 60, 5)
	assert.Equal(t, explicit, withDefault)
}
