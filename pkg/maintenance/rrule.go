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

// Package maintenance evaluates MaintenanceWindow and Silence resources
// against wall-clock time. Recurrence follows the RFC 5545 model as
// implemented by teambition/rrule-go.
package maintenance

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/teambition/rrule-go"
)

// ParseRRule parses a MaintenanceWindowSpec.Schedule string. The schedule is
// either a bare RRULE line ("FREQ=WEEKLY;BYDAY=SA,SU;BYHOUR=2") or two lines,
// "DTSTART:<RFC3339-ish basic format>" followed by the RRULE line. When
// DTSTART is omitted, the recurrence is anchored at the Unix epoch, which is
// sufficient for every FREQ the operator needs to support (WEEKLY/DAILY/
// MONTHLY on fixed BYDAY/BYHOUR/BYMINUTE) since those recur independent of
// the anchor's calendar date.
func ParseRRule(schedule string) (*rrule.RRule, error) {
	dtstart := time.Unix(0, 0).UTC()
	rule := schedule

	lines := strings.Split(strings.TrimSpace(schedule), "\n")
	if len(lines) == 2 && strings.HasPrefix(strings.TrimSpace(lines[0]), "DTSTART") {
		parts := strings.SplitN(lines[0], ":", 2)
		if len(parts) != 2 {
			return nil, errors.New("malformed DTSTART line")
		}
		t, err := time.Parse("20060102T150405Z", strings.TrimSpace(parts[1]))
		if err != nil {
			t, err = time.Parse(time.RFC3339, strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, errors.Wrap(err, "parse DTSTART")
			}
		}
		dtstart = t.UTC()
		rule = lines[1]
	}

	opt, err := rrule.StrToROption(strings.TrimSpace(rule))
	if err != nil {
		return nil, errors.Wrap(err, "parse RRULE")
	}
	opt.Dtstart = dtstart

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, errors.Wrap(err, "build RRULE")
	}
	return r, nil
}

// OccurrenceBefore returns the latest recurrence start at or before at,
// or false if the rule has never occurred by that time.
func OccurrenceBefore(r *rrule.RRule, at time.Time) (time.Time, bool) {
	occ := r.Before(at, true)
	if occ.IsZero() {
		return time.Time{}, false
	}
	return occ, true
}
