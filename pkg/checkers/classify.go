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

package checkers

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// classifyDialError maps a network dial/connect error to the shared reason
// taxonomy used by TCP, DNS, and the SQL/Redis checkers. The order
// matters: a DNS lookup failure takes precedence over a generic
// timeout classification since *net.DNSError also satisfies net.Error.
func classifyDialError(ctx context.Context, err error) (reason string) {
	if err == nil {
		return ""
	}
	if ctx.Err() == context.DeadlineExceeded {
		return "TIMEOUT"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return "DNS_NXDOMAIN"
		}
		if dnsErr.IsTimeout {
			return "DNS_TIMEOUT"
		}
		return "DNS_NXDOMAIN"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "TIMEOUT"
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return "CONNECTION_REFUSED"
	}
	if strings.Contains(err.Error(), "connection refused") {
		return "CONNECTION_REFUSED"
	}
	return "CONNECTION_ERROR"
}

// classifySQLError maps a SQL-engine error's message to the shared
// CONNECTION_REFUSED/AUTH_FAILED/CREDENTIALS_ERROR/DATABASE_NOT_FOUND
// taxonomy by substring-matching the engine error text in a fixed order.
// MySQL and PostgreSQL use different wording for the same failure classes,
// so both sets of substrings are checked.
func classifySQLError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unknown database"), strings.Contains(msg, "does not exist"):
		return "DATABASE_NOT_FOUND"
	case strings.Contains(msg, "access denied"), strings.Contains(msg, "password authentication failed"),
		strings.Contains(msg, "noauth"), strings.Contains(msg, "wrongpass"):
		return "AUTH_FAILED"
	case strings.Contains(msg, "authentication"), strings.Contains(msg, "permission denied"):
		return "CREDENTIALS_ERROR"
	case strings.Contains(msg, "no such host"), strings.Contains(msg, "name resolution"):
		return "DNS_NXDOMAIN"
	case strings.Contains(msg, "connection refused"):
		return "CONNECTION_REFUSED"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "CONNECTION_ERROR"
	}
}
