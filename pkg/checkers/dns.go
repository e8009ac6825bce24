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
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

var dnsQtype = map[monitoringv1.DNSRecordType]uint16{
	monitoringv1.DNSRecordA:     dns.TypeA,
	monitoringv1.DNSRecordAAAA:  dns.TypeAAAA,
	monitoringv1.DNSRecordCNAME: dns.TypeCNAME,
	monitoringv1.DNSRecordMX:    dns.TypeMX,
	monitoringv1.DNSRecordTXT:   dns.TypeTXT,
	monitoringv1.DNSRecordSRV:   dns.TypeSRV,
}

// CheckDNS implements the dns MonitorType.
func CheckDNS(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.DNS
		if t == nil || t.Name == "" {
			return invalidConfig(started, "target.dns.name is required")
		}
		qtype, ok := dnsQtype[t.RecordType]
		if !ok {
			return invalidConfig(started, fmt.Sprintf("invalid dns record type %q", t.RecordType))
		}

		m := new(dns.Msg)
		m.SetQuestion(dns.Fqdn(t.Name), qtype)
		m.RecursionDesired = true

		servers := tr.DNSServers
		if len(servers) == 0 {
			return invalidConfig(started, "no DNS resolvers configured")
		}

		var resp *dns.Msg
		var lastErr error
		for _, server := range servers {
			r, err := tr.DNSResolver.Exchange(ctx, m, server)
			if err == nil {
				resp = r
				break
			}
			lastErr = err
		}
		if resp == nil {
			if ctx.Err() == context.DeadlineExceeded {
				return down(started, "DNS_TIMEOUT", "query timed out")
			}
			return down(started, "DNS_TIMEOUT", lastErr.Error())
		}

		if resp.Rcode == dns.RcodeNameError {
			return down(started, "DNS_NXDOMAIN", "name does not exist")
		}
		if resp.Rcode != dns.RcodeSuccess {
			return down(started, "DNS_NXDOMAIN", dns.RcodeToString[resp.Rcode])
		}
		if len(resp.Answer) == 0 {
			return down(started, "DNS_EMPTY_RESPONSE", "no answer records")
		}

		values := extractValues(resp.Answer, qtype)
		if t.Expected != nil && len(t.Expected.Values) > 0 {
			if !anyExpectedMatches(values, t.Expected.Values) {
				return down(started, "DNS_VALUE_MISMATCH", fmt.Sprintf("got %v, want one of %v", values, t.Expected.Values))
			}
		}
		return up(started, "DNS_OK", strings.Join(values, ","))
	}
}

// extractValues renders each answer record's value as a comparable string.
// MX records compare by exchange; SRV records format as "name:port".
func extractValues(answers []dns.RR, qtype uint16) []string {
	var values []string
	for _, rr := range answers {
		switch qtype {
		case dns.TypeA:
			if a, ok := rr.(*dns.A); ok {
				values = append(values, a.A.String())
			}
		case dns.TypeAAAA:
			if a, ok := rr.(*dns.AAAA); ok {
				values = append(values, a.AAAA.String())
			}
		case dns.TypeCNAME:
			if c, ok := rr.(*dns.CNAME); ok {
				values = append(values, strings.TrimSuffix(c.Target, "."))
			}
		case dns.TypeMX:
			if mx, ok := rr.(*dns.MX); ok {
				values = append(values, strings.TrimSuffix(mx.Mx, "."))
			}
		case dns.TypeTXT:
			if txt, ok := rr.(*dns.TXT); ok {
				values = append(values, strings.Join(txt.Txt, ""))
			}
		case dns.TypeSRV:
			if srv, ok := rr.(*dns.SRV); ok {
				values = append(values, fmt.Sprintf("%s:%d", strings.TrimSuffix(srv.Target, "."), srv.Port))
			}
		}
	}
	return values
}

func anyExpectedMatches(values, expected []string) bool {
	for _, v := range values {
		for _, e := range expected {
			if v == e || strings.Contains(v, e) {
				return true
			}
		}
	}
	return false
}
