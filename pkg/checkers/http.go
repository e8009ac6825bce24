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
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
	"github.com/yuptime/yuptime-operator/pkg/secrets"
)

// httpReason renders an HTTP status code into the HTTP_<status> reason
// family; 200 specifically reads HTTP_OK.
func httpReason(status int) string {
	if status == http.StatusOK {
		return "HTTP_OK"
	}
	return fmt.Sprintf("HTTP_%d", status)
}

// resolveHeaderValue returns a header's literal value, or reads its
// secret-sourced value from the worker's own environment. The operator
// never resolves the secret itself; it is projected into the worker pod's
// env via secretKeyRef.
func resolveHeaderValue(h monitoringv1.HTTPHeader) string {
	if h.ValueFrom != nil {
		return os.Getenv(secrets.HeaderEnvVarName(h.Name))
	}
	return h.Value
}

// buildHTTPRequest constructs the single request the HTTP/keyword/jsonQuery
// checkers issue, resolving per-header secret references.
func buildHTTPRequest(ctx context.Context, t *monitoringv1.HTTPTarget) (*http.Request, error) {
	method := t.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if t.Body != "" {
		body = strings.NewReader(t.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.URL, body)
	if err != nil {
		return nil, err
	}
	if t.BodyType == "json" && t.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range t.Headers {
		req.Header.Set(h.Name, resolveHeaderValue(h))
	}
	return req, nil
}

// httpOutcome is the shared result of issuing the HTTP request, reused by
// the keyword and jsonQuery checkers so they don't re-dial.
type httpOutcome struct {
	result Result
	body   []byte
	resp   *http.Response
}

// doHTTPCheck issues mon's HTTP target request and classifies the outcome
// against acceptedStatusCodes/expectedContentType/latencyMsUnder. It always
// reads and returns the response body (bounded) so keyword/jsonQuery can
// apply their body criteria without a second round trip.
func doHTTPCheck(ctx context.Context, tr *Transports, started time.Time, mon *monitoringv1.Monitor) httpOutcome {
	t := mon.Spec.Target.HTTP
	if t == nil || t.URL == "" {
		return httpOutcome{result: invalidConfig(started, "target.http.url is required")}
	}

	followRedirects := t.FollowRedirects == nil || *t.FollowRedirects
	client := tr.NewHTTPClient(time.Duration(mon.Spec.Schedule.TimeoutSeconds)*time.Second, followRedirects)

	req, err := buildHTTPRequest(ctx, t)
	if err != nil {
		return httpOutcome{result: invalidConfig(started, err.Error())}
	}

	resp, err := client.Do(req)
	if err != nil {
		return httpOutcome{result: classifyHTTPError(started, ctx, err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	codes := []int32{200}
	if mon.Spec.SuccessCriteria != nil && len(mon.Spec.SuccessCriteria.AcceptedStatusCodes) > 0 {
		codes = mon.Spec.SuccessCriteria.AcceptedStatusCodes
	}
	var ok bool
	for _, c := range codes {
		if int(c) == resp.StatusCode {
			ok = true
			break
		}
	}
	if !ok {
		return httpOutcome{
			result: down(started, httpReason(resp.StatusCode), fmt.Sprintf("unexpected status %d", resp.StatusCode)),
			body:   body, resp: resp,
		}
	}

	res := up(started, httpReason(resp.StatusCode), "")
	if t.ExpectedContentType != "" && !strings.Contains(resp.Header.Get("Content-Type"), t.ExpectedContentType) {
		res = down(started, "INVALID_CONTENT_TYPE", fmt.Sprintf("content-type %q does not contain %q", resp.Header.Get("Content-Type"), t.ExpectedContentType))
	}
	res = applySuccessCriteria(res, mon.Spec.SuccessCriteria)
	return httpOutcome{result: res, body: body, resp: resp}
}

// classifyHTTPError maps a client.Do error to the HTTP family's
// connection-layer reasons.
func classifyHTTPError(started time.Time, ctx context.Context, err error) Result {
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, os.ErrDeadlineExceeded) {
		return down(started, ReasonTimeout, err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return down(started, ReasonTimeout, err.Error())
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return down(started, "DNS_NXDOMAIN", err.Error())
	}
	if isTLSError(err) {
		return down(started, "TLS_ERROR", err.Error())
	}
	if strings.Contains(err.Error(), "connection refused") {
		return down(started, "CONNECTION_REFUSED", err.Error())
	}
	if strings.Contains(strings.ToLower(err.Error()), "tls") || strings.Contains(strings.ToLower(err.Error()), "certificate") {
		return down(started, "TLS_ERROR", err.Error())
	}
	return down(started, "CONNECTION_REFUSED", err.Error())
}

// CheckHTTP implements the http MonitorType.
func CheckHTTP(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		return doHTTPCheck(ctx, tr, started, mon).result
	}
}

