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
	gotls "crypto/tls"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// wrappedTLSConfig avoids a naming collision between crypto/tls.Config and
// monitoringv1.TLSConfig at call sites.
type wrappedTLSConfig struct {
	Config gotls.Config
}

// tlsConfig builds a crypto/tls.Config from a Monitor's TLSConfig field.
func tlsConfig(t *monitoringv1.TLSConfig) *wrappedTLSConfig {
	return &wrappedTLSConfig{Config: gotls.Config{InsecureSkipVerify: t.InsecureSkipVerify}}
}

// isTLSError reports whether err looks like a TLS handshake failure, used
// by checkers whose underlying library doesn't expose a typed TLS error.
func isTLSError(err error) bool {
	if err == nil {
		return false
	}
	var certErr gotls.RecordHeaderError
	if ok := asRecordHeaderError(err, &certErr); ok {
		return true
	}
	return false
}

func asRecordHeaderError(err error, target *gotls.RecordHeaderError) bool {
	for err != nil {
		if rhe, ok := err.(gotls.RecordHeaderError); ok {
			*target = rhe
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
