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

// Command checker-executor is the worker-pod entrypoint: invoked as
// `checker-executor --monitor <namespace>/<name>` by a Job the
// scheduler launches, it runs exactly one check and exits. It never retries
// and never loops — the Job's own backoffLimit=0 and the scheduler's next
// launch are the only retry mechanisms.
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/miekg/dns"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
	"github.com/yuptime/yuptime-operator/pkg/checkers"
)

// Exit codes: 0 the Monitor is up, 1 it's down, 2 the executor itself
// failed, either before producing a result or while writing it to the
// Monitor's status.
const (
	exitUp             = 0
	exitDown           = 1
	exitExecutionError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	monitorRef := flag.String("monitor", "", "namespace/name (or bare name, since Monitor is cluster-scoped) of the Monitor to check")
	flag.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.AllowInfo())
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	if *monitorRef == "" {
		level.Error(logger).Log("msg", "--monitor is required")
		return exitExecutionError
	}
	name := *monitorRef
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	cfg, err := rest.InClusterConfig()
	if err != nil {
		level.Error(logger).Log("msg", "load in-cluster config", "err", err)
		return exitExecutionError
	}

	scheme := runtimeScheme()
	c, err := client.New(cfg, client.Options{Scheme: scheme})
	if err != nil {
		level.Error(logger).Log("msg", "build kubernetes client", "err", err)
		return exitExecutionError
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var mon monitoringv1.Monitor
	if err := c.Get(ctx, client.ObjectKey{Name: name}, &mon); err != nil {
		level.Error(logger).Log("msg", "get monitor", "monitor", name, "err", err)
		return exitExecutionError
	}

	transports := checkers.DefaultTransports(c)
	applyDNSEnvOverrides(transports)

	registry := checkers.NewRegistry(transports)
	result := registry.Run(ctx, &mon)

	checkedAt := metav1.Now()
	if mon.Spec.Type == monitoringv1.MonitorTypePush && mon.Status.LastResult != nil &&
		result.Reason != "PUSH_TIMEOUT" && result.Reason != "NO_PUSH_RECEIVED" {
		// A push check that mirrors the last pushed state must not advance
		// checkedAt: the grace period is measured from the last push, and
		// re-stamping it here would keep a dead pusher alive forever.
		checkedAt = mon.Status.LastResult.CheckedAt
	}
	mon.Status.LastResult = &monitoringv1.CheckResultStatus{
		State:     result.State,
		Reason:    result.Reason,
		Message:   result.Message,
		LatencyMs: result.LatencyMs,
		CheckedAt: checkedAt,
	}
	if err := c.Status().Update(ctx, &mon); err != nil {
		level.Error(logger).Log("msg", "patch monitor status", "monitor", name, "err", err)
		return exitExecutionError
	}

	level.Info(logger).Log("msg", "check complete", "monitor", name, "state", result.State, "reason", result.Reason, "latencyMs", result.LatencyMs)
	if result.State == monitoringv1.CheckStateUp {
		return exitUp
	}
	return exitDown
}

// applyDNSEnvOverrides applies the worker environment contract:
// YUPTIME_DNS_RESOLVERS replaces the DNS checker's resolver list with a
// comma-separated list, and YUPTIME_DNS_USE_SYSTEM=true replaces it with the
// pod's own /etc/resolv.conf servers. When both are set and resolv.conf
// yields servers, YUPTIME_DNS_USE_SYSTEM wins.
func applyDNSEnvOverrides(tr *checkers.Transports) {
	if servers := os.Getenv("YUPTIME_DNS_RESOLVERS"); servers != "" {
		tr.DNSServers = strings.Split(servers, ",")
	}
	if os.Getenv("YUPTIME_DNS_USE_SYSTEM") == "true" {
		if cc, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(cc.Servers) > 0 {
			servers := make([]string, 0, len(cc.Servers))
			for _, s := range cc.Servers {
				servers = append(servers, net.JoinHostPort(s, cc.Port))
			}
			tr.DNSServers = servers
		}
	}
}

// runtimeScheme returns a scheme carrying both the built-in kinds
// client-go's typed clients need and monitoring.yuptime.io/v1.
func runtimeScheme() *runtime.Scheme {
	s := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(s); err != nil {
		panic(errors.Wrap(err, "register core scheme"))
	}
	if err := monitoringv1.AddToScheme(s); err != nil {
		panic(errors.Wrap(err, "register monitoring/v1 scheme"))
	}
	return s
}
