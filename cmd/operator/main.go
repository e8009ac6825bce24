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

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	// Blank import required to register client auth plugins (exec, OIDC) for
	// talking to managed clusters.
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
	"github.com/yuptime/yuptime-operator/pkg/alert"
	"github.com/yuptime/yuptime-operator/pkg/discovery"
	"github.com/yuptime/yuptime-operator/pkg/lease"
	"github.com/yuptime/yuptime-operator/pkg/metrics"
	"github.com/yuptime/yuptime-operator/pkg/reconcile"
	"github.com/yuptime/yuptime-operator/pkg/scheduler"
	"github.com/yuptime/yuptime-operator/pkg/statusapi"
)

// The valid levels for the --log-level flag.
const (
	logLevelDebug = "debug"
	logLevelInfo  = "info"
	logLevelWarn  = "warn"
	logLevelError = "error"
)

var validLogLevels = []string{logLevelDebug, logLevelInfo, logLevelWarn, logLevelError}

func main() {
	var kubeconfig *string
	if home := homedir.HomeDir(); home != "" {
		kubeconfig = flag.String("kubeconfig", filepath.Join(home, ".kube", "config"), "(optional) absolute path to the kubeconfig file")
	} else {
		kubeconfig = flag.String("kubeconfig", "", "absolute path to the kubeconfig file")
	}
	var (
		apiserverURL = flag.String("apiserver", "", "URL to the Kubernetes API server.")
		logLevel     = flag.String("log-level", logLevelInfo,
			fmt.Sprintf("Log level to use. Possible values: %s", strings.Join(validLogLevels, ", ")))
		operatorNamespace = flag.String("operator-namespace", "yuptime-system",
			"Namespace in which the operator creates worker Jobs and reads its own Lease.")
		executorImage = flag.String("executor-image", "yuptime/checker-executor:latest",
			"Container image run by every worker Job to execute one check.")
		enableDiscovery = flag.Bool("enable-discovery", true,
			"Watch Service/Ingress objects for monitoring.yuptime.io/enabled=true and derive Monitors from them.")
		discoveryWriteCRDs = flag.Bool("discovery-write-crds", true,
			"Whether the discovery controller actually creates/updates Monitors, or only logs what it would do.")
		leaseName = flag.String("lease-name", "yuptime-scheduler",
			"Name of the coordination.k8s.io/v1 Lease serializing scheduler leadership across replicas.")
		podName = flag.String("pod-name", "",
			"This replica's identity for leader election; defaults to the HOSTNAME environment variable.")
		metricsAddr   = flag.String("metrics-addr", ":8080", "Address to emit Prometheus metrics on.")
		statusAddr    = flag.String("status-addr", ":8090", "Address to serve the read-only status API on.")
		healthAddr    = flag.String("health-addr", ":8081", "Address for the controller-runtime manager's health/readiness probes.")
	)
	flag.Parse()

	logger, err := setupLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger failed: %s\n", err)
		os.Exit(2)
	}

	if *podName == "" {
		*podName = os.Getenv("HOSTNAME")
	}

	cfg, err := clientcmd.BuildConfigFromFlags(*apiserverURL, *kubeconfig)
	if err != nil {
		level.Error(logger).Log("msg", "building kubeconfig failed", "err", err)
		os.Exit(1)
	}

	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		level.Error(logger).Log("msg", "add Kubernetes core scheme", "err", err)
		os.Exit(1)
	}
	if err := monitoringv1.AddToScheme(scheme); err != nil {
		level.Error(logger).Log("msg", "add monitoring/v1 scheme", "err", err)
		os.Exit(1)
	}

	mgr, err := ctrl.NewManager(cfg, manager.Options{
		Scheme: scheme,
		// Metrics are served explicitly by the registry below rather than by
		// the manager's own server.
		Metrics: metricsserver.Options{BindAddress: "0"},
		HealthProbeBindAddress: *healthAddr,
	})
	if err != nil {
		level.Error(logger).Log("msg", "create controller manager", "err", err)
		os.Exit(1)
	}

	kubeClient, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		level.Error(logger).Log("msg", "build kubernetes clientset", "err", err)
		os.Exit(1)
	}

	metricsRegistry := metrics.New()
	alertDispatcher := alert.New(mgr.GetClient(), log.With(logger, "component", "alert"), *operatorNamespace)

	jobOpts := scheduler.BuildJobOptions{
		Namespace:     *operatorNamespace,
		ExecutorImage: *executorImage,
	}
	schedulerManager := scheduler.NewManager(mgr.GetClient(), log.With(logger, "component", "scheduler"), jobOpts)

	recorder := mgr.GetEventRecorderFor("yuptime-operator")
	completionWatcher := scheduler.NewCompletionWatcher(mgr.GetClient(), log.With(logger, "component", "completion"),
		schedulerManager, recorder, monitoringv1.DefaultMaxConcurrentChecks, metricsRegistry, alertDispatcher)
	if err := completionWatcher.SetupWithManager(mgr); err != nil {
		level.Error(logger).Log("msg", "setup completion watcher", "err", err)
		os.Exit(1)
	}

	stallDetector := scheduler.NewStallDetector(mgr.GetClient(), log.With(logger, "component", "stall"), schedulerManager)

	if err := reconcile.SetupAll(mgr, logger, schedulerManager, schedulerManager); err != nil {
		level.Error(logger).Log("msg", "setup CRD controllers", "err", err)
		os.Exit(1)
	}

	if *enableDiscovery {
		discoveryOpts := discovery.Options{WriteCRDs: *discoveryWriteCRDs}
		svcReconciler := &discovery.ServiceReconciler{Client: mgr.GetClient(), Logger: log.With(logger, "component", "discovery-service"), Options: discoveryOpts}
		if err := svcReconciler.SetupWithManager(mgr); err != nil {
			level.Error(logger).Log("msg", "setup service discovery controller", "err", err)
			os.Exit(1)
		}
		ingReconciler := &discovery.IngressReconciler{Client: mgr.GetClient(), Logger: log.With(logger, "component", "discovery-ingress"), Options: discoveryOpts}
		if err := ingReconciler.SetupWithManager(mgr); err != nil {
			level.Error(logger).Log("msg", "setup ingress discovery controller", "err", err)
			os.Exit(1)
		}
	}

	schedulerLease, err := lease.New(log.With(logger, "component", "lease"), kubeClient, *operatorNamespace, *leaseName, *podName, nil)
	if err != nil {
		level.Error(logger).Log("msg", "construct scheduler lease", "err", err)
		os.Exit(1)
	}
	// Followers keep every watch warm but must not launch worker Jobs until
	// they hold the lease.
	schedulerManager.SetLeader(false)
	schedulerLease.Register(schedulerManager.SetLeader)

	var g run.Group
	// Controller-runtime manager: runs every registered controller
	// (CRD reconcilers, completion watcher, discovery) until ctx cancels.
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			return mgr.Start(ctx)
		}, func(error) {
			cancel()
		})
	}
	// Stall detector: the sole recovery path for missed completion events.
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			return stallDetector.Run(ctx)
		}, func(error) {
			cancel()
		})
	}
	// Scheduler leadership: only the lease holder's Manager launches worker
	// Jobs; followers still run every controller above so they're hot
	// standbys.
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			schedulerLease.Run(ctx)
			return nil
		}, func(error) {
			cancel()
		})
	}
	// Metrics server.
	{
		server := &http.Server{Addr: *metricsAddr, Handler: promhttp.HandlerFor(metricsRegistry.Gatherer(), promhttp.HandlerOpts{})}
		g.Add(func() error {
			return server.ListenAndServe()
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			_ = server.Shutdown(ctx)
		})
	}
	// Read-only status API server.
	{
		server := &http.Server{Addr: *statusAddr, Handler: statusapi.New(mgr.GetClient(), log.With(logger, "component", "statusapi"))}
		g.Add(func() error {
			return server.ListenAndServe()
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			_ = server.Shutdown(ctx)
		})
	}
	// Termination handler.
	{
		ctx, cancel := signalContext()
		g.Add(func() error {
			<-ctx.Done()
			level.Info(logger).Log("msg", "received termination signal, exiting gracefully...")
			return nil
		}, func(error) {
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		level.Error(logger).Log("msg", "exit with error", "err", err)
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGINT/SIGTERM, so the
// run.Group's termination actor unblocks on either signal.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func setupLogger(lvl string) (log.Logger, error) {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))

	switch lvl {
	case logLevelDebug:
		logger = level.NewFilter(logger, level.AllowDebug())
	case logLevelInfo:
		logger = level.NewFilter(logger, level.AllowInfo())
	case logLevelWarn:
		logger = level.NewFilter(logger, level.AllowWarn())
	case logLevelError:
		logger = level.NewFilter(logger, level.AllowError())
	default:
		return nil, errors.Errorf("log level %q unknown, must be one of (%s)", lvl, strings.Join(validLogLevels, ", "))
	}
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "caller", log.DefaultCaller)

	return logger, nil
}
