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

package reconcile

import (
	"github.com/go-kit/log"
	"github.com/pkg/errors"
	ctrl "sigs.k8s.io/controller-runtime"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// SetupAll registers every kind's controller against mgr, one
// controller-runtime Builder chain per CRD.
func SetupAll(mgr ctrl.Manager, logger log.Logger, scheduler ScheduleNotifier, settings SettingsNotifier) error {
	type setup struct {
		name    string
		obj     Object
		handler Handler
	}

	setups := []setup{
		{"monitor", &monitoringv1.Monitor{}, NewMonitorHandler(mgr.GetClient(), scheduler)},
		{"maintenancewindow", &monitoringv1.MaintenanceWindow{}, NewMaintenanceWindowHandler(mgr.GetClient())},
		{"silence", &monitoringv1.Silence{}, NewSilenceHandler(mgr.GetClient())},
		{"notificationprovider", &monitoringv1.NotificationProvider{}, NewNotificationProviderHandler(mgr.GetClient())},
		{"notificationpolicy", &monitoringv1.NotificationPolicy{}, NewNotificationPolicyHandler(mgr.GetClient())},
		{"statuspage", &monitoringv1.StatusPage{}, NewStatusPageHandler(mgr.GetClient())},
		{"operatorsettings", &monitoringv1.OperatorSettings{}, NewOperatorSettingsHandler(mgr.GetClient(), settings)},
	}

	for _, s := range setups {
		p := NewPipeline(mgr.GetClient(), mgr.GetScheme(), log.With(logger, "controller", s.name), s.handler)
		if err := ctrl.NewControllerManagedBy(mgr).
			For(s.obj).
			Named(s.name).
			Complete(p); err != nil {
			return errors.Wrapf(err, "setup %s controller", s.name)
		}
	}
	return nil
}
