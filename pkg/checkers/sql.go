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
	"os"
	"time"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// sqlCredentials reads the worker-env credentials a SQLTarget's username
// and password refs project; the operator never resolves the secret itself.
func sqlCredentials(family string) (username, password string) {
	return os.Getenv("YUPTIME_CRED_" + family + "_USERNAME"), os.Getenv("YUPTIME_CRED_" + family + "_PASSWORD")
}

// runSQLHealthCheck opens driverName against dsn, pings, and runs
// healthQuery (defaulting to "SELECT 1"), classifying any failure through
// classifySQLError. Shared by the mysql and postgresql checkers, which
// differ only in DSN construction and reason-family prefix.
func runSQLHealthCheck(ctx context.Context, tr *Transports, started time.Time, driverName, dsn, healthQuery, okReason string) Result {
	if healthQuery == "" {
		healthQuery = "SELECT 1"
	}

	conn, err := tr.OpenSQL(driverName, dsn)
	if err != nil {
		return down(started, classifySQLError(err), err.Error())
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return down(started, ReasonTimeout, err.Error())
		}
		return down(started, classifySQLError(err), err.Error())
	}

	var discard any
	if err := conn.QueryRowContext(ctx, healthQuery).Scan(&discard); err != nil && err.Error() != "sql: Rows are closed" {
		if ctx.Err() == context.DeadlineExceeded {
			return down(started, ReasonTimeout, err.Error())
		}
		// A health query like "SELECT 1" scans cleanly; a driver-level
		// "no rows"/column-count mismatch from a custom healthQuery still
		// proves connectivity, so only genuine connection errors fail here.
		if reason := classifySQLError(err); reason != "CONNECTION_ERROR" {
			return down(started, reason, err.Error())
		}
	}
	return up(started, okReason, "")
}

// CheckMySQL implements the mysql MonitorType.
func CheckMySQL(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.MySQL
		if t == nil || t.Host == "" || t.Database == "" {
			return invalidConfig(started, "target.mysql.host and target.mysql.database are required")
		}
		username, password := sqlCredentials("MYSQL")
		dsn := mysqlDSN(t, username, password, mon.Spec.Schedule.TimeoutSeconds)
		return runSQLHealthCheck(ctx, tr, started, "mysql", dsn, t.HealthQuery, "MYSQL_OK")
	}
}

// CheckPostgreSQL implements the postgresql MonitorType.
func CheckPostgreSQL(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.PostgreSQL
		if t == nil || t.Host == "" || t.Database == "" {
			return invalidConfig(started, "target.postgresql.host and target.postgresql.database are required")
		}
		username, password := sqlCredentials("POSTGRESQL")
		dsn := postgresDSN(t, username, password, mon.Spec.Schedule.TimeoutSeconds)
		return runSQLHealthCheck(ctx, tr, started, "pgx", dsn, t.HealthQuery, "POSTGRESQL_OK")
	}
}

func mysqlDSN(t *monitoringv1.SQLTarget, username, password string, timeoutSeconds int32) string {
	tls := "false"
	if t.TLS != nil && t.TLS.Enabled {
		tls = "true"
		if t.TLS.InsecureSkipVerify {
			tls = "skip-verify"
		}
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?timeout=%ds&tls=%s",
		username, password, t.Host, t.Port, t.Database, timeoutSeconds, tls)
}

func postgresDSN(t *monitoringv1.SQLTarget, username, password string, timeoutSeconds int32) string {
	sslmode := t.SSLMode
	if sslmode == "" {
		sslmode = "disable"
		if t.TLS != nil && t.TLS.Enabled {
			sslmode = "require"
		}
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		username, password, t.Host, t.Port, t.Database, sslmode, timeoutSeconds)
}
