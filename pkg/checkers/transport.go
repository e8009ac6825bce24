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
	"database/sql"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-cleanhttp"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/miekg/dns"
	_ "github.com/go-sql-driver/mysql" // registers the "mysql" database/sql driver
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

// WSConn is the subset of *websocket.Conn each checker needs, decomposed so
// tests can substitute a fake without opening a socket.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// SQLRow is the subset of *sql.Row the SQL checkers need.
type SQLRow interface {
	Scan(dest ...any) error
}

// SQLConn is the subset of *sql.DB the SQL checkers need, satisfied
// directly by a thin wrapper around database/sql so both the MySQL and
// PostgreSQL checkers share one real implementation while
// tests inject a mock.
type SQLConn interface {
	PingContext(ctx context.Context) error
	QueryRowContext(ctx context.Context, query string) SQLRow
	Close() error
}

type sqlDBConn struct{ db *sql.DB }

func (c sqlDBConn) PingContext(ctx context.Context) error { return c.db.PingContext(ctx) }
func (c sqlDBConn) QueryRowContext(ctx context.Context, query string) SQLRow {
	return c.db.QueryRowContext(ctx, query)
}
func (c sqlDBConn) Close() error { return c.db.Close() }

// RedisConn is the subset of *redis.Client the Redis checker needs.
type RedisConn interface {
	Ping(ctx context.Context) (string, error)
	Close() error
}

type redisClientConn struct{ c *redis.Client }

func (r redisClientConn) Ping(ctx context.Context) (string, error) {
	return r.c.Ping(ctx).Result()
}
func (r redisClientConn) Close() error { return r.c.Close() }

// GRPCHealthConn bundles a health client with the connection it rides on so
// callers can close the latter.
type GRPCHealthConn struct {
	Client grpc_health_v1.HealthClient
	Close  func() error
}

// DNSResolver issues one DNS query and returns the raw answer message.
type DNSResolver interface {
	Exchange(ctx context.Context, m *dns.Msg, resolver string) (*dns.Msg, error)
}

type miekgResolver struct{ client *dns.Client }

func (r miekgResolver) Exchange(ctx context.Context, m *dns.Msg, resolver string) (*dns.Msg, error) {
	resp, _, err := r.client.ExchangeContext(ctx, m, resolver)
	return resp, err
}

// Transports collects every injectable I/O factory the checker family uses.
// Production code gets DefaultTransports(); tests construct a Transports
// literal with only the fields their checker under test touches. Keeping the
// check functions pure over these factories is what makes every error path
// testable without live dependencies.
type Transports struct {
	// NewHTTPClient builds an *http.Client honoring timeout and the
	// Monitor's redirect-following preference.
	NewHTTPClient func(timeout time.Duration, followRedirects bool) *http.Client

	// Dial opens a stream or datagram connection (TCP, or a connected UDP
	// socket for the Steam checker).
	Dial func(ctx context.Context, network, address string) (net.Conn, error)

	// DialWebSocket opens a WebSocket connection.
	DialWebSocket func(ctx context.Context, url string, timeout time.Duration) (WSConn, error)

	// DNSResolver issues raw DNS queries; DNSServers lists resolver
	// addresses to try in order (8.8.8.8:53 in DefaultTransports, unless
	// the worker's YUPTIME_DNS_RESOLVERS or YUPTIME_DNS_USE_SYSTEM
	// override replaces it).
	DNSResolver DNSResolver
	DNSServers  []string

	// RunPing invokes the platform ping executor and returns its combined
	// stdout/stderr for the caller to parse.
	RunPing func(ctx context.Context, host string, count int, timeout time.Duration) (output string, err error)

	// DialGRPCHealth opens a gRPC connection and wraps it in the standard
	// Health client.
	DialGRPCHealth func(ctx context.Context, target string, tls *monitoringv1.TLSConfig) (*GRPCHealthConn, error)

	// OpenSQL opens a database/sql connection for the given driver
	// ("mysql" or "pgx") and DSN.
	OpenSQL func(driverName, dsn string) (SQLConn, error)

	// DialRedis opens a Redis connection.
	DialRedis func(addr, password string, tls *monitoringv1.TLSConfig) RedisConn

	// K8sClient reads Kubernetes resources for the k8s checker.
	K8sClient client.Client
}

// DefaultTransports wires every factory to its real, network-touching
// implementation: go-cleanhttp's hardened client, net.Dialer, gorilla's
// websocket.Dialer, miekg/dns's exchange client, the platform ping binary,
// grpc.NewClient against the standard health service, and database/sql
// over the mysql and pgx drivers.
func DefaultTransports(k8sClient client.Client) *Transports {
	return &Transports{
		NewHTTPClient: func(timeout time.Duration, followRedirects bool) *http.Client {
			c := cleanhttp.DefaultPooledClient()
			c.Timeout = timeout
			if !followRedirects {
				c.CheckRedirect = func(*http.Request, []*http.Request) error {
					return http.ErrUseLastResponse
				}
			}
			return c
		},
		Dial: (&net.Dialer{}).DialContext,
		DialWebSocket: func(ctx context.Context, url string, timeout time.Duration) (WSConn, error) {
			d := websocket.Dialer{HandshakeTimeout: timeout}
			conn, _, err := d.DialContext(ctx, url, nil)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
		DNSResolver: miekgResolver{client: &dns.Client{}},
		DNSServers:  []string{"8.8.8.8:53"},
		RunPing:     runPlatformPing,
		DialGRPCHealth: func(ctx context.Context, target string, tls *monitoringv1.TLSConfig) (*GRPCHealthConn, error) {
			creds := insecure.NewCredentials()
			if tls != nil && tls.Enabled {
				creds = credentials.NewTLS(&tlsConfig(tls).Config)
			}
			conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(creds))
			if err != nil {
				return nil, err
			}
			return &GRPCHealthConn{
				Client: grpc_health_v1.NewHealthClient(conn),
				Close:  conn.Close,
			}, nil
		},
		OpenSQL: func(driverName, dsn string) (SQLConn, error) {
			db, err := sql.Open(driverName, dsn)
			if err != nil {
				return nil, err
			}
			return sqlDBConn{db: db}, nil
		},
		DialRedis: func(addr, password string, tls *monitoringv1.TLSConfig) RedisConn {
			opts := &redis.Options{Addr: addr, Password: password}
			if tls != nil && tls.Enabled {
				opts.TLSConfig = &tlsConfig(tls).Config
			}
			return redisClientConn{c: redis.NewClient(opts)}
		},
		K8sClient: k8sClient,
	}
}
