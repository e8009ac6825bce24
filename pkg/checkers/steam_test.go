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
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

func buildA2SInfoResponse(name, mapName, folder, game string, players, maxPlayers, bots byte) []byte {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 'I', 0x11}
	cstring := func(s string) []byte { return append([]byte(s), 0x00) }
	buf = append(buf, cstring(name)...)
	buf = append(buf, cstring(mapName)...)
	buf = append(buf, cstring(folder)...)
	buf = append(buf, cstring(game)...)
	buf = append(buf, 0x00, 0x00) // AppID
	buf = append(buf, players, maxPlayers, bots)
	return buf
}

func steamMonitor(host string, port int32, minPlayers, maxPlayers *int32, expectedMap string) *monitoringv1.Monitor {
	return &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type:     monitoringv1.MonitorTypeSteam,
			Schedule: monitoringv1.Schedule{TimeoutSeconds: 5},
			Target: monitoringv1.Target{Steam: &monitoringv1.SteamTarget{
				Host: host, Port: port, MinPlayers: minPlayers, MaxPlayers: maxPlayers, ExpectedMap: expectedMap,
			}},
		},
	}
}

func startA2SServer(t *testing.T, response []byte) (string, int32) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 1500)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			_ = n
			conn.WriteToUDP(response, addr)
		}
	}()

	host, portStr, err := net.SplitHostPort(conn.LocalAddr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, int32(port)
}

func TestCheckSteam_ReportsPlayersAndMap(t *testing.T) {
	resp := buildA2SInfoResponse("My Server", "de_dust2", "csgo", "Counter-Strike", 8, 16, 0)
	host, port := startA2SServer(t, resp)

	res := CheckSteam(DefaultTransports(nil))(context.Background(), steamMonitor(host, port, nil, nil, ""))

	assert.Equal(t, monitoringv1.CheckStateUp, res.State)
	assert.Equal(t, "STEAM_OK", res.Reason)
}

func TestCheckSteam_PlayersOutOfRange(t *testing.T) {
	resp := buildA2SInfoResponse("My Server", "de_dust2", "csgo", "Counter-Strike", 2, 16, 0)
	host, port := startA2SServer(t, resp)
	min := int32(4)

	res := CheckSteam(DefaultTransports(nil))(context.Background(), steamMonitor(host, port, &min, nil, ""))

	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "STEAM_PLAYERS_OUT_OF_RANGE", res.Reason)
}

func TestCheckSteam_MapMismatch(t *testing.T) {
	resp := buildA2SInfoResponse("My Server", "de_inferno", "csgo", "Counter-Strike", 8, 16, 0)
	host, port := startA2SServer(t, resp)

	res := CheckSteam(DefaultTransports(nil))(context.Background(), steamMonitor(host, port, nil, nil, "de_dust2"))

	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, "STEAM_MAP_MISMATCH", res.Reason)
}

func TestCheckSteam_TimeoutWhenNoResponse(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer conn.Close()
	host, portStr, err := net.SplitHostPort(conn.LocalAddr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	res := CheckSteam(DefaultTransports(nil))(ctx, steamMonitor(host, int32(port), nil, nil, ""))

	assert.Equal(t, monitoringv1.CheckStateDown, res.State)
	assert.Equal(t, ReasonTimeout, res.Reason)
}

func TestCheckSteam_InvalidConfigMissingPort(t *testing.T) {
	mon := &monitoringv1.Monitor{
		Spec: monitoringv1.MonitorSpec{
			Type:   monitoringv1.MonitorTypeSteam,
			Target: monitoringv1.Target{Steam: &monitoringv1.SteamTarget{Host: "game.example.com"}},
		},
	}
	res := CheckSteam(DefaultTransports(nil))(context.Background(), mon)

	assert.Equal(t, ReasonInvalidConfig, res.Reason)
}
