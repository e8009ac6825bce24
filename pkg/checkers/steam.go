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
	"bytes"
	"context"
	"fmt"
	"time"

	monitoringv1 "github.com/yuptime/yuptime-operator/pkg/apis/monitoring/v1"
)

var a2sInfoRequest = []byte{0xFF, 0xFF, 0xFF, 0xFF, 'T', 'S', 'o', 'u', 'r', 'c', 'e', ' ', 'E', 'n', 'g', 'i', 'n', 'e', ' ', 'Q', 'u', 'e', 'r', 'y', 0x00}

// a2sInfo is the subset of a Source Engine A2S_INFO response this checker
// inspects.
type a2sInfo struct {
	Name, Map, Folder, Game   string
	Players, MaxPlayers, Bots int
}

// parseA2SInfo parses the header (0xFF*4, 'I'), the four null-terminated
// strings, then the player/max-player/bot count bytes, per the Source
// Engine query protocol.
func parseA2SInfo(data []byte) (*a2sInfo, error) {
	if len(data) < 6 || data[0] != 0xFF || data[1] != 0xFF || data[2] != 0xFF || data[3] != 0xFF || data[4] != 'I' {
		return nil, fmt.Errorf("malformed A2S_INFO header")
	}
	buf := bytes.NewBuffer(data[6:]) // skip header + protocol version byte
	readCString := func() (string, error) {
		s, err := buf.ReadString(0x00)
		if err != nil {
			return "", err
		}
		return s[:len(s)-1], nil
	}

	name, err := readCString()
	if err != nil {
		return nil, err
	}
	mapName, err := readCString()
	if err != nil {
		return nil, err
	}
	folder, err := readCString()
	if err != nil {
		return nil, err
	}
	game, err := readCString()
	if err != nil {
		return nil, err
	}
	// Skip AppID (int16) before player/max-player/bot bytes.
	if buf.Len() < 5 {
		return nil, fmt.Errorf("truncated A2S_INFO body")
	}
	buf.Next(2)
	players, _ := buf.ReadByte()
	maxPlayers, _ := buf.ReadByte()
	bots, _ := buf.ReadByte()

	return &a2sInfo{
		Name: name, Map: mapName, Folder: folder, Game: game,
		Players: int(players), MaxPlayers: int(maxPlayers), Bots: int(bots),
	}, nil
}

// CheckSteam implements the steam MonitorType: an A2S_INFO UDP query with
// optional minPlayers/maxPlayers/expectedMap gates.
func CheckSteam(tr *Transports) Checker {
	return func(ctx context.Context, mon *monitoringv1.Monitor) Result {
		started := time.Now()
		t := mon.Spec.Target.Steam
		if t == nil || t.Host == "" || t.Port == 0 {
			return invalidConfig(started, "target.steam.host and target.steam.port are required")
		}

		addr := fmt.Sprintf("%s:%d", t.Host, t.Port)
		conn, err := tr.Dial(ctx, "udp", addr)
		if err != nil {
			return down(started, classifyDialError(ctx, err), err.Error())
		}
		defer conn.Close()
		if deadline, ok := ctx.Deadline(); ok {
			conn.SetDeadline(deadline)
		}

		if _, err := conn.Write(a2sInfoRequest); err != nil {
			return down(started, "SEND_ERROR", err.Error())
		}

		buf := make([]byte, 1400)
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return down(started, ReasonTimeout, err.Error())
			}
			return down(started, "STEAM_UNREACHABLE", err.Error())
		}

		info, err := parseA2SInfo(buf[:n])
		if err != nil {
			return down(started, "STEAM_PARSE_ERROR", err.Error())
		}

		if t.MinPlayers != nil && int32(info.Players) < *t.MinPlayers {
			return down(started, "STEAM_PLAYERS_OUT_OF_RANGE", fmt.Sprintf("%d players, want >= %d", info.Players, *t.MinPlayers))
		}
		if t.MaxPlayers != nil && int32(info.Players) > *t.MaxPlayers {
			return down(started, "STEAM_PLAYERS_OUT_OF_RANGE", fmt.Sprintf("%d players, want <= %d", info.Players, *t.MaxPlayers))
		}
		if t.ExpectedMap != "" && info.Map != t.ExpectedMap {
			return down(started, "STEAM_MAP_MISMATCH", fmt.Sprintf("map %q, want %q", info.Map, t.ExpectedMap))
		}
		return up(started, "STEAM_OK", fmt.Sprintf("%s: %d/%d players on %s", info.Name, info.Players, info.MaxPlayers, info.Map))
	}
}
