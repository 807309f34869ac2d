// Copyright (C) 2022  Hunter Welch

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package monitor exposes a running machine over a websocket endpoint.
// Clients send JSON commands (step, regs, mem, reset) and receive JSON
// state snapshots; commands from concurrent connections are serialized.
package monitor

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hwelch-fle/llama-16/pkg/machine"
)

type Command struct {
	Op    string `json:"op"`
	Addr  uint16 `json:"addr,omitempty"`
	Count uint16 `json:"count,omitempty"`
}

type StateReply struct {
	Type      string    `json:"type"`
	Registers [7]uint16 `json:"registers"`
	Flags     uint16    `json:"flags"`
	Halted    bool      `json:"halted"`
	Error     string    `json:"error,omitempty"`
}

type MemReply struct {
	Type  string   `json:"type"`
	Addr  uint16   `json:"addr"`
	Words []uint16 `json:"words"`
}

type ErrorReply struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type Server struct {
	Machine *machine.Machine

	mu       sync.Mutex
	halted   bool
	upgrader websocket.Upgrader
}

func NewServer(mc *machine.Machine) *Server {
	return &Server{
		Machine: mc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ListenAndServe serves mc on ws://addr/monitor until the listener fails
func ListenAndServe(addr string, mc *machine.Machine) error {
	server := NewServer(mc)

	mux := http.NewServeMux()
	mux.HandleFunc("/monitor", server.handleUpgrade)

	return http.ListenAndServe(addr, mux)
}

func (server *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := server.upgrader.Upgrade(w, r, nil)

	if err != nil {
		log.Println("monitor: upgrade failed:", err)
		return
	}

	go server.serveConn(conn)
}

func (server *Server) serveConn(conn *websocket.Conn) {
	defer conn.Close()

	for {
		var cmd Command

		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
			) {
				log.Println("monitor: read failed:", err)
			}
			return
		}

		reply := server.execute(&cmd)

		if err := conn.WriteJSON(reply); err != nil {
			log.Println("monitor: write failed:", err)
			return
		}
	}
}

func (server *Server) execute(cmd *Command) interface{} {
	server.mu.Lock()
	defer server.mu.Unlock()

	switch cmd.Op {
	case "step":
		count := cmd.Count

		if count == 0 {
			count = 1
		}

		var stepErr error

		for i := uint16(0); i < count && !server.halted; i++ {
			if stepErr = server.Machine.Step(); stepErr != nil {
				if stepErr == machine.ErrHalted {
					server.halted = true
					stepErr = nil
				}
				break
			}
		}

		return server.state(stepErr)

	case "regs":
		return server.state(nil)

	case "mem":
		count := cmd.Count

		if count == 0 {
			count = 1
		}

		words := make([]uint16, 0, count)

		for i := uint16(0); i < count; i++ {
			words = append(
				words, server.Machine.State.Memory[cmd.Addr+i],
			)
		}

		return MemReply{Type: "mem", Addr: cmd.Addr, Words: words}

	case "reset":
		server.Machine.State.Reset()
		server.halted = false
		return server.state(nil)
	}

	return ErrorReply{
		Type:  "error",
		Error: "unknown op '" + cmd.Op + "'",
	}
}

func (server *Server) state(err error) StateReply {
	reply := StateReply{
		Type:      "state",
		Registers: server.Machine.State.Registers,
		Flags:     server.Machine.State.Flags,
		Halted:    server.halted,
	}

	if err != nil {
		reply.Error = err.Error()
	}

	return reply
}
