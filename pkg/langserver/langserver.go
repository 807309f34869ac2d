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

// Package langserver implements an LSP server for LLAMA-16 assembly over
// jsonrpc2. Diagnostics come from running the assembler on the document;
// hover serves mnemonic, directive, and register reference text.
package langserver

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"os"

	"github.com/sourcegraph/jsonrpc2"
)

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// ListenAndServe serves one session over stdin/stdout until the client
// disconnects
func ListenAndServe() {
	h := newHandler()

	<-jsonrpc2.NewConn(
		context.Background(),
		jsonrpc2.NewBufferedStream(stdrwc{}, jsonrpc2.VSCodeObjectCodec{}),
		h,
	).DisconnectNotify()
}

// ListenAndServeTCP accepts language clients on addr, one session per
// connection
func ListenAndServeTCP(addr string) error {
	listener, err := net.Listen("tcp", addr)

	if err != nil {
		return err
	}

	defer listener.Close()

	log.Println("listening for TCP connections on", addr)

	for {
		conn, err := listener.Accept()

		if err != nil {
			return err
		}

		h := newHandler()

		rpcConn := jsonrpc2.NewConn(
			context.Background(),
			jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{}),
			h,
		)

		go func() {
			<-rpcConn.DisconnectNotify()
			log.Println("connection closed")
		}()
	}
}

type handler struct {
	documents map[string]TextDocumentItem
}

func newHandler() *handler {
	return &handler{documents: make(map[string]TextDocumentItem)}
}

func (h *handler) Handle(
	ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request,
) {
	switch req.Method {
	case "initialize":
		h.handleInitialize(conn, req)
	case "textDocument/didOpen":
		h.documentOpenNotification(conn, req)
	case "textDocument/didClose":
		h.documentCloseNotification(conn, req)
	case "textDocument/didChange":
		h.documentChangeNotification(conn, req)
	case "textDocument/diagnostic":
		h.documentDiagnostics(conn, req)
	case "textDocument/hover":
		h.hoverRequest(conn, req)

	case "shutdown":
		conn.Reply(context.Background(), req.ID, nil)
		conn.Close()
	case "exit":
		conn.Reply(context.Background(), req.ID, nil)
		conn.Close()
	}
}

func (h *handler) handleInitialize(
	conn *jsonrpc2.Conn, req *jsonrpc2.Request,
) {
	decodedParams := InitializeParams{}

	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	result := InitializeResult{}
	result.Capabilities.TextDocumentSync = 1
	result.Capabilities.HoverProvider = true
	conn.Reply(context.Background(), req.ID, result)
}

func replyInvalidParams(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	rpcErr := jsonrpc2.Error{}
	rpcErr.SetError("invalid parameters")
	conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
}
