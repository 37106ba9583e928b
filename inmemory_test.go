package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modulecraft/go-mcp"
)

func TestInMemoryTransportBidirectionalMessageFlow(t *testing.T) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports(8)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ready := make(chan error, 1)
	clientMsgs, err := clientTransport.StartSession(ctx, ready)
	if err != nil {
		t.Fatalf("failed to start client session: %v", err)
	}
	if err := <-ready; err != nil {
		t.Fatalf("session not ready: %v", err)
	}

	var serverSession mcp.Session
	for s := range serverTransport.Sessions() {
		serverSession = s
		break
	}
	if serverSession == nil {
		t.Fatal("expected a server session")
	}

	req := mcp.JSONRPCMessage{
		JSONRPC: mcp.JSONRPCVersion,
		Method:  "ping",
		Params:  json.RawMessage(`{}`),
	}
	if err := serverSession.Send(ctx, req); err != nil {
		t.Fatalf("failed to send from server: %v", err)
	}

	received := make(chan mcp.JSONRPCMessage, 1)
	go func() {
		for msg := range clientMsgs {
			received <- msg
			return
		}
	}()

	select {
	case msg := <-received:
		if msg.Method != "ping" {
			t.Errorf("got method %q, want %q", msg.Method, "ping")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	if err := clientTransport.Send(ctx, mcp.JSONRPCMessage{
		JSONRPC: mcp.JSONRPCVersion,
		Method:  "pong",
	}); err != nil {
		t.Fatalf("failed to send from client: %v", err)
	}

	for msg := range serverSession.Messages() {
		if msg.Method != "pong" {
			t.Errorf("got method %q, want %q", msg.Method, "pong")
		}
		break
	}
}
