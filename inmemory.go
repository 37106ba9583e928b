package mcp

import (
	"context"
	"iter"

	"github.com/google/uuid"
)

// defaultInMemoryCapacity is the default buffer depth for each direction of an in-memory
// transport pair.
const defaultInMemoryCapacity = 256

// InMemoryServerTransport is a ServerTransport that exchanges messages over in-process
// channels rather than a socket or pipe. It's intended for tests and for embedding a server
// and client in the same process without crossing any real transport boundary.
type InMemoryServerTransport struct {
	sessions chan *inMemorySession
	closed   chan struct{}
}

// InMemoryClientTransport is the ClientTransport half of a pair created by
// NewInMemoryTransports.
type InMemoryClientTransport struct {
	session *inMemorySession
}

type inMemorySession struct {
	id string

	toClient chan JSONRPCMessage
	toServer chan JSONRPCMessage

	done chan struct{}
}

// NewInMemoryTransports creates a linked pair of in-process transports: a server transport
// that will yield exactly one session, and the client transport wired to the other end of
// that session. capacity bounds how many unread messages may queue in each direction before
// Send blocks; a capacity of 0 or less uses defaultInMemoryCapacity.
func NewInMemoryTransports(capacity int) (*InMemoryServerTransport, *InMemoryClientTransport) {
	if capacity <= 0 {
		capacity = defaultInMemoryCapacity
	}

	sess := &inMemorySession{
		id:       uuid.New().String(),
		toClient: make(chan JSONRPCMessage, capacity),
		toServer: make(chan JSONRPCMessage, capacity),
		done:     make(chan struct{}),
	}

	sessions := make(chan *inMemorySession, 1)
	sessions <- sess

	return &InMemoryServerTransport{sessions: sessions, closed: make(chan struct{})},
		&InMemoryClientTransport{session: sess}
}

// Sessions implements ServerTransport, yielding the single session wired to the paired
// InMemoryClientTransport.
func (t *InMemoryServerTransport) Sessions() iter.Seq[Session] {
	return func(yield func(Session) bool) {
		defer close(t.closed)

		select {
		case sess := <-t.sessions:
			if !yield(serverSideInMemorySession{sess}) {
				return
			}
			<-sess.done
		default:
		}
	}
}

// Shutdown implements ServerTransport.
func (t *InMemoryServerTransport) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.closed:
	}
	return nil
}

// StartSession implements ClientTransport, returning an iterator over messages sent by the
// server side of the pair. Readiness is signaled immediately since no handshake is needed.
func (t *InMemoryClientTransport) StartSession(_ context.Context, ready chan<- error) (
	iter.Seq[JSONRPCMessage], error,
) {
	close(ready)
	return clientSideInMemorySession{t.session}.Messages(), nil
}

// Send implements ClientTransport.
func (t *InMemoryClientTransport) Send(ctx context.Context, msg JSONRPCMessage) error {
	return clientSideInMemorySession{t.session}.Send(ctx, msg)
}

// serverSideInMemorySession is the Session the server observes: it sends on toClient and
// reads from toServer.
type serverSideInMemorySession struct {
	*inMemorySession
}

func (s serverSideInMemorySession) ID() string { return s.id }

func (s serverSideInMemorySession) Send(ctx context.Context, msg JSONRPCMessage) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return TransportError{Code: TransportErrorClosed, Message: "session is closed"}
	case s.toClient <- msg:
		return nil
	}
}

func (s serverSideInMemorySession) Messages() iter.Seq[JSONRPCMessage] {
	return func(yield func(JSONRPCMessage) bool) {
		for {
			select {
			case <-s.done:
				return
			case msg := <-s.toServer:
				if !yield(msg) {
					return
				}
			}
		}
	}
}

func (s serverSideInMemorySession) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// clientSideInMemorySession is the Session the client observes: it sends on toServer and
// reads from toClient.
type clientSideInMemorySession struct {
	*inMemorySession
}

func (s clientSideInMemorySession) ID() string { return s.id }

func (s clientSideInMemorySession) Send(ctx context.Context, msg JSONRPCMessage) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return TransportError{Code: TransportErrorClosed, Message: "session is closed"}
	case s.toServer <- msg:
		return nil
	}
}

func (s clientSideInMemorySession) Messages() iter.Seq[JSONRPCMessage] {
	return func(yield func(JSONRPCMessage) bool) {
		for {
			select {
			case <-s.done:
				return
			case msg := <-s.toClient:
				if !yield(msg) {
					return
				}
			}
		}
	}
}

func (s clientSideInMemorySession) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
