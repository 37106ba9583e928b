package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// wsCloseWait is how long a WebSocket session keeps its connection open after sending its
// close frame. Stop returns without waiting; the connection is closed once this delay has
// passed, whether or not the peer's close frame has arrived.
const wsCloseWait = 2 * time.Second

// wsErrorReplyTimeout bounds how long a WebSocket session waits to deliver a decode-error
// reply to its peer before giving up on that particular malformed frame.
const wsErrorReplyTimeout = 5 * time.Second

var wsUpgrader = websocket.Upgrader{
	Subprotocols:    []string{"mcp"},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// WSServer implements ServerTransport over WebSocket connections. Each upgraded connection
// becomes a session with its own inbound stream: a frame read from one connection is delivered
// only to that session's Messages iterator and is not fanned out to other subscribers. WSServer
// tracks the live sessions so that Shutdown can stop them; sending one notification to every
// client is left to the caller, as Server.broadcast does by sending to each session in turn.
type WSServer struct {
	logger *slog.Logger

	sessions   chan Session
	register   chan *wsSession
	unregister chan string

	closed chan struct{}
	done   chan struct{}
}

// NewWSServer creates a WSServer. Call HandleWS to obtain the http.Handler that upgrades
// incoming requests to WebSocket sessions.
func NewWSServer() *WSServer {
	s := &WSServer{
		logger:     slog.Default(),
		sessions:   make(chan Session),
		register:   make(chan *wsSession),
		unregister: make(chan string),
		closed:     make(chan struct{}),
		done:       make(chan struct{}),
	}

	go s.run()

	return s
}

func (s *WSServer) run() {
	live := make(map[string]*wsSession)

	for {
		select {
		case <-s.done:
			for _, sess := range live {
				sess.Stop()
			}
			close(s.closed)
			return
		case sess := <-s.register:
			live[sess.ID()] = sess
			select {
			case s.sessions <- sess:
			case <-s.done:
				for _, liveSess := range live {
					liveSess.Stop()
				}
				close(s.closed)
				return
			}
		case id := <-s.unregister:
			delete(live, id)
		}
	}
}

// HandleWS returns the http.Handler that upgrades requests to WebSocket connections and
// registers each as a new session.
func (s *WSServer) HandleWS() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Error("failed to upgrade websocket connection", slog.String("err", err.Error()))
			return
		}

		id := uuid.New().String()
		sess := &wsSession{
			id:       id,
			conn:     conn,
			logger:   s.logger.With(slog.String("sessionID", id)),
			inbound:  make(chan JSONRPCMessage),
			done:     make(chan struct{}),
			closedBy: s.unregister,
		}

		go sess.readLoop()

		select {
		case s.register <- sess:
		case <-s.done:
			sess.Stop()
		}
	})
}

// Sessions implements ServerTransport.
func (s *WSServer) Sessions() iter.Seq[Session] {
	return func(yield func(Session) bool) {
		for {
			select {
			case <-s.done:
				return
			case sess := <-s.sessions:
				if !yield(sess) {
					return
				}
			}
		}
	}
}

// Shutdown implements ServerTransport.
func (s *WSServer) Shutdown(ctx context.Context) error {
	close(s.done)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
	}
	return nil
}

type wsSession struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex

	inbound  chan JSONRPCMessage
	done     chan struct{}
	closedBy chan<- string

	closeOnce sync.Once
}

func (s *wsSession) ID() string { return s.id }

func (s *wsSession) Send(ctx context.Context, msg JSONRPCMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		errCh <- s.conn.WriteMessage(websocket.TextMessage, b)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return TransportError{Code: TransportErrorClosed, Message: "session is closed"}
	case err := <-errCh:
		if err != nil {
			return TransportError{Code: TransportErrorIOFailure, Message: err.Error()}
		}
		return nil
	}
}

func (s *wsSession) Messages() iter.Seq[JSONRPCMessage] {
	return func(yield func(JSONRPCMessage) bool) {
		for {
			select {
			case <-s.done:
				return
			case msg, ok := <-s.inbound:
				if !ok {
					return
				}
				if !yield(msg) {
					return
				}
			}
		}
	}
}

func (s *wsSession) Stop() {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()

		go func() {
			time.Sleep(wsCloseWait)
			_ = s.conn.Close()
		}()

		close(s.done)
		if s.closedBy != nil {
			select {
			case s.closedBy <- s.id:
			default:
			}
		}
	})
}

func (s *wsSession) readLoop() {
	defer close(s.inbound)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.logger.Debug("websocket read loop terminated", slog.String("err", err.Error()))
			return
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			s.logger.Error("failed to decode websocket message", slog.String("err", err.Error()))
			var rpcErr *JSONRPCError
			if errors.As(err, &rpcErr) {
				go func() {
					sendCtx, sendCancel := context.WithTimeout(context.Background(), wsErrorReplyTimeout)
					defer sendCancel()
					if sendErr := s.Send(sendCtx, JSONRPCMessage{JSONRPC: JSONRPCVersion, Error: rpcErr}); sendErr != nil {
						s.logger.Error("failed to send decode error reply", slog.String("err", sendErr.Error()))
					}
				}()
			}
			continue
		}

		select {
		case s.inbound <- msg:
		case <-s.done:
			return
		}
	}
}

// WSClient implements ClientTransport over a single WebSocket connection, dialed with the
// "mcp" subprotocol.
type WSClient struct {
	url    string
	header http.Header
	dialer websocket.Dialer
	logger *slog.Logger

	sess *wsSession
}

// WSClientOption configures a WSClient.
type WSClientOption func(*WSClient)

// WithWSClientHeader attaches a custom header to the dial request, for auth tokens or other
// handshake metadata the server expects.
func WithWSClientHeader(key, value string) WSClientOption {
	return func(c *WSClient) {
		c.header.Add(key, value)
	}
}

// NewWSClient creates a WSClient that will dial url when StartSession is called.
func NewWSClient(url string, opts ...WSClientOption) *WSClient {
	c := &WSClient{
		url:    url,
		header: make(http.Header),
		dialer: websocket.Dialer{Subprotocols: []string{"mcp"}},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// StartSession implements ClientTransport by dialing the server and starting a reader
// goroutine over the resulting connection.
func (c *WSClient) StartSession(ctx context.Context, ready chan<- error) (iter.Seq[JSONRPCMessage], error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		err = fmt.Errorf("failed to dial websocket: %w", err)
		ready <- err
		return nil, err
	}

	sess := &wsSession{
		id:      uuid.New().String(),
		conn:    conn,
		logger:  c.logger,
		inbound: make(chan JSONRPCMessage),
		done:    make(chan struct{}),
	}
	c.sess = sess

	go sess.readLoop()

	close(ready)

	return sess.Messages(), nil
}

// Send implements ClientTransport. Valid only after StartSession has returned successfully.
func (c *WSClient) Send(ctx context.Context, msg JSONRPCMessage) error {
	if c.sess == nil {
		return TransportError{Code: TransportErrorClosed, Message: "session not started"}
	}
	return c.sess.Send(ctx, msg)
}
