package rpcjson

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/atvirokodosprendimai/labelhub/internal/adapters/event"
	"github.com/atvirokodosprendimai/labelhub/internal/logging"
	"github.com/goccy/go-json"
)

// Server answers JSON-RPC 2.0 calls on a unix socket, one JSON value per message.
// Methods are "<handler>.invoke" taking an Event and returning a Response, plus "handlers.list".
type Server struct {
	handlers []event.Handler
	listener net.Listener
	path     string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const invokeSuffix = ".invoke"

func Start(path string, handlers []event.Handler) (*Server, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rpc socket path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		_ = os.Remove(path)
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{handlers: handlers, listener: ln, path: path, ctx: ctx, cancel: cancel}
	s.wg.Add(1)
	go s.serve()
	return s, nil
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Close stops accepting, cancels in-flight calls and waits for connections to finish.
func (s *Server) Close() error {
	s.cancel()
	err := s.listener.Close()
	s.wg.Wait()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	done := make(chan struct{})
	defer func() {
		close(done)
		_ = conn.Close()
	}()
	go func() {
		select {
		case <-s.ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || s.ctx.Err() != nil {
				return
			}
			_ = enc.Encode(response{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}, ID: nil})
			return
		}

		ctx := logging.WithRequestID(s.ctx, "")
		if err := enc.Encode(s.dispatch(ctx, req)); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req request) response {
	if req.JSONRPC != "2.0" || strings.TrimSpace(req.Method) == "" {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32600, Message: "invalid request"}, ID: req.ID}
	}

	if req.Method == "handlers.list" {
		type item struct {
			Name    string   `json:"name"`
			Path    string   `json:"path"`
			Methods []string `json:"methods"`
		}
		items := make([]item, 0, len(s.handlers))
		for _, h := range s.handlers {
			items = append(items, item{Name: h.Name(), Path: h.Path(), Methods: h.Methods()})
		}
		return response{JSONRPC: "2.0", Result: items, ID: req.ID}
	}

	name, ok := strings.CutSuffix(req.Method, invokeSuffix)
	if !ok {
		return methodNotFound(req.ID)
	}
	h, ok := event.Lookup(s.handlers, name)
	if !ok {
		return methodNotFound(req.ID)
	}

	var ev event.Event
	if !decodeParams(req.Params, &ev) {
		return invalidParams(req.ID)
	}
	return response{JSONRPC: "2.0", Result: h.Handle(ctx, ev), ID: req.ID}
}

func decodeParams(raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func methodNotFound(id any) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: -32601, Message: "method not found"}, ID: id}
}

func invalidParams(id any) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: -32602, Message: "invalid params"}, ID: id}
}
