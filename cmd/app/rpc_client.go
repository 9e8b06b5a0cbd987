package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/atvirokodosprendimai/labelhub/internal/adapters/event"
	"github.com/goccy/go-json"
)

const rpcDialTimeout = 5 * time.Second

var rpcSeq atomic.Int64

// rpcClient issues one JSON-RPC 2.0 call per connection on the server's unix socket.
type rpcClient struct {
	socket string
}

type rpcEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  string          `json:"method,omitempty"`
	Params  any             `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// handlerInfo is one entry of the handlers.list result.
type handlerInfo struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Methods []string `json:"methods,omitempty"`
}

func newRPCClient(socket string) *rpcClient {
	return &rpcClient{socket: socket}
}

func (c *rpcClient) invoke(ctx context.Context, handler string, ev event.Event) (event.Response, error) {
	var resp event.Response
	err := c.call(ctx, handler+".invoke", ev, &resp)
	return resp, err
}

func (c *rpcClient) handlers(ctx context.Context) ([]handlerInfo, error) {
	var list []handlerInfo
	err := c.call(ctx, "handlers.list", nil, &list)
	return list, err
}

func (c *rpcClient) call(ctx context.Context, method string, params, out any) error {
	conn, err := (&net.Dialer{Timeout: rpcDialTimeout}).DialContext(ctx, "unix", c.socket)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.socket, err)
	}
	defer func() { _ = conn.Close() }()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	id := rpcSeq.Add(1)
	if err := json.NewEncoder(conn).Encode(rpcEnvelope{JSONRPC: "2.0", ID: id, Method: method, Params: params}); err != nil {
		return err
	}

	var reply rpcEnvelope
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&reply); err != nil {
		return fmt.Errorf("read %s reply: %w", method, err)
	}
	if reply.Error != nil {
		return fmt.Errorf("%s: rpc error %d: %s", method, reply.Error.Code, reply.Error.Message)
	}
	if reply.ID != id {
		return fmt.Errorf("%s: reply id %d does not match request %d", method, reply.ID, id)
	}
	if out == nil || len(reply.Result) == 0 {
		return nil
	}
	return json.Unmarshal(reply.Result, out)
}
