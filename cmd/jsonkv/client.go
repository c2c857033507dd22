package main

import (
	"context"
	"encoding/json"
	"net"

	"go.lsp.dev/jsonrpc2"

	"github.com/signadot/jsonkv/server"
)

type client struct {
	conn jsonrpc2.Conn
	// pmessages receives subscription notifications; nil unless the
	// client subscribed.
	pmessages chan *server.PMessage
}

func dialClient(ctx context.Context, addr string) (*client, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	c := &client{
		conn:      jsonrpc2.NewConn(jsonrpc2.NewStream(nc)),
		pmessages: make(chan *server.PMessage, 16),
	}
	c.conn.Go(ctx, c.handle)
	return c, nil
}

func (c *client) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if req.Method() != server.NotifyPMessage {
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
	msg := &server.PMessage{}
	if err := json.Unmarshal(req.Params(), msg); err != nil {
		return reply(ctx, nil, err)
	}
	select {
	case c.pmessages <- msg:
	case <-ctx.Done():
	}
	return reply(ctx, nil, nil)
}

func (c *client) call(ctx context.Context, method string, params, result any) error {
	_, err := c.conn.Call(ctx, method, params, result)
	return err
}

func (c *client) close() {
	c.conn.Close()
	<-c.conn.Done()
}
