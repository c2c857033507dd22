// Package server exposes a Store over JSON-RPC 2.0 on TCP. Each client
// connection gets its own session; change notifications reach clients
// through pattern subscriptions on the hub.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/signadot/jsonkv"
	"github.com/signadot/jsonkv/notify"
)

type Spec struct {
	Config *Config
	Store  *jsonkv.Store
	Hub    *notify.Hub
	Log    *slog.Logger
}

type Server struct {
	spec *Spec
	log  *slog.Logger
}

func New(spec *Spec) *Server {
	log := spec.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{spec: spec, log: log}
}

// Run listens on the configured address and serves sessions until ctx
// is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.spec.Config.Addr)
	if err != nil {
		return err
	}
	s.log.Info("listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		sess := newSession(s.spec.Store, s.spec.Hub, s.log.With("remote", conn.RemoteAddr().String()))
		go sess.run(ctx, conn)
	}
}
