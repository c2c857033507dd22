package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"

	"go.lsp.dev/jsonrpc2"

	"github.com/signadot/jsonkv"
	"github.com/signadot/jsonkv/notify"
)

type session struct {
	store *jsonkv.Store
	hub   *notify.Hub
	log   *slog.Logger
	conn  jsonrpc2.Conn
}

func newSession(store *jsonkv.Store, hub *notify.Hub, log *slog.Logger) *session {
	return &session{store: store, hub: hub, log: log}
}

func (s *session) run(ctx context.Context, nc net.Conn) {
	s.log.Debug("session open")
	stream := jsonrpc2.NewStream(nc)
	s.conn = jsonrpc2.NewConn(stream)
	s.conn.Go(ctx, s.handle)
	select {
	case <-ctx.Done():
		s.conn.Close()
		<-s.conn.Done()
	case <-s.conn.Done():
	}
	s.log.Debug("session closed")
}

func (s *session) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := s.dispatch(ctx, req)
	if err != nil {
		if errors.Is(err, jsonkv.ErrInvalidArgument) || errors.Is(err, jsonkv.ErrRootRequired) {
			err = jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
		}
		s.log.Debug("request failed", "method", req.Method(), "error", err)
	}
	return reply(ctx, result, err)
}

func (s *session) dispatch(ctx context.Context, req jsonrpc2.Request) (any, error) {
	switch req.Method() {
	case MethodSet:
		var p SetParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		var opts []jsonkv.SetOpt
		if p.NX {
			opts = append(opts, jsonkv.SetNX())
		}
		if p.XX {
			opts = append(opts, jsonkv.SetXX())
		}
		ok, err := s.store.Set(p.Key, p.Path, p.Value, opts...)
		if err != nil {
			return nil, err
		}
		return &SetResult{OK: ok}, nil
	case MethodGet:
		var p GetParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		var opts []jsonkv.GetOpt
		if p.Format == "yaml" {
			opts = append(opts, jsonkv.WithFormat(jsonkv.FormatYAML))
		}
		data, err := s.store.Get(p.Key, p.Paths, opts...)
		if err != nil {
			return nil, err
		}
		return &GetResult{Value: rawValue(data, p.Format == "yaml")}, nil
	case MethodMGet:
		var p MGetParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		vals, err := s.store.MGet(p.Keys, p.Path)
		if err != nil {
			return nil, err
		}
		res := &MGetResult{Values: make([]json.RawMessage, len(vals))}
		for i, v := range vals {
			res.Values[i] = rawValue(v, false)
		}
		return res, nil
	case MethodDel, MethodForget:
		var p KeyPathParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		n, err := s.store.Del(p.Key, p.Path)
		if err != nil {
			return nil, err
		}
		return &CountResult{Count: n}, nil
	case MethodMerge:
		var p ValueParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		changed, err := s.store.Merge(p.Key, p.Path, p.Value)
		if err != nil {
			return nil, err
		}
		return &MergeResult{Changed: changed}, nil
	case MethodClear:
		var p KeyPathParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		n, err := s.store.Clear(p.Key, p.Path)
		if err != nil {
			return nil, err
		}
		return &CountResult{Count: n}, nil
	case MethodToggle:
		var p KeyPathParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		vals, err := s.store.Toggle(p.Key, p.Path)
		if err != nil {
			return nil, err
		}
		return &ToggleResult{Values: vals}, nil
	case MethodType:
		var p KeyPathParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		types, err := s.store.Type(p.Key, p.Path)
		if err != nil {
			return nil, err
		}
		return &TypeResult{Types: types}, nil
	case MethodStrAppend:
		var p ValueParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		lens, err := s.store.StrAppend(p.Key, p.Path, p.Value)
		if err != nil {
			return nil, err
		}
		return &LensResult{Lens: lens}, nil
	case MethodStrLen:
		return s.lens(req, s.store.StrLen)
	case MethodArrLen:
		return s.lens(req, s.store.ArrLen)
	case MethodObjLen:
		return s.lens(req, s.store.ObjLen)
	case MethodArrAppend:
		var p ArrValuesParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		lens, err := s.store.ArrAppend(p.Key, p.Path, p.Values...)
		if err != nil {
			return nil, err
		}
		return &LensResult{Lens: lens}, nil
	case MethodArrInsert:
		var p ArrInsertParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		lens, err := s.store.ArrInsert(p.Key, p.Path, p.Index, p.Values...)
		if err != nil {
			return nil, err
		}
		return &LensResult{Lens: lens}, nil
	case MethodArrPop:
		var p ArrPopParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		index := int64(-1)
		if p.Index != nil {
			index = *p.Index
		}
		popped, err := s.store.ArrPop(p.Key, p.Path, index)
		if err != nil {
			return nil, err
		}
		res := &ArrPopResult{Popped: make([]json.RawMessage, len(popped))}
		for i, v := range popped {
			res.Popped[i] = rawValue(v, false)
		}
		return res, nil
	case MethodArrTrim:
		var p ArrTrimParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		lens, err := s.store.ArrTrim(p.Key, p.Path, p.Start, p.Stop)
		if err != nil {
			return nil, err
		}
		return &LensResult{Lens: lens}, nil
	case MethodArrIndex:
		var p ArrIndexParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		idxs, err := s.store.ArrIndex(p.Key, p.Path, p.Value, p.Start, p.Stop)
		if err != nil {
			return nil, err
		}
		return &LensResult{Lens: idxs}, nil
	case MethodObjKeys:
		var p KeyPathParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		keys, err := s.store.ObjKeys(p.Key, p.Path)
		if err != nil {
			return nil, err
		}
		return &ObjKeysResult{Keys: keys}, nil
	case MethodNumIncrBy:
		return s.num(req, s.store.NumIncrBy)
	case MethodNumMultBy:
		return s.num(req, s.store.NumMultBy)
	case MethodNumPowBy:
		return s.num(req, s.store.NumPowBy)
	case MethodPSubscribe:
		var p PSubscribeParams
		if err := unmarshalParams(req, &p); err != nil {
			return nil, err
		}
		return s.subscribe(ctx, p.Patterns)
	}
	return nil, jsonrpc2.ErrMethodNotFound
}

func (s *session) lens(req jsonrpc2.Request, f func(key, path string) ([]*int64, error)) (any, error) {
	var p KeyPathParams
	if err := unmarshalParams(req, &p); err != nil {
		return nil, err
	}
	lens, err := f(p.Key, p.Path)
	if err != nil {
		return nil, err
	}
	return &LensResult{Lens: lens}, nil
}

func (s *session) num(req jsonrpc2.Request, f func(key, path, value string) (string, error)) (any, error) {
	var p ValueParams
	if err := unmarshalParams(req, &p); err != nil {
		return nil, err
	}
	v, err := f(p.Key, p.Path, p.Value)
	if err != nil {
		return nil, err
	}
	return &NumResult{Value: v}, nil
}

// subscribe registers the patterns on the hub and forwards matching
// publications to the client as pmessage notifications until the
// connection goes away.
func (s *session) subscribe(ctx context.Context, patterns []string) (any, error) {
	if len(patterns) == 0 {
		return nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, "at least one pattern required")
	}
	sub := s.hub.PSubscribe(patterns...)
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.conn.Done():
				return
			case msg, ok := <-sub.C():
				if !ok {
					return
				}
				err := s.conn.Notify(ctx, NotifyPMessage, &PMessage{
					Pattern: msg.Pattern,
					Channel: msg.Channel,
					Payload: msg.Payload,
				})
				if err != nil {
					s.log.Debug("notify failed", "error", err)
					return
				}
			}
		}
	}()
	return &PSubscribeResult{SubscriberID: sub.ID()}, nil
}

func unmarshalParams(req jsonrpc2.Request, v any) error {
	if err := json.Unmarshal(req.Params(), v); err != nil {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
	}
	return nil
}

// rawValue wraps command output as a JSON value: null when absent,
// JSON-string-encoded when the output is YAML text.
func rawValue(data []byte, asString bool) json.RawMessage {
	if data == nil {
		return json.RawMessage("null")
	}
	if asString {
		enc, _ := json.Marshal(string(data))
		return enc
	}
	return json.RawMessage(data)
}
