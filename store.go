package jsonkv

import (
	"fmt"
	"sync"

	"github.com/signadot/jsonkv/ir"
	"github.com/signadot/jsonkv/jsonpath"
)

// Store is the keyspace: one JSON document per key. Commands against a
// single key are serialized by the store's lock; the command logic itself
// does no locking and assumes one in-flight mutation per document.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*ir.Node
	disp *Dispatcher
}

type StoreConfig struct {
	Bus Bus
}

type StoreOpt func(*StoreConfig)

// WithBus attaches the event bus change notifications are published to.
// Without a bus, commands run normally and emit nothing.
func WithBus(bus Bus) StoreOpt {
	return func(c *StoreConfig) { c.Bus = bus }
}

func NewStore(opts ...StoreOpt) *Store {
	cfg := &StoreConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Store{
		docs: make(map[string]*ir.Node),
		disp: NewDispatcher(cfg.Bus),
	}
}

// Keys returns the number of stored keys.
func (s *Store) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Exists reports whether key holds a document.
func (s *Store) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[key] != nil
}

func parsePath(path string) (*jsonpath.Path, error) {
	p, err := jsonpath.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return p, nil
}

func parseValue(value string) (*ir.Node, error) {
	v, err := ir.Parse([]byte(value))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return v, nil
}

func i64ptr(v int64) *int64 {
	return &v
}
