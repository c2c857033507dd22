package jsonkv

import (
	"github.com/signadot/jsonkv/ir"
)

// Format selects the serialization of read results.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

type getConfig struct {
	format Format
}

type GetOpt func(*getConfig)

// WithFormat selects JSON (the default) or YAML output.
func WithFormat(f Format) GetOpt {
	return func(c *getConfig) { c.format = f }
}

// Get reads key. With no paths it returns the whole document. With one
// path the result is shaped by match count: nil for none, the value for
// one, an array of values for several. With several paths the result is
// an object keyed by path whose values are arrays of matches.
func (s *Store) Get(key string, paths []string, opts ...GetOpt) ([]byte, error) {
	cfg := &getConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.docs[key]
	if doc == nil {
		return nil, nil
	}
	node, err := s.getNode(doc, paths)
	if err != nil || node == nil {
		return nil, err
	}
	if cfg.format == FormatYAML {
		return ir.MarshalYAML(node)
	}
	return ir.MarshalJSON(node), nil
}

func (s *Store) getNode(doc *ir.Node, paths []string) (*ir.Node, error) {
	switch len(paths) {
	case 0:
		return doc, nil
	case 1:
		p, err := parsePath(paths[0])
		if err != nil {
			return nil, err
		}
		return shapeMatches(p.Eval(doc)), nil
	}
	kvs := make([]ir.KeyVal, 0, len(paths))
	for _, raw := range paths {
		p, err := parsePath(raw)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: raw, Val: cloneList(p.Eval(doc))})
	}
	return ir.FromKeyVals(kvs), nil
}

func shapeMatches(nodes []*ir.Node) *ir.Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0].Clone()
	}
	return cloneList(nodes)
}

func cloneList(nodes []*ir.Node) *ir.Node {
	return ir.FromSlice(cloneAll(nodes))
}

// MGet reads one path from several keys, returning one shaped JSON
// result per key, nil for keys that are missing or do not match.
func (s *Store) MGet(keys []string, path string) ([][]byte, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([][]byte, len(keys))
	for i, key := range keys {
		doc := s.docs[key]
		if doc == nil {
			continue
		}
		if node := shapeMatches(p.Eval(doc)); node != nil {
			res[i] = ir.MarshalJSON(node)
		}
	}
	return res, nil
}
