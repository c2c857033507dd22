package jsonkv

import "github.com/signadot/jsonkv/ir"

// Read-only inspection commands. None of these dispatch notifications.

// Type returns the type name of every location path resolves to.
func (s *Store) Type(key, path string) ([]string, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.docs[key]
	if doc == nil {
		return nil, nil
	}
	nodes := p.Eval(doc)
	if len(nodes) == 0 {
		return nil, nil
	}
	names := make([]string, len(nodes))
	for i, node := range nodes {
		names[i] = node.TypeName()
	}
	return names, nil
}

// StrLen returns the byte length of every string path resolves to, nil
// per non-string location.
func (s *Store) StrLen(key, path string) ([]*int64, error) {
	return s.lenCommand(key, path, func(node *ir.Node) *int64 {
		if node.Type != ir.StringType {
			return nil
		}
		return i64ptr(int64(len(node.Str)))
	})
}

// ArrLen returns the length of every array path resolves to.
func (s *Store) ArrLen(key, path string) ([]*int64, error) {
	return s.lenCommand(key, path, func(node *ir.Node) *int64 {
		if node.Type != ir.ArrayType {
			return nil
		}
		return i64ptr(int64(len(node.Values)))
	})
}

// ObjLen returns the member count of every object path resolves to.
func (s *Store) ObjLen(key, path string) ([]*int64, error) {
	return s.lenCommand(key, path, func(node *ir.Node) *int64 {
		if node.Type != ir.ObjectType {
			return nil
		}
		return i64ptr(int64(len(node.Fields)))
	})
}

func (s *Store) lenCommand(key, path string, f func(*ir.Node) *int64) ([]*int64, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.docs[key]
	if doc == nil {
		return nil, nil
	}
	nodes := p.Eval(doc)
	if len(nodes) == 0 {
		return nil, nil
	}
	lens := make([]*int64, len(nodes))
	for i, node := range nodes {
		lens[i] = f(node)
	}
	return lens, nil
}

// ObjKeys returns the member names, in insertion order, of every object
// path resolves to, nil per non-object location.
func (s *Store) ObjKeys(key, path string) ([][]string, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.docs[key]
	if doc == nil {
		return nil, nil
	}
	nodes := p.Eval(doc)
	if len(nodes) == 0 {
		return nil, nil
	}
	keys := make([][]string, len(nodes))
	for i, node := range nodes {
		if node.Type != ir.ObjectType {
			continue
		}
		fields := make([]string, len(node.Fields))
		copy(fields, node.Fields)
		keys[i] = fields
	}
	return keys, nil
}

// ArrIndex returns the index of the first element equal to value within
// [start, stop) of every array path resolves to, -1 when absent, nil
// per non-array location. stop 0 means the end of the array.
func (s *Store) ArrIndex(key, path, value string, start, stop int64) ([]*int64, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	val, err := parseValue(value)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.docs[key]
	if doc == nil {
		return nil, nil
	}
	nodes := p.Eval(doc)
	if len(nodes) == 0 {
		return nil, nil
	}
	idxs := make([]*int64, len(nodes))
	for i, node := range nodes {
		if node.Type != ir.ArrayType {
			continue
		}
		n := int64(len(node.Values))
		lo, hi := start, stop
		if lo < 0 {
			lo += n
		}
		if hi <= 0 {
			hi += n
		}
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		found := int64(-1)
		for j := lo; j < hi; j++ {
			if ir.Equal(node.Values[j], val) {
				found = j
				break
			}
		}
		idxs[i] = i64ptr(found)
	}
	return idxs, nil
}
