package jsonkv

import "github.com/signadot/jsonkv/ir"

// Toggle flips every boolean path resolves to, returning the new value
// per matched location (nil for non-booleans).
func (s *Store) Toggle(key, path string) ([]*bool, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs[key]
	if doc == nil {
		return nil, nil
	}
	nodes := p.Eval(doc)
	vals := make([]*bool, len(nodes))
	outs := make([]Outcome, len(nodes))
	for i, node := range nodes {
		if node.Type != ir.BoolType {
			outs[i] = unchanged(ReasonTypeMismatch)
			continue
		}
		node.Bool = !node.Bool
		v := node.Bool
		vals[i] = &v
		outs[i] = changed()
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, CmdToggle, key)
	if len(nodes) == 0 {
		return nil, nil
	}
	return vals, nil
}
