package jsonkv

import "github.com/signadot/jsonkv/ir"

// Clear empties every container and zeroes every number path resolves
// to, returning the count of locations that changed. Already-empty
// containers and zero numbers are left as they are and not counted.
func (s *Store) Clear(key, path string) (int64, error) {
	p, err := parsePath(path)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs[key]
	if doc == nil {
		return 0, nil
	}
	nodes := p.Eval(doc)
	outs := make([]Outcome, len(nodes))
	for i, node := range nodes {
		switch node.Type {
		case ir.ObjectType, ir.ArrayType:
			if len(node.Values) == 0 {
				outs[i] = unchanged(ReasonNoOpValue)
				continue
			}
		case ir.NumberType:
			if node.Float() == 0 {
				outs[i] = unchanged(ReasonNoOpValue)
				continue
			}
		default:
			outs[i] = unchanged(ReasonTypeMismatch)
			continue
		}
		node.ClearValue()
		outs[i] = changed()
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, CmdClear, key)
	return int64(res.Count), nil
}
