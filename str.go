package jsonkv

import (
	"fmt"

	"github.com/signadot/jsonkv/ir"
)

// StrAppend appends a JSON string to every string path resolves to,
// returning the new length per matched location (nil entries for
// locations that are not strings). value must itself be a JSON string.
func (s *Store) StrAppend(key, path, value string) ([]*int64, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	val, err := parseValue(value)
	if err != nil {
		return nil, err
	}
	if val.Type != ir.StringType {
		return nil, fmt.Errorf("%w: strappend value must be a string", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs[key]
	if doc == nil {
		return nil, nil
	}
	nodes := p.Eval(doc)
	lens := make([]*int64, len(nodes))
	outs := make([]Outcome, len(nodes))
	for i, node := range nodes {
		if node.Type != ir.StringType {
			outs[i] = unchanged(ReasonTypeMismatch)
			continue
		}
		node.Str += val.Str
		lens[i] = i64ptr(int64(len(node.Str)))
		outs[i] = changed()
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, CmdStrAppend, key)
	if res.Kind == NoMatch && len(nodes) == 0 {
		return nil, nil
	}
	return lens, nil
}
