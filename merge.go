package jsonkv

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/jsonkv/ir"
)

// Merge applies an RFC 7386 merge patch to every location path resolves
// to. On a missing key the path must be the root and the patch value
// becomes the document. It returns false when nothing changed; a patch
// that leaves a location identical does not count as a change.
func (s *Store) Merge(key, path, value string) (bool, error) {
	p, err := parsePath(path)
	if err != nil {
		return false, err
	}
	patchVal, err := parseValue(value)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.docs[key]
	if !exists {
		if !p.IsRoot() {
			return false, ErrRootRequired
		}
		s.docs[key] = patchVal
		s.disp.Dispatch(Result{Kind: Applied, Count: 1}, CmdMerge, key)
		return true, nil
	}

	nodes := p.Eval(doc)
	outs := make([]Outcome, len(nodes))
	for i, node := range nodes {
		merged, err := jsonpatch.MergePatch(ir.MarshalJSON(node), []byte(value))
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		next, err := ir.Parse(merged)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		if ir.Equal(node, next) {
			outs[i] = unchanged(ReasonNoOpValue)
			continue
		}
		node.ReplaceWith(next)
		outs[i] = changed()
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, CmdMerge, key)
	return res.Kind == Applied, nil
}
