package jsonkv

// Del removes every location path resolves to and returns the number
// removed. Deleting the root deletes the key. A missing key or
// non-resolving path removes nothing.
func (s *Store) Del(key, path string) (int64, error) {
	p, err := parsePath(path)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.docs[key]
	if !exists {
		return 0, nil
	}
	if p.IsRoot() {
		delete(s.docs, key)
		s.disp.Dispatch(Result{Kind: Applied, Count: 1}, CmdDel, key)
		return 1, nil
	}

	nodes := p.Eval(doc)
	outs := make([]Outcome, 0, len(nodes))
	// Reverse document order, so removing one location cannot shift the
	// parent indices of locations still to be removed.
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Detach() {
			outs = append(outs, changed())
		} else {
			outs = append(outs, unchanged(ReasonPathNotFound))
		}
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, CmdDel, key)
	return int64(res.Count), nil
}

// Forget is the legacy alias of Del; it publishes the same event.
func (s *Store) Forget(key, path string) (int64, error) {
	return s.Del(key, path)
}
