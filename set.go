package jsonkv

type setConfig struct {
	nx bool
	xx bool
}

type SetOpt func(*setConfig)

// SetNX applies the set only when the path does not already resolve.
func SetNX() SetOpt {
	return func(c *setConfig) { c.nx = true }
}

// SetXX applies the set only to already-existing locations.
func SetXX() SetOpt {
	return func(c *setConfig) { c.xx = true }
}

// Set stores value at every location path resolves to, adding a new object
// member when the path's tail is a missing field under a resolving parent.
// It returns false when nothing was set (NoMatch, or NX/XX suppression).
func (s *Store) Set(key, path, value string, opts ...SetOpt) (bool, error) {
	cfg := &setConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	p, err := parsePath(path)
	if err != nil {
		return false, err
	}
	val, err := parseValue(value)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.docs[key]
	if !exists {
		if cfg.xx {
			return false, nil
		}
		if !p.IsRoot() {
			return false, ErrRootRequired
		}
		s.docs[key] = val
		s.disp.Dispatch(Result{Kind: Applied, Count: 1}, CmdSet, key)
		return true, nil
	}

	if p.IsRoot() {
		if cfg.nx {
			return false, nil
		}
		s.docs[key] = val
		s.disp.Dispatch(Result{Kind: Applied, Count: 1}, CmdSet, key)
		return true, nil
	}

	existing := p.Eval(doc)
	if cfg.nx && len(existing) > 0 {
		return false, nil
	}
	var outs []Outcome
	if cfg.xx {
		if len(existing) == 0 {
			return false, nil
		}
		for _, node := range existing {
			node.ReplaceWith(val.Clone())
			outs = append(outs, changed())
		}
	} else {
		updates := p.EvalForSet(doc)
		if len(updates) == 0 {
			return false, nil
		}
		for _, u := range updates {
			if u.Node != nil {
				u.Node.ReplaceWith(val.Clone())
			} else {
				u.Parent.SetField(u.Key, val.Clone())
			}
			outs = append(outs, changed())
		}
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, CmdSet, key)
	return res.Kind == Applied, nil
}
