package jsonkv

import (
	"fmt"

	"github.com/signadot/jsonkv/ir"
)

// ArrAppend appends values to every array path resolves to, returning
// the new length per matched location (nil for non-arrays). Each value
// must be valid JSON.
func (s *Store) ArrAppend(key, path string, values ...string) ([]*int64, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	vals, err := parseValues(values)
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
	lens := make([]*int64, len(nodes))
	outs := make([]Outcome, len(nodes))
	for i, node := range nodes {
		if node.Type != ir.ArrayType {
			outs[i] = unchanged(ReasonTypeMismatch)
			continue
		}
		node.Append(cloneAll(vals)...)
		lens[i] = i64ptr(int64(len(node.Values)))
		outs[i] = changed()
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, CmdArrAppend, key)
	if len(nodes) == 0 {
		return nil, nil
	}
	return lens, nil
}

// ArrInsert inserts values before index in every array path resolves to.
// A negative index counts from the end; an index outside [-len, len]
// leaves that location unchanged.
func (s *Store) ArrInsert(key, path string, index int64, values ...string) ([]*int64, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	vals, err := parseValues(values)
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
	lens := make([]*int64, len(nodes))
	outs := make([]Outcome, len(nodes))
	for i, node := range nodes {
		if node.Type != ir.ArrayType {
			outs[i] = unchanged(ReasonTypeMismatch)
			continue
		}
		at, ok := normIndex(index, len(node.Values), true)
		if !ok {
			outs[i] = unchanged(ReasonIndexOutOfRange)
			continue
		}
		node.InsertAt(at, cloneAll(vals))
		lens[i] = i64ptr(int64(len(node.Values)))
		outs[i] = changed()
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, CmdArrInsert, key)
	if len(nodes) == 0 {
		return nil, nil
	}
	return lens, nil
}

// ArrPop removes and returns the element at index from every array path
// resolves to, serialized as JSON. Index -1 pops the last element. An
// empty array or out-of-range index leaves that location unchanged.
func (s *Store) ArrPop(key, path string, index int64) ([][]byte, error) {
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
	popped := make([][]byte, len(nodes))
	outs := make([]Outcome, len(nodes))
	for i, node := range nodes {
		if node.Type != ir.ArrayType {
			outs[i] = unchanged(ReasonTypeMismatch)
			continue
		}
		if len(node.Values) == 0 {
			outs[i] = unchanged(ReasonNoOpValue)
			continue
		}
		at, ok := normIndex(index, len(node.Values), false)
		if !ok {
			outs[i] = unchanged(ReasonIndexOutOfRange)
			continue
		}
		popped[i] = ir.MarshalJSON(node.Values[at])
		node.RemoveIndex(at)
		outs[i] = changed()
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, CmdArrPop, key)
	if len(nodes) == 0 {
		return nil, nil
	}
	return popped, nil
}

// ArrTrim restricts every array path resolves to to the inclusive
// element range [start, stop], returning the new length. Negative
// indices count from the end; an empty or inverted range empties the
// array. Trimming always counts as a change for arrays, even when the
// range already covers the whole array.
func (s *Store) ArrTrim(key, path string, start, stop int64) ([]*int64, error) {
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
	lens := make([]*int64, len(nodes))
	outs := make([]Outcome, len(nodes))
	for i, node := range nodes {
		if node.Type != ir.ArrayType {
			outs[i] = unchanged(ReasonTypeMismatch)
			continue
		}
		n := int64(len(node.Values))
		lo, hi := start, stop
		if lo < 0 {
			lo += n
		}
		if hi < 0 {
			hi += n
		}
		if lo < 0 {
			lo = 0
		}
		if hi >= n {
			hi = n - 1
		}
		if n == 0 || lo > hi || lo >= n {
			node.Slice(0, 0)
		} else {
			node.Slice(int(lo), int(hi)+1)
		}
		lens[i] = i64ptr(int64(len(node.Values)))
		outs[i] = changed()
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, CmdArrTrim, key)
	if len(nodes) == 0 {
		return nil, nil
	}
	return lens, nil
}

// normIndex resolves a possibly-negative index against length n.
// inclusiveEnd admits index == n, for insert-at-end.
func normIndex(index int64, n int, inclusiveEnd bool) (int, bool) {
	i := index
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i > int64(n) || (!inclusiveEnd && i == int64(n)) {
		return 0, false
	}
	return int(i), true
}

func parseValues(values []string) ([]*ir.Node, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: at least one value required", ErrInvalidArgument)
	}
	vals := make([]*ir.Node, len(values))
	for i, v := range values {
		val, err := parseValue(v)
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}
	return vals, nil
}

func cloneAll(vals []*ir.Node) []*ir.Node {
	res := make([]*ir.Node, len(vals))
	for i, v := range vals {
		res[i] = v.Clone()
	}
	return res
}
