package jsonpath

import "github.com/signadot/jsonkv/ir"

// Eval resolves the path against doc, returning matching nodes in document
// order: object members in insertion order, array elements by index. The
// returned nodes are the document's own (not clones), so they serve as
// mutable locations. Legacy paths return at most one node.
func (p *Path) Eval(doc *ir.Node) []*ir.Node {
	res := evalSegs(doc, p.Segs, nil)
	if p.Legacy && len(res) > 1 {
		res = res[:1]
	}
	return res
}

// First returns the first match, or nil.
func (p *Path) First(doc *ir.Node) *ir.Node {
	res := evalSegs(doc, p.Segs, nil)
	if len(res) == 0 {
		return nil
	}
	return res[0]
}

func evalSegs(y *ir.Node, segs []Segment, dst []*ir.Node) []*ir.Node {
	if len(segs) == 0 {
		return append(dst, y)
	}
	s := &segs[0]
	if s.Subtree {
		y.Visit(func(node *ir.Node, isPost bool) (bool, error) {
			if isPost {
				return false, nil
			}
			dst = evalSegs(node, segs[1:], dst)
			return true, nil
		})
		return dst
	}
	if y.Type.IsLeaf() {
		return dst
	}
	switch y.Type {
	case ir.ObjectType:
		switch {
		case s.Index != nil:
			return dst
		case s.Wildcard:
			for _, yv := range y.Values {
				dst = evalSegs(yv, segs[1:], dst)
			}
			return dst
		case s.Filter != nil:
			for _, yv := range y.Values {
				if s.Filter.Match(yv) {
					dst = evalSegs(yv, segs[1:], dst)
				}
			}
			return dst
		case s.Field != nil:
			if yv := y.Get(*s.Field); yv != nil {
				dst = evalSegs(yv, segs[1:], dst)
			}
			return dst
		}
		return dst

	case ir.ArrayType:
		switch {
		case s.Field != nil:
			return dst
		case s.Index != nil:
			idx := *s.Index
			if idx < 0 {
				idx += len(y.Values)
			}
			if 0 <= idx && idx < len(y.Values) {
				dst = evalSegs(y.Values[idx], segs[1:], dst)
			}
			return dst
		case s.Filter != nil:
			for _, yv := range y.Values {
				if s.Filter.Match(yv) {
					dst = evalSegs(yv, segs[1:], dst)
				}
			}
			return dst
		case s.Wildcard:
			for _, yv := range y.Values {
				dst = evalSegs(yv, segs[1:], dst)
			}
			return dst
		}
		return dst
	}
	return dst
}

// Update is a resolved target for a set-style mutation: either an existing
// node to overwrite, or a parent object to add a new member to.
type Update struct {
	Node   *ir.Node
	Parent *ir.Node
	Key    string
}

// EvalForSet resolves set targets. Existing matches are overwrite targets.
// When nothing matches and the path's final segment is a plain field, every
// object matched by the prefix path becomes an add target for that field.
func (p *Path) EvalForSet(doc *ir.Node) []Update {
	nodes := p.Eval(doc)
	if len(nodes) > 0 {
		res := make([]Update, len(nodes))
		for i, n := range nodes {
			res[i] = Update{Node: n}
		}
		return res
	}
	if len(p.Segs) == 0 {
		return nil
	}
	last := &p.Segs[len(p.Segs)-1]
	if last.Field == nil {
		return nil
	}
	prefix := &Path{Legacy: p.Legacy, Segs: p.Segs[:len(p.Segs)-1]}
	var res []Update
	for _, parent := range prefix.Eval(doc) {
		if parent.Type != ir.ObjectType {
			continue
		}
		res = append(res, Update{Parent: parent, Key: *last.Field})
	}
	return res
}
