package ir

// In-place mutation helpers. Every mutation keeps Parent/ParentIndex/
// ParentField links consistent so resolved locations stay valid within a
// single command.

func (y *Node) reindex(from int) {
	for i := from; i < len(y.Values); i++ {
		y.Values[i].ParentIndex = i
		if y.Type == ObjectType {
			y.Values[i].ParentField = y.Fields[i]
		}
	}
}

// SetField sets or adds an object member. Added members go last, preserving
// insertion order.
func (y *Node) SetField(field string, v *Node) {
	v.Parent = y
	v.ParentField = field
	if i := y.FieldIndex(field); i >= 0 {
		v.ParentIndex = i
		y.Values[i] = v
		return
	}
	v.ParentIndex = len(y.Values)
	y.Fields = append(y.Fields, field)
	y.Values = append(y.Values, v)
}

// RemoveField removes an object member, reporting whether it was present.
func (y *Node) RemoveField(field string) bool {
	i := y.FieldIndex(field)
	if i < 0 {
		return false
	}
	y.Fields = append(y.Fields[:i], y.Fields[i+1:]...)
	y.Values = append(y.Values[:i], y.Values[i+1:]...)
	y.reindex(i)
	return true
}

func (y *Node) SetIndex(i int, v *Node) {
	v.Parent = y
	v.ParentIndex = i
	if y.Type == ObjectType {
		v.ParentField = y.Fields[i]
	}
	y.Values[i] = v
}

func (y *Node) RemoveIndex(i int) {
	if y.Type == ObjectType {
		y.Fields = append(y.Fields[:i], y.Fields[i+1:]...)
	}
	y.Values = append(y.Values[:i], y.Values[i+1:]...)
	y.reindex(i)
}

// InsertAt inserts vals before index i of an array node. i must be in
// [0, len].
func (y *Node) InsertAt(i int, vals []*Node) {
	y.Values = append(y.Values[:i], append(vals, y.Values[i:]...)...)
	for j := i; j < len(y.Values); j++ {
		y.Values[j].Parent = y
		y.Values[j].ParentIndex = j
		y.Values[j].ParentField = ""
	}
}

func (y *Node) Append(vals ...*Node) {
	y.InsertAt(len(y.Values), vals)
}

// Slice restricts an array node to the half-open element range [start, stop].
func (y *Node) Slice(start, stop int) {
	y.Values = y.Values[start:stop]
	y.reindex(0)
}

// Detach removes the node from its parent container, reporting whether it
// was attached. Root nodes cannot be detached.
func (y *Node) Detach() bool {
	p := y.Parent
	if p == nil {
		return false
	}
	if y.ParentIndex >= len(p.Values) || p.Values[y.ParentIndex] != y {
		return false
	}
	p.RemoveIndex(y.ParentIndex)
	y.Parent = nil
	return true
}

// ReplaceWith overwrites the node's value with v, in place, keeping the
// node's identity within its parent. v must not be reused afterwards.
func (y *Node) ReplaceWith(v *Node) {
	parent, idx, field := y.Parent, y.ParentIndex, y.ParentField
	y.Type = v.Type
	y.Str = v.Str
	y.Bool = v.Bool
	y.Number = v.Number
	y.Int64 = v.Int64
	y.Float64 = v.Float64
	y.Fields = v.Fields
	y.Values = v.Values
	for _, child := range y.Values {
		child.Parent = y
	}
	y.Parent, y.ParentIndex, y.ParentField = parent, idx, field
}

// ClearValue empties containers and zeroes numbers, reporting whether the
// node was eligible.
func (y *Node) ClearValue() bool {
	switch y.Type {
	case ObjectType:
		y.Fields = nil
		y.Values = nil
		return true
	case ArrayType:
		y.Values = nil
		return true
	case NumberType:
		zero := int64(0)
		y.Int64 = &zero
		y.Float64 = nil
		y.Number = ""
		return true
	default:
		return false
	}
}
