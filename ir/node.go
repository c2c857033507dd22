package ir

import "strconv"

// Node is one JSON value. Object members keep insertion order: Fields[i] names
// Values[i]. Array elements live in Values with Fields nil. Parent links
// identify the node's own position, so a resolved node doubles as a mutable
// location within its document.
type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []string
	Values      []*Node

	Str     string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.Str = y.Str
	dst.Bool = y.Bool
	dst.Number = y.Number
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	if y.Fields != nil {
		dst.Fields = make([]string, len(y.Fields))
		copy(dst.Fields, y.Fields)
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, yv := range y.Values {
			dstI := &Node{}
			yv.CloneTo(dstI)
			dstI.Parent = dst
			dstI.ParentIndex = i
			dstI.ParentField = yv.ParentField
			dst.Values[i] = dstI
		}
	}
	return dst
}

func FromString(v string) *Node {
	return &Node{Type: StringType, Str: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: NumberType, Int64: &v}
}

func FromFloat(f float64) *Node {
	return &Node{Type: NumberType, Float64: &f}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func Null() *Node {
	return &Node{Type: NullType}
}

func NewObject() *Node {
	return &Node{Type: ObjectType}
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{Type: ArrayType}
	res.Values = make([]*Node, len(ySlice))
	for i, y := range ySlice {
		res.Values[i] = y
		y.Parent = res
		y.ParentIndex = i
		y.ParentField = ""
	}
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]string, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		kv.Val.Parent = res
		kv.Val.ParentIndex = i
		kv.Val.ParentField = kv.Key
		res.Fields[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

// Get returns the member value for field, or nil.
func (y *Node) Get(field string) *Node {
	for i := range y.Fields {
		if y.Fields[i] == field {
			return y.Values[i]
		}
	}
	return nil
}

func (y *Node) FieldIndex(field string) int {
	for i := range y.Fields {
		if y.Fields[i] == field {
			return i
		}
	}
	return -1
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

// Path gives the node's address from its document root, for diagnostics.
func (y *Node) Path() string {
	if y.Parent == nil {
		return "$"
	}
	switch y.Parent.Type {
	case ObjectType:
		return y.Parent.Path() + "." + y.ParentField
	case ArrayType:
		return y.Parent.Path() + "[" + strconv.Itoa(y.ParentIndex) + "]"
	default:
		panic("parent but not in container")
	}
}

// TypeName is the client-visible name of the node's type.
func (y *Node) TypeName() string {
	switch y.Type {
	case NullType:
		return "null"
	case BoolType:
		return "boolean"
	case NumberType:
		if y.Int64 != nil {
			return "integer"
		}
		return "number"
	case StringType:
		return "string"
	case ArrayType:
		return "array"
	case ObjectType:
		return "object"
	}
	return "<unknown>"
}

// Equal reports deep structural equality. Object member order is not
// significant; array order is.
func Equal(a, b *Node) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case StringType:
		return a.Str == b.Str
	case NumberType:
		return a.Float() == b.Float()
	case ArrayType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case ObjectType:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i, f := range a.Fields {
			bv := b.Get(f)
			if bv == nil || !Equal(a.Values[i], bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Float returns the numeric value of a number node, widening integers.
func (y *Node) Float() float64 {
	if y.Int64 != nil {
		return float64(*y.Int64)
	}
	if y.Float64 != nil {
		return *y.Float64
	}
	f, _ := strconv.ParseFloat(y.Number, 64)
	return f
}
