package jsonkv

import (
	"fmt"
	"math"

	"github.com/signadot/jsonkv/ir"
)

type numOp int

const (
	numIncr numOp = iota
	numMult
	numPow
)

// NumIncrBy adds a number to every numeric location path resolves to,
// returning the resulting numbers serialized as JSON: the bare number
// for a single match, an array (null per unchanged location) for many,
// empty when nothing changed.
func (s *Store) NumIncrBy(key, path, value string) (string, error) {
	return s.numCommand(key, path, value, numIncr, CmdNumIncrBy)
}

// NumMultBy multiplies every numeric location path resolves to.
func (s *Store) NumMultBy(key, path, value string) (string, error) {
	return s.numCommand(key, path, value, numMult, CmdNumMultBy)
}

// NumPowBy raises every numeric location path resolves to to a power.
func (s *Store) NumPowBy(key, path, value string) (string, error) {
	return s.numCommand(key, path, value, numPow, CmdNumPowBy)
}

func (s *Store) numCommand(key, path, value string, op numOp, cmd Command) (string, error) {
	p, err := parsePath(path)
	if err != nil {
		return "", err
	}
	arg, err := parseValue(value)
	if err != nil {
		return "", err
	}
	if arg.Type != ir.NumberType {
		return "", fmt.Errorf("%w: operand must be a number", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs[key]
	if doc == nil {
		return "", nil
	}
	nodes := p.Eval(doc)
	outs := make([]Outcome, len(nodes))
	for i, node := range nodes {
		if node.Type != ir.NumberType {
			outs[i] = unchanged(ReasonTypeMismatch)
			continue
		}
		applyNum(node, arg, op)
		outs[i] = changed()
	}
	res := aggregate(outs)
	s.disp.Dispatch(res, cmd, key)
	if res.Kind == NoMatch {
		return "", nil
	}
	if len(nodes) == 1 {
		return nodes[0].NumberString(), nil
	}
	buf := []byte{'['}
	for i, node := range nodes {
		if i > 0 {
			buf = append(buf, ',')
		}
		if outs[i].Changed {
			buf = append(buf, node.NumberString()...)
		} else {
			buf = append(buf, "null"...)
		}
	}
	return string(append(buf, ']')), nil
}

// applyNum mutates the target in place. Integer arithmetic stays exact
// while both operands are integers and the result fits in int64; on
// overflow, or for a negative exponent, the result widens to float.
func applyNum(node, arg *ir.Node, op numOp) {
	if node.Int64 != nil && arg.Int64 != nil {
		a, b := *node.Int64, *arg.Int64
		switch op {
		case numIncr:
			if r, ok := addInt64(a, b); ok {
				setInt(node, r)
				return
			}
		case numMult:
			if r, ok := mulInt64(a, b); ok {
				setInt(node, r)
				return
			}
		case numPow:
			if b >= 0 {
				if r, ok := powInt64(a, b); ok {
					setInt(node, r)
					return
				}
			}
		}
	}
	a, b := node.Float(), arg.Float()
	switch op {
	case numIncr:
		setFloat(node, a+b)
	case numMult:
		setFloat(node, a*b)
	case numPow:
		setFloat(node, math.Pow(a, b))
	}
}

func addInt64(a, b int64) (int64, bool) {
	r := a + b
	if (r > a) != (b > 0) && b != 0 {
		return 0, false
	}
	return r, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, false
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}

// powInt64 is exponentiation by squaring, so large exponents cost
// log(b) multiplications. It reports false as soon as an intermediate
// product leaves the int64 range.
func powInt64(a, b int64) (int64, bool) {
	r := int64(1)
	for b > 0 {
		if b&1 == 1 {
			var ok bool
			if r, ok = mulInt64(r, a); !ok {
				return 0, false
			}
		}
		b >>= 1
		if b == 0 {
			break
		}
		var ok bool
		if a, ok = mulInt64(a, a); !ok {
			return 0, false
		}
	}
	return r, true
}

func setInt(node *ir.Node, v int64) {
	node.Int64 = &v
	node.Float64 = nil
	node.Number = ""
}

func setFloat(node *ir.Node, v float64) {
	node.Int64 = nil
	node.Float64 = &v
	node.Number = ""
}
