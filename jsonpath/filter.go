package jsonpath

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/jsonkv/ir"
)

// Filter is a compiled [?(...)] segment. The expression is evaluated per
// candidate element: object members are bound as identifiers, and the whole
// element is bound as "value". A result that isn't boolean true rejects the
// element.
type Filter struct {
	Src  string
	prog *vm.Program
}

func compileFilter(src string) (*Filter, error) {
	prog, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return &Filter{Src: src, prog: prog}, nil
}

func (f *Filter) Match(node *ir.Node) bool {
	env := map[string]any{"value": ir.ToAny(node)}
	if node.Type == ir.ObjectType {
		for i, field := range node.Fields {
			env[field] = ir.ToAny(node.Values[i])
		}
	}
	res, err := expr.Run(f.prog, env)
	if err != nil {
		return false
	}
	b, ok := res.(bool)
	return ok && b
}
