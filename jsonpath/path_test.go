package jsonpath

import (
	"strings"
	"testing"

	"github.com/signadot/jsonkv/ir"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		legacy bool
	}{
		{"$", "$", false},
		{"$.foo", "$.foo", false},
		{"$.foo.bar", "$.foo.bar", false},
		{"$[0]", "$[0]", false},
		{"$[-1]", "$[-1]", false},
		{"$[*]", "$[*]", false},
		{"$.*", "$[*]", false},
		{"$..foo", "$..foo", false},
		{"$.'weird.field'", "$.'weird.field'", false},
		{"", "$", true},
		{".", "$", true},
		{".foo", "$.foo", true},
		{"foo.bar", "$.foo.bar", true},
		{"[0]", "$[0]", true},
		{"[*]", "$[*]", true},
		{"[-1]", "$[-1]", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if p.Legacy != tt.legacy {
				t.Errorf("Legacy = %v, want %v", p.Legacy, tt.legacy)
			}
			if got := p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"$.",
		"$[",
		"$[x]",
		"$['foo']",
		"$foo",
		"$.'unterminated",
		"$[?(@.a",
	}
	for _, in := range tests {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func mustDoc(t *testing.T, s string) *ir.Node {
	t.Helper()
	doc, err := ir.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return doc
}

func evalStrings(t *testing.T, doc *ir.Node, path string) []string {
	t.Helper()
	p, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse(%q): %v", path, err)
	}
	nodes := p.Eval(doc)
	res := make([]string, len(nodes))
	for i, n := range nodes {
		res[i] = string(ir.MarshalJSON(n))
	}
	return res
}

func TestEval(t *testing.T) {
	doc := mustDoc(t, `{
		"a": {"x": 1, "y": 2},
		"b": [10, 20, 30],
		"x": "top"
	}`)
	tests := []struct {
		path string
		want []string
	}{
		{"$", []string{`{"a":{"x":1,"y":2},"b":[10,20,30],"x":"top"}`}},
		{"$.a.x", []string{"1"}},
		{"$.a.*", []string{"1", "2"}},
		{"$.b[0]", []string{"10"}},
		{"$.b[-1]", []string{"30"}},
		{"$.b[*]", []string{"10", "20", "30"}},
		{"$..x", []string{"top", "1"}},
		{"$.missing", nil},
		{"$.b[9]", nil},
		{"$.x[0]", nil},
		{"$.b.field", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := evalStrings(t, doc, tt.path)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalSubtreeOrder(t *testing.T) {
	// Descendant-or-self matches arrive in document order, parents first.
	doc := mustDoc(t, `{"n": {"n": {"n": 1}}}`)
	got := evalStrings(t, doc, "$..n")
	want := []string{`{"n":{"n":1}}`, `{"n":1}`, `1`}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvalLegacySingleLocation(t *testing.T) {
	doc := mustDoc(t, `{"a": [1, 2, 3]}`)
	p, err := Parse(".a[*]")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Eval(doc); len(got) != 1 {
		t.Errorf("legacy eval returned %d nodes, want 1", len(got))
	}
}

func TestEvalLegacyBracketRoot(t *testing.T) {
	doc := mustDoc(t, `[10, 20, 30]`)
	if got := evalStrings(t, doc, "[1]"); strings.Join(got, "|") != "20" {
		t.Errorf("got %v, want [20]", got)
	}
}

func TestEvalFilter(t *testing.T) {
	doc := mustDoc(t, `{"items": [
		{"name": "a", "qty": 1},
		{"name": "b", "qty": 5},
		{"name": "c", "qty": 9}
	]}`)
	tests := []struct {
		path string
		want []string
	}{
		{`$.items[?(qty > 3)].name`, []string{`"b"`, `"c"`}},
		{`$.items[?(name == "a")].qty`, []string{"1"}},
		{`$.items[?(qty > 100)]`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := evalStrings(t, doc, tt.path)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalReturnsMutableLocations(t *testing.T) {
	doc := mustDoc(t, `{"a": {"b": 1}}`)
	p, err := Parse("$.a.b")
	if err != nil {
		t.Fatal(err)
	}
	nodes := p.Eval(doc)
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes", len(nodes))
	}
	nodes[0].ReplaceWith(ir.FromString("replaced"))
	if got := string(ir.MarshalJSON(doc)); got != `{"a":{"b":"replaced"}}` {
		t.Errorf("mutation did not reach the document: %s", got)
	}
}

func TestEvalForSet(t *testing.T) {
	t.Run("existing match overwrites", func(t *testing.T) {
		doc := mustDoc(t, `{"a": 1}`)
		p, _ := Parse("$.a")
		ups := p.EvalForSet(doc)
		if len(ups) != 1 || ups[0].Node == nil {
			t.Fatalf("want one overwrite target, got %+v", ups)
		}
	})
	t.Run("new field under object parent", func(t *testing.T) {
		doc := mustDoc(t, `{"a": {"b": 1}}`)
		p, _ := Parse("$.a.c")
		ups := p.EvalForSet(doc)
		if len(ups) != 1 || ups[0].Parent == nil || ups[0].Key != "c" {
			t.Fatalf("want one add target, got %+v", ups)
		}
	})
	t.Run("scalar parent resolves nothing", func(t *testing.T) {
		doc := mustDoc(t, `{"foo": "bar"}`)
		p, _ := Parse("$.foo.a")
		if ups := p.EvalForSet(doc); len(ups) != 0 {
			t.Fatalf("want no targets, got %+v", ups)
		}
	})
	t.Run("index tail is never an add target", func(t *testing.T) {
		doc := mustDoc(t, `{"a": {}}`)
		p, _ := Parse("$.a[0]")
		if ups := p.EvalForSet(doc); len(ups) != 0 {
			t.Fatalf("want no targets, got %+v", ups)
		}
	})
}
