package ir

import (
	"testing"
)

func TestParseMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"null", `null`, `null`},
		{"bool", `true`, `true`},
		{"int", `42`, `42`},
		{"negative int", `-7`, `-7`},
		{"float", `1.5`, `1.5`},
		{"string", `"hello"`, `"hello"`},
		{"escaped string", `"a\"b"`, `"a\"b"`},
		{"empty object", `{}`, `{}`},
		{"empty array", `[]`, `[]`},
		{"object order kept", `{"b":1,"a":2}`, `{"b":1,"a":2}`},
		{"nested", `{"a":[1,{"b":null}],"c":"d"}`, `{"a":[1,{"b":null}],"c":"d"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse([]byte(tt.in))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got := string(MarshalJSON(node))
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		``,
		`{`,
		`[1,`,
		`{"a"}`,
		`1 2`,
		`nope`,
	}
	for _, in := range tests {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestParseNumberFidelity(t *testing.T) {
	node, err := Parse([]byte(`3`))
	if err != nil {
		t.Fatal(err)
	}
	if node.Int64 == nil || *node.Int64 != 3 {
		t.Errorf("expected integer 3, got %+v", node)
	}
	node, err = Parse([]byte(`3.0`))
	if err != nil {
		t.Fatal(err)
	}
	if node.Int64 != nil {
		t.Errorf("3.0 should not be an integer")
	}
}

func TestParentLinks(t *testing.T) {
	doc, err := Parse([]byte(`{"a":[1,2,3],"b":{"c":true}}`))
	if err != nil {
		t.Fatal(err)
	}
	var checked int
	err = doc.Visit(func(y *Node, isPost bool) (bool, error) {
		if isPost {
			return true, nil
		}
		for i, child := range y.Values {
			checked++
			if child.Parent != y {
				t.Errorf("bad parent link at %s", child.Path())
			}
			if child.ParentIndex != i {
				t.Errorf("bad parent index at %s", child.Path())
			}
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if checked == 0 {
		t.Fatal("no children visited")
	}
}
