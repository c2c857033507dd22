package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a path expression. Exactly one of Field/Index/
// Wildcard/Subtree/Filter is meaningful.
type Segment struct {
	Field    *string
	Index    *int
	Wildcard bool
	Subtree  bool
	Filter   *Filter
}

// Path is a parsed path expression. Legacy paths (anything not starting
// with '$') address in single-location mode: commands use the first match
// only.
type Path struct {
	Legacy bool
	Segs   []Segment

	raw string
}

// IsRoot reports whether the path addresses the whole document.
func (p *Path) IsRoot() bool {
	return len(p.Segs) == 0
}

func (p *Path) String() string {
	buf := strings.Builder{}
	buf.WriteByte('$')
	for i := range p.Segs {
		s := &p.Segs[i]
		switch {
		case s.Subtree:
			buf.WriteString("..")
		case s.Wildcard:
			buf.WriteString("[*]")
		case s.Field != nil:
			buf.WriteString("." + quoteField(*s.Field))
		case s.Index != nil:
			fmt.Fprintf(&buf, "[%d]", *s.Index)
		case s.Filter != nil:
			fmt.Fprintf(&buf, "[?(%s)]", s.Filter.Src)
		}
	}
	return buf.String()
}

func quoteField(f string) string {
	if strings.IndexAny(f, "'.*$[]") == -1 && f != "" {
		return f
	}
	return "'" + strings.Replace(f, "'", "\\'", -1) + "'"
}

// Parse parses a path expression. Expressions not starting with '$' are
// normalized from the legacy form: "" and "." address the root, ".foo" and
// "foo" become "$.foo", "[0]" becomes "$[0]".
func Parse(p string) (*Path, error) {
	raw := p
	legacy := false
	if len(p) == 0 || p[0] != '$' {
		legacy = true
		switch {
		case p == "" || p == ".":
			p = "$"
		case p[0] == '.', p[0] == '[':
			p = "$" + p
		default:
			p = "$." + p
		}
	}
	res := &Path{Legacy: legacy, raw: raw}
	if err := res.parseFrag(p[1:]); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, raw, err)
	}
	return res, nil
}

func (p *Path) parseFrag(frag string) error {
	if len(frag) == 0 {
		return nil
	}
	switch frag[0] {
	case '.':
		if len(frag) > 1 && frag[1] == '.' {
			p.Segs = append(p.Segs, Segment{Subtree: true})
			return p.parseFrag(frag[2:])
		}
		field, rest, err := parseField(frag[1:])
		if err != nil {
			return err
		}
		if field == "*" {
			p.Segs = append(p.Segs, Segment{Wildcard: true})
		} else {
			p.Segs = append(p.Segs, Segment{Field: &field})
		}
		return p.parseFrag(rest)
	case '[':
		if strings.HasPrefix(frag, "[?(") {
			src, rest, err := scanFilter(frag[3:])
			if err != nil {
				return err
			}
			filter, err := compileFilter(src)
			if err != nil {
				return err
			}
			p.Segs = append(p.Segs, Segment{Filter: filter})
			return p.parseFrag(rest)
		}
		i := strings.IndexByte(frag[1:], ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		index, all, err := parseIndex(frag[1 : i+1])
		if err != nil {
			return err
		}
		seg := Segment{Wildcard: all}
		if !all {
			seg.Index = &index
		}
		p.Segs = append(p.Segs, seg)
		return p.parseFrag(frag[i+2:])
	default:
		return fmt.Errorf("expected '.' or '['")
	}
}

func parseIndex(is string) (index int, all bool, err error) {
	if len(is) == 1 && is[0] == '*' {
		return 0, true, nil
	}
	if strings.HasPrefix(is, "'") || strings.HasPrefix(is, "\"") {
		return 0, false, fmt.Errorf("bracket field selectors are not supported, use .%s", is)
	}
	i64, err := strconv.ParseInt(is, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return int(i64), false, nil
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch c {
		case '\\':
			escaped = true
		case '\'':
			if !escaped {
				return string(res), frag[i+1:], nil
			}
			fallthrough
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// scanFilter consumes a filter body up to its closing ")]", honoring nested
// parens and string literals.
func scanFilter(frag string) (src, rest string, err error) {
	depth := 1
	var quote byte
	for i := 0; i < len(frag); i++ {
		c := frag[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				if i+1 >= len(frag) || frag[i+1] != ']' {
					return "", "", fmt.Errorf("expected ']' after filter")
				}
				return frag[:i], frag[i+2:], nil
			}
		}
	}
	return "", "", fmt.Errorf("unterminated filter expression")
}
