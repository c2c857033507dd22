package jsonkv

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type busEvent struct {
	Name, Key string
}

// recordingBus captures every publication for assertions.
type recordingBus struct {
	events []busEvent
}

func (b *recordingBus) PublishChange(event, key string) {
	b.events = append(b.events, busEvent{Name: event, Key: key})
}

func (b *recordingBus) reset() {
	b.events = nil
}

func newTestStore(t *testing.T) (*Store, *recordingBus) {
	t.Helper()
	bus := &recordingBus{}
	return NewStore(WithBus(bus)), bus
}

// seed stores a document and clears the set event it fires.
func seed(t *testing.T, s *Store, bus *recordingBus, key, doc string) {
	t.Helper()
	ok, err := s.Set(key, "$", doc)
	if err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
	if !ok {
		t.Fatalf("seed %s: not set", key)
	}
	bus.reset()
}

func wantEvents(t *testing.T, bus *recordingBus, want ...busEvent) {
	t.Helper()
	if diff := cmp.Diff(want, bus.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFreshKey(t *testing.T) {
	s, bus := newTestStore(t)
	ok, err := s.Set("k", "$", `{"foo":"bar"}`)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("set should apply")
	}
	wantEvents(t, bus, busEvent{"json.set", "k"})
}

func TestSetScalarParentIsSilent(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":"bar"}`)
	ok, err := s.Set("k", "$.foo.a", `"nono"`)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("set through a scalar must not apply")
	}
	wantEvents(t, bus)
}

func TestSetNewChild(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":{}}`)
	ok, err := s.Set("k", "$.foo.a", `1`)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("adding a new member under an object should apply")
	}
	got, _ := s.Get("k", nil)
	if string(got) != `{"foo":{"a":1}}` {
		t.Errorf("got %s", got)
	}
	wantEvents(t, bus, busEvent{"json.set", "k"})
}

func TestSetMissingKeyRequiresRoot(t *testing.T) {
	s, bus := newTestStore(t)
	if _, err := s.Set("k", "$.foo", `1`); err != ErrRootRequired {
		t.Errorf("got %v, want ErrRootRequired", err)
	}
	wantEvents(t, bus)
}

func TestSetNXXX(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":1}`)

	ok, err := s.Set("k", "$.a", `2`, SetNX())
	if err != nil || ok {
		t.Errorf("NX on existing path: ok=%v err=%v", ok, err)
	}
	ok, err = s.Set("k", "$.b", `2`, SetXX())
	if err != nil || ok {
		t.Errorf("XX on missing path: ok=%v err=%v", ok, err)
	}
	wantEvents(t, bus)

	ok, err = s.Set("k", "$.b", `2`, SetNX())
	if err != nil || !ok {
		t.Fatalf("NX on missing path: ok=%v err=%v", ok, err)
	}
	ok, err = s.Set("k", "$.a", `3`, SetXX())
	if err != nil || !ok {
		t.Fatalf("XX on existing path: ok=%v err=%v", ok, err)
	}
	wantEvents(t, bus, busEvent{"json.set", "k"}, busEvent{"json.set", "k"})
}

func TestStrAppend(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":"gogo"}`)
	lens, err := s.StrAppend("k", "$.foo", `"toto"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(lens) != 1 || lens[0] == nil || *lens[0] != 8 {
		t.Errorf("lens = %v, want [8]", lens)
	}
	wantEvents(t, bus, busEvent{"json.strappend", "k"})
}

func TestStrAppendWrongTypeIsSilent(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":5}`)
	lens, err := s.StrAppend("k", "$.foo", `"x"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(lens) != 1 || lens[0] != nil {
		t.Errorf("lens = %v, want [nil]", lens)
	}
	wantEvents(t, bus)
}

func TestStrAppendValueMustBeString(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":"gogo"}`)
	if _, err := s.StrAppend("k", "$.foo", `5`); !IsInvalidArgument(err) {
		t.Errorf("got %v, want invalid argument", err)
	}
	wantEvents(t, bus)
}

func TestDelTwice(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":"bar"}`)

	n, err := s.Del("k", "$.foo")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("first del: %d, want 1", n)
	}
	wantEvents(t, bus, busEvent{"json.del", "k"})

	bus.reset()
	n, err = s.Del("k", "$.foo")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second del: %d, want 0", n)
	}
	wantEvents(t, bus)
}

func TestDelRootRemovesKey(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":"bar"}`)
	n, err := s.Del("k", "$")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || s.Exists("k") {
		t.Errorf("n=%d exists=%v", n, s.Exists("k"))
	}
	wantEvents(t, bus, busEvent{"json.del", "k"})
}

func TestForgetEmitsDelEvent(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":"bar"}`)
	n, err := s.Forget("k", "$.foo")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("forget: %d, want 1", n)
	}
	wantEvents(t, bus, busEvent{"json.del", "k"})
}

func TestDelMultiMatchEmitsOnce(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":{"x":1},"b":{"x":2},"c":3}`)
	n, err := s.Del("k", "$..x")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	got, _ := s.Get("k", nil)
	if string(got) != `{"a":{},"b":{},"c":3}` {
		t.Errorf("got %s", got)
	}
	wantEvents(t, bus, busEvent{"json.del", "k"})
}

func TestNumIncrBy(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":1}`)
	v, err := s.NumIncrBy("k", "$.foo", "3")
	if err != nil {
		t.Fatal(err)
	}
	if v != "4" {
		t.Errorf("got %q, want \"4\"", v)
	}
	wantEvents(t, bus, busEvent{"json.numincrby", "k"})
}

func TestNumCommands(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		op    func(s *Store) (string, error)
		want  string
		event string
	}{
		{
			name: "multby int",
			doc:  `{"n":6}`,
			op: func(s *Store) (string, error) {
				return s.NumMultBy("k", "$.n", "7")
			},
			want:  "42",
			event: "json.nummultby",
		},
		{
			name: "incrby float",
			doc:  `{"n":1.5}`,
			op: func(s *Store) (string, error) {
				return s.NumIncrBy("k", "$.n", "1")
			},
			want:  "2.5",
			event: "json.numincrby",
		},
		{
			name: "powby int",
			doc:  `{"n":2}`,
			op: func(s *Store) (string, error) {
				return s.NumPowBy("k", "$.n", "10")
			},
			want:  "1024",
			event: "json.numpowby",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, bus := newTestStore(t)
			seed(t, s, bus, "k", tt.doc)
			v, err := tt.op(s)
			if err != nil {
				t.Fatal(err)
			}
			if v != tt.want {
				t.Errorf("got %q, want %q", v, tt.want)
			}
			wantEvents(t, bus, busEvent{tt.event, "k"})
		})
	}
}

func TestNumNonNumericTargetIsSilent(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":"bar"}`)
	v, err := s.NumIncrBy("k", "$.foo", "3")
	if err != nil {
		t.Fatal(err)
	}
	if v != "" {
		t.Errorf("got %q, want empty", v)
	}
	wantEvents(t, bus)
}

func TestNumBadOperand(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":1}`)
	if _, err := s.NumIncrBy("k", "$.foo", `"three"`); !IsInvalidArgument(err) {
		t.Errorf("got %v, want invalid argument", err)
	}
	wantEvents(t, bus)
}

func TestNumPowLargeExponentReturns(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"one":1}`)
	done := make(chan string, 1)
	go func() {
		v, err := s.NumPowBy("k", "$.one", "3000000000")
		if err != nil {
			t.Errorf("NumPowBy: %v", err)
		}
		done <- v
	}()
	select {
	case v := <-done:
		if v != "1" {
			t.Errorf("got %q, want %q", v, "1")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("NumPowBy with a large exponent did not return")
	}
	wantEvents(t, bus, busEvent{"json.numpowby", "k"})
}

func TestNumPowStaysExactInRange(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"n":2}`)
	v, err := s.NumPowBy("k", "$.n", "62")
	if err != nil {
		t.Fatal(err)
	}
	if v != "4611686018427387904" {
		t.Errorf("got %q, want 2^62", v)
	}
	wantEvents(t, bus, busEvent{"json.numpowby", "k"})
}

func TestNumOverflowWidensToFloat(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"i":9223372036854775807,"m":9223372036854775807,"p":10}`)
	if v, err := s.NumIncrBy("k", "$.i", "1"); err != nil || v != "9.223372036854776e+18" {
		t.Errorf("incrby past int64 max: got %q, %v", v, err)
	}
	if v, err := s.NumMultBy("k", "$.m", "2"); err != nil || v != "1.8446744073709552e+19" {
		t.Errorf("multby past int64 max: got %q, %v", v, err)
	}
	v, err := s.NumPowBy("k", "$.p", "30")
	if err != nil {
		t.Fatal(err)
	}
	if f, err := strconv.ParseFloat(v, 64); err != nil || f < 9.9e29 || f > 1.1e30 {
		t.Errorf("10^30 = %q, want about 1e30", v)
	}
	wantEvents(t, bus,
		busEvent{"json.numincrby", "k"},
		busEvent{"json.nummultby", "k"},
		busEvent{"json.numpowby", "k"})
}

func TestArrPop(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":["gogo1","gogo3","gogo4","gogo2"]}`)
	popped, err := s.ArrPop("k", "$.foo", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(popped) != 1 || string(popped[0]) != `"gogo3"` {
		t.Errorf("popped = %v", popped)
	}
	got, _ := s.Get("k", nil)
	if string(got) != `{"foo":["gogo1","gogo4","gogo2"]}` {
		t.Errorf("got %s", got)
	}
	wantEvents(t, bus, busEvent{"json.arrpop", "k"})
}

func TestArrPopEdges(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		index int64
	}{
		{"empty array", `{"foo":[]}`, -1},
		{"index out of range", `{"foo":[1,2]}`, 5},
		{"not an array", `{"foo":"bar"}`, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, bus := newTestStore(t)
			seed(t, s, bus, "k", tt.doc)
			popped, err := s.ArrPop("k", "$.foo", tt.index)
			if err != nil {
				t.Fatal(err)
			}
			if len(popped) != 1 || popped[0] != nil {
				t.Errorf("popped = %v, want [nil]", popped)
			}
			wantEvents(t, bus)
		})
	}
}

func TestArrAppendInsert(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":[1]}`)

	lens, err := s.ArrAppend("k", "$.a", "2", "3")
	if err != nil {
		t.Fatal(err)
	}
	if len(lens) != 1 || *lens[0] != 3 {
		t.Errorf("append lens = %v", lens)
	}
	lens, err = s.ArrInsert("k", "$.a", 0, "0")
	if err != nil {
		t.Fatal(err)
	}
	if len(lens) != 1 || *lens[0] != 4 {
		t.Errorf("insert lens = %v", lens)
	}
	got, _ := s.Get("k", nil)
	if string(got) != `{"a":[0,1,2,3]}` {
		t.Errorf("got %s", got)
	}
	wantEvents(t, bus,
		busEvent{"json.arrappend", "k"},
		busEvent{"json.arrinsert", "k"})
}

func TestArrInsertOutOfRangeIsSilent(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":[1,2]}`)
	lens, err := s.ArrInsert("k", "$.a", 9, "3")
	if err != nil {
		t.Fatal(err)
	}
	if len(lens) != 1 || lens[0] != nil {
		t.Errorf("lens = %v, want [nil]", lens)
	}
	wantEvents(t, bus)
}

func TestArrTrim(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":[0,1,2,3,4]}`)
	lens, err := s.ArrTrim("k", "$.a", 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(lens) != 1 || *lens[0] != 3 {
		t.Errorf("lens = %v", lens)
	}
	got, _ := s.Get("k", nil)
	if string(got) != `{"a":[1,2,3]}` {
		t.Errorf("got %s", got)
	}
	wantEvents(t, bus, busEvent{"json.arrtrim", "k"})
}

func TestArrTrimIdenticalRangeStillCounts(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":[1,2]}`)
	if _, err := s.ArrTrim("k", "$.a", 0, 1); err != nil {
		t.Fatal(err)
	}
	wantEvents(t, bus, busEvent{"json.arrtrim", "k"})
}

func TestToggle(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"on":true,"n":1}`)
	vals, err := s.Toggle("k", "$.*")
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 2 || vals[0] == nil || *vals[0] != false || vals[1] != nil {
		t.Errorf("vals = %v", vals)
	}
	wantEvents(t, bus, busEvent{"json.toggle", "k"})
}

func TestClear(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"o":{"a":1},"arr":[1],"n":7,"z":0,"s":"x","e":{}}`)
	n, err := s.Clear("k", "$.*")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("cleared %d, want 3", n)
	}
	got, _ := s.Get("k", nil)
	if string(got) != `{"o":{},"arr":[],"n":0,"z":0,"s":"x","e":{}}` {
		t.Errorf("got %s", got)
	}
	wantEvents(t, bus, busEvent{"json.clear", "k"})
}

func TestMerge(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":1,"b":2}`)
	changed, err := s.Merge("k", "$", `{"b":null,"c":3}`)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("merge should change")
	}
	got, _ := s.Get("k", nil)
	if string(got) != `{"a":1,"c":3}` {
		t.Errorf("got %s", got)
	}
	wantEvents(t, bus, busEvent{"json.merge", "k"})
}

func TestMergeNoOpIsSilent(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":1}`)
	changed, err := s.Merge("k", "$", `{"a":1}`)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("identical merge should not count as change")
	}
	wantEvents(t, bus)
}

func TestPartialMultiPathEmitsOnce(t *testing.T) {
	// Some matches are eligible, some are not: still one event, and the
	// result reports per-location outcomes.
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":"x","b":1,"c":"y"}`)
	lens, err := s.StrAppend("k", "$.*", `"!"`)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{true, false, true}
	if len(lens) != 3 {
		t.Fatalf("lens = %v", lens)
	}
	for i, w := range want {
		if (lens[i] != nil) != w {
			t.Errorf("lens[%d] = %v, want set=%v", i, lens[i], w)
		}
	}
	wantEvents(t, bus, busEvent{"json.strappend", "k"})
}

func TestReadOnlyCommandsAreSilent(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"s":"str","a":[1,2],"o":{"x":1}}`)

	if _, err := s.Get("k", []string{"$.s"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MGet([]string{"k", "nope"}, "$.s"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StrLen("k", "$.s"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ArrLen("k", "$.a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ObjLen("k", "$.o"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ObjKeys("k", "$.o"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ArrIndex("k", "$.a", "2", 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Type("k", "$"); err != nil {
		t.Fatal(err)
	}
	wantEvents(t, bus)
}

func TestIdempotentNoOpStaysSilent(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":"bar"}`)
	if _, err := s.Del("k", "$.gone"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if _, err := s.Del("k", "$.gone"); err != nil {
			t.Fatal(err)
		}
	}
	wantEvents(t, bus)
}

func TestMissingKeyIsSilent(t *testing.T) {
	s, bus := newTestStore(t)
	if _, err := s.Del("nope", "$.a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StrAppend("nope", "$.a", `"x"`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.NumIncrBy("nope", "$.a", "1"); err != nil {
		t.Fatal(err)
	}
	wantEvents(t, bus)
}

func TestInvalidInputsAreErrorsAndSilent(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":1}`)
	if _, err := s.Set("k", "$[", `1`); !IsInvalidArgument(err) {
		t.Errorf("bad path: got %v", err)
	}
	if _, err := s.Set("k", "$.a", `{bad json`); !IsInvalidArgument(err) {
		t.Errorf("bad value: got %v", err)
	}
	got, _ := s.Get("k", nil)
	if string(got) != `{"a":1}` {
		t.Errorf("document changed on error: %s", got)
	}
	wantEvents(t, bus)
}

func TestGetShapes(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"a":{"x":1},"b":{"x":2}}`)
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"root", nil, `{"a":{"x":1},"b":{"x":2}}`},
		{"single match", []string{"$.a.x"}, `1`},
		{"many matches", []string{"$..x"}, `[1,2]`},
		{"no match", []string{"$.zzz"}, ``},
		{"several paths", []string{"$.a.x", "$.b.x"}, `{"$.a.x":[1],"$.b.x":[2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Get("k", tt.paths)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGetYAML(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Set("k", "$", `{"b":1,"a":[2,3]}`); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get("k", nil, WithFormat(FormatYAML))
	if err != nil {
		t.Fatal(err)
	}
	want := "b: 1\na:\n- 2\n- 3\n"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMGet(t *testing.T) {
	s, _ := newTestStore(t)
	s.Set("k1", "$", `{"x":1}`)
	s.Set("k2", "$", `{"y":2}`)
	vals, err := s.MGet([]string{"k1", "missing", "k2"}, "$.x")
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 3 {
		t.Fatalf("vals = %v", vals)
	}
	if string(vals[0]) != "1" || vals[1] != nil || vals[2] != nil {
		t.Errorf("vals = %q %q %q", vals[0], vals[1], vals[2])
	}
}

func TestTypeNames(t *testing.T) {
	s, _ := newTestStore(t)
	s.Set("k", "$", `{"i":1,"f":1.5,"s":"x","b":true,"n":null,"a":[],"o":{}}`)
	types, err := s.Type("k", "$.*")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"integer", "number", "string", "boolean", "null", "array", "object"}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestLegacyPathNormalization(t *testing.T) {
	s, bus := newTestStore(t)
	seed(t, s, bus, "k", `{"foo":"gogo"}`)
	lens, err := s.StrAppend("k", ".foo", `"!"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(lens) != 1 || lens[0] == nil || *lens[0] != 5 {
		t.Errorf("lens = %v", lens)
	}
	wantEvents(t, bus, busEvent{"json.strappend", "k"})
}
