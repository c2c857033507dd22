package jsonkv

import "testing"

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		outs []Outcome
		want Result
	}{
		{"no locations", nil, Result{Kind: NoMatch}},
		{"all unchanged", []Outcome{unchanged(ReasonTypeMismatch), unchanged(ReasonPathNotFound)}, Result{Kind: NoMatch}},
		{"one changed", []Outcome{changed()}, Result{Kind: Applied, Count: 1}},
		{"partial", []Outcome{changed(), unchanged(ReasonTypeMismatch), changed()}, Result{Kind: Applied, Count: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aggregate(tt.outs); got != tt.want {
				t.Errorf("aggregate = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDispatcher(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want int
	}{
		{"applied emits once", Result{Kind: Applied, Count: 1}, 1},
		{"applied many still once", Result{Kind: Applied, Count: 7}, 1},
		{"no match", Result{Kind: NoMatch}, 0},
		{"error", Result{Kind: ResultError}, 0},
		{"applied without count", Result{Kind: Applied}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &recordingBus{}
			d := NewDispatcher(bus)
			d.Dispatch(tt.res, CmdSet, "k")
			if len(bus.events) != tt.want {
				t.Errorf("published %d, want %d", len(bus.events), tt.want)
			}
			for _, ev := range bus.events {
				if ev.Name != "json.set" || ev.Key != "k" {
					t.Errorf("bad event %+v", ev)
				}
			}
		})
	}
}

func TestDispatcherNilBus(t *testing.T) {
	d := NewDispatcher(nil)
	d.Dispatch(Result{Kind: Applied, Count: 1}, CmdDel, "k")
	var nilD *Dispatcher
	nilD.Dispatch(Result{Kind: Applied, Count: 1}, CmdDel, "k")
}

func TestEventNames(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{CmdSet, "json.set"},
		{CmdDel, "json.del"},
		{CmdMerge, "json.merge"},
		{CmdClear, "json.clear"},
		{CmdToggle, "json.toggle"},
		{CmdStrAppend, "json.strappend"},
		{CmdArrAppend, "json.arrappend"},
		{CmdArrInsert, "json.arrinsert"},
		{CmdArrPop, "json.arrpop"},
		{CmdArrTrim, "json.arrtrim"},
		{CmdNumIncrBy, "json.numincrby"},
		{CmdNumMultBy, "json.nummultby"},
		{CmdNumPowBy, "json.numpowby"},
	}
	for _, tt := range tests {
		if got := tt.cmd.EventName(); got != tt.want {
			t.Errorf("EventName(%v) = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}
