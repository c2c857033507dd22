package jsonkv

// Command identifies a mutating command family. The zero value is not a
// valid command.
type Command int

const (
	CmdSet Command = iota + 1
	CmdDel
	CmdMerge
	CmdClear
	CmdToggle
	CmdStrAppend
	CmdArrAppend
	CmdArrInsert
	CmdArrPop
	CmdArrTrim
	CmdNumIncrBy
	CmdNumMultBy
	CmdNumPowBy
)

var eventNames = map[Command]string{
	CmdSet:       "json.set",
	CmdDel:       "json.del",
	CmdMerge:     "json.merge",
	CmdClear:     "json.clear",
	CmdToggle:    "json.toggle",
	CmdStrAppend: "json.strappend",
	CmdArrAppend: "json.arrappend",
	CmdArrInsert: "json.arrinsert",
	CmdArrPop:    "json.arrpop",
	CmdArrTrim:   "json.arrtrim",
	CmdNumIncrBy: "json.numincrby",
	CmdNumMultBy: "json.nummultby",
	CmdNumPowBy:  "json.numpowby",
}

// EventName is the canonical lowercase event name published when the
// command changes stored data. FORGET is an alias of DEL and shares its
// event name.
func (c Command) EventName() string {
	return eventNames[c]
}
