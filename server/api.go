package server

import "encoding/json"

// Request and response shapes of the JSON-RPC surface. Shared with the
// command-line client.

const (
	MethodSet        = "json.set"
	MethodGet        = "json.get"
	MethodMGet       = "json.mget"
	MethodDel        = "json.del"
	MethodForget     = "json.forget"
	MethodMerge      = "json.merge"
	MethodClear      = "json.clear"
	MethodToggle     = "json.toggle"
	MethodType       = "json.type"
	MethodStrAppend  = "json.strappend"
	MethodStrLen     = "json.strlen"
	MethodArrAppend  = "json.arrappend"
	MethodArrInsert  = "json.arrinsert"
	MethodArrPop     = "json.arrpop"
	MethodArrTrim    = "json.arrtrim"
	MethodArrLen     = "json.arrlen"
	MethodArrIndex   = "json.arrindex"
	MethodObjKeys    = "json.objkeys"
	MethodObjLen     = "json.objlen"
	MethodNumIncrBy  = "json.numincrby"
	MethodNumMultBy  = "json.nummultby"
	MethodNumPowBy   = "json.numpowby"
	MethodPSubscribe = "psubscribe"

	// NotifyPMessage carries one matched publication to a subscriber.
	NotifyPMessage = "pmessage"
)

type KeyPathParams struct {
	Key  string `json:"key"`
	Path string `json:"path"`
}

type SetParams struct {
	Key   string `json:"key"`
	Path  string `json:"path"`
	Value string `json:"value"`
	NX    bool   `json:"nx,omitempty"`
	XX    bool   `json:"xx,omitempty"`
}

type SetResult struct {
	OK bool `json:"ok"`
}

type GetParams struct {
	Key   string   `json:"key"`
	Paths []string `json:"paths,omitempty"`
	// Format is "json" (default) or "yaml".
	Format string `json:"format,omitempty"`
}

type GetResult struct {
	// Value is the serialized result, null when nothing matched. YAML
	// results are JSON-encoded strings.
	Value json.RawMessage `json:"value"`
}

type MGetParams struct {
	Keys []string `json:"keys"`
	Path string   `json:"path"`
}

type MGetResult struct {
	Values []json.RawMessage `json:"values"`
}

type CountResult struct {
	Count int64 `json:"count"`
}

type ValueParams struct {
	Key   string `json:"key"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

type MergeResult struct {
	Changed bool `json:"changed"`
}

type ToggleResult struct {
	Values []*bool `json:"values"`
}

type TypeResult struct {
	Types []string `json:"types"`
}

type LensResult struct {
	Lens []*int64 `json:"lens"`
}

type ArrValuesParams struct {
	Key    string   `json:"key"`
	Path   string   `json:"path"`
	Values []string `json:"values"`
}

type ArrInsertParams struct {
	Key    string   `json:"key"`
	Path   string   `json:"path"`
	Index  int64    `json:"index"`
	Values []string `json:"values"`
}

type ArrPopParams struct {
	Key  string `json:"key"`
	Path string `json:"path"`
	// Index defaults to -1, the last element.
	Index *int64 `json:"index,omitempty"`
}

type ArrPopResult struct {
	Popped []json.RawMessage `json:"popped"`
}

type ArrTrimParams struct {
	Key   string `json:"key"`
	Path  string `json:"path"`
	Start int64  `json:"start"`
	Stop  int64  `json:"stop"`
}

type ArrIndexParams struct {
	Key   string `json:"key"`
	Path  string `json:"path"`
	Value string `json:"value"`
	Start int64  `json:"start,omitempty"`
	Stop  int64  `json:"stop,omitempty"`
}

type ObjKeysResult struct {
	Keys [][]string `json:"keys"`
}

type NumResult struct {
	// Value is the resulting number (or array of numbers) as a string,
	// empty when nothing matched.
	Value string `json:"value"`
}

type PSubscribeParams struct {
	Patterns []string `json:"patterns"`
}

type PSubscribeResult struct {
	SubscriberID string `json:"subscriberId"`
}

type PMessage struct {
	Pattern string `json:"pattern"`
	Channel string `json:"channel"`
	Payload string `json:"payload"`
}
