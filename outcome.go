package jsonkv

// Reason says why a location was left unchanged.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonPathNotFound
	ReasonTypeMismatch
	ReasonIndexOutOfRange
	ReasonNoOpValue
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonPathNotFound:
		return "path-not-found"
	case ReasonTypeMismatch:
		return "type-mismatch"
	case ReasonIndexOutOfRange:
		return "index-out-of-range"
	case ReasonNoOpValue:
		return "no-op-value"
	}
	return "<unknown reason>"
}

// Outcome is the per-location result of attempting a mutation.
type Outcome struct {
	Changed bool
	Reason  Reason
}

func changed() Outcome {
	return Outcome{Changed: true}
}

func unchanged(r Reason) Outcome {
	return Outcome{Reason: r}
}

// ResultKind classifies a whole command.
type ResultKind int

const (
	// NoMatch: the path resolved to nothing, or every resolved location
	// was ineligible. Not an error; no notification.
	NoMatch ResultKind = iota
	// Applied: at least one location changed.
	Applied
	// ResultError: malformed input; the document is unchanged.
	ResultError
)

// Result is the aggregate classification driving notification dispatch.
type Result struct {
	Kind  ResultKind
	Count int
}

// aggregate reduces per-location outcomes. Partial success across
// multi-path matches still counts as Applied with the changed count;
// malformed-input failures never reach here (commands return an error
// before touching the document).
func aggregate(outs []Outcome) Result {
	count := 0
	for _, o := range outs {
		if o.Changed {
			count++
		}
	}
	if count == 0 {
		return Result{Kind: NoMatch}
	}
	return Result{Kind: Applied, Count: count}
}
