// Package oplog parses and validates graph mutation logs: JSON arrays,
// single objects, or newline-delimited records describing DEFINE/CREATE/
// UPDATE/DELETE operations against nodes and edges. It never executes
// mutations; it only decodes text and reports schema violations as data.
package oplog

// OpKind identifies a mutation operation kind
type OpKind string

const (
	OpDefine OpKind = "DEFINE"
	OpCreate OpKind = "CREATE"
	OpUpdate OpKind = "UPDATE"
	OpDelete OpKind = "DELETE"
)

func (k OpKind) String() string { return string(k) }

// KnownOpKinds lists the accepted values for the "op" field, in display order.
var KnownOpKinds = []OpKind{OpDefine, OpCreate, OpUpdate, OpDelete}

// IsKnownOpKind reports whether s (already upper-cased) is a valid op kind.
func IsKnownOpKind(s string) bool {
	switch OpKind(s) {
	case OpDefine, OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

// EntityKind identifies what an operation targets
type EntityKind string

const (
	EntityNode EntityKind = "node"
	EntityEdge EntityKind = "edge"
)

// ParsedOperation is one decoded record plus everything the validator had to
// say about it. All extracted fields are optional: a missing or wrong-typed
// field is nil, never an error.
type ParsedOperation struct {
	Index    int      `json:"index"`
	Raw      any      `json:"raw"`
	Op       *string  `json:"op,omitempty"`
	Type     *string  `json:"type,omitempty"`
	Label    *string  `json:"label,omitempty"`
	ID       *string  `json:"id,omitempty"`
	Warnings []string `json:"warnings"`
}

// ParseError is a fragment of input that could not be decoded as JSON at all.
// Line numbers are 1-based, matching what an editor gutter shows.
type ParseError struct {
	Message   string `json:"message"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
}

// ParseResult aggregates the synchronous parse path's output.
type ParseResult struct {
	Operations  []ParsedOperation `json:"operations"`
	ParseErrors []ParseError      `json:"parse_errors"`
}

// WarningCount returns the total number of validation warnings across all operations.
func (r ParseResult) WarningCount() int {
	n := 0
	for _, op := range r.Operations {
		n += len(op.Warnings)
	}
	return n
}

// OperationBreakdown counts operations per kind. Unknown absorbs records whose
// op field is absent, malformed, or not one of the four kinds; the five
// buckets always sum to the total operation count.
type OperationBreakdown struct {
	Define  int `json:"define"`
	Create  int `json:"create"`
	Update  int `json:"update"`
	Delete  int `json:"delete"`
	Unknown int `json:"unknown"`
}

// Total returns the sum of all buckets.
func (b OperationBreakdown) Total() int {
	return b.Define + b.Create + b.Update + b.Delete + b.Unknown
}

// Breakdown tallies a list of parsed operations by kind.
func Breakdown(ops []ParsedOperation) OperationBreakdown {
	var b OperationBreakdown
	for _, op := range ops {
		if op.Op == nil {
			b.Unknown++
			continue
		}
		switch OpKind(*op.Op) {
		case OpDefine:
			b.Define++
		case OpCreate:
			b.Create++
		case OpUpdate:
			b.Update++
		case OpDelete:
			b.Delete++
		default:
			b.Unknown++
		}
	}
	return b
}
