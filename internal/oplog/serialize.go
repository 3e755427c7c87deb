package oplog

import (
	"encoding/json"
	"strings"
)

// SerializeOperations renders operations back to line-oriented text: one
// compact JSON record per line, in list order. For one-record-per-line input
// this is the inverse of ParseContent. Raw values that cannot be re-encoded
// (never the case for values produced by this package's parser) are skipped.
func SerializeOperations(ops []ParsedOperation) string {
	var sb strings.Builder
	for _, op := range ops {
		b, err := json.Marshal(op.Raw)
		if err != nil {
			continue
		}
		sb.Write(b)
		sb.WriteString("\n")
	}
	return sb.String()
}
