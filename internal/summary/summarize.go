// Package summary is the background half of the mutation-log engine: a
// low-retention re-implementation of the oplog parser that never holds on to
// decoded raw values, caps how much it materializes, and runs behind a
// dispatcher on its own goroutine so very large buffers do not block the
// caller.
package summary

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openshift-hyperfleet/kartograph-sub001/internal/oplog"
)

const (
	// MaxPreviewOps bounds the fully materialized operation list. Everything
	// past the cap still counts toward the totals.
	MaxPreviewOps = 200

	// MaxReportedErrors bounds the fatal parse errors carried back to the
	// caller; TotalErrors keeps the true count.
	MaxReportedErrors = 50
)

// LightOperation is a ParsedOperation without the raw value, plus the 0-based
// source line where the operation's text began. Deliberately lossy to bound
// memory on multi-megabyte inputs.
type LightOperation struct {
	Index     int      `json:"index"`
	Op        *string  `json:"op,omitempty"`
	Type      *string  `json:"type,omitempty"`
	Label     *string  `json:"label,omitempty"`
	ID        *string  `json:"id,omitempty"`
	Warnings  []string `json:"warnings"`
	LineStart int      `json:"line_start"`
}

// Result is the background path's aggregate output. PreviewOps and
// ParseErrors are capped; the Total fields always reflect the whole input.
type Result struct {
	PreviewOps    []LightOperation         `json:"preview_ops"`
	ParseErrors   []oplog.ParseError       `json:"parse_errors"`
	TotalOps      int                      `json:"total_ops"`
	TotalErrors   int                      `json:"total_errors"`
	TotalWarnings int                      `json:"total_warnings"`
	Breakdown     oplog.OperationBreakdown `json:"breakdown"`
	ParseTime     time.Duration            `json:"parse_time"`
}

// Truncated reports how many operations were counted but not materialized.
func (r Result) Truncated() int {
	return r.TotalOps - len(r.PreviewOps)
}

// Summarize parses text with the same strategy order as oplog.ParseContent
// but builds light operations, applies the strict validator, and records
// elapsed wall-clock time.
func Summarize(text string) Result {
	start := time.Now()
	r := summarize(text)
	r.ParseTime = time.Since(start)
	return r
}

func summarize(text string) Result {
	result := Result{
		PreviewOps:  []LightOperation{},
		ParseErrors: []oplog.ParseError{},
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return result
	}

	if strings.HasPrefix(trimmed, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			for _, v := range arr {
				result.addOperation(v, 0)
			}
			return result
		}
	} else if strings.HasPrefix(trimmed, "{") {
		var obj any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			result.addOperation(obj, 0)
			return result
		}
	}

	result.scanLines(text)
	return result
}

// scanLines mirrors oplog.ParseLines with the same accumulation recovery,
// tracking the 0-based start line of every decoded value.
func (r *Result) scanLines(text string) {
	lines := strings.Split(text, "\n")

	var buf strings.Builder
	bufStart := -1

	flush := func(end int) {
		if buf.Len() == 0 {
			return
		}
		block := buf.String()
		start := bufStart
		buf.Reset()
		bufStart = -1

		var v any
		if err := json.Unmarshal([]byte(block), &v); err != nil {
			r.addError(start, end, err)
			return
		}
		r.addDecoded(v, start)
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			flush(i - 1)
			continue
		}

		var v any
		if err := json.Unmarshal([]byte(line), &v); err == nil {
			flush(i - 1)
			r.addDecoded(v, i)
			continue
		}

		if buf.Len() == 0 {
			bufStart = i
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	flush(len(lines) - 1)
}

func (r *Result) addDecoded(v any, lineStart int) {
	if arr, ok := v.([]any); ok {
		for _, elem := range arr {
			r.addOperation(elem, lineStart)
		}
		return
	}
	r.addOperation(v, lineStart)
}

// addOperation counts one record and, below the preview cap, materializes it.
func (r *Result) addOperation(raw any, lineStart int) {
	index := r.TotalOps
	r.TotalOps++

	warnings := oplog.ValidateOperationStrict(raw)
	r.TotalWarnings += len(warnings)

	op, typ, label, id := oplog.ExtractFields(raw)
	tallyKind(&r.Breakdown, op)

	if len(r.PreviewOps) >= MaxPreviewOps {
		return
	}
	r.PreviewOps = append(r.PreviewOps, LightOperation{
		Index:     index,
		Op:        op,
		Type:      typ,
		Label:     label,
		ID:        id,
		Warnings:  warnings,
		LineStart: lineStart,
	})
}

func (r *Result) addError(start, end int, err error) {
	r.TotalErrors++
	if len(r.ParseErrors) >= MaxReportedErrors {
		return
	}
	r.ParseErrors = append(r.ParseErrors, oplog.ParseError{
		Message:   errorMessage(start+1, end+1, err),
		LineStart: start + 1,
		LineEnd:   end + 1,
	})
}

func errorMessage(start, end int, err error) string {
	if start == end {
		return fmt.Sprintf("line %d: invalid JSON: %v", start, err)
	}
	return fmt.Sprintf("lines %d-%d: invalid JSON: %v", start, end, err)
}

func tallyKind(b *oplog.OperationBreakdown, op *string) {
	if op == nil {
		b.Unknown++
		return
	}
	switch oplog.OpKind(*op) {
	case oplog.OpDefine:
		b.Define++
	case oplog.OpCreate:
		b.Create++
	case oplog.OpUpdate:
		b.Update++
	case oplog.OpDelete:
		b.Delete++
	default:
		b.Unknown++
	}
}
