package oplog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseContent is the entry point for the synchronous parse path. It
// classifies the input and tries strategies in order, first success wins:
// a whole-text JSON array, a whole-text JSON object, then line-oriented
// parsing with accumulation recovery. Field-level problems inside a
// successfully decoded array or object become warnings, never a reason to
// fall back to line mode. Empty or whitespace-only input yields an empty
// result with no errors.
func ParseContent(text string) ParseResult {
	result := ParseResult{
		Operations:  []ParsedOperation{},
		ParseErrors: []ParseError{},
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return result
	}

	if strings.HasPrefix(trimmed, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			for _, v := range arr {
				result.Operations = append(result.Operations, BuildOperation(v, len(result.Operations)))
			}
			return result
		}
	} else if strings.HasPrefix(trimmed, "{") {
		var obj any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			result.Operations = append(result.Operations, BuildOperation(obj, 0))
			return result
		}
	}

	return ParseLines(text)
}

// ParseLines parses newline-delimited content. Each line is decoded in
// isolation when possible; lines that fail on their own accumulate into a
// buffer so that pretty-printed multi-line JSON blocks interleave freely with
// single-line records. Blank lines and comment lines (// or # prefix) act as
// separators and flush any pending buffer.
//
// The recovery is best-effort: a multi-line block containing a line that
// itself looks like a separator (e.g. a string value starting with "#") will
// be flushed early and reported as a parse error.
func ParseLines(text string) ParseResult {
	result := ParseResult{
		Operations:  []ParsedOperation{},
		ParseErrors: []ParseError{},
	}

	lines := strings.Split(text, "\n")

	var buf strings.Builder
	bufStart := -1 // 0-based line where the current buffer began

	// flush attempts to decode the accumulated buffer ending at 0-based line
	// end, emitting operations on success and one parse error on failure.
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
			result.ParseErrors = append(result.ParseErrors, ParseError{
				Message:   blockErrorMessage(start+1, end+1, err),
				LineStart: start + 1,
				LineEnd:   end + 1,
			})
			return
		}
		appendDecoded(&result, v)
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
			appendDecoded(&result, v)
			continue
		}

		if buf.Len() == 0 {
			bufStart = i
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	flush(len(lines) - 1)

	return result
}

// appendDecoded turns one decoded JSON value into operations: arrays expand
// to one operation per element, everything else becomes a single operation.
func appendDecoded(result *ParseResult, v any) {
	if arr, ok := v.([]any); ok {
		for _, elem := range arr {
			result.Operations = append(result.Operations, BuildOperation(elem, len(result.Operations)))
		}
		return
	}
	result.Operations = append(result.Operations, BuildOperation(v, len(result.Operations)))
}

// blockErrorMessage formats a fatal parse error with 1-based line references.
func blockErrorMessage(start, end int, err error) string {
	if start == end {
		return fmt.Sprintf("line %d: invalid JSON: %v", start, err)
	}
	return fmt.Sprintf("lines %d-%d: invalid JSON: %v", start, end, err)
}
