package oplog

import (
	"fmt"
	"regexp"
	"strings"
)

// idPattern is the identifier grammar shared by id, start_id and end_id:
// a lowercase alnum/underscore label, a colon, then exactly 16 lowercase hex chars.
var idPattern = regexp.MustCompile(`^[a-z0-9_]+:[0-9a-f]{16}$`)

// IsValidID reports whether s conforms to the identifier grammar.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}

// asObject returns v as a JSON object, or nil if it is anything else.
func asObject(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// getString extracts a string field from m. A missing field or a field of any
// other JSON type both return nil; extraction never fails.
func getString(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// normalizedOp returns the upper-cased op field, or nil when absent or not a string.
func normalizedOp(m map[string]any) *string {
	s := getString(m, "op")
	if s == nil {
		return nil
	}
	up := strings.ToUpper(*s)
	return &up
}

// ValidateOperation checks one decoded record against the schema rules for its
// declared operation kind and returns human-readable warnings in rule order.
// An empty slice means well-formed. Validation of a record with a missing or
// unknown op stops immediately, since the remaining rules depend on the kind;
// every other failed check appends a warning and validation continues, so one
// pass surfaces as many issues as possible.
func ValidateOperation(raw any) []string {
	return validateOperation(raw, false)
}

// ValidateOperationStrict applies the same rules plus the extra DEFINE checks
// used by the background summarizer (description and array-typed
// required_properties).
func ValidateOperationStrict(raw any) []string {
	return validateOperation(raw, true)
}

func validateOperation(raw any, strict bool) []string {
	m := asObject(raw)
	if m == nil {
		return []string{"record must be a JSON object"}
	}

	var warnings []string

	op := normalizedOp(m)
	if op == nil {
		return append(warnings, `missing required field "op"`)
	}
	if !IsKnownOpKind(*op) {
		return append(warnings, fmt.Sprintf(
			"invalid op %q: must be one of DEFINE, CREATE, UPDATE, DELETE", *op))
	}

	typ := getString(m, "type")
	if typ == nil {
		warnings = append(warnings, `missing required field "type"`)
	} else if *typ != string(EntityNode) && *typ != string(EntityEdge) {
		warnings = append(warnings, fmt.Sprintf(
			`invalid type %q: must be "node" or "edge"`, *typ))
	}

	switch OpKind(*op) {
	case OpDefine:
		warnings = append(warnings, validateDefine(m, strict)...)
	case OpCreate:
		warnings = append(warnings, validateCreate(m, typ)...)
	case OpUpdate:
		warnings = append(warnings, validateUpdate(m)...)
	case OpDelete:
		warnings = append(warnings, validateDelete(m)...)
	}

	return warnings
}

func validateDefine(m map[string]any, strict bool) []string {
	var warnings []string
	if getString(m, "label") == nil {
		warnings = append(warnings, `DEFINE requires "label"`)
	}
	if strict {
		if getString(m, "description") == nil {
			warnings = append(warnings, `DEFINE requires "description"`)
		}
		if _, ok := m["required_properties"].([]any); !ok {
			warnings = append(warnings, `DEFINE requires "required_properties" as an array`)
		}
	}
	if _, ok := m["id"]; ok {
		warnings = append(warnings, `DEFINE must not carry "id"`)
	}
	if _, ok := m["set_properties"]; ok {
		warnings = append(warnings, `DEFINE must not carry "set_properties"`)
	}
	return warnings
}

func validateCreate(m map[string]any, typ *string) []string {
	var warnings []string
	warnings = append(warnings, checkID(m, "id")...)
	if getString(m, "label") == nil {
		warnings = append(warnings, `CREATE requires "label"`)
	}

	props, ok := m["set_properties"]
	if !ok {
		warnings = append(warnings, `CREATE requires "set_properties"`)
	} else if pm := asObject(props); pm == nil {
		warnings = append(warnings, `"set_properties" must be a JSON object`)
	} else {
		if getString(pm, "data_source_id") == nil {
			warnings = append(warnings, `"set_properties" requires "data_source_id"`)
		}
		if getString(pm, "source_path") == nil {
			warnings = append(warnings, `"set_properties" requires "source_path"`)
		}
		if typ != nil && *typ == string(EntityNode) && getString(pm, "slug") == nil {
			warnings = append(warnings, `node CREATE requires "slug" in "set_properties"`)
		}
	}

	if typ != nil && *typ == string(EntityEdge) {
		warnings = append(warnings, checkID(m, "start_id")...)
		warnings = append(warnings, checkID(m, "end_id")...)
	}
	return warnings
}

func validateUpdate(m map[string]any) []string {
	var warnings []string
	warnings = append(warnings, checkID(m, "id")...)
	_, hasSet := m["set_properties"]
	_, hasRemove := m["remove_properties"]
	if !hasSet && !hasRemove {
		warnings = append(warnings, `UPDATE requires "set_properties" or "remove_properties"`)
	}
	return warnings
}

func validateDelete(m map[string]any) []string {
	return checkID(m, "id")
}

// checkID validates one identifier-bearing field against the ID grammar.
func checkID(m map[string]any, field string) []string {
	s := getString(m, field)
	if s == nil {
		return []string{fmt.Sprintf("missing required field %q", field)}
	}
	if !IsValidID(*s) {
		return []string{fmt.Sprintf(
			"invalid %s %q: must match label:16-lowercase-hex", field, *s)}
	}
	return nil
}
