package oplog

// BuildOperation wraps one decoded value into a ParsedOperation. Values that
// are not JSON objects (scalars, arrays, null) get a single warning and no
// extracted fields; they still count as operations. Field extraction is
// best-effort: a wrong-typed field is treated as absent. The validator always
// sees the original raw value, not the extracted subset, so nested checks
// (inside set_properties) have full access.
func BuildOperation(raw any, index int) ParsedOperation {
	op := ParsedOperation{
		Index:    index,
		Raw:      raw,
		Warnings: []string{},
	}

	if asObject(raw) == nil {
		op.Warnings = append(op.Warnings, "record must be a JSON object")
		return op
	}

	op.Op, op.Type, op.Label, op.ID = ExtractFields(raw)
	op.Warnings = append(op.Warnings, ValidateOperation(raw)...)
	return op
}
