package oplog

// ExtractFields returns the best-effort typed fields of one decoded record.
// The op value is upper-cased and only returned when it is a known kind.
// Builder and summarizer both go through here so they cannot diverge on what
// counts as "present".
func ExtractFields(raw any) (op, typ, label, id *string) {
	m := asObject(raw)
	if m == nil {
		return nil, nil, nil, nil
	}
	if k := normalizedOp(m); k != nil && IsKnownOpKind(*k) {
		op = k
	}
	return op, getString(m, "type"), getString(m, "label"), getString(m, "id")
}
