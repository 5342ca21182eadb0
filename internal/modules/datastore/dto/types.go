package dto

// Row is one ordered record of cell texts as stored in a table.
type Row []string

// Clone returns a copy that shares no backing array with r.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Cell returns the raw value at index i, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}
