package orm

// CompositeKey joins key parts into a single primary key. All parts but the
// last must be of a fixed size (addresses are) for the key to be unambiguous
// and for prefix iteration over the leading parts to work.
func CompositeKey(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
