package model

// Flag values used by the format for boolean fields.
const (
	True  = "true"
	False = "false"
)

// String returns a pointer to s, for setting optional scalar fields.
func String(s string) *string {
	return &s
}

// Value returns the value of an optional scalar, or "" when it is absent.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Bool reports whether an optional flag is present and set to "true".
func Bool(p *string) bool {
	return p != nil && *p == True
}

// Flag returns a pointer to the format's string form of b.
func Flag(b bool) *string {
	if b {
		return String(True)
	}
	return String(False)
}

// RemoveAt returns s without its i-th element. Out-of-range indexes return s
// unchanged. The relative order of the remaining elements is kept.
func RemoveAt[P any](s []P, i int) []P {
	if i < 0 || i >= len(s) {
		return s
	}
	return append(s[:i:i], s[i+1:]...)
}

// Move returns s with the element at index from relocated to index to,
// shifting the elements in between. Out-of-range indexes return s unchanged.
func Move[P any](s []P, from, to int) []P {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) || from == to {
		return s
	}
	item := s[from]
	out := make([]P, 0, len(s))
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)
	out = append(out[:to], append([]P{item}, out[to:]...)...)
	return out
}
