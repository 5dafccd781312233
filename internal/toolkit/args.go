package toolkit

// Args is the untyped argument bag supplied with a single tool invocation.
// The caller owns the map; the toolkit only reads from it and never mutates
// it, so a caller may safely reuse the same bag across invocations.
type Args map[string]any

// String returns the value for key as a string, or "" when the key is absent
// or holds a non-string value.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// StringOr returns the value for key as a string, or fallback when the key
// is absent, empty, or holds a non-string value.
func (a Args) StringOr(key, fallback string) string {
	if s := a.String(key); s != "" {
		return s
	}
	return fallback
}

// Map returns the value for key as a map, or nil when the key is absent or
// holds a non-map value.
func (a Args) Map(key string) map[string]any {
	m, _ := a[key].(map[string]any)
	return m
}

// Slice returns the value for key as a slice, or nil when the key is absent
// or holds a non-slice value.
func (a Args) Slice(key string) []any {
	s, _ := a[key].([]any)
	return s
}

// isSet reports whether v counts as a supplied argument value. Mirroring the
// service's historical behaviour, nil, the empty string, an empty map, and
// an empty slice are all treated the same as an absent key. Numbers and
// booleans always count as set, including zero and false.
func isSet(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}

// missingArgs returns the names of every required field of d that is absent
// or unset in args, in declaration order. A complete list is collected in a
// single pass so an interactive caller gets the full diagnostic at once.
func missingArgs(d *Descriptor, args Args) []string {
	var missing []string
	for _, name := range d.Required() {
		if !isSet(args[name]) {
			missing = append(missing, name)
		}
	}
	return missing
}
