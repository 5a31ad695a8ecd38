package model

// RawDelivery is one inbound webhook payload exactly as decoded: an unordered
// mapping where any key may be missing or null. Accessors below tolerate every
// level of missing or mistyped structure and never mutate the delivery.
type RawDelivery map[string]any

// Has reports whether the key is present, regardless of its value.
func (d RawDelivery) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Object returns the nested object at key. The second value is false when the
// key is absent, null or not an object.
func (d RawDelivery) Object(key string) (RawDelivery, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return RawDelivery(m), true
}

// String returns the string at key, or empty string when absent or not a string.
func (d RawDelivery) String(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Int returns the integer at key. JSON numbers decode as float64, so both
// forms are handled. The second value is false when no usable number is there.
func (d RawDelivery) Int(key string) (int, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
