package logs

// CountSerializations wraps the serializer of d and returns a pointer to the
// number of times it ran.
func CountSerializations(d *Dispatcher) *int {
	n := new(int)
	inner := d.serialize
	d.serialize = func(ctx map[string]any, depth int) map[string]string {
		*n++
		return inner(ctx, depth)
	}
	return n
}

func CacheLen(d *Dispatcher) int { return d.cache.len() }

var TrimTrace = trimTrace
