package fn

// Map applies selector to every item. The result is never nil, so it encodes
// as an empty JSON array.
func Map[T any, V any](items []T, selector func(T) V) []V {
	results := make([]V, 0, len(items))
	for _, item := range items {
		results = append(results, selector(item))
	}
	return results
}

// Deref returns the value p points to, or the zero value for nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
