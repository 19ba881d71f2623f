package derive

// Lookup resolves foreign ids embedded in other records.
type Lookup[K comparable, T any] struct {
	byID    map[K]T
	unknown T
}

// NewLookup indexes items by key. Later duplicates overwrite earlier ones.
// unknown is returned for ids that are absent.
func NewLookup[K comparable, T any](items []T, key func(T) K, unknown T) *Lookup[K, T] {
	m := make(map[K]T, len(items))
	for _, it := range items {
		m[key(it)] = it
	}
	return &Lookup[K, T]{byID: m, unknown: unknown}
}

func (l *Lookup[K, T]) Get(id K) T {
	if v, ok := l.byID[id]; ok {
		return v
	}
	return l.unknown
}

// GetPtr treats a nil id as unknown.
func (l *Lookup[K, T]) GetPtr(id *K) T {
	if id == nil {
		return l.unknown
	}
	return l.Get(*id)
}
