package syncutil

import (
	"iter"
	"maps"
	"sync"
)

// Map is a thread-safe map protected by a [sync.RWMutex].
// Values are comparable so that entries can be replaced or removed by identity.
type Map[K comparable, V comparable] struct {
	mu   sync.RWMutex
	data map[K]V
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Swap stores val under key and returns the previous value, if any.
func (m *Map[K, V]) Swap(key K, val V) (prev V, loaded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[K]V)
	}
	prev, loaded = m.data[key]
	m.data[key] = val
	return prev, loaded
}

// CompareAndDelete deletes the entry for key if its value is equal to old.
// It reports whether the entry was deleted.
func (m *Map[K, V]) CompareAndDelete(key K, old V) bool {
	if m == nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; !ok || v != old {
		return false
	}
	delete(m.data, key)
	return true
}

// Drain removes all entries and returns them.
func (m *Map[K, V]) Drain() map[K]V {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	data := m.data
	m.data = nil
	return data
}

func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}

		m.mu.RLock()
		data := maps.Clone(m.data)
		m.mu.RUnlock()

		for k, v := range data {
			if !yield(k, v) {
				return
			}
		}
	}
}
