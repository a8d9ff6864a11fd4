package store

import (
	"fmt"
	"sync"
)

// stores is the global registry of named Store implementations. The "memory"
// store is registered by default; custom backends can be added via Register
// before sessions are created.
var (
	stores = map[string]Store{
		"memory": NewMemoryStore(),
	}
	mutex sync.RWMutex
)

// Get retrieves a Store by name from the registry.
func Get(name string) (Store, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	s, exists := stores[name]
	if !exists {
		return nil, fmt.Errorf("unknown store: %s", name)
	}
	return s, nil
}

// Register adds or replaces a named Store in the global registry.
//
// Example:
//
//	store.Register("file", store.NewFileStore("/var/lib/turnlog/sessions"))
func Register(name string, s Store) {
	mutex.Lock()
	defer mutex.Unlock()

	stores[name] = s
}
