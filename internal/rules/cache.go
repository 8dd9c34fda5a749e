package rules

import (
	"path/filepath"
	"sync"
)

// Cache memoizes loaded registries by canonical absolute path. A cache is
// owned by one transduction run: it is constructed for the run and discarded
// with it, so a run always sees a consistent snapshot of every rule file.
// Lookups are mutex-guarded so a hosting program may drive documents from
// multiple goroutines against separate runs without racing on a shared cache.
type Cache struct {
	mu         sync.Mutex
	registries map[string]*Registry
}

// NewCache creates an empty registry cache.
func NewCache() *Cache {
	return &Cache{registries: make(map[string]*Registry)}
}

// Load returns the registry for path, parsing it on first use.
func (c *Cache) Load(path string) (*Registry, error) {
	abs, err := filepath.Abs(path)
	if err == nil {
		abs = filepath.Clean(abs)
	} else {
		abs = path
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if reg, ok := c.registries[abs]; ok {
		return reg, nil
	}
	reg, err := Load(abs)
	if err != nil {
		return nil, err
	}
	c.registries[abs] = reg
	return reg, nil
}
