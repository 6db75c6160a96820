package instance

import (
	"sync"

	"github.com/CrimsonAS/qmlmodel/model"
)

// Cache keeps the records of a mirror detached from a model, so that a
// mirror attached to the same model again starts from what the renderer
// reported before instead of from nothing. A Cache may be shared by the
// mirrors of several documents.
type Cache struct {
	mu      sync.Mutex
	entries map[*model.Model]map[int32]*NodeInstance
}

func NewCache() *Cache {
	return &Cache{entries: make(map[*model.Model]map[int32]*NodeInstance)}
}

func (c *Cache) store(m *model.Model, records map[int32]*NodeInstance) {
	snapshot := make(map[int32]*NodeInstance, len(records))
	for id, r := range records {
		snapshot[id] = r.clone()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[m] = snapshot
}

// load returns a copy of the snapshot of m.
func (c *Cache) load(m *model.Model) (map[int32]*NodeInstance, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot, ok := c.entries[m]
	if !ok {
		return nil, false
	}
	records := make(map[int32]*NodeInstance, len(snapshot))
	for id, r := range snapshot {
		records[id] = r.clone()
	}
	return records, true
}

func (c *Cache) Has(m *model.Model) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[m]
	return ok
}

// Forget drops the snapshot of m, typically when its document is closed.
func (c *Cache) Forget(m *model.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, m)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
