// File: memsub/registry.go
// Author: momentics <momentics@gmail.com>
//
// Tracks NIC memory-key registrations (§3 lifecycle rules): every Buffer
// registered with a device gets one opaque, monotonically increasing
// MemKey, deregistered exactly once.
package memsub

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/rivermedia/api"
)

type registryEntry struct {
	device string
	size   int
}

type registry struct {
	mu      sync.Mutex
	next    atomic.Uint64
	entries map[api.MemKey]registryEntry
}

func newRegistry() *registry {
	return &registry{entries: make(map[api.MemKey]registryEntry)}
}

func (r *registry) register(device string, b api.Buffer) api.MemKey {
	key := api.MemKey(r.next.Add(1))
	r.mu.Lock()
	r.entries[key] = registryEntry{device: device, size: len(b.Data)}
	r.mu.Unlock()
	return key
}

func (r *registry) deregister(key api.MemKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		return false
	}
	delete(r.entries, key)
	return true
}
