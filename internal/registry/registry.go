// Package registry stores live chart engine instances by identity.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/zjrosen/chartwell/internal/engine"
	"github.com/zjrosen/chartwell/internal/log"
	"github.com/zjrosen/chartwell/internal/pubsub"
	"github.com/zjrosen/chartwell/internal/scheduler"
)

// ErrNotRegistered is returned by Query when no instance is registered under
// the identity by the time the lookup runs.
var ErrNotRegistered = errors.New("chart identity not registered")

// Identity names one chart instance. It is opaque and never parsed.
type Identity string

// GenerateIdentity returns a fresh random identity. It does not consult any
// registry; callers register the identity right away.
func GenerateIdentity() Identity {
	return Identity(uuid.New().String())
}

// String returns the string representation of the Identity.
func (id Identity) String() string {
	return string(id)
}

// Change describes a registration or removal. Size is the registry size
// right after the change.
type Change struct {
	Identity Identity
	Size     int
}

// Registry maps identities to engine instances. It does not own the
// instances: removing an entry does not dispose of anything.
type Registry struct {
	mu        sync.RWMutex
	instances map[Identity]engine.Instance
	sched     scheduler.Scheduler
	broker    *pubsub.Broker[Change]
	misses    atomic.Uint64
}

// New creates an empty registry. Queries are resolved on sched's next turn.
func New(sched scheduler.Scheduler) *Registry {
	return &Registry{
		instances: make(map[Identity]engine.Instance),
		sched:     sched,
		broker:    pubsub.NewBroker[Change](),
	}
}

// Register stores inst under id, replacing any previous entry.
func (r *Registry) Register(id Identity, inst engine.Instance) {
	if inst == nil {
		log.Warn(log.CatRegistry, "Ignoring nil instance registration", "identity", id)
		return
	}

	r.mu.Lock()
	_, replaced := r.instances[id]
	r.instances[id] = inst
	size := len(r.instances)
	r.mu.Unlock()

	log.Debug(log.CatRegistry, "Registered instance", "identity", id, "replaced", replaced, "size", size)
	r.broker.Publish(pubsub.CreatedEvent, Change{Identity: id, Size: size})
}

// Get returns the instance registered under id.
func (r *Registry) Get(id Identity) (engine.Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inst, ok := r.instances[id]
	return inst, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id Identity) bool {
	_, ok := r.Get(id)
	return ok
}

// Size returns the number of registered instances.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

// Identities returns the registered identities in sorted order.
func (r *Registry) Identities() []Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.instances))
}

// Remove deletes the entry for id. Removing an unknown identity is a no-op.
func (r *Registry) Remove(id Identity) {
	r.mu.Lock()
	_, ok := r.instances[id]
	delete(r.instances, id)
	size := len(r.instances)
	r.mu.Unlock()

	if !ok {
		return
	}
	log.Debug(log.CatRegistry, "Removed instance", "identity", id, "size", size)
	r.broker.Publish(pubsub.DeletedEvent, Change{Identity: id, Size: size})
}

// Query looks id up on the scheduler's next turn. The returned future
// resolves with the instance registered at that moment, or rejects with
// ErrNotRegistered. A miss is final; the lookup is not retried.
func (r *Registry) Query(id Identity) *scheduler.Future[engine.Instance] {
	future := scheduler.NewFuture[engine.Instance]()

	r.sched.Defer(func() {
		if inst, ok := r.Get(id); ok {
			future.Resolve(inst)
			return
		}
		r.misses.Add(1)
		err := fmt.Errorf("%w: %s", ErrNotRegistered, id)
		log.ErrorErr(log.CatRegistry, "Query for unregistered identity, verify the create/register sequence", err, "identity", id)
		future.Reject(err)
	})

	return future
}

// QueryMisses returns how many queries have been rejected.
func (r *Registry) QueryMisses() uint64 {
	return r.misses.Load()
}

// Events returns the broker carrying registration changes.
func (r *Registry) Events() *pubsub.Broker[Change] {
	return r.broker
}

// DroppedEvents returns how many change deliveries were skipped because a
// subscriber was not keeping up.
func (r *Registry) DroppedEvents() uint64 {
	return r.broker.Dropped()
}

// Close shuts down the change broker.
func (r *Registry) Close() {
	r.broker.Close()
}
