package popover

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler schedules on the wall clock.
var SystemScheduler Scheduler = clockScheduler{}

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingShow
	pendingHide
)

type instance struct {
	visible bool
	kind    pendingKind
	timer   Timer
	gen     uint64
}

// Registry tracks every mounted overlay of one class. At most one of them is
// visible once a trigger has been handled, and only the most recent trigger
// may still have a show pending.
type Registry struct {
	class     string
	delay     Delay
	scheduler Scheduler

	mu        sync.Mutex
	instances map[string]*instance
}

// NewRegistry returns an empty registry for class.
func NewRegistry(class string, delay Delay, scheduler Scheduler) *Registry {
	if scheduler == nil {
		scheduler = SystemScheduler
	}
	return &Registry{
		class:     class,
		delay:     delay,
		scheduler: scheduler,
		instances: make(map[string]*instance),
	}
}

// Class returns the overlay class the registry serves.
func (r *Registry) Class() string {
	return r.class
}

// Mount registers an instance. Mounting twice is a no-op.
func (r *Registry) Mount(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[id]; !ok {
		r.instances[id] = &instance{}
	}
}

// Unmount forgets an instance and cancels anything it had pending.
func (r *Registry) Unmount(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, ok := r.instances[id]; ok {
		r.cancel(inst)
		delete(r.instances, id)
	}
}

// Trigger handles a hover or focus on id. If any overlay of the class is
// already visible, every other one is hidden and id is shown at once.
// Otherwise id is shown after the show delay, replacing any show another
// instance still had pending.
func (r *Registry) Trigger(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[id]
	if !ok {
		return
	}

	for otherID, other := range r.instances {
		if otherID != id && other.kind == pendingShow {
			r.cancel(other)
		}
	}

	if r.anyVisible() {
		r.hideAllExcept(id)
		r.cancel(inst)
		r.show(id, inst)
		return
	}

	r.schedule(id, inst, pendingShow, r.delay.Show)
}

// Leave handles the pointer leaving id; the overlay hides after the hide delay.
func (r *Registry) Leave(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[id]
	if !ok {
		return
	}
	if !inst.visible {
		r.cancel(inst)
		return
	}
	r.schedule(id, inst, pendingHide, r.delay.Hide)
}

// HideAllExcept hides every visible overlay other than id immediately.
func (r *Registry) HideAllExcept(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hideAllExcept(id)
}

// Visible returns the ids of the visible overlays, sorted.
func (r *Registry) Visible() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for id, inst := range r.instances {
		if inst.visible {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// IsVisible reports whether id is currently shown.
func (r *Registry) IsVisible(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	return ok && inst.visible
}

func (r *Registry) anyVisible() bool {
	for _, inst := range r.instances {
		if inst.visible {
			return true
		}
	}
	return false
}

func (r *Registry) hideAllExcept(id string) {
	for otherID, other := range r.instances {
		if otherID == id || !other.visible {
			continue
		}
		r.cancel(other)
		other.visible = false
		log.Debug().Str("class", r.class).Str("instance", otherID).Msg("Popover hidden")
	}
}

func (r *Registry) show(id string, inst *instance) {
	inst.visible = true
	log.Debug().Str("class", r.class).Str("instance", id).Msg("Popover shown")
}

func (r *Registry) cancel(inst *instance) {
	if inst.timer != nil {
		inst.timer.Stop()
		inst.timer = nil
	}
	inst.kind = pendingNone
	inst.gen++
}

// schedule replaces whatever inst had pending. The generation check discards
// callbacks whose timer fired after being replaced.
func (r *Registry) schedule(id string, inst *instance, kind pendingKind, d time.Duration) {
	r.cancel(inst)
	gen := inst.gen
	inst.kind = kind
	inst.timer = r.scheduler.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		current, ok := r.instances[id]
		if !ok || current != inst || inst.gen != gen {
			return
		}
		inst.timer = nil
		inst.kind = pendingNone
		switch kind {
		case pendingShow:
			r.hideAllExcept(id)
			r.show(id, inst)
		case pendingHide:
			inst.visible = false
			log.Debug().Str("class", r.class).Str("instance", id).Msg("Popover hidden")
		}
	})
}

var (
	registriesMu sync.Mutex
	registries   = make(map[string]*Registry)
)

// RegistryFor returns the process-wide registry of class, creating it on
// first use. Later calls ignore delay and scheduler.
func RegistryFor(class string, delay Delay, scheduler Scheduler) *Registry {
	registriesMu.Lock()
	defer registriesMu.Unlock()

	if reg, ok := registries[class]; ok {
		return reg
	}
	reg := NewRegistry(class, delay, scheduler)
	registries[class] = reg
	return reg
}
