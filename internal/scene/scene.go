package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ivlev/sequencer/internal/transform"
)

var (
	ErrEntityNotFound  = errors.New("entity not found")
	ErrNoDefaultEntity = errors.New("no target and no primary entity")
	ErrUnknownBinding  = errors.New("unknown binding")
	ErrDuplicateEntity = errors.New("duplicate entity name")
)

// Entity is an animatable object whose transform a timeline can drive.
type Entity interface {
	Name() string
	Class() string
	Transform() transform.Transform
	SetTransform(t transform.Transform)
	InputEnabled() bool
	DisableInput()
	EnableInput()
}

// Actor is the World's Entity.
type Actor struct {
	mu           sync.RWMutex
	name         string
	class        string
	transform    transform.Transform
	inputEnabled bool
}

var _ Entity = &Actor{}

func NewActor(name, class string, t transform.Transform) *Actor {
	return &Actor{name: name, class: class, transform: t, inputEnabled: true}
}

func (a *Actor) Name() string {
	return a.name
}

func (a *Actor) Class() string {
	return a.class
}

func (a *Actor) Transform() transform.Transform {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.transform
}

func (a *Actor) SetTransform(t transform.Transform) {
	a.mu.Lock()
	a.transform = t
	a.mu.Unlock()
}

func (a *Actor) InputEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.inputEnabled
}

func (a *Actor) DisableInput() {
	a.mu.Lock()
	a.inputEnabled = false
	a.mu.Unlock()
}

func (a *Actor) EnableInput() {
	a.mu.Lock()
	a.inputEnabled = true
	a.mu.Unlock()
}

// World owns the actors that timelines can be bound to. It resolves targets
// by name, falls back to the primary (player-controlled) actor, and hands out
// binding IDs.
type World struct {
	mu       sync.RWMutex
	actors   map[string]*Actor
	order    []string
	primary  string
	bindings map[uuid.UUID]*Actor
}

func NewWorld() *World {
	return &World{
		actors:   make(map[string]*Actor),
		bindings: make(map[uuid.UUID]*Actor),
	}
}

// Add registers an actor under its name.
func (w *World) Add(a *Actor) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.actors[a.name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, a.name)
	}
	w.actors[a.name] = a
	w.order = append(w.order, a.name)
	return nil
}

// SetPrimary marks the actor used when no target is given.
func (w *World) SetPrimary(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.actors[name]; !ok {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, name)
	}
	w.primary = name
	return nil
}

// Actors returns the actors in insertion order.
func (w *World) Actors() []*Actor {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Actor, 0, len(w.order))
	for _, name := range w.order {
		out = append(out, w.actors[name])
	}
	return out
}

// Resolve finds the actor named target. An empty target selects the primary
// actor and disables its input; playback enables it again when it finishes.
func (w *World) Resolve(target string) (Entity, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if target != "" {
		a, ok := w.actors[target]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, target)
		}
		return a, nil
	}

	a, ok := w.actors[w.primary]
	if w.primary == "" || !ok {
		return nil, ErrNoDefaultEntity
	}
	a.DisableInput()
	return a, nil
}

// Bind issues a new binding ID for an entity of this world.
func (w *World) Bind(e Entity) (uuid.UUID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.actors[e.Name()]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrEntityNotFound, e.Name())
	}

	id := uuid.New()
	w.bindings[id] = a
	return id, nil
}

// Lookup returns the entity behind a binding.
func (w *World) Lookup(id uuid.UUID) (Entity, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.bindings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBinding, id)
	}
	return a, nil
}
