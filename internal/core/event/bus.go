package event

import (
	"reflect"
	"sync"
)

// Bus buffers the effects emitted during one tick and delivers them to
// subscribers in emission order when Dispatch is called. An identical effect
// emitted twice in the same tick is delivered once.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	pending  []any
	seen     map[any]struct{}
	handlers map[reflect.Type][]func(any)
	all      []func(any)
}

func NewBus() *Bus {
	return &Bus{
		pending:  make([]any, 0, 16),
		seen:     make(map[any]struct{}, 16),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Emit queues an effect for the current tick. Returns false when an equal
// effect is already queued.
func Emit[T comparable](b *Bus, event T) bool {
	if _, dup := b.seen[event]; dup {
		return false
	}
	b.seen[event] = struct{}{}
	b.pending = append(b.pending, event)
	return true
}

// Subscribe registers a typed handler for effects of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// SubscribeAll registers a handler that sees every effect.
func (b *Bus) SubscribeAll(fn func(any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, fn)
}

// Pending returns a copy of the effects queued so far this tick.
func (b *Bus) Pending() []any {
	out := make([]any, len(b.pending))
	copy(out, b.pending)
	return out
}

// Dispatch delivers all queued effects in order and clears the buffer.
// Returns the number of effects delivered.
func (b *Bus) Dispatch() int {
	queue := b.pending
	b.Discard()
	for _, ev := range queue {
		for _, h := range b.handlers[reflect.TypeOf(ev)] {
			h(ev)
		}
		for _, h := range b.all {
			h(ev)
		}
	}
	return len(queue)
}

// Discard drops every queued effect without delivering it.
func (b *Bus) Discard() {
	b.pending = make([]any, 0, cap(b.pending))
	clear(b.seen)
}
