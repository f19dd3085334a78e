package realtime

import "sync"

// registry maps each event type to exactly one handler. Re-registering an
// event type replaces the previous handler; there is no per-type fan-out.
type registry struct {
	mu       sync.RWMutex
	handlers map[string]*subscription
}

// Subscription is the ownership handle returned by OnEvent. Cancel removes
// the handler unless a newer registration has already replaced it.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Cancel unregisters the handler. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}

type subscription struct {
	handler Handler
}

func newRegistry() *registry {
	return &registry{handlers: make(map[string]*subscription)}
}

func (r *registry) set(eventType string, handler Handler) *Subscription {
	entry := &subscription{handler: handler}

	r.mu.Lock()
	r.handlers[eventType] = entry
	r.mu.Unlock()

	return &Subscription{cancel: func() {
		r.removeEntry(eventType, entry)
	}}
}

func (r *registry) remove(eventType string) {
	r.mu.Lock()
	delete(r.handlers, eventType)
	r.mu.Unlock()
}

// removeEntry deletes the handler only if it is still the registered one,
// so a stale Subscription never cancels a replacement handler.
func (r *registry) removeEntry(eventType string, entry *subscription) {
	r.mu.Lock()
	if current, ok := r.handlers[eventType]; ok && current == entry {
		delete(r.handlers, eventType)
	}
	r.mu.Unlock()
}

func (r *registry) get(eventType string) (Handler, bool) {
	r.mu.RLock()
	entry, ok := r.handlers[eventType]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return entry.handler, true
}
