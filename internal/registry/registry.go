// Package registry holds parsed templates for a generation run. The registry
// is an explicit object owned by the caller — populated before batch
// rendering, passed by reference, and discarded afterwards — rather than a
// process-global cache.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/pilotgen/pilotgen/internal/engine"
	"github.com/pilotgen/pilotgen/internal/types"
)

// Entry pairs template metadata with its parsed form. Parsing happens once
// per distinct template text; the parsed tree is reused across renders.
type Entry struct {
	Info     *types.TemplateInfo
	Template *engine.Template
}

// TemplateRegistry manages all discovered templates.
type TemplateRegistry struct {
	templates map[string]*Entry
	mutex     sync.RWMutex
	watchers  []chan types.TemplateEvent
}

// NewTemplateRegistry creates a new template registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]*Entry),
	}
}

// Register adds or updates a template in the registry.
func (r *TemplateRegistry) Register(info *types.TemplateInfo, tmpl *engine.Template) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := types.EventTypeAdded
	if _, exists := r.templates[info.Name]; exists {
		eventType = types.EventTypeUpdated
	}

	r.templates[info.Name] = &Entry{Info: info, Template: tmpl}

	r.notify(types.TemplateEvent{
		Type:      eventType,
		Template:  info,
		Timestamp: time.Now(),
	})
}

// Get retrieves a template by name.
func (r *TemplateRegistry) Get(name string) (*Entry, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entry, exists := r.templates[name]
	return entry, exists
}

// Names returns registered template names in sorted order.
func (r *TemplateRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all entries ordered by template name.
func (r *TemplateRegistry) All() []*Entry {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]*Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, r.templates[name])
	}
	return entries
}

// Remove removes a template from the registry.
func (r *TemplateRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, exists := r.templates[name]
	if !exists {
		return
	}

	delete(r.templates, name)

	r.notify(types.TemplateEvent{
		Type:      types.EventTypeRemoved,
		Template:  entry.Info,
		Timestamp: time.Now(),
	})
}

// Watch returns a channel that receives template events.
func (r *TemplateRegistry) Watch() <-chan types.TemplateEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.TemplateEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it.
func (r *TemplateRegistry) UnWatch(ch <-chan types.TemplateEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered templates.
func (r *TemplateRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.templates)
}

// notify sends an event to all watchers; callers must hold the lock.
func (r *TemplateRegistry) notify(event types.TemplateEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
