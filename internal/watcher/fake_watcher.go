package watcher

import (
	"context"
	"sync"

	"github.com/golang/glog"
)

// FakeWatcher implements an in-memory Watcher for tests, delivering
// events only when injected by the test.
type FakeWatcher struct {
	watchesMu sync.RWMutex // protects `watches'
	watches   map[string][]Processor
}

// NewFakeWatcher returns a fake Watcher for use in tests.
func NewFakeWatcher() *FakeWatcher {
	return &FakeWatcher{watches: make(map[string][]Processor)}
}

// Observe adds a watch to the FakeWatcher.
func (w *FakeWatcher) Observe(name string, processor Processor) error {
	w.watchesMu.Lock()
	defer w.watchesMu.Unlock()
	w.watches[name] = append(w.watches[name], processor)
	return nil
}

// Remove removes a watch from the FakeWatcher.
func (w *FakeWatcher) Remove(name string) error {
	w.watchesMu.Lock()
	defer w.watchesMu.Unlock()
	delete(w.watches, name)
	return nil
}

// Close closes the FakeWatcher.
func (w *FakeWatcher) Close() error {
	return nil
}

// IsWatching indicates if the path is being watched.
func (w *FakeWatcher) IsWatching(name string) bool {
	w.watchesMu.RLock()
	defer w.watchesMu.RUnlock()
	_, ok := w.watches[name]
	return ok
}

func (w *FakeWatcher) sendEvent(e Event) {
	w.watchesMu.RLock()
	ps := w.watches[e.Pathname]
	w.watchesMu.RUnlock()
	if ps == nil {
		glog.Warningf("No processors watching %q", e.Pathname)
		return
	}
	for _, p := range ps {
		p.ProcessFileEvent(context.TODO(), e)
	}
}

// InjectCreate sends a creation event for the given path.
func (w *FakeWatcher) InjectCreate(name string) {
	w.sendEvent(Event{Create, name})
}

// InjectUpdate sends an update event for the given path.
func (w *FakeWatcher) InjectUpdate(name string) {
	w.sendEvent(Event{Update, name})
}

// InjectDelete sends a deletion event for the given path.
func (w *FakeWatcher) InjectDelete(name string) {
	w.sendEvent(Event{Delete, name})
}
