package watcher

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c2en/c2en/internal/testutil"
)

type eventRecorder struct {
	events chan Event
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{events: make(chan Event, 16)}
}

func (r *eventRecorder) ProcessFileEvent(ctx context.Context, e Event) {
	r.events <- e
}

func (r *eventRecorder) await(tb testing.TB) Event {
	tb.Helper()
	select {
	case e := <-r.events:
		return e
	case <-time.After(5 * time.Second):
		tb.Fatal("timed out waiting for a file event")
	}
	return Event{}
}

func TestFakeWatcherDeliversInjectedEvents(t *testing.T) {
	w := NewFakeWatcher()
	defer w.Close()

	r := newEventRecorder()
	testutil.FatalIfErr(t, w.Observe("prog.c", r))
	if !w.IsWatching("prog.c") {
		t.Error("Observe did not register the watch")
	}

	w.InjectCreate("prog.c")
	testutil.ExpectNoDiff(t, Event{Create, "prog.c"}, r.await(t))
	w.InjectUpdate("prog.c")
	testutil.ExpectNoDiff(t, Event{Update, "prog.c"}, r.await(t))
	w.InjectDelete("prog.c")
	testutil.ExpectNoDiff(t, Event{Delete, "prog.c"}, r.await(t))

	testutil.FatalIfErr(t, w.Remove("prog.c"))
	w.InjectUpdate("prog.c")
	select {
	case e := <-r.events:
		t.Errorf("received event %v after Remove", e)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestSourceWatcherPollsForUpdates(t *testing.T) {
	tmpDir, rmTmpDir := testutil.TestTempDir(t)
	defer rmTmpDir()
	path := filepath.Join(tmpDir, "prog.c")
	testutil.FatalIfErr(t, ioutil.WriteFile(path, []byte("int main() { return 0; }\n"), 0644))

	w, err := NewSourceWatcher(10*time.Millisecond, false)
	testutil.FatalIfErr(t, err)
	defer w.Close()

	r := newEventRecorder()
	testutil.FatalIfErr(t, w.Observe(path, r))
	if !w.IsWatching(path) {
		t.Errorf("watcher is not watching %s", path)
	}

	then := time.Now().Add(time.Minute)
	testutil.FatalIfErr(t, os.Chtimes(path, then, then))

	testutil.ExpectNoDiff(t, Event{Update, path}, r.await(t))
}

func TestSourceWatcherObserveIsIdempotent(t *testing.T) {
	tmpDir, rmTmpDir := testutil.TestTempDir(t)
	defer rmTmpDir()
	path := filepath.Join(tmpDir, "prog.c")
	testutil.FatalIfErr(t, ioutil.WriteFile(path, []byte("int main() { return 0; }\n"), 0644))

	w, err := NewSourceWatcher(time.Hour, false)
	testutil.FatalIfErr(t, err)
	defer w.Close()

	r := newEventRecorder()
	testutil.FatalIfErr(t, w.Observe(path, r))
	testutil.FatalIfErr(t, w.Observe(path, r))

	w.watchedMu.RLock()
	ps := len(w.watched[path].ps)
	w.watchedMu.RUnlock()
	if ps != 1 {
		t.Errorf("processor registered %d times, want 1", ps)
	}
}

func TestSourceWatcherCloseIsSafeToRepeat(t *testing.T) {
	w, err := NewSourceWatcher(10*time.Millisecond, false)
	testutil.FatalIfErr(t, err)
	testutil.FatalIfErr(t, w.Close())
	testutil.FatalIfErr(t, w.Close())
}
