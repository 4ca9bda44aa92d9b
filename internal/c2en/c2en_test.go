package c2en

import (
	"context"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/c2en/c2en/internal/testutil"
	"github.com/c2en/c2en/internal/watcher"
)

const validSource = `int main() {
    int count = 0;
    count = count + 1;
    return 0;
}
`

func writeSource(tb testing.TB, dir, name, contents string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	testutil.FatalIfErr(tb, ioutil.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefaultOutputPath(t *testing.T) {
	if want, got := "prog.txt", DefaultOutputPath("prog.c"); want != got {
		t.Errorf("DefaultOutputPath got %q, want %q", got, want)
	}
	if want, got := "noext.txt", DefaultOutputPath("noext"); want != got {
		t.Errorf("DefaultOutputPath got %q, want %q", got, want)
	}
}

func TestRunTranslatesOnce(t *testing.T) {
	tmpDir, rmTmpDir := testutil.TestTempDir(t)
	defer rmTmpDir()
	src := writeSource(t, tmpDir, "prog.c", validSource)
	out := filepath.Join(tmpDir, "prog.txt")

	m, err := New(context.Background(), nil, src, OutputPath(out))
	testutil.FatalIfErr(t, err)
	testutil.FatalIfErr(t, m.Run())

	prose, err := ioutil.ReadFile(out)
	testutil.FatalIfErr(t, err)
	for _, want := range []string{
		"Programme Description",
		"Function: main",
		"This is the main entry point of the programme.",
	} {
		if !strings.Contains(string(prose), want) {
			t.Errorf("output does not contain %q:\n%s", want, prose)
		}
	}
}

func TestCompileOnlyWritesNothing(t *testing.T) {
	tmpDir, rmTmpDir := testutil.TestTempDir(t)
	defer rmTmpDir()
	src := writeSource(t, tmpDir, "prog.c", validSource)
	out := filepath.Join(tmpDir, "prog.txt")

	m, err := New(context.Background(), nil, src, OutputPath(out), CompileOnly())
	testutil.FatalIfErr(t, err)
	testutil.FatalIfErr(t, m.Run())

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("compile-only run wrote %s", out)
	}
}

func TestRunReportsCompileErrors(t *testing.T) {
	tmpDir, rmTmpDir := testutil.TestTempDir(t)
	defer rmTmpDir()
	src := writeSource(t, tmpDir, "bad.c", "int main() { return x; }\n")

	m, err := New(context.Background(), nil, src)
	testutil.FatalIfErr(t, err)

	err = m.Run()
	if err == nil {
		t.Fatal("Run unexpectedly succeeded")
	}
	if !strings.Contains(err.Error(), "[SEMANTIC ERROR]") {
		t.Errorf("Run error %q does not carry the compile diagnostic", err.Error())
	}
}

// An unchanged source is served from the output cache and not rewritten.
func TestTranslateFileSkipsUnchanged(t *testing.T) {
	tmpDir, rmTmpDir := testutil.TestTempDir(t)
	defer rmTmpDir()
	src := writeSource(t, tmpDir, "prog.c", validSource)
	out := filepath.Join(tmpDir, "prog.txt")

	m, err := New(context.Background(), nil, src, OutputPath(out))
	testutil.FatalIfErr(t, err)

	testutil.FatalIfErr(t, m.TranslateFile(context.Background(), src))
	testutil.FatalIfErr(t, os.Remove(out))

	testutil.FatalIfErr(t, m.TranslateFile(context.Background(), src))
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("unchanged source was retranslated to %s", out)
	}

	// A new modification time invalidates the cached output.
	then := time.Now().Add(time.Minute)
	testutil.FatalIfErr(t, os.Chtimes(src, then, then))
	testutil.FatalIfErr(t, m.TranslateFile(context.Background(), src))
	if _, err := os.Stat(out); err != nil {
		t.Errorf("changed source was not retranslated: %s", err)
	}
}

func TestProcessFileEventRetranslates(t *testing.T) {
	tmpDir, rmTmpDir := testutil.TestTempDir(t)
	defer rmTmpDir()
	src := writeSource(t, tmpDir, "prog.c", validSource)
	out := filepath.Join(tmpDir, "prog.txt")

	m, err := New(context.Background(), nil, src, OutputPath(out))
	testutil.FatalIfErr(t, err)
	testutil.FatalIfErr(t, m.TranslateFile(context.Background(), src))

	writeSource(t, tmpDir, "prog.c", "void noop() { return; }\n")
	then := time.Now().Add(time.Minute)
	testutil.FatalIfErr(t, os.Chtimes(src, then, then))

	m.ProcessFileEvent(context.Background(), watcher.Event{Op: watcher.Update, Pathname: src})

	prose, err := ioutil.ReadFile(out)
	testutil.FatalIfErr(t, err)
	if !strings.Contains(string(prose), "Function: noop") {
		t.Errorf("output was not retranslated:\n%s", prose)
	}

	// Deletion keeps the last output on disk.
	m.ProcessFileEvent(context.Background(), watcher.Event{Op: watcher.Delete, Pathname: src})
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output removed after delete event: %s", err)
	}
}

func TestDuplicateBindAddress(t *testing.T) {
	tmpDir, rmTmpDir := testutil.TestTempDir(t)
	defer rmTmpDir()
	src := writeSource(t, tmpDir, "prog.c", validSource)

	m, err := New(context.Background(), nil, src, BindAddress("127.0.0.1", "0"))
	testutil.FatalIfErr(t, err)
	defer m.Close(true)

	if err := m.SetOption(BindAddress("127.0.0.1", "0")); err == nil {
		t.Error("expected an error applying a second bind address")
	}
}

// End to end: watch mode serves metrics over HTTP and shuts down cleanly
// when asked to quit.
func TestServeAndQuit(t *testing.T) {
	tmpDir, rmTmpDir := testutil.TestTempDir(t)
	defer rmTmpDir()
	src := writeSource(t, tmpDir, "prog.c", validSource)
	out := filepath.Join(tmpDir, "prog.txt")

	w := watcher.NewFakeWatcher()
	m, err := New(context.Background(), w, src,
		OutputPath(out),
		WatchSources(),
		BindAddress("127.0.0.1", "0"))
	testutil.FatalIfErr(t, err)

	errc := make(chan error, 1)
	go func() {
		errc <- m.Run()
	}()

	// Wait for the webserver to respond.
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + m.Addr() + "/metrics")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	testutil.FatalIfErr(t, err)
	body, err := ioutil.ReadAll(resp.Body)
	testutil.FatalIfErr(t, err)
	resp.Body.Close()
	if !strings.Contains(string(body), "c2en_translations_total") {
		t.Errorf("metrics page does not report translations:\n%s", body)
	}

	if !w.IsWatching(src) {
		t.Errorf("watch mode did not observe %s", src)
	}

	resp, err = http.Post("http://"+m.Addr()+"/quitquitquit", "text/plain", nil)
	testutil.FatalIfErr(t, err)
	resp.Body.Close()

	select {
	case err := <-errc:
		testutil.FatalIfErr(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit request")
	}
}
