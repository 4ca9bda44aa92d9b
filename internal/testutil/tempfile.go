package testutil

import (
	"io/ioutil"
	"os"
	"testing"
)

// TestTempDir creates a temporary directory for use during tests, returning
// the path and a cleanup function.
func TestTempDir(tb testing.TB) (string, func()) {
	tb.Helper()
	name, err := ioutil.TempDir("", "c2en-test")
	if err != nil {
		tb.Fatal(err)
	}
	return name, func() {
		if err := os.RemoveAll(name); err != nil {
			tb.Fatalf("os.RemoveAll(%s): %s", name, err)
		}
	}
}
