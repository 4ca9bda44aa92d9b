// Package testutil collects the comparison and assertion helpers shared by
// the package tests.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func Diff(a, b interface{}, opts ...cmp.Option) string {
	return cmp.Diff(a, b, opts...)
}

func IgnoreUnexported(types ...interface{}) cmp.Option {
	return cmpopts.IgnoreUnexported(types...)
}

func AllowUnexported(types ...interface{}) cmp.Option {
	return cmp.AllowUnexported(types...)
}

func IgnoreFields(typ interface{}, names ...string) cmp.Option {
	return cmpopts.IgnoreFields(typ, names...)
}

// ExpectNoDiff fails the test if diff is not empty.
func ExpectNoDiff(tb testing.TB, expected, observed interface{}, opts ...cmp.Option) bool {
	tb.Helper()
	if diff := Diff(expected, observed, opts...); diff != "" {
		tb.Errorf("Unexpected diff, -want +got:\n%s", diff)
		return false
	}
	return true
}
