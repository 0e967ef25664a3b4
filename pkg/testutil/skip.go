// Package testutil holds helpers shared by tests that bind sockets or fan
// out many goroutines.
package testutil

import "testing"

// SkipIfShort skips tests that open real listeners or issue thousands of
// requests when running with -short.
func SkipIfShort(t *testing.T, what string) {
	t.Helper()
	if testing.Short() {
		t.Skipf("skipping %s in short mode", what)
	}
}
