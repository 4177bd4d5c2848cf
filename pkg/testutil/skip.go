// Package testutil holds small helpers shared by test suites.
package testutil

import (
	"os"
	"testing"
)

// SkipIfShort skips the test when running in short mode.
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// MongoTestURL returns the MongoDB URL for integration tests, skipping the
// test when none is configured.
func MongoTestURL(t *testing.T) string {
	t.Helper()
	SkipIfShort(t)
	url := os.Getenv("MONGO_TEST_URL")
	if url == "" {
		t.Skip("skipping integration test (set MONGO_TEST_URL to run)")
	}
	return url
}
