// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// EqualText fails the test with a unified diff when got differs from want.
// Generated source is easier to review as a diff than as two quoted blobs.
func EqualText(t testing.TB, want, got string) bool {
	t.Helper()
	if want == got {
		return true
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		t.Fatalf("failed to diff output: %v", err)
	}
	t.Errorf("output mismatch:\n%s", diff)
	return false
}
