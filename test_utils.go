package typegraph

import "github.com/sergi/go-diff/diffmatchpatch"

// Diff renders a human-readable diff between two strings, for failure
// output when comparing multi-line dumps (e.g. DumpYAML snapshots).
func Diff(a, b string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffPrettyText(diffs)
}
