// Package audit diffs the source and destination trees after a transfer by
// re-invoking rsync in non-mutating itemized mode and classifying its
// output.
package audit

import (
	"path/filepath"
	"strings"
)

// EffectiveRoots computes the comparison roots for the audit invocation.
//
// A source without a trailing separator made rsync copy it as a named
// subfolder into the destination, so the destination root for comparison is
// <dest>/<basename(source)>/. A source with any number of trailing
// separators was a content copy; both roots are normalized to exactly one
// trailing separator so rsync compares contents rather than folders.
func EffectiveRoots(source, dest string) (sourceRoot, destRoot string) {
	destClean := strings.TrimRight(dest, "/")

	if strings.HasSuffix(source, "/") {
		return strings.TrimRight(source, "/") + "/", destClean + "/"
	}

	return source + "/", destClean + "/" + filepath.Base(source) + "/"
}
