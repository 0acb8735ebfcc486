// Package stream classifies rsync's combined output stream and tracks the
// state of a single transfer. It performs no terminal I/O; rendering is the
// renderer's job.
package stream

import "strings"

// Kind is the classification of one non-empty output line. Every line maps
// to exactly one Kind.
type Kind int

const (
	// KindFilename is a path rsync is about to transfer. It becomes the
	// "current file" shown above the progress line.
	KindFilename Kind = iota

	// KindProgress is a total-progress line from --info=progress2.
	KindProgress

	// KindError is an error reported by rsync itself.
	KindError

	// KindNoise is a non-informational header, or an empty line.
	KindNoise
)

// Classify maps one trimmed output line to its Kind.
//
// Progress lines carry both a percentage and a transfer counter (xfr#).
// Error lines start with rsync's error prefixes, or mention a full disk,
// which rsync sometimes reports mid-line. Everything else is a filename,
// except the incremental-file-list header.
func Classify(line string) Kind {
	if line == "" {
		return KindNoise
	}

	if strings.Contains(line, "%") && strings.Contains(line, "xfr#") {
		return KindProgress
	}

	if strings.HasPrefix(line, "rsync:") ||
		strings.HasPrefix(line, "rsync error:") ||
		strings.Contains(line, "No space left") {
		return KindError
	}

	if strings.HasPrefix(line, "sending incremental") {
		return KindNoise
	}

	return KindFilename
}
