package stream

import (
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// initialFilename is shown until rsync names the first file.
const initialFilename = "Initializing..."

// Session accumulates the transient state of one transfer: the file
// currently being sent and the errors collected so far. The error list is
// append-only while the subprocess runs and read-only afterwards.
type Session struct {
	Source string
	Dest   string
	DryRun bool
	Delete bool

	clock   clockwork.Clock
	started time.Time
	current string
	errors  []string
}

// NewSession starts tracking a transfer. A nil clock means wall clock.
func NewSession(source, dest string, dryRun, deleteEnabled bool, clock clockwork.Clock) *Session {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Session{
		Source:  source,
		Dest:    dest,
		DryRun:  dryRun,
		Delete:  deleteEnabled,
		clock:   clock,
		started: clock.Now(),
		current: initialFilename,
	}
}

// Sanitize prepares one raw output line for classification: surrounding
// whitespace is trimmed and invalid UTF-8 is replaced, never fatal.
func Sanitize(raw string) string {
	return strings.TrimSpace(strings.ToValidUTF8(raw, "�"))
}

// Apply classifies one sanitized line and folds it into the session. The
// returned Kind tells the caller what to render.
func (s *Session) Apply(line string) Kind {
	kind := Classify(line)
	switch kind {
	case KindError:
		s.errors = append(s.errors, line)
	case KindFilename:
		s.current = line
	}
	return kind
}

// CurrentFile returns the file named by the most recent filename line.
func (s *Session) CurrentFile() string {
	return s.current
}

// Errors returns the error lines collected so far, in arrival order.
func (s *Session) Errors() []string {
	return s.errors
}

// Elapsed returns the wall-clock duration since the session started.
func (s *Session) Elapsed() time.Duration {
	return s.clock.Since(s.started)
}
