package stream

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestSessionTracksCurrentFile(t *testing.T) {
	s := NewSession("/src", "/dst", false, false, nil)

	assert.Equal(t, "Initializing...", s.CurrentFile())

	s.Apply("sending incremental file list")
	assert.Equal(t, "Initializing...", s.CurrentFile())

	s.Apply("dir/a.txt")
	assert.Equal(t, "dir/a.txt", s.CurrentFile())

	// Progress and error lines never change the current file.
	s.Apply("1,024 100% 1.2MB/s 0:00:00 (xfr#1, to-chk=0/3)")
	s.Apply("rsync: something broke")
	assert.Equal(t, "dir/a.txt", s.CurrentFile())

	s.Apply("dir/b.txt")
	assert.Equal(t, "dir/b.txt", s.CurrentFile())
}

func TestSessionCollectsErrorsInOrder(t *testing.T) {
	s := NewSession("/src", "/dst", false, false, nil)

	s.Apply("rsync: first")
	s.Apply("some/file.txt")
	s.Apply(`write failed on "x": No space left on device (28)`)

	assert.Equal(t, []string{
		"rsync: first",
		`write failed on "x": No space left on device (28)`,
	}, s.Errors())
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "dir/a.txt", Sanitize("  dir/a.txt \r\n"))

	// Each run of invalid bytes is replaced, never fatal.
	got := Sanitize("bad\x80\xfebytes")
	assert.Equal(t, "bad�bytes", got)
}

func TestSessionElapsed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSession("/src", "/dst", false, false, clock)

	clock.Advance(90 * time.Second)
	assert.Equal(t, 90*time.Second, s.Elapsed())
}
