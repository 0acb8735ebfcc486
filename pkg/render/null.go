package render

import (
	"fmt"
	"io"
)

// Null renders nothing except errors, which still reach the given writer.
// Used for --quiet and in tests.
type Null struct {
	ErrOut io.Writer
}

func (n *Null) Start(dryRun bool) {}

func (n *Null) Progress(filename, progressLine string) {}

func (n *Null) Error(line string) {
	if n.ErrOut != nil {
		fmt.Fprintln(n.ErrOut, line)
	}
}

func (n *Null) Canceled() {}
