// Package render draws the live two-line transfer status. It is the only
// package that touches the cursor, so everything feeding it stays testable
// without a terminal.
package render

// Renderer receives classified transfer output. Implementations must keep
// the status area intact across calls: errors are printed above it, progress
// redraws it in place.
type Renderer interface {
	// Start reserves the status area and announces the transfer.
	Start(dryRun bool)

	// Progress redraws the status area with the current filename and the
	// latest progress line.
	Progress(filename, progressLine string)

	// Error prints an rsync-reported error above the status area.
	Error(line string)

	// Canceled announces a user interruption.
	Canceled()
}
