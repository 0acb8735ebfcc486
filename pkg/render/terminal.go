package render

import (
	"github.com/buger/goterm"
)

// maxFilenameWidth keeps the status area on one line for typical terminals.
const maxFilenameWidth = 75

// Terminal renders the status area in place using cursor repositioning.
type Terminal struct{}

func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Start(dryRun bool) {
	msg := "⏳ Starting sync..."
	if dryRun {
		msg = "⏳ Starting scan (dry run)..."
	}
	goterm.Println(goterm.Color(msg, goterm.CYAN))
	// Reserve the line the progress redraw moves up from.
	goterm.Println("")
	goterm.Flush()
}

func (t *Terminal) Progress(filename, progressLine string) {
	goterm.MoveCursorUp(1)
	goterm.Print(goterm.ResetLine(goterm.Bold("File: ") + truncate(filename, maxFilenameWidth) + "\n"))
	goterm.Print(goterm.ResetLine(goterm.Color(progressLine, goterm.GREEN)))
	goterm.Flush()
}

func (t *Terminal) Error(line string) {
	// Overwrite the filename line and push the status area down two lines,
	// leaving the error visible above it.
	goterm.MoveCursorUp(1)
	goterm.Print(goterm.ResetLine(goterm.Color("❌ "+line, goterm.RED) + "\n\n"))
	goterm.Flush()
}

func (t *Terminal) Canceled() {
	goterm.Println()
	goterm.Println(goterm.Color("🛑 Operation cancelled by user.", goterm.YELLOW))
	goterm.Flush()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + ".."
}
