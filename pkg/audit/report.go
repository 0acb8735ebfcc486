package audit

import (
	"fmt"
	"io"

	"github.com/buger/goterm"
)

// maxListed bounds each section of the printed report.
const maxListed = 15

// Print renders the audit report. Empty result prints a single
// perfect-match confirmation; otherwise each non-empty list is printed under
// its own heading, truncated to maxListed entries, followed by a fixed
// remediation hint.
func Print(w io.Writer, res *Result) {
	if res.PerfectMatch() {
		fmt.Fprintln(w, " "+goterm.Color("✨ Perfect Match! Source and Destination are identical.", goterm.GREEN))
		return
	}

	rule := goterm.Bold("------------------------------------------------------------")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, " "+goterm.Bold("Audit Report"))
	fmt.Fprintln(w, rule)

	if len(res.Missing) > 0 {
		heading := fmt.Sprintf("❌ MISSING in Dest (%d files):", len(res.Missing))
		fmt.Fprintln(w, " "+goterm.Color(heading, goterm.RED))
		fmt.Fprintln(w, "    (These failed to copy or were skipped)")
		printTruncated(w, res.Missing)
	}

	if len(res.Extra) > 0 {
		heading := fmt.Sprintf("⚠️  EXTRA in Dest (%d files):", len(res.Extra))
		fmt.Fprintln(w, " "+goterm.Color(heading, goterm.YELLOW))
		fmt.Fprintln(w, "    (These exist in Dest but not Source)")
		printTruncated(w, res.Extra)
	}

	fmt.Fprintln(w, " "+goterm.Bold("Tip:")+" Use --delete to remove extras, or check errors for missing files.")
}

func printTruncated(w io.Writer, paths []string) {
	for i, p := range paths {
		if i == maxListed {
			break
		}
		fmt.Fprintf(w, "    - %s\n", p)
	}
	if extra := len(paths) - maxListed; extra > 0 {
		fmt.Fprintf(w, "    ... and %d more.\n", extra)
	}
	fmt.Fprintln(w)
}
