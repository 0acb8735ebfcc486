// Package logging configures diagnostic logging and prints the end-of-run
// summary.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/buger/goterm"
	"github.com/sirupsen/logrus"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info
// and above.
const verboseLogKey = "SMART_RSYNC_LOG_VERBOSE"

// Setup configures logrus for the CLI. Diagnostics go to stderr so they
// never disturb the status area on stdout.
func Setup() {
	logrus.SetOutput(os.Stderr)
	if os.Getenv(verboseLogKey) == "true" {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// PrintSummary prints the transfer summary: elapsed time, then either the
// collected error list, a success confirmation, or the unexpected exit
// code.
func PrintSummary(w io.Writer, elapsed time.Duration, exitCode int, errs []string) {
	rule := goterm.Bold("============================================================")

	fmt.Fprintf(w, "\n\n%s\n", rule)
	fmt.Fprintln(w, " "+goterm.Bold("Summary"))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, " Time Taken: %.1fs\n", elapsed.Seconds())

	switch {
	case len(errs) > 0:
		fmt.Fprintln(w, " "+goterm.Color(fmt.Sprintf("Errors Found: %d", len(errs)), goterm.RED))
		fmt.Fprintln(w, " ------------------------------------------------------------")
		for _, e := range errs {
			fmt.Fprintf(w, " - %s\n", e)
		}
		fmt.Fprintln(w, " ------------------------------------------------------------")
		fmt.Fprintln(w, " "+goterm.Color("⚠️  Sync finished with errors. Please review above.", goterm.YELLOW))
	case exitCode == 0:
		fmt.Fprintln(w, " "+goterm.Color("✅ Sync Completed Successfully.", goterm.GREEN))
	default:
		fmt.Fprintln(w, " "+goterm.Color(fmt.Sprintf("❌ Rsync exited with code %d", exitCode), goterm.RED))
	}
}
