// Package rsyncbin locates the rsync executable, detects its version, and
// builds the argument lists for transfer and audit invocations.
package rsyncbin

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/sirupsen/logrus"
)

// candidatePaths is ordered by preference. Homebrew builds carry the
// machine-readable progress support that the rsync bundled with macOS lacks.
var candidatePaths = []string{
	"/opt/homebrew/bin/rsync",
	"/usr/local/bin/rsync",
	"/usr/bin/rsync",
}

// minProgressVersion is the first rsync release that understands
// --info=progress2.
var minProgressVersion = goversion.Must(goversion.NewVersion("3.1.0"))

var versionPattern = regexp.MustCompile(`version\s+(\d+\.\d+(?:\.\d+)?)`)

// versionOutput runs `rsync --version`. Swapped in tests.
var versionOutput = func(path string) ([]byte, error) {
	return exec.Command(path, "--version").Output()
}

// statPath checks whether a candidate exists and is executable. Swapped in
// tests.
var statPath = func(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Tool describes the rsync executable resolved at startup. It is constructed
// once and passed into both the transfer and audit runners.
type Tool struct {
	Path    string
	Version *goversion.Version

	// Modern is true when the executable supports --info=progress2.
	Modern bool
}

// Detect resolves the rsync executable and its version. An explicit override
// path skips candidate discovery but still goes through version detection.
func Detect(override string) (Tool, error) {
	path := override
	if path == "" {
		path = discover()
	}

	tool := Tool{Path: path}

	out, err := versionOutput(path)
	if err != nil {
		return Tool{}, fmt.Errorf("probe rsync version: %w", err)
	}

	v, err := parseVersion(string(out))
	if err != nil {
		return Tool{}, err
	}

	tool.Version = v
	tool.Modern = v.GreaterThanOrEqual(minProgressVersion)

	logrus.WithFields(logrus.Fields{
		"path":    tool.Path,
		"version": tool.Version.String(),
		"modern":  tool.Modern,
	}).Debug("resolved rsync executable")

	return tool, nil
}

func discover() string {
	for _, p := range candidatePaths {
		info, err := statPath(p)
		if err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
			return p
		}
	}

	if p, err := exec.LookPath("rsync"); err == nil {
		return p
	}

	// Let the eventual exec fail with a useful error.
	return "rsync"
}

func parseVersion(out string) (*goversion.Version, error) {
	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return nil, fmt.Errorf("unrecognized rsync version output: %q", firstLine(out))
	}

	v, err := goversion.NewVersion(m[1])
	if err != nil {
		return nil, fmt.Errorf("parse rsync version %q: %w", m[1], err)
	}
	return v, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
