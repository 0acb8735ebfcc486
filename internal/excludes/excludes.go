// Package excludes resolves the ignore files and patterns passed to rsync,
// and applies the same rules in-process for the verification pass.
package excludes

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/micahcheng/smart-rsync/pkg/fnmatch"
)

const ignoreFileName = ".smart-rsyncignore"

// DefaultPatterns is used when no ignore file is found anywhere.
var DefaultPatterns = []string{
	"Photos Library.photoslibrary",
	".DS_Store",
}

var fs = afero.NewOsFs()

// executablePath is swapped in tests.
var executablePath = os.Executable

// Rules is the resolved exclusion configuration for one run.
type Rules struct {
	// Files are ignore files passed to rsync via --exclude-from, global
	// first.
	Files []string

	// Extra are CLI-supplied patterns, matched with doublestar globs.
	Extra []string

	// ignorePatterns are the lines loaded from Files, or DefaultPatterns
	// when no file was found. Matched with fnmatch.
	ignorePatterns []string

	usingDefaults bool
}

// Resolve locates the ignore files for a run. The first existing global
// candidate (beside the executable, then in the home directory) and the
// first existing local candidate (inside the source tree) are both used;
// when neither exists the hardcoded default set applies.
func Resolve(sourceDir string, extra []string) (Rules, error) {
	rules := Rules{Extra: extra}

	if global := firstExisting(globalCandidates()); global != "" {
		rules.Files = append(rules.Files, global)
	}
	if local := firstExisting(localCandidates(sourceDir)); local != "" {
		rules.Files = append(rules.Files, local)
	}

	if len(rules.Files) == 0 {
		rules.ignorePatterns = DefaultPatterns
		rules.usingDefaults = true
		logrus.Debug("no ignore file found, using default excludes")
		return rules, nil
	}

	for _, f := range rules.Files {
		patterns, err := loadPatterns(f)
		if err != nil {
			return Rules{}, fmt.Errorf("read ignore file %s: %w", f, err)
		}
		rules.ignorePatterns = append(rules.ignorePatterns, patterns...)
	}

	logrus.WithField("files", rules.Files).Debug("resolved ignore files")
	return rules, nil
}

// Args renders the rules as rsync arguments.
func (r Rules) Args() []string {
	var args []string
	for _, f := range r.Files {
		args = append(args, "--exclude-from="+f)
	}
	if r.usingDefaults {
		for _, p := range DefaultPatterns {
			args = append(args, "--exclude="+p)
		}
	}
	for _, p := range r.Extra {
		args = append(args, "--exclude="+p)
	}
	return args
}

// Match reports whether a slash-separated relative path is excluded. Ignore
// file lines match like rsync patterns (against the full path and every
// component); CLI patterns match as doublestar globs against the full path.
func (r Rules) Match(relPath string) (bool, error) {
	base := filepath.Base(relPath)
	for _, p := range r.ignorePatterns {
		for _, candidate := range []string{relPath, base} {
			ok, err := fnmatch.Match(p, candidate)
			if err != nil {
				return false, fmt.Errorf("match pattern %q: %w", p, err)
			}
			if ok {
				return true, nil
			}
		}
	}

	for _, p := range r.Extra {
		ok, err := doublestar.Match(p, relPath)
		if err != nil {
			return false, fmt.Errorf("match pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

func globalCandidates() []string {
	var candidates []string

	if exe, err := executablePath(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, ignoreFileName),
			filepath.Join(dir, ".gitignore"),
		)
	}

	if home, err := homedir.Dir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ignoreFileName))
	}

	return candidates
}

func localCandidates(sourceDir string) []string {
	dir := strings.TrimRight(sourceDir, "/")
	if dir == "" {
		dir = "/"
	}
	return []string{
		filepath.Join(dir, ignoreFileName),
		filepath.Join(dir, ".gitignore"),
	}
}

func firstExisting(candidates []string) string {
	for _, c := range candidates {
		if ok, err := afero.Exists(fs, c); err == nil && ok {
			return c
		}
	}
	return ""
}

func loadPatterns(path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}
