// Package verify deep-compares files present in both trees by checksum.
// It runs after the audit, which already covers missing and extra files;
// this pass catches silent content drift the itemized diff ignores.
package verify

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/micahcheng/smart-rsync/internal/checksum"
)

const defaultConcurrency = 8

// hashFile checksums one file. Swapped in tests.
var hashFile = checksum.FileSHA256

// Matcher filters walked paths with the run's exclude rules.
type Matcher interface {
	Match(relPath string) (bool, error)
}

// Mismatch is a file whose contents differ between the trees.
type Mismatch struct {
	Path           string
	SourceChecksum string
	DestChecksum   string
}

// Checker compares common files on a bounded worker pool.
type Checker struct {
	rules        Matcher
	concurrency  int
	showProgress bool
	progressOut  io.Writer
}

func NewChecker(rules Matcher, concurrency int, showProgress bool) *Checker {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Checker{rules: rules, concurrency: concurrency, showProgress: showProgress, progressOut: os.Stdout}
}

type pair struct {
	rel  string
	src  string
	dest string
}

// Run walks the source root, pairs every non-excluded file with its
// destination counterpart, and checksums both sides. Files missing on
// either side are skipped here; the audit reports those. Unreadable files
// are logged and skipped rather than failing the pass.
func (c *Checker) Run(ctx context.Context, sourceRoot, destRoot string) ([]Mismatch, error) {
	pairs, err := c.gatherPairs(sourceRoot, destRoot)
	if err != nil {
		return nil, fmt.Errorf("gather files to verify: %w", err)
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	var bar *progressbar.ProgressBar
	if c.showProgress {
		bar = progressbar.NewOptions(len(pairs),
			progressbar.OptionSetWriter(c.progressOut),
			progressbar.OptionUseANSICodes(true),
			progressbar.OptionSetDescription("verifying"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(120*time.Millisecond),
		)
	}

	jobs := make(chan pair, len(pairs))
	results := make(chan *Mismatch, len(pairs))

	var wg sync.WaitGroup
	for i := 0; i < c.concurrency; i++ {
		wg.Add(1)
		go c.worker(ctx, jobs, results, bar, &wg)
	}

	for _, p := range pairs {
		jobs <- p
	}
	close(jobs)

	wg.Wait()
	close(results)

	var mismatches []Mismatch
	for m := range results {
		if m != nil {
			mismatches = append(mismatches, *m)
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(c.progressOut)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(mismatches, func(i, j int) bool {
		return mismatches[i].Path < mismatches[j].Path
	})
	return mismatches, nil
}

func (c *Checker) worker(ctx context.Context, jobs <-chan pair, results chan<- *Mismatch, bar *progressbar.ProgressBar, wg *sync.WaitGroup) {
	defer wg.Done()

	for p := range jobs {
		select {
		case <-ctx.Done():
			results <- nil
			continue
		default:
		}

		results <- c.compare(p)
		// Advance as each file finishes so the bar moves during hashing.
		if bar != nil {
			_ = bar.Add(1)
		}
	}
}

func (c *Checker) compare(p pair) *Mismatch {
	srcSum, err := hashFile(p.src)
	if err != nil {
		logrus.WithError(err).WithField("path", p.src).Warn("skipping unreadable source file")
		return nil
	}

	destSum, err := hashFile(p.dest)
	if err != nil {
		logrus.WithError(err).WithField("path", p.dest).Warn("skipping unreadable destination file")
		return nil
	}

	if srcSum == destSum {
		return nil
	}

	return &Mismatch{Path: p.rel, SourceChecksum: srcSum, DestChecksum: destSum}
}

func (c *Checker) gatherPairs(sourceRoot, destRoot string) ([]pair, error) {
	var pairs []pair

	err := filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(sourceRoot, path)
		if err != nil {
			return fmt.Errorf("get relative path: %w", err)
		}
		rel = filepath.ToSlash(rel)

		excluded, err := c.rules.Match(rel)
		if err != nil {
			return err
		}
		if excluded {
			return nil
		}

		destPath := filepath.Join(destRoot, rel)
		info, err := os.Stat(destPath)
		if err != nil || !info.Mode().IsRegular() {
			// Missing on the destination side: the audit's territory.
			return nil
		}

		pairs = append(pairs, pair{rel: rel, src: path, dest: destPath})
		return nil
	})

	return pairs, err
}
