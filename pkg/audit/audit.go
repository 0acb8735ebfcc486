package audit

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/micahcheng/smart-rsync/internal/rsyncbin"
)

// combinedOutput runs the audit subprocess and captures stdout and stderr
// together. Swapped in tests.
var combinedOutput = func(ctx context.Context, path string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, path, args...).CombinedOutput()
}

// Runner performs the post-sync audit.
type Runner struct {
	tool  rsyncbin.Tool
	rules excludeArgs
}

type excludeArgs interface {
	Args() []string
}

func NewRunner(tool rsyncbin.Tool, rules excludeArgs) *Runner {
	return &Runner{tool: tool, rules: rules}
}

// Run diffs source against dest. rsync's exit code is ignored as long as it
// produced output: --ignore-errors makes partial listings usable, and the
// audit is advisory anyway. Output bytes are decoded permissively; invalid
// sequences are replaced, never fatal.
func (r *Runner) Run(ctx context.Context, source, dest string) (*Result, error) {
	sourceRoot, destRoot := EffectiveRoots(source, dest)
	args := r.tool.AuditArgs(sourceRoot, destRoot, r.rules.Args())

	logrus.WithField("args", args).Debug("launching rsync audit")

	out, err := combinedOutput(ctx, r.tool.Path, args)
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("run audit: %w", err)
	}

	decoded := strings.ToValidUTF8(string(out), "�")
	return ParseOutput(decoded), nil
}
