package rsyncbin

import "strings"

// TransferSpec describes a single transfer invocation.
type TransferSpec struct {
	Source string
	Dest   string
	DryRun bool
	Delete bool

	// ExcludeArgs are fully-formed --exclude / --exclude-from arguments.
	ExcludeArgs []string
}

// TransferArgs builds the rsync argument list for a transfer. Modern rsync
// gets archive mode plus machine-readable total progress; legacy rsync falls
// back to plain recursive/links/times flags without progress reporting.
//
// The source is passed verbatim: a trailing separator means "copy contents",
// no separator means "copy the folder itself". Trailing separators on the
// destination are stripped.
func (t Tool) TransferArgs(spec TransferSpec) []string {
	var args []string
	if t.Modern {
		args = append(args, "-a", "--partial", "--no-perms", "--no-owner", "--no-group", "--info=progress2", "-v")
	} else {
		args = append(args, "-r", "-l", "-t", "-v", "--partial", "--no-perms", "--no-owner", "--no-group")
	}

	if spec.DryRun {
		args = append(args, "-n")
	}

	args = append(args, spec.ExcludeArgs...)

	if spec.Delete {
		args = append(args, "--delete")
	}

	args = append(args, spec.Source, stripTrailingSeparators(spec.Dest))
	return args
}

// AuditArgs builds the non-mutating itemized invocation used to diff the two
// trees. --delete with -n reports destination-only files without removing
// them.
func (t Tool) AuditArgs(sourceRoot, destRoot string, excludeArgs []string) []string {
	args := []string{"-a", "-n", "-v", "-i", "--delete", "--ignore-errors", "--force"}
	args = append(args, excludeArgs...)
	args = append(args, sourceRoot, destRoot)
	return args
}

func stripTrailingSeparators(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}
