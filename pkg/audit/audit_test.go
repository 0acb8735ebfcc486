package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micahcheng/smart-rsync/internal/rsyncbin"
)

type stubRules []string

func (s stubRules) Args() []string { return s }

func TestRunClassifiesOutput(t *testing.T) {
	restore := combinedOutput
	defer func() { combinedOutput = restore }()

	var gotPath string
	var gotArgs []string
	combinedOutput = func(ctx context.Context, path string, args []string) ([]byte, error) {
		gotPath = path
		gotArgs = args
		out := "sending incremental file list\n" +
			"*deleting   stale/old.txt\n" +
			">f+++++++++ fresh/new.txt\n" +
			">f..t...... touched.txt\n"
		return []byte(out), nil
	}

	tool := rsyncbin.Tool{Path: "/usr/local/bin/rsync", Modern: true}
	r := NewRunner(tool, stubRules{"--exclude=.DS_Store"})

	res, err := r.Run(context.Background(), "/data/Pictures", "/backup")
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/rsync", gotPath)
	assert.Contains(t, gotArgs, "--exclude=.DS_Store")
	assert.Equal(t, "/data/Pictures/", gotArgs[len(gotArgs)-2])
	assert.Equal(t, "/backup/Pictures/", gotArgs[len(gotArgs)-1])

	assert.Equal(t, []string{"fresh/new.txt"}, res.Missing)
	assert.Equal(t, []string{"stale/old.txt"}, res.Extra)
}

func TestRunNonZeroExitWithOutputIsUsable(t *testing.T) {
	restore := combinedOutput
	defer func() { combinedOutput = restore }()

	combinedOutput = func(ctx context.Context, path string, args []string) ([]byte, error) {
		return []byte(">f+++++++++ a.txt\n"), fmt.Errorf("exit status 23")
	}

	r := NewRunner(rsyncbin.Tool{Path: "rsync"}, stubRules(nil))
	res, err := r.Run(context.Background(), "/src/", "/dst")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, res.Missing)
}

func TestRunFailureWithoutOutput(t *testing.T) {
	restore := combinedOutput
	defer func() { combinedOutput = restore }()

	combinedOutput = func(ctx context.Context, path string, args []string) ([]byte, error) {
		return nil, fmt.Errorf("executable file not found")
	}

	r := NewRunner(rsyncbin.Tool{Path: "rsync"}, stubRules(nil))
	_, err := r.Run(context.Background(), "/src/", "/dst")
	assert.Error(t, err)
}

func TestRunDecodesPermissively(t *testing.T) {
	restore := combinedOutput
	defer func() { combinedOutput = restore }()

	combinedOutput = func(ctx context.Context, path string, args []string) ([]byte, error) {
		return []byte(">f+++++++++ caf\xe9.txt\n"), nil
	}

	r := NewRunner(rsyncbin.Tool{Path: "rsync"}, stubRules(nil))
	res, err := r.Run(context.Background(), "/src/", "/dst")
	require.NoError(t, err)
	assert.Equal(t, []string{"caf�.txt"}, res.Missing)
}
