package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReportOmitsVerdictWhenAuditSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	report := AuditReport{Missing: []string{}, Extra: []string{}, Mismatched: []string{}}
	require.NoError(t, writeReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "perfect_match")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	summary, ok := decoded["summary"].(map[string]any)
	require.True(t, ok)
	_, present := summary["perfect_match"]
	assert.False(t, present)
}

func TestWriteReportKeepsVerdictWhenAuditRan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	perfect := false
	report := AuditReport{
		Missing:    []string{"a.txt"},
		Extra:      []string{},
		Mismatched: []string{},
		Summary:    ReportSummary{Missing: 1, PerfectMatch: &perfect},
	}
	require.NoError(t, writeReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"perfect_match": false`))
}
