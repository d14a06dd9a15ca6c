package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInput = `type, client, tx, amount
deposit, 1, 1, 1.0
deposit, 2, 2, 2.0
deposit, 1, 3, 2.0
withdrawal, 1, 4, 1.5
withdrawal, 2, 5, 3.0
`

const sampleOutput = `client,available,held,total,locked
1,1.5000,0.0000,1.5000,false
2,2.0000,0.0000,2.0000,false
`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_WritesSnapshotToStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--app-env", "production", writeInput(t, sampleInput)}, &stdout, &stderr)

	assert.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, sampleOutput, stdout.String())
}

func TestRun_WritesSnapshotToFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	output := filepath.Join(t.TempDir(), "accounts.csv")
	code := run([]string{"-o", output, writeInput(t, sampleInput)}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	assert.Empty(t, stdout.String())

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, sampleOutput, string(written))
}

func TestRun_MissingPathIsUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "Usage: ledger")
	assert.Empty(t, stdout.String())
}

func TestRun_UnknownFlagIsUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--no-such-flag", "x.csv"}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
}

func TestRun_UnreadableInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "missing.csv")}, &stdout, &stderr)

	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr.String(), "Failed to open input")
	assert.Empty(t, stdout.String())
}
