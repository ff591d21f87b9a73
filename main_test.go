package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvelab/arclength/internal/curve"
)

func TestLoadOptionsDefaults(t *testing.T) {
	opts, err := loadOptions("", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, curve.DefaultOptions(), opts)
}

func TestLoadOptionsFlagOverrides(t *testing.T) {
	opts, err := loadOptions("", "m", 0.01, 0.001)
	require.NoError(t, err)
	assert.Equal(t, 0.01, opts.Scale)
	assert.Equal(t, 0.001, opts.ScaleUncertainty)
	assert.Equal(t, "m", opts.Unit)
}

func TestLoadOptionsRejectsBadUnit(t *testing.T) {
	_, err := loadOptions("", "parsec", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsec")
}

// writeLineCSV writes an n-point straight line cloud and returns its path.
func writeLineCSV(t *testing.T, dir, name string, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("x,y\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d,%d\n", i*2, i)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestRunBatchCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeLineCSV(t, dir, "a.csv", 50)
	b := writeLineCSV(t, dir, "b.csv", 30)

	require.NoError(t, runBatch(context.Background(), []string{"-workers", "2", a, b}))
}

func TestRunBatchCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeLineCSV(t, dir, "good.csv", 50)
	bad := writeLineCSV(t, dir, "bad.csv", 1)

	err := runBatch(context.Background(), []string{good, bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 analyses failed")
}

func TestLoadOptionsFlagBeatsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scale": 0.5, "unit": "cm"}`), 0o644))

	opts, err := loadOptions(path, "mm", 0.25, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.25, opts.Scale)
	assert.Equal(t, "mm", opts.Unit)
}
