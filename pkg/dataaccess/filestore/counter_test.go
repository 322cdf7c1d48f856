package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterFirstCallReturnsOne(t *testing.T) {
	dir := t.TempDir()
	c := NewCounter(dir)

	got, err := c.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

func TestCounterMonotonic(t *testing.T) {
	dir := t.TempDir()
	c := NewCounter(dir)

	for want := 1; want <= 5; want++ {
		got, err := c.Next(context.Background())
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestCounterPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	got, err := NewCounter(dir).Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, got)

	// A fresh instance reads the same file.
	got, err = NewCounter(dir).Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

func TestCounterCorruptFileResets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CounterFileName), []byte("not a number"), 0o644))

	got, err := NewCounter(dir).Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

func TestCounterFileFormat(t *testing.T) {
	dir := t.TempDir()
	c := NewCounter(dir)

	_, err := c.Next(context.Background())
	require.NoError(t, err)
	_, err = c.Next(context.Background())
	require.NoError(t, err)

	// The file holds the last issued number as plain text.
	b, err := os.ReadFile(filepath.Join(dir, CounterFileName))
	require.NoError(t, err)
	require.Equal(t, "2", string(b))
}
