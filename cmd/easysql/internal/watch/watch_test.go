package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReactsToWrites(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(file, []byte("tables: []\n"), 0o644))

	var runs atomic.Int32
	w, err := New(file, 20*time.Millisecond, func() error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(file, []byte("tables: []\n# edited\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestInitialRunError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	w, err := New(file, 0, func() error { return assert.AnError })
	require.NoError(t, err)
	assert.ErrorIs(t, w.Run(context.Background()), assert.AnError)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "tables.yaml"), 0, func() error { return nil })
	assert.Error(t, err)
}
