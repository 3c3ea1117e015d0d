package errors_test

import (
	"os"
	"path/filepath"
	"testing"

	pickyerrors "github.com/Aman-CERP/picky/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrorWrapping_SnapshotMissing verifies a filesystem read failure is
// wrapped with snapshot-load context and preserves the original cause.
func TestErrorWrapping_SnapshotMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.db")

	_, readErr := os.ReadFile(path)
	require.Error(t, readErr)

	wrapped := pickyerrors.SnapshotMissingError("failed to load snapshot: "+path, readErr)

	assert.Contains(t, wrapped.Error(), path)
	assert.ErrorIs(t, wrapped, readErr)
	assert.True(t, pickyerrors.IsFatal(wrapped))
}

// TestErrorWrapping_ConfigInvalid verifies config parse failures keep the
// underlying cause reachable via errors.Unwrap.
func TestErrorWrapping_ConfigInvalid(t *testing.T) {
	cause := os.ErrInvalid

	wrapped := pickyerrors.ConfigError("malformed index config", cause)

	require.NotNil(t, wrapped)
	assert.Equal(t, cause, wrapped.Cause)
	assert.False(t, pickyerrors.IsFatal(wrapped))
}
