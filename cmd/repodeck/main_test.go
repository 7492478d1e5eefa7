package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/repodeck/internal/scan"
)

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"scan", "refresh", "list", "stats", "batch", "cache", "serve", "status"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestScanFlags(t *testing.T) {
	for _, flag := range []string{"add", "force", "plain"} {
		assert.NotNil(t, scanCmd.Flags().Lookup(flag), "flag %q missing", flag)
	}
}

func TestDescribeScanError(t *testing.T) {
	t.Run("lock busy", func(t *testing.T) {
		err := describeScanError(scan.ErrScanInFlight)
		assert.Contains(t, err.Error(), "already running")
	})

	t.Run("conflict suggests force", func(t *testing.T) {
		conflict := scan.Classify("/a", []string{"/a/b"})
		require.NotNil(t, conflict)

		err := describeScanError(&scan.ConflictError{Conflict: *conflict})
		assert.Contains(t, err.Error(), "--force")
	})

	t.Run("other errors pass through", func(t *testing.T) {
		cause := errors.New("boom")
		assert.Equal(t, cause, describeScanError(cause))
	})
}
