package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipreport/internal/errors"
	"shipreport/internal/shared/testutil"
)

func TestFileValidator_ValidateInputFile(t *testing.T) {
	tests := []struct {
		name      string
		path func(t *testing.T) string
		wantErr   bool
	}{
		{
			name: "existing file",
			path: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "data.json")
				require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))
				return path
			},
		},
		{
			name: "missing file",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "data.json")
			},
			wantErr: true,
		},
		{
			name: "directory",
			path: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			validator := NewFileValidator(logger)

			err := validator.ValidateInputFile(tt.path(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeIO))
				assert.NotEmpty(t, logs.AtLevel(slog.LevelError))
				return
			}
			require.NoError(t, err)
			testutil.AssertNoErrors(t, logs)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "reports", "daily")
		require.NoError(t, validator.ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "probe file should be removed")
	})

	t.Run("path blocked by file", func(t *testing.T) {
		base := t.TempDir()
		blocked := filepath.Join(base, "blocked")
		require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

		err := validator.ValidateOutputDirectory(filepath.Join(blocked, "reports"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeIO))
	})
}

func TestFileValidator_ValidateOutputFiles(t *testing.T) {
	base := t.TempDir()
	validator := NewFileValidator(nil)

	err := validator.ValidateOutputFiles(
		filepath.Join(base, "output.csv"),
		filepath.Join(base, "stats", "delivery_stats.csv"),
		"",
	)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(base, "stats"))
}
