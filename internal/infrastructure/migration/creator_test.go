package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add skill tags", "add_skill_tags"},
		{"Add-Skill-Tags", "add_skill_tags"},
		{"add__skill__tags", "add_skill_tags"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	t.Run("numbers the first migration 000001", func(t *testing.T) {
		mf, err := CreateMigration(dir, "create catalog")
		require.NoError(t, err)
		assert.Equal(t, "000001", mf.Version)
		assert.FileExists(t, mf.UpPath)
		assert.FileExists(t, mf.DownPath)
		assert.Equal(t, filepath.Join(dir, "000001_create_catalog.up.sql"), mf.UpPath)
	})

	t.Run("continues after the highest version", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_manual.up.sql"), nil, 0o644))
		mf, err := CreateMigration(dir, "add sort order")
		require.NoError(t, err)
		assert.Equal(t, "000008", mf.Version)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := CreateMigration(dir, "!!!")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory is empty", func(t *testing.T) {
		list, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("lists repository migrations", func(t *testing.T) {
		list, err := ListMigrations(filepath.Join("..", "..", "..", "migrations", "postgres"))
		require.NoError(t, err)
		assert.Contains(t, list, "000001_create_catalog")
	})
}
