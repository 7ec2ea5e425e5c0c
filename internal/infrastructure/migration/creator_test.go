package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes an up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "Add Lead Score Column", "score column on leads")
		require.NoError(t, err)

		assert.Len(t, mf.Version, 14)
		assert.True(t, strings.HasSuffix(mf.UpPath, "_add_lead_score_column.up.sql"))
		assert.True(t, strings.HasSuffix(mf.DownPath, "_add_lead_score_column.down.sql"))

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "score column on leads")

		_, err = os.Stat(mf.DownPath)
		require.NoError(t, err)
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")

		mf, err := CreateMigration(dir, "init", "")
		require.NoError(t, err)
		assert.FileExists(t, mf.UpPath)
	})

	t.Run("pairs sort by creation order", func(t *testing.T) {
		dir := t.TempDir()

		first, err := CreateMigration(dir, "first", "")
		require.NoError(t, err)
		second, err := CreateMigration(dir, "second", "")
		require.NoError(t, err)

		assert.LessOrEqual(t, first.Version, second.Version)
	})
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Add Lead Score":     "add_lead_score",
		"add-lead-score":     "add_lead_score",
		"  spaced   out  ":   "spaced_out",
		"Drop!!Weird##Chars": "dropweirdchars",
		"already_snake":      "already_snake",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), in)
	}
}
