package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/safedocs/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add envelope table", "add_envelope_table"},
		{"Add-Envelope-Table", "add_envelope_table"},
		{"ADD_ENVELOPE_TABLE", "add_envelope_table"},
		{"add__envelope__table", "add_envelope_table"},
		{"Add Index 123", "add_index_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersAfterExisting(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"000001_a.up.sql", "000001_a.down.sql", "000007_b.up.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- x"), 0o644))
	}

	mf, err := CreateMigration(dir, "Add Envelope Index", "speed up envelope lookups")
	require.NoError(t, err)

	assert.Equal(t, uint(8), mf.Version)
	assert.Equal(t, filepath.Join(dir, "000008_add_envelope_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000008_add_envelope_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add_envelope_index")
	assert.Contains(t, string(up), "speed up envelope lookups")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
}

func TestCreateMigration_StartsAtOneInNewDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), mf.Version)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_add_index.up.sql":   {Data: []byte("--")},
		"000001_init.up.sql":        {Data: []byte("--")},
		"000001_init.down.sql":      {Data: []byte("--")},
		"README.md":                 {Data: []byte("docs")},
		"notes.sql":                 {Data: []byte("--")},
		"abc_bad_version.up.sql":    {Data: []byte("--")},
		"subdir/000009_x.up.sql":    {Data: []byte("--")},
		"000003_sideways.other.sql": {Data: []byte("--")},
	}

	got, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Listed{Version: 1, Name: "init", HasDown: true}, got[0])
	assert.Equal(t, Listed{Version: 2, Name: "add_index", HasDown: false}, got[1])
	assert.Equal(t, "000002_add_index", got[1].String())
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	got, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	got, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for i, l := range got {
		assert.Equal(t, uint(i+1), l.Version, "versions are contiguous")
		assert.True(t, l.HasDown, "%s has a down migration", l)
	}
}
