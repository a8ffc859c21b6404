package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add orders table", "add_orders_table"},
		{"Add-Shop-Grants", "add_shop_grants"},
		{"CREATE_SYNC_RECORDS", "create_sync_records"},
		{"add__event__logs", "add_event_logs"},
		{"Index Orders 2", "index_orders_2"},
		{"   spaces   ", "spaces"},
		{"drop!@#$legacy", "droplegacy"},
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

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add orders table", "orders with optimistic lock version")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// version sorts chronologically: YYYYMMDDHHMMSS
	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add orders table")
	assert.Contains(t, string(upContent), "orders with optimistic lock version")
	assert.Contains(t, string(upContent), "Write your UP migration SQL here")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback")
	assert.Contains(t, string(downContent), "Write your DOWN migration SQL here")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	mf, err := CreateMigration(nested, "add shop grants", "grant table for shop access")
	require.NoError(t, err)
	require.NotNil(t, mf)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"000001_init_schema.up.sql",
		"000001_init_schema.down.sql",
		"000002_add_orders.up.sql",
		"000002_add_orders.down.sql",
		"000003_add_shop_grants.up.sql",
		"000003_add_shop_grants.down.sql",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_init_schema",
		"000002_add_orders",
		"000003_add_shop_grants",
	}, migrations)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "never_created"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_IgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()

	for _, f := range []string{
		"000001_init.up.sql",
		"000001_init.down.sql",
		"README.md",
		"schema.dump",
		".gitkeep",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
	}
	// a directory with a migration-looking name must not be listed
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init"}, migrations)
}
