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
		{"create returns table", "create_returns_table"},
		{"Add-Receipt-Index", "add_receipt_index"},
		{"CREATE_PRODUCT_UNITS", "create_product_units"},
		{"add__device__registry", "add_device_registry"},
		{"Backfill Sales 2025", "backfill_sales_2025"},
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

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add returns index", "index return_records by store and device")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// Version prefix is the 14-digit creation timestamp.
	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_returns_index.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_returns_index.down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "-- Migration: add returns index")
	assert.Contains(t, string(upContent), "index return_records by store and device")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "(Rollback)")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	mf, err := CreateMigration(nested, "create receipts", "receipts table")
	require.NoError(t, err)
	require.NotNil(t, mf)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"20250301000001_create_products.up.sql",
		"20250301000001_create_products.down.sql",
		"20250301000002_create_sales.up.sql",
		"20250301000002_create_sales.down.sql",
		"20250301000003_create_returns.up.sql",
		"20250301000003_create_returns.down.sql",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- sql"), 0644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20250301000001_create_products",
		"20250301000002_create_sales",
		"20250301000003_create_returns",
	}, migrations)
}

func TestListMigrations_EmptyDirectory(t *testing.T) {
	migrations, err := ListMigrations(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"20250301000001_create_products.up.sql",
		"20250301000001_create_products.down.sql",
		"README.md",
		"schema.dump",
		".gitkeep",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20250301000001_create_products"}, migrations)
}
