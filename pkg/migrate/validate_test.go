package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

const wellFormed = `-- +goose Up
CREATE TABLE widgets (id uuid PRIMARY KEY);

-- +goose Down
DROP TABLE widgets;
`

func TestValidateDirAcceptsWellFormedMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250815100000_init_schema.sql", wellFormed)
	writeMigration(t, dir, "20250902093000_add_widget_color.sql", `-- +goose Up
ALTER TABLE widgets ADD COLUMN color text;

-- +goose Down
ALTER TABLE widgets DROP COLUMN color;
`)

	require.NoError(t, ValidateDir(dir))
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_init.sql", wellFormed)

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration filename")
}

func TestValidateDirRejectsMissingDownHeader(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250815100000_init_schema.sql", "-- +goose Up\nCREATE TABLE widgets (id uuid PRIMARY KEY);\n")

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "+goose Down")
}

func TestValidateDirRejectsDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250815100000_init_schema.sql", wellFormed)
	writeMigration(t, dir, "20250815100000_init_schema_again.sql", wellFormed)

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version")
}

func TestValidateDirRejectsTableCreatedTwice(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250815100000_init_schema.sql", wellFormed)
	writeMigration(t, dir, "20250916120000_second_init.sql", `-- +goose Up
CREATE TABLE IF NOT EXISTS widgets (id uuid PRIMARY KEY);

-- +goose Down
DROP TABLE widgets;
`)

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `table "widgets"`)
}

func TestValidateDirIgnoresDropInDownSection(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250815100000_init_schema.sql", wellFormed)
	// A Down section re-creating a table during rollback must not count as a
	// second creation of it.
	writeMigration(t, dir, "20250916120000_replace_widgets.sql", `-- +goose Up
ALTER TABLE widgets ADD COLUMN color text;

-- +goose Down
DROP TABLE widgets;
CREATE TABLE widgets (id uuid PRIMARY KEY);
`)

	require.NoError(t, ValidateDir(dir))
}

// The shipped migrations must bootstrap a fresh database in one pass: exactly
// one generation of the schema, with every table created once.
func TestShippedMigrationsFormOneSchemaGeneration(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))

	entries, err := os.ReadDir("migrations")
	require.NoError(t, err)

	var initCount, deliveryCount int
	for _, e := range entries {
		b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
		require.NoError(t, err)
		txt := string(b)
		if strings.Contains(txt, "CREATE TABLE users") {
			initCount++
		}
		if strings.Contains(txt, "ADD COLUMN delivery_price") {
			deliveryCount++
		}
	}
	assert.Equal(t, 1, initCount, "users table must be created by exactly one migration")
	assert.Equal(t, 1, deliveryCount, "delivery_price must be added by exactly one migration")
}
