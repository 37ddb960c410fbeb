package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Applying migrations needs a live database; only argument validation and
// the bad-source path are covered here.
func TestRunMigrations(t *testing.T) {
	t.Run("EmptyDatabaseURL", func(t *testing.T) {
		err := RunMigrations("", "migrations/postgres")
		assert.EqualError(t, err, "database URL cannot be empty")
	})

	t.Run("EmptyMigrationsPath", func(t *testing.T) {
		err := RunMigrations("postgres://localhost/ledger", "")
		assert.EqualError(t, err, "migrations path cannot be empty")
	})

	t.Run("MissingMigrationsDirectory", func(t *testing.T) {
		err := RunMigrations("postgres://localhost/ledger", "/nonexistent/migrations")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "migrate instance")
	})
}
