package database_test

import (
	"path/filepath"
	"testing"

	"github.com/lunagic/brief/briefservices/database"
)

func TestSQLite(t *testing.T) {
	t.Parallel()
	testSuite(t, database.NewDriverSQLite(filepath.Join(t.TempDir(), "database.sqlite")))
}
