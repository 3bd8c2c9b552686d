package briefquery_test

import (
	"testing"

	"github.com/lunagic/brief/briefservices/database"
	"github.com/lunagic/brief/brieftest"
	"gotest.tools/v3/assert"
)

const createTestTable = `CREATE TABLE test (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(255) NOT NULL DEFAULT '',
	age INTEGER NOT NULL DEFAULT 0,
	uid INTEGER NOT NULL DEFAULT 0,
	created VARCHAR(32) NOT NULL DEFAULT ''
)`

// newTestService opens a fresh SQLite database holding an empty test table.
func newTestService(t *testing.T) *database.Service {
	t.Helper()

	service := brieftest.SQLite(t)
	_, err := service.ExecuteUpdate(t.Context(), createTestTable)
	assert.NilError(t, err)

	return service
}

func insertRows(t *testing.T, service *database.Service, rows ...map[string]any) []int64 {
	t.Helper()

	ids := []int64{}
	for _, row := range rows {
		id, err := service.Insert(t.Context(), "test", row)
		assert.NilError(t, err)
		ids = append(ids, id)
	}

	return ids
}
