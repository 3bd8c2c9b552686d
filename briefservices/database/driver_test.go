package database_test

import (
	"testing"

	"github.com/lunagic/brief/briefquery"
	"github.com/lunagic/brief/briefservices/database"
	"gotest.tools/v3/assert"
)

var createTestTable = map[string]string{
	"sqlite": `CREATE TABLE test (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(255) NOT NULL DEFAULT '',
		age INTEGER NOT NULL DEFAULT 0
	)`,
	"mysql": `CREATE TABLE test (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		age BIGINT NOT NULL DEFAULT 0
	)`,
	"postgres": `CREATE TABLE test (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		age BIGINT NOT NULL DEFAULT 0
	)`,
}

func testSuite(t *testing.T, driver database.Driver) {
	service, err := database.New(driver)
	assert.NilError(t, err)
	t.Cleanup(func() {
		_ = service.Close()
	})

	assert.NilError(t, service.Ping())

	_, err = service.ExecuteUpdate(t.Context(), createTestTable[driver.Name()])
	assert.NilError(t, err)

	ids := []int64{}
	{ // Insert through the service
		for _, values := range []map[string]any{
			{"name": "alpha", "age": 10},
			{"name": "beta", "age": 20},
			{"name": "gamma", "age": 30},
		} {
			id, err := service.Insert(t.Context(), "test", values)
			assert.NilError(t, err)
			ids = append(ids, id)
		}

		assert.Assert(t, ids[0] > 0)
		assert.Assert(t, ids[1] > ids[0])
		assert.Assert(t, ids[2] > ids[1])
	}

	{ // Insert with an inlined quote through the query builder
		id, err := briefquery.NewQuery(service).From("test").Insert(t.Context(), map[string]any{
			"name": `o'brien \ back`,
			"age":  40,
		})
		assert.NilError(t, err)

		row, err := briefquery.NewQuery(service).
			From("test").
			Where(briefquery.Equals("id", id)).
			One(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, row["name"], `o'brien \ back`)

		deleted, err := service.Delete(t.Context(), "test", map[string]any{"id": id})
		assert.NilError(t, err)
		assert.Equal(t, deleted, int64(1))
	}

	{ // Slice arguments expand
		rows, err := service.ExecuteQuery(
			t.Context(),
			"SELECT name FROM test WHERE id IN (?) ORDER BY id ASC",
			[]int64{ids[0], ids[2]},
		)
		assert.NilError(t, err)
		assert.DeepEqual(t, rows, []database.Row{
			{"name": "alpha"},
			{"name": "gamma"},
		})
	}

	{ // Parameterized select
		builder := briefquery.NewSelect(service, "test").
			Fields("id,name,age").
			Condition("age", 15, ">").
			OrderBy("id", "DESC").
			Limit(1)

		row, err := builder.FindOne(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, row["name"], "gamma")
		assert.Equal(t, row["age"], any(int64(30)))

		count, err := builder.FindCount(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, count, int64(2))
	}

	{ // Inline query with aggregates
		query := briefquery.NewQuery(service).
			From("test").
			Where(briefquery.Compare("name", "in", "alpha", "beta"))

		count, err := query.Count(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, count, int64(2))

		minimum, err := query.Min(t.Context(), "id")
		assert.NilError(t, err)
		assert.Equal(t, minimum, any(ids[0]))

		rows, err := query.OrderBy("id asc").Limit(1).Offset(1).All(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, len(rows), 1)
		assert.Equal(t, rows[0]["name"], "beta")
	}

	{ // Updates report affected rows
		affected, err := service.ExecuteUpdate(t.Context(), "UPDATE test SET age = ? WHERE age >= ?", 99, 20)
		assert.NilError(t, err)
		assert.Equal(t, affected, int64(2))
	}

	{ // Refuse an unconditional delete
		_, err := service.Delete(t.Context(), "test", map[string]any{})
		assert.ErrorIs(t, err, briefquery.ErrUnconditionalDelete)
	}

	{ // Delete with the parameterized builder
		deleted, err := briefquery.NewDelete(service, "test").
			Condition("age", 99).
			Execute(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, deleted, int64(2))

		remaining, err := briefquery.NewSelect(service, "test").FindAll(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, len(remaining), 1)
		assert.Equal(t, remaining[0]["name"], "alpha")
	}

	{ // Blank statements
		_, err := service.ExecuteQuery(t.Context(), "  ")
		assert.ErrorIs(t, err, database.ErrBlankQuery)
	}
}
