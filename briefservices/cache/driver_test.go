package cache_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lunagic/brief/briefservices/cache"
	"gotest.tools/v3/assert"
)

func testCase(t *testing.T, driver cache.Driver) {
	key := uuid.NewString()
	value := uuid.NewString()

	{ // Missing keys
		_, err := driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}

	{ // Set and read back
		assert.NilError(t, driver.Set(t.Context(), key, value, time.Second*30))

		actualValue, err := driver.Get(t.Context(), key)
		assert.NilError(t, err)
		assert.Equal(t, actualValue, value)
	}

	{ // Overwrite
		assert.NilError(t, driver.Set(t.Context(), key, "replaced", time.Second*30))

		actualValue, err := driver.Get(t.Context(), key)
		assert.NilError(t, err)
		assert.Equal(t, actualValue, "replaced")
	}

	{ // Delete
		assert.NilError(t, driver.Delete(t.Context(), key))

		_, err := driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)

		// Deleting again is not an error
		assert.NilError(t, driver.Delete(t.Context(), key))
	}

	{ // Expiration
		key = uuid.NewString()
		value = uuid.NewString()

		assert.NilError(t, driver.Set(t.Context(), key, value, time.Second*1))

		actualValue, err := driver.Get(t.Context(), key)
		assert.NilError(t, err)
		assert.Equal(t, actualValue, value)

		time.Sleep(time.Second * 2)

		_, err = driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}
}
