package cache_test

import (
	"testing"

	"github.com/lunagic/brief/brieftest"
)

func TestDriverRedis(t *testing.T) {
	t.Parallel()
	testCase(t, brieftest.Redis(t, "redis", "latest"))
}

func TestDriverValkey(t *testing.T) {
	t.Parallel()
	testCase(t, brieftest.Redis(t, "valkey/valkey", "latest"))
}
