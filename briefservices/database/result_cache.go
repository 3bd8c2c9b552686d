package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/lunagic/brief/briefservices/cache"
)

type resultCache struct {
	driver     cache.Driver
	prefix     string
	ttl        time.Duration
	generation atomic.Uint64
}

func newResultCache(driver cache.Driver, prefix string, ttl time.Duration) *resultCache {
	return &resultCache{
		driver: driver,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *resultCache) key(statement string, args []any) string {
	digest := xxhash.New()
	_, _ = fmt.Fprintf(digest, "%d\x00%s", c.generation.Load(), statement)
	for _, arg := range args {
		_, _ = fmt.Fprintf(digest, "\x00%T:%v", arg, arg)
	}

	return fmt.Sprintf("%s-%016x", c.prefix, digest.Sum64())
}

// get reports a miss for anything it cannot read back, including driver
// errors.
func (c *resultCache) get(ctx context.Context, statement string, args []any) ([]Row, bool) {
	value, err := c.driver.Get(ctx, c.key(statement, args))
	if err != nil {
		return nil, false
	}

	rows, err := decodeRows(value)
	if err != nil {
		return nil, false
	}

	return rows, true
}

func (c *resultCache) set(ctx context.Context, statement string, args []any, rows []Row) error {
	jsonBytes, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	return c.driver.Set(ctx, c.key(statement, args), string(jsonBytes), c.ttl)
}

func (c *resultCache) invalidate() {
	c.generation.Add(1)
}

// decodeRows reads cached rows back. Whole numbers come back as int64 and
// everything else as the JSON decoder sees it.
func decodeRows(value string) ([]Row, error) {
	decoder := json.NewDecoder(bytes.NewBufferString(value))
	decoder.UseNumber()

	rows := []Row{}
	if err := decoder.Decode(&rows); err != nil {
		return nil, err
	}

	for _, row := range rows {
		for column, v := range row {
			number, isNumber := v.(json.Number)
			if !isNumber {
				continue
			}

			if i, err := number.Int64(); err == nil {
				row[column] = i
				continue
			}

			f, err := number.Float64()
			if err != nil {
				return nil, err
			}
			row[column] = f
		}
	}

	return rows, nil
}
