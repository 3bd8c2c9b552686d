package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewDriverMemory keeps entries in process. Expired entries are swept every
// sweepInterval until ctx is done.
func NewDriverMemory(ctx context.Context, sweepInterval time.Duration) Driver {
	driver := &driverMemory{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}

	if sweepInterval > 0 {
		go driver.sweepUntilDone(ctx, sweepInterval)
	}

	return driver
}

type driverMemory struct {
	mutex   sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func (driver *driverMemory) Delete(ctx context.Context, key string) error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	delete(driver.entries, key)

	return nil
}

func (driver *driverMemory) Get(ctx context.Context, key string) (string, error) {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	entry, found := driver.entries[key]
	if !found || !driver.now().Before(entry.expiresAt) {
		return "", ErrNotFound
	}

	return entry.value, nil
}

func (driver *driverMemory) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	driver.entries[key] = memoryEntry{
		value:     value,
		expiresAt: driver.now().Add(ttl),
	}

	return nil
}

func (driver *driverMemory) sweepUntilDone(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			driver.sweep()
		}
	}
}

func (driver *driverMemory) sweep() {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	now := driver.now()
	for key, entry := range driver.entries {
		if now.Before(entry.expiresAt) {
			continue
		}

		delete(driver.entries, key)
	}
}
