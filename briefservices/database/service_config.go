package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lunagic/brief/briefservices/cache"
)

type ServiceConfigFunc func(service *Service) error

func WithPostConnectFunc(callback func(db *sql.DB) error) ServiceConfigFunc {
	return func(service *Service) error {
		return callback(service.standardLibraryDB)
	}
}

func WithPreRunFunc(preRunFunc func(ctx context.Context, statement string, args []any) error) ServiceConfigFunc {
	return func(service *Service) error {
		service.preRunFuncs = append(service.preRunFuncs, preRunFunc)
		return nil
	}
}

func WithPostRunFunc(postRunFunc func(ctx context.Context) error) ServiceConfigFunc {
	return func(service *Service) error {
		service.postRunFuncs = append(service.postRunFuncs, postRunFunc)
		return nil
	}
}

func WithLogger(logger *slog.Logger) ServiceConfigFunc {
	return func(service *Service) error {
		service.preRunFuncs = append(service.preRunFuncs, func(ctx context.Context, statement string, args []any) error {
			logger.InfoContext(ctx, "Database Run",
				"driver", service.driver.Name(),
				"statement", statement,
				"args", args,
			)

			return nil
		})
		return nil
	}
}

// WithQueryCache keeps the rows of every query in driver for ttl. Any write
// through the service makes earlier entries unreachable.
func WithQueryCache(driver cache.Driver, prefix string, ttl time.Duration) ServiceConfigFunc {
	return func(service *Service) error {
		service.resultCache = newResultCache(driver, prefix, ttl)
		return nil
	}
}
