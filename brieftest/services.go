package brieftest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/lunagic/brief/briefservices/cache"
	"github.com/lunagic/brief/briefservices/database"
)

// SQLite opens a service on a fresh database file under t.TempDir().
func SQLite(t *testing.T, configFuncs ...database.ServiceConfigFunc) *database.Service {
	t.Helper()

	service, err := database.New(
		database.NewDriverSQLite(filepath.Join(t.TempDir(), "database.sqlite")),
		configFuncs...,
	)
	if err != nil {
		t.Fatalf("Could not open sqlite: %s", err)
	}

	t.Cleanup(func() {
		_ = service.Close()
	})

	return service
}

func MySQL(t *testing.T, image string, tag string) database.Driver {
	name := uuid.NewString()
	pass := uuid.NewString()
	user := uuid.NewString()[0:32] // MySQL can't have usernames longer than 32 characters

	return GetDockerService(
		t,
		DockerServiceConfig[database.Driver]{
			DockerImage:    image,
			DockerImageTag: tag,
			InternalPort:   3306,
			Environment: map[string]string{
				"MYSQL_ROOT_PASSWORD": uuid.NewString(),
				"MYSQL_PASSWORD":      pass,
				"MYSQL_DATABASE":      name,
				"MYSQL_USER":          user,
			},
			Builder: func(host string, port int) (database.Driver, error) {
				driver := database.NewDriverMySQL(database.DriverMySQLConfig{
					Host: host,
					Port: port,
					User: user,
					Pass: pass,
					Name: name,
				})

				return driver, ping(driver)
			},
		},
	)
}

func Postgres(t *testing.T, image string, tag string) database.Driver {
	name := uuid.NewString()
	pass := uuid.NewString()
	user := uuid.NewString()

	return GetDockerService(
		t,
		DockerServiceConfig[database.Driver]{
			DockerImage:    image,
			DockerImageTag: tag,
			InternalPort:   5432,
			Environment: map[string]string{
				"POSTGRES_PASSWORD": pass,
				"POSTGRES_USER":     user,
				"POSTGRES_DB":       name,
			},
			Builder: func(host string, port int) (database.Driver, error) {
				driver := database.NewDriverPostgres(database.DriverPostgresConfig{
					Host: host,
					Port: port,
					User: user,
					Pass: pass,
					Name: name,
				})

				return driver, ping(driver)
			},
		},
	)
}

// Redis starts any image that speaks the redis protocol.
func Redis(t *testing.T, image string, tag string) cache.Driver {
	return GetDockerService(
		t,
		DockerServiceConfig[cache.Driver]{
			DockerImage:    image,
			DockerImageTag: tag,
			InternalPort:   6379,
			Builder: func(host string, port int) (cache.Driver, error) {
				driver := cache.NewDriverRedis(cache.DriverRedisConfig{
					Host: host,
					Port: port,
				})

				return driver, cache.Ping(context.Background(), driver)
			},
		},
	)
}

func ping(driver database.Driver) error {
	db, err := driver.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	return db.Ping()
}
