package brieftest

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"testing"

	"github.com/ory/dockertest"
)

type DockerServiceConfig[T any] struct {
	DockerImage    string
	DockerImageTag string
	InternalPort   int
	Environment    map[string]string
	Builder        func(host string, port int) (T, error)
}

func (config DockerServiceConfig[T]) Env() []string {
	env := []string{}
	for k, v := range config.Environment {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	return env
}

// GetDockerService starts a container for the life of the test and retries
// Builder until it succeeds. Skipped with -short.
func GetDockerService[T any](
	t *testing.T,
	config DockerServiceConfig[T],
) T {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping long-running test in short mode.")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Could not construct pool: %s", err)
	}

	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Docker is not available: %s", err)
	}

	resource, err := pool.Run(
		config.DockerImage,
		config.DockerImageTag,
		config.Env(),
	)
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("Could not purge resource: %s", err)
		}
	})

	host, port, err := splitHostPort(resource.GetHostPort(fmt.Sprintf("%d/tcp", config.InternalPort)))
	if err != nil {
		t.Fatalf("Error parsing container address: %s", err)
	}

	// A remote daemon serves the mapped ports on its own address
	if dockerHost := os.Getenv("DOCKER_HOST"); dockerHost != "" {
		u, err := url.Parse(dockerHost)
		if err != nil {
			t.Fatalf("Error parsing docker URL: %s", err)
		}
		if u.Hostname() != "" {
			host = u.Hostname()
		}
	}

	var service T
	if err := pool.Retry(func() error {
		var err error
		service, err = config.Builder(host, port)
		return err
	}); err != nil {
		t.Fatalf("Could not connect to service: %s", err)
	}

	return service
}

func splitHostPort(hostPort string) (string, int, error) {
	u, err := url.Parse("tcp://" + hostPort)
	if err != nil {
		return "", 0, err
	}

	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return "", 0, err
	}

	return u.Hostname(), port, nil
}
