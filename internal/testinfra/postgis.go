//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"geofeatures/internal/config"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DefaultPostGISImage = "postgis/postgis:16-3.4-alpine"
	DefaultPostgresPort = "5432"

	DefaultUser     = "postgres"
	DefaultPassword = "postgres"
	DefaultDatabase = "postgis_35"
)

// PostGISContainer is a running PostGIS instance together with the
// connection settings pointing at it.
type PostGISContainer struct {
	testcontainers.Container
	Server   config.PostgresServer
	Password string
}

// DSN returns the keyword connection string for the container.
func (c *PostGISContainer) DSN() string {
	return c.Server.DSN(c.Password)
}

// SkipIfNoDocker skips the test when the Docker daemon is not reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := exec.CommandContext(ctx, "docker", "info").Run(); err != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// NewPostGISContainer starts a PostGIS container and waits until it accepts
// connections.
func NewPostGISContainer(ctx context.Context) (*PostGISContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultPostGISImage,
		ExposedPorts: []string{DefaultPostgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     DefaultUser,
			"POSTGRES_PASSWORD": DefaultPassword,
			"POSTGRES_DB":       DefaultDatabase,
		},
		// The entrypoint restarts the server once after running init scripts.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(DefaultPostgresPort+"/tcp"),
		).WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultPostgresPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("parse mapped port: %w", err)
	}

	return &PostGISContainer{
		Container: container,
		Server: config.PostgresServer{
			Host:         host,
			Port:         portNum,
			Username:     DefaultUser,
			DBname:       DefaultDatabase,
			SSLmode:      "disable",
			Migrate:      true,
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			MaxLifetime:  time.Minute,
			DriverName:   "postgres",
		},
		Password: DefaultPassword,
	}, nil
}

// StartPostGIS starts a container for the duration of t.
func StartPostGIS(t *testing.T) *PostGISContainer {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	c, err := NewPostGISContainer(ctx)
	if err != nil {
		t.Fatalf("start postgis: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	return c
}
