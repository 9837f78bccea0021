// Package testutil starts real databases and redis in containers for the
// integration tests and the cmd/testcontainers helper.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/localnerve/resonance/internal/config"
	"github.com/localnerve/resonance/internal/database"
	"github.com/localnerve/resonance/internal/logger"
)

// Image environment variables. An unset image skips the matching tests.
const (
	EnvPostgresImage = "TEST_POSTGRES_IMAGE"
	EnvMariaDBImage  = "TEST_MARIADB_IMAGE"
	EnvRedisImage    = "TEST_REDIS_IMAGE"
)

const (
	testDatabase = "resonance"
	testUser     = "resonance"
	testPassword = "resonance-test"
)

// DatabaseContainer is a started database and the config that reaches it
type DatabaseContainer struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Terminate stops the container, logging rather than failing
func (dc *DatabaseContainer) Terminate(t *testing.T) {
	if dc == nil || dc.Container == nil {
		return
	}
	if err := dc.Container.Terminate(context.Background()); err != nil {
		logMessage(t, "Failed to terminate database: %v", err)
	}
}

// RedisContainer is a started redis
type RedisContainer struct {
	Container testcontainers.Container
	Addr      string
}

// Terminate stops the container
func (rc *RedisContainer) Terminate(t *testing.T) {
	if rc == nil || rc.Container == nil {
		return
	}
	if err := rc.Container.Terminate(context.Background()); err != nil {
		logMessage(t, "Failed to terminate redis: %v", err)
	}
}

// RequireImage skips t in -short mode or when envVar names no image
func RequireImage(t *testing.T, envVar string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	img := os.Getenv(envVar)
	if img == "" {
		t.Skipf("%s not set", envVar)
	}
	return img
}

// StartDatabase runs img as dbType (postgres, mysql or mariadb) and waits
// until the engine accepts connections.
func StartDatabase(ctx context.Context, t *testing.T, dbType, img string) (*DatabaseContainer, error) {
	portNumber := "5432"
	if dbType != "postgres" {
		portNumber = "3306"
	}
	tcpPort, err := nat.NewPort("tcp", portNumber)
	if err != nil {
		return nil, fmt.Errorf("create db port: %w", err)
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        img,
			ExposedPorts: []string{string(tcpPort)},
			Env:          dbInitEnv(dbType),
			WaitingFor:   wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", dbType, err)
	}
	dc := &DatabaseContainer{Container: ctr}

	host, err := ctr.Host(ctx)
	if err != nil {
		dc.Terminate(t)
		return nil, fmt.Errorf("db host: %w", err)
	}
	mapped, err := ctr.MappedPort(ctx, tcpPort)
	if err != nil {
		dc.Terminate(t)
		return nil, fmt.Errorf("db port: %w", err)
	}

	dc.Config = &config.Config{
		DBType:            dbType,
		DBHost:            host,
		DBPort:            mapped.Port(),
		DBDatabase:        testDatabase,
		DBUser:            testUser,
		DBPassword:        testPassword,
		DBConnectionLimit: 10,
		DBLogLevel:        "silent",
		Timezone:          "UTC",
	}

	if err := waitForDatabase(ctx, dc.Config, 30*time.Second); err != nil {
		dc.Terminate(t)
		return nil, err
	}
	logMessage(t, "%s testcontainer ready at %s:%s", dbType, host, mapped.Port())
	return dc, nil
}

// StartRedis runs img and returns its host address
func StartRedis(ctx context.Context, t *testing.T, img string) (*RedisContainer, error) {
	tcpPort, err := nat.NewPort("tcp", "6379")
	if err != nil {
		return nil, fmt.Errorf("create redis port: %w", err)
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        img,
			ExposedPorts: []string{string(tcpPort)},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start redis: %w", err)
	}
	rc := &RedisContainer{Container: ctr}

	host, err := ctr.Host(ctx)
	if err != nil {
		rc.Terminate(t)
		return nil, fmt.Errorf("redis host: %w", err)
	}
	mapped, err := ctr.MappedPort(ctx, tcpPort)
	if err != nil {
		rc.Terminate(t)
		return nil, fmt.Errorf("redis port: %w", err)
	}
	rc.Addr = fmt.Sprintf("%s:%s", host, mapped.Port())
	logMessage(t, "REDIS_ADDR=%s", rc.Addr)
	return rc, nil
}

// ImageExists reports whether img is already present in the local docker
// image store.
func ImageExists(ctx context.Context, img string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, summary := range images {
		for _, tag := range summary.RepoTags {
			if tag == img {
				return true, nil
			}
		}
	}
	return false, nil
}

func dbInitEnv(dbType string) map[string]string {
	switch dbType {
	case "postgres":
		return map[string]string{
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_USER":     testUser,
			"POSTGRES_DB":       testDatabase,
		}
	default:
		return map[string]string{
			"MYSQL_ROOT_PASSWORD": testPassword,
			"MYSQL_DATABASE":      testDatabase,
			"MYSQL_USER":          testUser,
			"MYSQL_PASSWORD":      testPassword,
		}
	}
}

// waitForDatabase retries until the server answers a ping; the port opens
// before the init scripts finish.
func waitForDatabase(ctx context.Context, cfg *config.Config, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		db, err := database.Connect(cfg, logger.NewNop())
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				dbErr = sqlDB.PingContext(ctx)
			}
			_ = database.Close(db)
			if dbErr == nil {
				return nil
			}
			err = dbErr
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("%s not ready after %s: %w", cfg.DBType, timeout, lastErr)
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
