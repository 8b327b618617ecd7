//go:build integration

package dbtest

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo starts a throwaway MongoDB container and returns a fresh database.
// Requires a reachable Docker daemon.
func Mongo(t testing.TB) *mongo.Database {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		t.Fatalf("could not start mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := "mongodb://localhost:" + resource.GetPort("27017/tcp")

	var client *mongo.Client
	pool.MaxWait = 60 * time.Second
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return err
		}
		if err := c.Ping(ctx, nil); err != nil {
			_ = c.Disconnect(context.Background())
			return err
		}
		client = c
		return nil
	}); err != nil {
		t.Fatalf("mongo not ready: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client.Database("intake_test")
}

// MinIO starts a throwaway MinIO container and returns its endpoint and
// root credentials.
func MinIO(t testing.TB) (endpoint, accessKey, secretKey string) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}

	accessKey, secretKey = "minio", "minio123"
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "RELEASE.2024-01-31T20-20-33Z",
		Cmd:        []string{"server", "/data"},
		Env: []string{
			"MINIO_ROOT_USER=" + accessKey,
			"MINIO_ROOT_PASSWORD=" + secretKey,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		t.Fatalf("could not start minio: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	endpoint = "http://localhost:" + resource.GetPort("9000/tcp")
	if err := pool.Retry(func() error {
		resp, err := http.Get(endpoint + "/minio/health/live")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("minio not ready: %d", resp.StatusCode)
		}
		return nil
	}); err != nil {
		t.Fatalf("minio not ready: %v", err)
	}

	return endpoint, accessKey, secretKey
}
