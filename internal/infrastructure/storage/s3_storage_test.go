package storage

import (
	"context"
	"testing"

	"github.com/consignmentgenie/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ============================================================================
// Unit Tests (no external dependencies)
// ============================================================================

func TestNewS3PhotoStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3PhotoStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		}
		_, err := NewS3PhotoStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:          "test-bucket",
			SecretAccessKey: "test-secret",
		}
		_, err := NewS3PhotoStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:      "test-bucket",
			AccessKeyID: "test-key",
		}
		_, err := NewS3PhotoStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			Region:          "us-west-2",
		}
		store, err := NewS3PhotoStorage(cfg, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "test-bucket", store.GetBucket())
	})
}

func TestS3PhotoStorage_PublicURL(t *testing.T) {
	t.Run("uses configured base URL", func(t *testing.T) {
		store, err := NewS3PhotoStorage(&config.StorageConfig{
			Bucket:          "photos",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			PublicBaseURL:   "https://cdn.example.com/",
		})
		require.NoError(t, err)

		assert.Equal(t, "https://cdn.example.com/items/abc/1.jpg", store.PublicURL("items/abc/1.jpg"))
	})

	t.Run("derives base URL from custom endpoint", func(t *testing.T) {
		store, err := NewS3PhotoStorage(&config.StorageConfig{
			Bucket:          "photos",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			Endpoint:        "http://localhost:9000",
		})
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:9000/photos/items/abc/1.jpg", store.PublicURL("items/abc/1.jpg"))
	})

	t.Run("derives virtual-hosted AWS URL without endpoint", func(t *testing.T) {
		store, err := NewS3PhotoStorage(&config.StorageConfig{
			Bucket:          "photos",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			Region:          "us-west-2",
		})
		require.NoError(t, err)

		assert.Equal(t, "https://photos.s3.us-west-2.amazonaws.com/items/abc/1.jpg", store.PublicURL("items/abc/1.jpg"))
	})
}

func TestS3PhotoStorage_StorageKey(t *testing.T) {
	store, err := NewS3PhotoStorage(&config.StorageConfig{
		Bucket:          "photos",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		PublicBaseURL:   "https://cdn.example.com",
	})
	require.NoError(t, err)

	t.Run("round trips with PublicURL", func(t *testing.T) {
		key, err := store.StorageKey(store.PublicURL("items/abc/1.jpg"))
		require.NoError(t, err)
		assert.Equal(t, "items/abc/1.jpg", key)
	})

	t.Run("rejects foreign URLs", func(t *testing.T) {
		_, err := store.StorageKey("https://elsewhere.example.com/items/abc/1.jpg")
		assert.Error(t, err)
	})
}

func TestS3PhotoStorage_Upload_ValidationOnly(t *testing.T) {
	store, err := NewS3PhotoStorage(&config.StorageConfig{
		Bucket:          "photos",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
	})
	require.NoError(t, err)

	err = store.Upload(context.Background(), "", []byte("data"), "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage key is required")
}

func TestS3PhotoStorage_DeleteObject_ValidationOnly(t *testing.T) {
	store, err := NewS3PhotoStorage(&config.StorageConfig{
		Bucket:          "photos",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
	})
	require.NoError(t, err)

	err = store.DeleteObject(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage key is required")
}
