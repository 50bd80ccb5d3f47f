package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Bucket is a Cloud Storage (Firebase Storage) bucket.
type Bucket struct {
	client *gcs.Client
	bucket *gcs.BucketHandle
}

// Open connects to a bucket using a service-account key file. An empty path
// falls back to application default credentials.
func Open(ctx context.Context, bucket, credentialsFile string) (*Bucket, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &Bucket{
		client: client,
		bucket: client.Bucket(bucket),
	}, nil
}

// Exists reports whether an object is stored at path.
func (b *Bucket) Exists(ctx context.Context, path string) (bool, error) {
	_, err := b.bucket.Object(path).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return true, nil
}

// Upload writes data to path, replacing any existing object.
func (b *Bucket) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	w := b.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}

// SignedURL mints a V4 GET URL for path that expires after ttl.
func (b *Bucket) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	url, err := b.bucket.SignedURL(path, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", path, err)
	}
	return url, nil
}

// List returns up to limit object names under prefix.
func (b *Bucket) List(ctx context.Context, prefix string, limit int) ([]string, error) {
	it := b.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})

	var names []string
	for limit <= 0 || len(names) < limit {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func (b *Bucket) Close() error {
	return b.client.Close()
}
