package network

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultRegion is set on the client so that presigning doesn't need
// a bucket location lookup.
const DefaultRegion = "us-east-1"

// Presigner creates time-limited download links for restored bags.
// Depositors fetch restorations directly from the restore bucket.
type Presigner struct {
	client *minio.Client
	expiry time.Duration
}

// NewS3Client returns a minio client for the specified host. Use
// NewWithOptions to force path-style bucket lookup.
func NewS3Client(host, keyID, secret string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(keyID, secret, ""),
		Secure:       useSSL,
		Region:       DefaultRegion,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("Cannot create S3 client for %s: %w", host, err)
	}
	return client, nil
}

func NewPresigner(client *minio.Client, expiry time.Duration) *Presigner {
	return &Presigner{
		client: client,
		expiry: expiry,
	}
}

// PresignedGetURL returns a URL through which anyone holding it can
// download bucket/key until the presigner's expiry passes.
func (p *Presigner) PresignedGetURL(ctx context.Context, bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("Presigned URL requires bucket and key (got '%s', '%s')", bucket, key)
	}
	u, err := p.client.PresignedGetObject(ctx, bucket, key, p.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("Cannot presign %s/%s: %w", bucket, key, err)
	}
	return u.String(), nil
}
