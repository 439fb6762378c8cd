// Package cli holds the plumbing shared by the command line tools.
package cli

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/packedrtree/blobstore"
	minioblob "github.com/hupe1980/packedrtree/blobstore/minio"
	s3blob "github.com/hupe1980/packedrtree/blobstore/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StoreFor resolves a tree location to a blob store and the blob name
// within it:
//
//	s3://bucket/key              Amazon S3 (default AWS credential chain)
//	minio://endpoint/bucket/key  MinIO (credentials from MINIO_* env vars)
//	anything else                local file path
//
// rateLimit > 0 caps remote store throughput in bytes per second; local
// paths are never rate limited.
func StoreFor(ctx context.Context, location string, rateLimit int) (blobstore.Store, string, error) {
	switch {
	case strings.HasPrefix(location, "s3://"):
		bucket, key, err := splitObjectURL(location)
		if err != nil {
			return nil, "", err
		}
		store, err := s3blob.New(ctx, bucket)
		if err != nil {
			return nil, "", err
		}
		return maybeLimit(store, rateLimit), key, nil

	case strings.HasPrefix(location, "minio://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, "", fmt.Errorf("bad minio url %q: %w", location, err)
		}
		bucket, key, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if !ok || bucket == "" || key == "" {
			return nil, "", fmt.Errorf("bad minio url %q: want minio://endpoint/bucket/key", location)
		}
		client, err := minio.New(u.Host, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: u.Query().Get("insecure") != "true",
		})
		if err != nil {
			return nil, "", err
		}
		return maybeLimit(minioblob.NewStore(client, bucket, ""), rateLimit), key, nil

	default:
		dir, name := filepath.Split(location)
		if dir == "" {
			dir = "."
		}
		return blobstore.NewLocalStore(dir), name, nil
	}
}

func splitObjectURL(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("bad object url %q: %w", location, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("bad object url %q: want %s://bucket/key", location, u.Scheme)
	}
	return u.Host, key, nil
}

func maybeLimit(store blobstore.Store, rateLimit int) blobstore.Store {
	if rateLimit > 0 {
		return blobstore.WithRateLimit(store, rateLimit)
	}
	return store
}

// FormatResult renders one query result line: "<index> (<count>): <ids...>".
func FormatResult(index int, ids []int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(index))
	sb.WriteString(" (")
	sb.WriteString(strconv.Itoa(len(ids)))
	sb.WriteString("):")
	for _, id := range ids {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}
