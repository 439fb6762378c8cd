package blobstore

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedStore wraps a Store with a byte-based token bucket, keeping
// remote reads and writes from saturating the network path.
type RateLimitedStore struct {
	inner   Store
	limiter *rate.Limiter
}

// WithRateLimit wraps store so that combined read and write throughput stays
// below bytesPerSec, with a burst of the same size.
func WithRateLimit(store Store, bytesPerSec int) *RateLimitedStore {
	return &RateLimitedStore{
		inner:   store,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

// Open opens a blob whose reads draw from the token bucket.
func (s *RateLimitedStore) Open(ctx context.Context, name string) (Blob, error) {
	blob, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &rateLimitedBlob{inner: blob, limiter: s.limiter, ctx: ctx}, nil
}

// Put writes a blob after reserving its size from the token bucket.
func (s *RateLimitedStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.waitN(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// waitN blocks until n bytes of budget are available. Requests beyond the
// burst size are split so they can never dead-lock the limiter.
func (s *RateLimitedStore) waitN(ctx context.Context, n int) error {
	burst := s.limiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

type rateLimitedBlob struct {
	inner   Blob
	limiter *rate.Limiter
	ctx     context.Context
}

func (b *rateLimitedBlob) ReadAt(p []byte, off int64) (int, error) {
	burst := b.limiter.Burst()
	for budget := len(p); budget > 0; {
		chunk := min(budget, burst)
		if err := b.limiter.WaitN(b.ctx, chunk); err != nil {
			return 0, err
		}
		budget -= chunk
	}
	return b.inner.ReadAt(p, off)
}

func (b *rateLimitedBlob) Close() error { return b.inner.Close() }

func (b *rateLimitedBlob) Size() int64 { return b.inner.Size() }
