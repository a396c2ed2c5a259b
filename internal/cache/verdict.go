package cache

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/veritas/internal/metrics"
	"github.com/ppiankov/veritas/internal/model"
)

// ComputeFunc produces a verdict for a claim on a cache miss. A failed
// computation is not cached.
type ComputeFunc func(ctx context.Context) (*model.Verdict, error)

// VerdictCache memoizes one verdict per claim fingerprint. Concurrent
// misses on the same fingerprint share a single computation.
type VerdictCache struct {
	store  Store
	prefix string
	group  singleflight.Group
	logger *zap.Logger
}

// NewVerdictCache creates a verdict cache over store. A nil store uses a
// fresh memory store.
func NewVerdictCache(store Store, prefix string, logger *zap.Logger) *VerdictCache {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerdictCache{
		store:  store,
		prefix: prefix,
		logger: logger,
	}
}

// Lookup returns the cached verdict for claim, if any
func (c *VerdictCache) Lookup(ctx context.Context, claim string) (*model.Verdict, bool) {
	fp := model.Fingerprint(claim)
	entry, found, err := c.store.Get(ctx, Key(c.prefix, fp))
	if err != nil {
		c.logger.Warn("verdict cache lookup failed",
			zap.String("claim_fingerprint", fp),
			zap.Error(err))
		return nil, false
	}
	if !found || entry.Verdict == nil {
		return nil, false
	}
	return entry.Verdict, true
}

// GetOrCompute returns the cached verdict for claim or computes and stores
// it. The boolean reports a cache hit. Store failures are logged and the
// computed verdict is returned uncached; compute errors are returned as is.
func (c *VerdictCache) GetOrCompute(ctx context.Context, claim string, compute ComputeFunc) (*model.Verdict, bool, error) {
	if v, ok := c.Lookup(ctx, claim); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		c.logger.Debug("verdict cache hit", zap.String("claim_fingerprint", v.Fingerprint))
		return v, true, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	fp := model.Fingerprint(claim)
	key := Key(c.prefix, fp)

	res, err, shared := c.group.Do(key, func() (interface{}, error) {
		// A concurrent flight may have finished between Lookup and Do
		if v, ok := c.Lookup(ctx, claim); ok {
			return v, nil
		}

		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		stored, err := c.store.Add(ctx, key, &Entry{Verdict: v})
		if err != nil {
			c.logger.Warn("verdict cache store failed",
				zap.String("claim_fingerprint", fp),
				zap.Error(err))
		}
		if stored != nil && stored.Verdict != nil {
			return stored.Verdict, nil
		}
		return v, nil
	})

	if err != nil {
		return nil, false, err
	}
	if shared {
		c.logger.Debug("verdict computation shared", zap.String("claim_fingerprint", fp))
	}
	return res.(*model.Verdict), false, nil
}

// Len reports the number of cached verdicts
func (c *VerdictCache) Len(ctx context.Context) int {
	n, err := c.store.Len(ctx)
	if err != nil {
		c.logger.Warn("verdict cache size unavailable", zap.Error(err))
		return 0
	}
	return n
}
