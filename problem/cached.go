package problem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const getProblemCacheKeyPrefix = "problem_get:"

// CachedCatalog memoizes lookups of another catalog. Missing problems are
// cached too so that invalid payloads don't hammer the database.
type CachedCatalog struct {
	next    Catalog
	cache   *cache.Cache
	sfGroup singleflight.Group
}

type cachedLookup struct {
	problem Problem
	missing bool
}

func NewCachedCatalog(next Catalog, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedCatalog) GetProblem(ctx context.Context, id string) (Problem, error) {
	key := fmt.Sprintf("%s%s", getProblemCacheKeyPrefix, id)
	if v, found := c.cache.Get(key); found {
		return unpackLookup(v.(cachedLookup))
	}

	res, err, _ := c.sfGroup.Do(key, func() (interface{}, error) {
		if v, found := c.cache.Get(key); found {
			return v.(cachedLookup), nil
		}
		p, err := c.next.GetProblem(ctx, id)
		if errors.Is(err, ErrProblemNotFound) {
			lookup := cachedLookup{missing: true}
			c.cache.SetDefault(key, lookup)
			return lookup, nil
		}
		if err != nil {
			return nil, err
		}
		lookup := cachedLookup{problem: p}
		c.cache.SetDefault(key, lookup)
		return lookup, nil
	})
	if err != nil {
		return Problem{}, err
	}
	return unpackLookup(res.(cachedLookup))
}

// Forget drops a cached lookup, e.g. after the problem was created.
func (c *CachedCatalog) Forget(id string) {
	c.cache.Delete(fmt.Sprintf("%s%s", getProblemCacheKeyPrefix, id))
}

func unpackLookup(l cachedLookup) (Problem, error) {
	if l.missing {
		return Problem{}, ErrProblemNotFound
	}
	return l.problem, nil
}
