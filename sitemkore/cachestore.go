package sitemkore

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore puts an LRU read cache in front of a backing [Store]. Useful
// with a [DirStore] when builds check many keys that rarely change, so that
// repeated freshness checks do not reread record files.
type CachedStore struct {
	back  Store
	cache *lru.Cache[Key, *Record]
}

var _ Store = (*CachedStore)(nil)

func NewCachedStore(back Store, size int) (*CachedStore, error) {
	c, err := lru.New[Key, *Record](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{back: back, cache: c}, nil
}

func (s *CachedStore) Get(k Key) (*Record, error) {
	if rec, ok := s.cache.Get(k); ok {
		return rec, nil
	}
	rec, err := s.back.Get(k)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		s.cache.Add(k, rec)
	}
	return rec, nil
}

func (s *CachedStore) Set(k Key, r *Record) error {
	if err := s.back.Set(k, r); err != nil {
		return err
	}
	s.cache.Add(k, r)
	return nil
}
