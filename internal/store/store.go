// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/tidwall/gjson"

	"github.com/tfctl/nodectl/internal/log"
	"github.com/tfctl/nodectl/internal/nodes"
)

// DefaultCacheSize is the number of search results kept by default.
const DefaultCacheSize = 64

// Store holds the records of one kind in arrival order.
type Store struct {
	mu       sync.RWMutex
	kind     *nodes.Kind
	accessor *nodes.Accessor
	items    []gjson.Result
	selected []string
	active   string
	revision uint64
	cache    *lru.Cache
}

// Option tunes a Store.
type Option func(*options)

type options struct {
	cacheSize int
	accessor  []nodes.AccessorOption
}

// WithCacheSize sets how many search results are memoized.
func WithCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithAccessorOptions passes options to the record accessor, e.g.
// nodes.WithTags.
func WithAccessorOptions(opts ...nodes.AccessorOption) Option {
	return func(o *options) {
		o.accessor = append(o.accessor, opts...)
	}
}

// New returns an empty store for kind.
func New(kind *nodes.Kind, opts ...Option) (*Store, error) {
	o := options{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	cache, err := lru.New(o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	return &Store{
		kind:     kind,
		accessor: kind.NewAccessor(o.accessor...),
		cache:    cache,
	}, nil
}

// Kind returns the kind of records held.
func (s *Store) Kind() *nodes.Kind {
	return s.kind
}

// Accessor returns the accessor used for searches.
func (s *Store) Accessor() *nodes.Accessor {
	return s.accessor
}

// Load replaces the records.
func (s *Store) Load(records []gjson.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.Clone(records)
	s.bump()
}

// Items returns a copy of the records.
func (s *Store) Items() []gjson.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get finds a record by primary key.
func (s *Store) Get(id string) (gjson.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return gjson.Result{}, false
}

// Revision increases every time the records or the selection change.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// SetSelected replaces the selected primary keys.
func (s *Store) SetSelected(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = slices.Clone(ids)
	s.bump()
}

// ToggleSelected adds id to the selection or removes it.
func (s *Store) ToggleSelected(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.selected, id); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
	} else {
		s.selected = append(s.selected, id)
	}
	s.bump()
}

// Selected returns the selected primary keys.
func (s *Store) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selected)
}

// SetActive marks the record with primary key id as active. An empty id
// clears it.
func (s *Store) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = id
}

// Active returns the active record, if any.
func (s *Store) Active() (gjson.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == "" {
		return gjson.Result{}, false
	}
	if i := s.indexOf(s.active); i >= 0 {
		return s.items[i], true
	}
	return gjson.Result{}, false
}

// Search returns the records matching terms against the current selection.
// Results are memoized until the records or the selection change.
func (s *Store) Search(terms string) []gjson.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if terms == "" {
		return slices.Clone(s.items)
	}

	key := fmt.Sprintf("%d\x00%s\x00%s", s.revision, terms, strings.Join(s.selected, "\x00"))
	if cached, ok := s.cache.Get(key); ok {
		log.Tracef("search cache hit: terms=%q", terms)
		return slices.Clone(cached.([]gjson.Result))
	}

	result := s.accessor.Engine().FilterItems(s.items, terms, s.selected)
	result = slices.Clone(result)
	s.cache.Add(key, result)
	log.Tracef("search cache miss: terms=%q, found=%d", terms, len(result))

	return slices.Clone(result)
}

// bump invalidates memoized searches. Callers hold the write lock.
func (s *Store) bump() {
	s.revision++
	s.cache.Purge()
}

// indexOf returns the position of the record with primary key id. Callers
// hold a lock.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item gjson.Result) bool {
		return s.accessor.PrimaryKey(item) == id
	})
}
