// Package search answers city and hotel-name queries over the inventory
// without a full scan. Both indexes are derived data, rebuilt on demand from
// storage; a short-TTL cache absorbs repeated identical queries.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avstrong/hotelhub/internal/hotel"
	"github.com/avstrong/hotelhub/internal/logger"
	"github.com/avstrong/hotelhub/internal/metrics"
	"github.com/karlseguin/ccache/v3"
)

const (
	DefaultCacheTTL = 60 * time.Second
	DefaultLimit    = 50

	cacheMaxEntries = 1000
)

type storage interface {
	AllHotels(ctx context.Context) ([]*hotel.Hotel, error)
}

type Config struct {
	L            *logger.Logger
	Storage      storage
	CacheTTL     time.Duration
	DefaultLimit int
	Metrics      *metrics.SearchMetrics
}

type Query struct {
	City  string
	Name  string
	Limit int
}

type Index struct {
	l            *logger.Logger
	storage      storage
	metrics      *metrics.SearchMetrics
	ttl          time.Duration
	defaultLimit int

	mu         sync.RWMutex
	hotels     map[string]*hotel.Hotel
	hotelOrder []string
	// cityIndex maps a lower-cased city to the hotel ids in it; nameIndex
	// maps each lower-cased name word to the ids whose name contains it.
	cityIndex map[string]map[string]struct{}
	nameIndex map[string]map[string]struct{}

	cache *ccache.Cache[[]*hotel.Hotel]
	scans atomic.Int64
}

func New(conf Config) *Index {
	if conf.CacheTTL <= 0 {
		conf.CacheTTL = DefaultCacheTTL
	}

	if conf.DefaultLimit <= 0 {
		conf.DefaultLimit = DefaultLimit
	}

	//nolint:exhaustruct
	return &Index{
		l:            conf.L,
		storage:      conf.Storage,
		metrics:      conf.Metrics,
		ttl:          conf.CacheTTL,
		defaultLimit: conf.DefaultLimit,
		hotels:       make(map[string]*hotel.Hotel),
		cityIndex:    make(map[string]map[string]struct{}),
		nameIndex:    make(map[string]map[string]struct{}),
		cache:        ccache.New(ccache.Configure[[]*hotel.Hotel]().MaxSize(cacheMaxEntries)),
	}
}

// Rebuild clears and repopulates both indexes from the current storage
// contents. Callers that add or modify hotels must invoke it afterwards.
// The result cache is dropped unconditionally: correctness over cache
// efficiency.
func (idx *Index) Rebuild(ctx context.Context) error {
	hotels, err := idx.storage.AllHotels(ctx)
	if err != nil {
		return fmt.Errorf("list hotels from storage: %w", err)
	}

	idx.mu.Lock()

	idx.hotels = make(map[string]*hotel.Hotel, len(hotels))
	idx.hotelOrder = make([]string, 0, len(hotels))
	idx.cityIndex = make(map[string]map[string]struct{})
	idx.nameIndex = make(map[string]map[string]struct{})

	for _, h := range hotels {
		idx.hotels[h.ID] = h
		idx.hotelOrder = append(idx.hotelOrder, h.ID)

		city := strings.ToLower(h.City)
		if idx.cityIndex[city] == nil {
			idx.cityIndex[city] = make(map[string]struct{})
		}

		idx.cityIndex[city][h.ID] = struct{}{}

		for _, word := range strings.Fields(strings.ToLower(h.Name)) {
			if idx.nameIndex[word] == nil {
				idx.nameIndex[word] = make(map[string]struct{})
			}

			idx.nameIndex[word][h.ID] = struct{}{}
		}
	}

	idx.mu.Unlock()

	idx.cache.Clear()

	idx.l.LogInfo("Search index rebuilt over %v hotels, result cache cleared", len(hotels))

	return nil
}

func cacheKey(q Query) string {
	return fmt.Sprintf("city=%s|name=%s|limit=%d", q.City, q.Name, q.Limit)
}

// Search serves at most q.Limit hotels. A cached result within TTL is
// returned without touching the indexes.
func (idx *Index) Search(_ context.Context, q Query) ([]*hotel.Hotel, error) {
	if q.Limit <= 0 {
		q.Limit = idx.defaultLimit
	}

	idx.metrics.IncServed()

	key := cacheKey(q)

	if item := idx.cache.Get(key); item != nil && !item.Expired() {
		idx.metrics.IncCacheHit()

		return item.Value(), nil
	}

	idx.metrics.IncCacheMiss()

	results := idx.compute(q)
	idx.cache.Set(key, results, idx.ttl)

	return results, nil
}

// Scans reports how many queries were computed over the indexes rather than
// served from the cache.
func (idx *Index) Scans() int64 {
	return idx.scans.Load()
}

func (idx *Index) compute(q Query) []*hotel.Hotel {
	idx.scans.Add(1)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if q.City == "" && q.Name == "" {
		ids := idx.hotelOrder
		if q.Limit < len(ids) {
			ids = ids[:q.Limit]
		}

		return idx.collect(ids)
	}

	var cityIDs map[string]struct{}

	if q.City != "" {
		cityIDs = idx.cityIndex[strings.ToLower(q.City)]
	}

	var nameIDs map[string]struct{}

	if q.Name != "" {
		nameIDs = idx.matchName(q.Name)
	}

	var resultIDs map[string]struct{}

	switch {
	case q.City != "" && q.Name != "":
		resultIDs = intersect(cityIDs, nameIDs)
	case q.City != "":
		resultIDs = cityIDs
	default:
		resultIDs = nameIDs
	}

	// Ids are sorted so that a fixed index state always yields the same
	// result set; the order carries no relevance meaning.
	ids := make([]string, 0, len(resultIDs))
	for id := range resultIDs {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	if q.Limit < len(ids) {
		ids = ids[:q.Limit]
	}

	return idx.collect(ids)
}

// matchName unions hotels over the query words. A hotel matches a query
// word when some indexed word contains it as a substring; the reverse
// direction ("grandiose" against indexed "grand") does not match.
func (idx *Index) matchName(name string) map[string]struct{} {
	out := make(map[string]struct{})

	for _, queryWord := range strings.Fields(strings.ToLower(name)) {
		for indexedWord, ids := range idx.nameIndex {
			if !strings.Contains(indexedWord, queryWord) {
				continue
			}

			for id := range ids {
				out[id] = struct{}{}
			}
		}
	}

	return out
}

func (idx *Index) collect(ids []string) []*hotel.Hotel {
	out := make([]*hotel.Hotel, 0, len(ids))

	for _, id := range ids {
		if h, ok := idx.hotels[id]; ok {
			out = append(out, h)
		}
	}

	return out
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	if len(a) > len(b) {
		a, b = b, a
	}

	out := make(map[string]struct{}, len(a))

	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}

	return out
}
