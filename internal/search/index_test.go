package search_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/avstrong/hotelhub/internal/hotel"
	"github.com/avstrong/hotelhub/internal/idgen/random"
	"github.com/avstrong/hotelhub/internal/logger"
	"github.com/avstrong/hotelhub/internal/search"
	"github.com/avstrong/hotelhub/internal/storage/memory"
	"github.com/stretchr/testify/require"
)

type seedHotel struct {
	name string
	city string
}

func newIndex(t *testing.T, ttl time.Duration, hotels []seedHotel) (*search.Index, *hotel.Catalog) {
	t.Helper()

	l := logger.New(logger.Options{Output: io.Discard}) //nolint:exhaustruct
	db := memory.New(memory.Config{L: l})
	catalog := hotel.NewCatalog(l, db, random.New())

	for _, h := range hotels {
		_, err := catalog.AddHotel(context.Background(), &hotel.AddHotelInput{ //nolint:exhaustruct
			Name: h.name,
			City: h.city,
		})
		require.NoError(t, err)
	}

	idx := search.New(search.Config{ //nolint:exhaustruct
		L:        l,
		Storage:  db,
		CacheTTL: ttl,
	})
	require.NoError(t, idx.Rebuild(context.Background()))

	return idx, catalog
}

func names(hotels []*hotel.Hotel) []string {
	out := make([]string, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, h.Name)
	}

	return out
}

func TestSearchByCityAndName(t *testing.T) {
	idx, _ := newIndex(t, time.Minute, []seedHotel{
		{"Mumbai Grand Hotel", "Mumbai"},
		{"Royal Mumbai Resort", "Mumbai"},
		{"Delhi Palace Hotel", "Delhi"},
	})
	ctx := context.Background()

	t.Run("cityIsExactAndCaseInsensitive", func(t *testing.T) {
		out, err := idx.Search(ctx, search.Query{City: "MUMBAI"}) //nolint:exhaustruct
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"Mumbai Grand Hotel", "Royal Mumbai Resort"}, names(out))

		out, err = idx.Search(ctx, search.Query{City: "mum"}) //nolint:exhaustruct
		require.NoError(t, err)
		require.Empty(t, out, "city match is exact, not substring")
	})

	t.Run("nameMatchesAnyWord", func(t *testing.T) {
		out, err := idx.Search(ctx, search.Query{Name: "royal"}) //nolint:exhaustruct
		require.NoError(t, err)
		require.Equal(t, []string{"Royal Mumbai Resort"}, names(out))
	})

	t.Run("cityAndNameIntersect", func(t *testing.T) {
		out, err := idx.Search(ctx, search.Query{City: "Mumbai", Name: "Grand"}) //nolint:exhaustruct
		require.NoError(t, err)
		require.Equal(t, []string{"Mumbai Grand Hotel"}, names(out))
	})

	t.Run("nameSharedAcrossCities", func(t *testing.T) {
		out, err := idx.Search(ctx, search.Query{Name: "hotel"}) //nolint:exhaustruct
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"Mumbai Grand Hotel", "Delhi Palace Hotel"}, names(out))
	})

	t.Run("noFiltersReturnsInsertionOrder", func(t *testing.T) {
		out, err := idx.Search(ctx, search.Query{}) //nolint:exhaustruct
		require.NoError(t, err)
		require.Equal(t, []string{"Mumbai Grand Hotel", "Royal Mumbai Resort", "Delhi Palace Hotel"}, names(out))
	})

	t.Run("limitTruncates", func(t *testing.T) {
		out, err := idx.Search(ctx, search.Query{Limit: 2}) //nolint:exhaustruct
		require.NoError(t, err)
		require.Len(t, out, 2)
	})
}

// A query word matches when it is a substring of an indexed name word. The
// reverse direction does not hold.
func TestSearchNameSubstringAsymmetry(t *testing.T) {
	idx, _ := newIndex(t, time.Minute, []seedHotel{
		{"Grandiose Palace", "Pune"},
		{"Grand Hotel", "Pune"},
	})
	ctx := context.Background()

	out, err := idx.Search(ctx, search.Query{Name: "grand"}) //nolint:exhaustruct
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Grandiose Palace", "Grand Hotel"}, names(out))

	out, err = idx.Search(ctx, search.Query{Name: "grandiose"}) //nolint:exhaustruct
	require.NoError(t, err)
	require.Equal(t, []string{"Grandiose Palace"}, names(out))
}

func TestSearchResultCache(t *testing.T) {
	idx, catalog := newIndex(t, time.Minute, []seedHotel{
		{"Mumbai Grand Hotel", "Mumbai"},
	})
	ctx := context.Background()
	q := search.Query{City: "Mumbai"} //nolint:exhaustruct

	first, err := idx.Search(ctx, q)
	require.NoError(t, err)
	require.EqualValues(t, 1, idx.Scans())

	second, err := idx.Search(ctx, q)
	require.NoError(t, err)
	require.EqualValues(t, 1, idx.Scans(), "identical query within TTL must be served from cache")
	require.Equal(t, names(first), names(second))

	t.Run("differentQueryMisses", func(t *testing.T) {
		_, err := idx.Search(ctx, search.Query{City: "Mumbai", Limit: 1}) //nolint:exhaustruct
		require.NoError(t, err)
		require.EqualValues(t, 2, idx.Scans())
	})

	t.Run("rebuildDropsTheCache", func(t *testing.T) {
		_, err := catalog.AddHotel(ctx, &hotel.AddHotelInput{Name: "Royal Mumbai Resort", City: "Mumbai"}) //nolint:exhaustruct
		require.NoError(t, err)

		// Not visible until a rebuild, even on a cache miss path.
		stale, err := idx.Search(ctx, q)
		require.NoError(t, err)
		require.Len(t, stale, 1)

		require.NoError(t, idx.Rebuild(ctx))

		fresh, err := idx.Search(ctx, q)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"Mumbai Grand Hotel", "Royal Mumbai Resort"}, names(fresh))
	})
}

func TestSearchCacheExpiry(t *testing.T) {
	idx, _ := newIndex(t, 15*time.Millisecond, []seedHotel{
		{"Delhi Palace Hotel", "Delhi"},
	})
	ctx := context.Background()
	q := search.Query{City: "Delhi"} //nolint:exhaustruct

	_, err := idx.Search(ctx, q)
	require.NoError(t, err)
	require.EqualValues(t, 1, idx.Scans())

	time.Sleep(30 * time.Millisecond)

	_, err = idx.Search(ctx, q)
	require.NoError(t, err)
	require.EqualValues(t, 2, idx.Scans(), "expired entry must be recomputed")
}

func TestSearchDeterministicOrder(t *testing.T) {
	idx, _ := newIndex(t, time.Minute, []seedHotel{
		{"Hotel One", "Goa"},
		{"Hotel Two", "Goa"},
		{"Hotel Three", "Goa"},
		{"Hotel Four", "Goa"},
	})
	ctx := context.Background()

	first, err := idx.Search(ctx, search.Query{City: "Goa"}) //nolint:exhaustruct
	require.NoError(t, err)

	require.NoError(t, idx.Rebuild(ctx))

	second, err := idx.Search(ctx, search.Query{City: "Goa"}) //nolint:exhaustruct
	require.NoError(t, err)
	require.Equal(t, names(first), names(second))
}
