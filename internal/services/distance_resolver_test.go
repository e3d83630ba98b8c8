package services

import (
	"context"
	"errors"
	"fuel-stop-planner/internal/adapters/routing"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/testutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func resolverFixture() (*DistanceResolver, *testutil.StationStore, *testutil.DistanceCache, *testutil.RouteProvider) {
	stations := testutil.NewStationStore(
		domain.Station{ID: 1, Coords: domain.Coordinates{Lat: 40.0, Lon: -3.0}, Price: 1.2},
		domain.Station{ID: 2, Coords: domain.Coordinates{Lat: 40.5, Lon: -3.5}, Price: 1.3},
		domain.Station{ID: 3, Coords: domain.Coordinates{Lat: 41.0, Lon: -2.5}, Price: 1.1},
	)
	cache := testutil.NewDistanceCache()
	provider := &testutil.RouteProvider{Inner: routing.NewStraightLineProvider()}
	return &DistanceResolver{Stations: stations, Cache: cache, Provider: provider}, stations, cache, provider
}

func TestResolveFillsCacheAndIsIdempotent(t *testing.T) {
	r, _, cache, provider := resolverFixture()
	ctx := context.Background()

	first, err := r.Resolve(ctx, []int{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 1, provider.DistanceCalls)
	require.Len(t, cache.Entries, 6)

	for i := range first {
		require.Zero(t, first[i][i])
		for j := range first[i] {
			require.GreaterOrEqual(t, first[i][j], 0.0)
		}
	}

	second, err := r.Resolve(ctx, []int{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, provider.DistanceCalls, "fully cached request must not reach the provider")
}

func TestResolveOnlyFetchesUnknownPairs(t *testing.T) {
	r, _, cache, provider := resolverFixture()
	ctx := context.Background()

	_, err := r.Resolve(ctx, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, 2, provider.LastDistanceN)

	// Pretend the road distance 1->2 changed upstream. The cached value wins.
	cache.Entries[domain.StationPair{From: 1, To: 2}] = 123.0

	m, err := r.Resolve(ctx, []int{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 2, provider.DistanceCalls)
	require.Equal(t, 3, provider.LastDistanceN)
	require.Equal(t, 123.0, m[0][1])
	require.Equal(t, 123.0, cache.Entries[domain.StationPair{From: 1, To: 2}])
	require.Len(t, cache.Entries, 6)
}

func TestResolveTrivialInputsSkipIO(t *testing.T) {
	r, stations, cache, provider := resolverFixture()
	ctx := context.Background()

	m, err := r.Resolve(ctx, []int{2})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0}}, m)

	m, err = r.Resolve(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, m)

	require.Zero(t, cache.GetCalls)
	require.Zero(t, stations.ByIDsCalls)
	require.Zero(t, provider.DistanceCalls)
}

func TestResolveRepeatedIDs(t *testing.T) {
	r, _, _, _ := resolverFixture()

	m, err := r.Resolve(context.Background(), []int{1, 2, 1})
	require.NoError(t, err)
	require.Len(t, m, 3)
	require.Zero(t, m[0][2])
	require.Equal(t, m[0][1], m[2][1])
}

func TestResolveErrors(t *testing.T) {
	boom := errors.New("boom")
	ctx := context.Background()

	r, _, cache, _ := resolverFixture()
	cache.GetErr = boom
	_, err := r.Resolve(ctx, []int{1, 2})
	require.ErrorIs(t, err, domain.ErrStorage)
	require.ErrorIs(t, err, boom)

	r, stations, _, _ := resolverFixture()
	stations.Err = boom
	_, err = r.Resolve(ctx, []int{1, 2})
	require.ErrorIs(t, err, domain.ErrStorage)

	r, _, _, _ = resolverFixture()
	_, err = r.Resolve(ctx, []int{1, 99})
	require.ErrorIs(t, err, domain.ErrStorage)

	r, _, cache, provider := resolverFixture()
	provider.DistanceErr = boom
	_, err = r.Resolve(ctx, []int{1, 2})
	require.ErrorIs(t, err, domain.ErrProvider)
	require.Empty(t, cache.Entries)

	r, _, cache, _ = resolverFixture()
	cache.PutErr = boom
	_, err = r.Resolve(ctx, []int{1, 2})
	require.ErrorIs(t, err, domain.ErrStorage)

	r, _, _, _ = resolverFixture()
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Resolve(cctx, []int{1, 2})
	require.ErrorIs(t, err, domain.ErrCancelled)
}
