package routing

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

var (
	day        = time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	computedAt = time.Date(2026, 5, 11, 18, 0, 0, 0, time.UTC)
)

func newOptimizer() *Optimizer {
	return NewOptimizer(domain.DefaultEngineSettings().Routing)
}

func wp(id string, lat, lng float64) domain.Waypoint {
	return domain.Waypoint{BookingID: id, Coordinates: &domain.Coordinates{Lat: lat, Lng: lng}, DurationMinutes: 90}
}

func TestOptimize_TrivialInputs(t *testing.T) {
	opt := newOptimizer()

	empty, excluded := opt.Optimize(day, nil, nil, computedAt)
	assert.Empty(t, excluded)
	assert.Empty(t, empty.OptimizedOrder)
	assert.Zero(t, empty.TotalDistanceMeters)
	assert.Zero(t, empty.TotalDurationSeconds)

	single, _ := opt.Optimize(day, []domain.Waypoint{wp("a", 40.7, -74.0)}, nil, computedAt)
	assert.Equal(t, []string{"a"}, single.OptimizedOrder)
	assert.Zero(t, single.TotalDistanceMeters)
	assert.Zero(t, single.TotalDurationSeconds)
	assert.Equal(t, computedAt, single.ComputedAt)
	assert.Equal(t, day, single.Date)
}

func TestOptimize_DetourIsRemoved(t *testing.T) {
	// A и C рядом, B далеко от обеих
	a := wp("a", 40.7000, -74.0000)
	b := wp("b", 40.9000, -73.6000)
	c := wp("c", 40.7050, -74.0050)
	input := []domain.Waypoint{a, b, c}

	result, excluded := newOptimizer().Optimize(day, input, nil, computedAt)
	require.Empty(t, excluded)

	naive := haversineMeters(*a.Coordinates, *b.Coordinates) + haversineMeters(*b.Coordinates, *c.Coordinates)
	assert.Less(t, float64(result.TotalDistanceMeters), naive)
	assert.NotEqual(t, []string{"a", "b", "c"}, result.OptimizedOrder)
	assert.Equal(t, domain.RouteSourceHaversine, result.Source)
	assert.Positive(t, result.TotalDurationSeconds)
}

func TestOptimize_OrderIsPermutationOfInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for n := 2; n <= 25; n++ {
		input := make([]domain.Waypoint, 0, n)
		ids := make([]string, 0, n)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("booking-%02d", i)
			input = append(input, wp(id, 40.5+rnd.Float64()*0.5, -74.2+rnd.Float64()*0.5))
			ids = append(ids, id)
		}

		result, _ := newOptimizer().Optimize(day, input, nil, computedAt)

		got := append([]string(nil), result.OptimizedOrder...)
		sort.Strings(got)
		assert.Equal(t, ids, got, "n=%d", n)
	}
}

func TestTwoOpt_NeverWorseThanNearestNeighbour(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	opt := newOptimizer()

	var shortened int
	for trial := 0; trial < 30; trial++ {
		n := 3 + rnd.Intn(15)
		points := make([]domain.Waypoint, 0, n)
		for i := 0; i < n; i++ {
			points = append(points, wp(fmt.Sprintf("b%02d", i), 34+rnd.Float64(), -118+rnd.Float64()))
		}

		dist, _ := opt.haversineMatrix(points)
		nn := nearestNeighbour(points, dist)
		improved := twoOpt(nn, dist, opt.settings.MaxTwoOptIterations)

		assert.LessOrEqual(t, pathLength(improved, dist), pathLength(nn, dist)+improvementEpsilon, "trial %d", trial)
		if pathLength(improved, dist)+improvementEpsilon < pathLength(nn, dist) {
			shortened++
		}
	}
	assert.Positive(t, shortened, "2-opt не сократил ни один маршрут")
}

func TestOptimize_CrossingNearestNeighbourPathIsUncrossed(t *testing.T) {
	// Жадный обход a→b→c→d дает 1+3+8=12, лучший путь c→a→b→d дает 2+1+4=7
	input := []domain.Waypoint{wp("a", 1, 1), wp("b", 2, 2), wp("c", 3, 3), wp("d", 4, 4)}
	dist := [][]float64{
		{0, 1, 2, 9},
		{1, 0, 3, 4},
		{2, 3, 0, 8},
		{9, 4, 8, 0},
	}

	nn := nearestNeighbour(input, dist)
	require.Equal(t, []int{0, 1, 2, 3}, nn)
	require.Equal(t, 12.0, pathLength(nn, dist))

	result, excluded := newOptimizer().Optimize(day, input, &Matrix{DistanceMeters: dist}, computedAt)
	require.Empty(t, excluded)

	assert.Equal(t, domain.RouteSourceProvider, result.Source)
	assert.Equal(t, []string{"c", "a", "b", "d"}, result.OptimizedOrder)
	assert.Equal(t, 7, result.TotalDistanceMeters)
	assert.Less(t, float64(result.TotalDistanceMeters), pathLength(nn, dist))
}

func TestTwoOpt_PassLimitStopsEarly(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	opt := newOptimizer()

	var capped int
	for trial := 0; trial < 200; trial++ {
		n := 8 + rnd.Intn(13)
		points := make([]domain.Waypoint, 0, n)
		for i := 0; i < n; i++ {
			points = append(points, wp(fmt.Sprintf("b%02d", i), 34+rnd.Float64(), -118+rnd.Float64()))
		}

		dist, _ := opt.haversineMatrix(points)
		nn := nearestNeighbour(points, dist)
		onePass := pathLength(twoOpt(nn, dist, 1), dist)
		manyPasses := pathLength(twoOpt(nn, dist, 50), dist)

		assert.LessOrEqual(t, manyPasses, onePass+improvementEpsilon, "trial %d", trial)
		if manyPasses+improvementEpsilon < onePass {
			capped++
		}

		converged := twoOpt(nn, dist, 1000)
		convergedLen := pathLength(converged, dist)
		for i := 0; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				l := pathLength(reverseSegment(converged, i, k), dist)
				assert.GreaterOrEqual(t, l+improvementEpsilon, convergedLen, "trial %d: разворот [%d,%d] сокращает путь", trial, i, k)
			}
		}
	}
	assert.Positive(t, capped, "один проход ни разу не остановился раньше полной сходимости")
}

func TestNearestNeighbour_TieGoesToLowerID(t *testing.T) {
	points := []domain.Waypoint{
		wp("a", 0, 0),
		wp("c", 0, 0.01),
		wp("b", 0, -0.01),
	}
	dist, _ := newOptimizer().haversineMatrix(points)
	require.Equal(t, dist[0][1], dist[0][2])

	order := nearestNeighbour(points, dist)
	assert.Equal(t, []int{0, 2, 1}, order)
}

func TestOptimize_ExcludesWaypointsWithoutCoordinates(t *testing.T) {
	input := []domain.Waypoint{
		wp("a", 40.70, -74.00),
		{BookingID: "no-geo", DurationMinutes: 60},
		wp("b", 40.72, -74.01),
	}

	result, excluded := newOptimizer().Optimize(day, input, nil, computedAt)

	assert.Equal(t, []string{"no-geo"}, result.Excluded)
	assert.True(t, result.HasExclusions())
	require.Len(t, excluded, 1)
	assert.ErrorIs(t, excluded[0], domain.ErrInsufficientData)
	assert.ElementsMatch(t, []string{"a", "b"}, result.OptimizedOrder)
}

func TestOptimize_ProviderMatrix(t *testing.T) {
	input := []domain.Waypoint{wp("a", 1, 1), wp("b", 2, 2), wp("c", 3, 3)}
	matrix := &Matrix{
		DistanceMeters: [][]float64{
			{0, 10, 1},
			{10, 0, 5},
			{1, 5, 0},
		},
		DurationSeconds: [][]float64{
			{0, 100, 10},
			{100, 0, 50},
			{10, 50, 0},
		},
	}

	result, _ := newOptimizer().Optimize(day, input, matrix, computedAt)

	assert.Equal(t, domain.RouteSourceProvider, result.Source)
	assert.Equal(t, []string{"a", "c", "b"}, result.OptimizedOrder)
	assert.Equal(t, 6, result.TotalDistanceMeters)
	assert.Equal(t, 60, result.TotalDurationSeconds)
}

func TestOptimize_MismatchedMatrixFallsBackToHaversine(t *testing.T) {
	input := []domain.Waypoint{wp("a", 40.70, -74.00), wp("b", 40.72, -74.01), wp("c", 40.75, -74.02)}
	matrix := &Matrix{DistanceMeters: [][]float64{{0, 1}, {1, 0}}}

	result, _ := newOptimizer().Optimize(day, input, matrix, computedAt)

	assert.Equal(t, domain.RouteSourceHaversine, result.Source)
	assert.Len(t, result.OptimizedOrder, 3)
}

func TestOptimize_Deterministic(t *testing.T) {
	input := []domain.Waypoint{
		wp("d", 40.71, -74.00),
		wp("a", 40.73, -73.99),
		wp("c", 40.69, -74.03),
		wp("b", 40.75, -74.01),
	}
	opt := newOptimizer()

	first, _ := opt.Optimize(day, input, nil, computedAt)
	for i := 0; i < 5; i++ {
		again, _ := opt.Optimize(day, input, nil, computedAt)
		assert.Equal(t, first, again)
	}
}

func TestHaversineMeters(t *testing.T) {
	// Один градус широты около 111.2 км
	d := haversineMeters(domain.Coordinates{Lat: 0, Lng: 0}, domain.Coordinates{Lat: 1, Lng: 0})
	assert.InDelta(t, 111195, d, 10)
}
