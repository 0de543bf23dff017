package routing

import (
	"math"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

const (
	earthRadiusMeters = 6371000.0
	metersPerMile     = 1609.344

	// Улучшение меньше epsilon не считается строгим
	improvementEpsilon = 1e-6
)

// Matrix матрица расстояний и времени в пути от внешнего провайдера
// Индексы соответствуют порядку usable-точек из Split
type Matrix struct {
	DistanceMeters  [][]float64
	DurationSeconds [][]float64 // может быть nil, тогда время считается из расстояния
}

// fits проверяет, что матрица квадратная размера n
func (m *Matrix) fits(n int) bool {
	if m == nil || len(m.DistanceMeters) != n {
		return false
	}
	for _, row := range m.DistanceMeters {
		if len(row) != n {
			return false
		}
	}
	if m.DurationSeconds == nil {
		return true
	}
	if len(m.DurationSeconds) != n {
		return false
	}
	for _, row := range m.DurationSeconds {
		if len(row) != n {
			return false
		}
	}
	return true
}

// Optimizer строит порядок объезда точек одного дня
// Хранит только настройки, безопасен для конкурентного использования
type Optimizer struct {
	settings domain.RoutingSettings
}

// NewOptimizer создает optimizer
func NewOptimizer(settings domain.RoutingSettings) *Optimizer {
	return &Optimizer{settings: settings}
}

// Split отделяет точки с координатами от точек без них, сохраняя входной порядок
func Split(waypoints []domain.Waypoint) ([]domain.Waypoint, []*domain.InsufficientDataError) {
	usable := make([]domain.Waypoint, 0, len(waypoints))
	var excluded []*domain.InsufficientDataError
	for _, wp := range waypoints {
		if !wp.HasCoordinates() {
			excluded = append(excluded, &domain.InsufficientDataError{BookingID: wp.BookingID, Missing: "coordinates"})
			continue
		}
		usable = append(usable, wp)
	}
	return usable, excluded
}

// Optimize строит маршрут: nearest-neighbour от первой точки, затем ограниченный 2-opt
// matrix == nil или неподходящего размера - используется haversine-приближение
// Точки без координат исключаются и возвращаются отдельно, это не ошибка
func (o *Optimizer) Optimize(date time.Time, waypoints []domain.Waypoint, matrix *Matrix, now time.Time) (*domain.RouteOptimizationResult, []*domain.InsufficientDataError) {
	usable, excluded := Split(waypoints)

	result := &domain.RouteOptimizationResult{
		Date:           domain.DateOnly(date),
		OptimizedOrder: make([]string, 0, len(usable)),
		Excluded:       make([]string, 0, len(excluded)),
		Source:         domain.RouteSourceHaversine,
		ComputedAt:     now,
	}
	for _, e := range excluded {
		result.Excluded = append(result.Excluded, e.BookingID)
	}

	// 1. Меньше двух точек - тривиальный маршрут без переездов
	if len(usable) < 2 {
		for _, wp := range usable {
			result.OptimizedOrder = append(result.OptimizedOrder, wp.BookingID)
		}
		return result, excluded
	}

	// 2. Матрица: провайдер, если подходит, иначе haversine
	dist, dur := o.haversineMatrix(usable)
	if matrix.fits(len(usable)) {
		dist = matrix.DistanceMeters
		if matrix.DurationSeconds != nil {
			dur = matrix.DurationSeconds
		} else {
			dur = o.durationsFromDistances(dist)
		}
		result.Source = domain.RouteSourceProvider
	}

	// 3. Начальный тур и улучшение
	order := nearestNeighbour(usable, dist)
	order = twoOpt(order, dist, o.settings.MaxTwoOptIterations)

	for _, idx := range order {
		result.OptimizedOrder = append(result.OptimizedOrder, usable[idx].BookingID)
	}
	result.TotalDistanceMeters = int(math.Round(pathLength(order, dist)))
	result.TotalDurationSeconds = int(math.Round(pathLength(order, dur)))

	return result, excluded
}

func (o *Optimizer) haversineMatrix(points []domain.Waypoint) ([][]float64, [][]float64) {
	n := len(points)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := haversineMeters(*points[i].Coordinates, *points[j].Coordinates)
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist, o.durationsFromDistances(dist)
}

// durationsFromDistances переводит метры в секунды по городскому коэффициенту минут на милю
func (o *Optimizer) durationsFromDistances(dist [][]float64) [][]float64 {
	dur := make([][]float64, len(dist))
	for i, row := range dist {
		dur[i] = make([]float64, len(row))
		for j, meters := range row {
			dur[i][j] = meters / metersPerMile * o.settings.MinutesPerMile * 60
		}
	}
	return dur
}

// nearestNeighbour начинает с первой точки и каждый раз берет ближайшую непосещённую
// При равенстве расстояний выигрывает меньший ID брони
func nearestNeighbour(points []domain.Waypoint, dist [][]float64) []int {
	n := len(points)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	current := 0
	visited[current] = true
	order = append(order, current)

	for len(order) < n {
		next := -1
		for cand := 0; cand < n; cand++ {
			if visited[cand] {
				continue
			}
			if next == -1 {
				next = cand
				continue
			}
			d, best := dist[current][cand], dist[current][next]
			if d < best || (d == best && points[cand].BookingID < points[next].BookingID) {
				next = cand
			}
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}
	return order
}

// twoOpt разворачивает отрезки пути, пока это строго сокращает длину
// Путь открытый: разворот префикса или суффикса меняет начальную или конечную точку
// maxPasses ограничивает число полных проходов
func twoOpt(order []int, dist [][]float64, maxPasses int) []int {
	if maxPasses <= 0 {
		maxPasses = 1
	}
	best := append([]int(nil), order...)
	bestLen := pathLength(best, dist)
	n := len(best)

	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for i := 0; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				candidate := reverseSegment(best, i, k)
				if l := pathLength(candidate, dist); l+improvementEpsilon < bestLen {
					best = candidate
					bestLen = l
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return best
}

func reverseSegment(order []int, i, k int) []int {
	out := make([]int, len(order))
	copy(out, order[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = order[j]
		pos++
	}
	copy(out[pos:], order[k+1:])
	return out
}

// pathLength сумма ребер между соседними точками, без возврата в начало
func pathLength(order []int, m [][]float64) float64 {
	total := 0.0
	for i := 0; i+1 < len(order); i++ {
		total += m[order[i]][order[i+1]]
	}
	return total
}

func haversineMeters(a, b domain.Coordinates) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
