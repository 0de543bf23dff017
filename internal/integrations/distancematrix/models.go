package distancematrix

// Point точка запроса матрицы
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type matrixRequest struct {
	Points []Point `json:"points"`
	Mode   string  `json:"mode"`
}

// Matrix ответ провайдера; индексы совпадают с порядком точек запроса
type Matrix struct {
	DistanceMeters  [][]float64 `json:"distances_meters"`
	DurationSeconds [][]float64 `json:"durations_seconds"`
}

func (m *Matrix) validFor(n int) bool {
	if len(m.DistanceMeters) != n {
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
