package route

import "errors"

var (
	// ErrCacheUnavailable возвращается при ошибке обращения к Redis
	ErrCacheUnavailable = errors.New("route.cache: redis unavailable")

	// ErrCorruptedEntry возвращается, если сохранённый снимок маршрута не декодируется
	ErrCorruptedEntry = errors.New("route.cache: corrupted entry")
)
