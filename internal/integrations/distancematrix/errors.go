package distancematrix

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("distancematrix client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("distancematrix client: invalid response")

	// ErrRateLimited возвращается, если не дождались разрешения лимитера
	ErrRateLimited = errors.New("distancematrix client: rate limit wait aborted")
)
