package agentdirectory

import "errors"

var (
	// ErrAgentNotFound возвращается, когда агент неизвестен справочнику
	ErrAgentNotFound = errors.New("agentdirectory client: agent not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("agentdirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("agentdirectory client: invalid response")
)
