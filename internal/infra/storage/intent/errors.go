package intent

import "errors"

var (
	// ErrIntentNotFound возвращается, когда ключ идемпотентности не найден
	ErrIntentNotFound = errors.New("intent.repository: intent not found")

	// ErrIntentExists возвращается, когда ключ уже зарезервирован
	ErrIntentExists = errors.New("intent.repository: intent already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("intent.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("intent.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("intent.repository: failed to scan row")
)
