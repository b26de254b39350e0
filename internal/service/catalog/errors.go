package catalog

import "errors"

var (
	// ErrInvalidInput возвращается при пустом id провайдера
	ErrInvalidInput = errors.New("invalid input data")

	// ErrProviderNotFound возвращается, когда бэкенд не знает провайдера
	ErrProviderNotFound = errors.New("provider not found")

	// ErrUnavailable возвращается при сетевой ошибке или ошибке бэкенда
	ErrUnavailable = errors.New("catalog: backend unavailable")

	// ErrCache возвращается, если не удалось сбросить кэш листингов
	ErrCache = errors.New("catalog: cache failure")
)
