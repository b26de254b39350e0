package cache

import "errors"

var (
	// ErrInternal возвращается при ошибках Redis или сериализации
	ErrInternal = errors.New("cache: internal error")
)
