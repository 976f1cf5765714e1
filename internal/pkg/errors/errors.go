package errors

import "errors"

var (
	ErrInvalid     = errors.New("invalid")
	ErrNotFound    = errors.New("not found")
	ErrTooMany     = errors.New("too many requests")
	ErrInternal    = errors.New("internal")
	ErrEmbedding   = errors.New("embedding unavailable")
	ErrPersistence = errors.New("snapshot persistence failed")
	ErrCatalog     = errors.New("catalog unavailable")
)

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

func IsEmbedding(err error) bool {
	return errors.Is(err, ErrEmbedding)
}

func IsCatalog(err error) bool {
	return errors.Is(err, ErrCatalog)
}
