package kvstore

import "errors"

var (
	ErrNotFound        = errors.New("key not found")
	ErrStoreConnection = errors.New("key-value store connection error")
)
